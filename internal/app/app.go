package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/OlympusDAO/cooler-alerts/internal/config"
	"github.com/OlympusDAO/cooler-alerts/internal/delivery/telegram"
	"github.com/OlympusDAO/cooler-alerts/internal/infra/chain"
	"github.com/OlympusDAO/cooler-alerts/internal/infra/db"
	"github.com/OlympusDAO/cooler-alerts/internal/infra/hypernative"
	"github.com/OlympusDAO/cooler-alerts/internal/infra/log"
	"github.com/OlympusDAO/cooler-alerts/internal/infra/metrics"
	"github.com/OlympusDAO/cooler-alerts/internal/infra/notify"
	"github.com/OlympusDAO/cooler-alerts/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type App struct {
	bot           *telegram.Bot
	monitor       *usecase.Monitor
	metricsServer *http.Server
	logger        *zap.Logger
	cleanupFn     func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	alertRepo := db.NewAlertRepository(dbConn)

	reader, err := chain.NewReader(ctx, cfg.EthereumRPCURL, cfg.MonitoringContract, logger)
	if err != nil {
		return nil, err
	}

	ruleClient := hypernative.NewClient(hypernative.Config{
		BaseURL:            cfg.HypernativeBaseURL,
		Username:           cfg.HypernativeUsername,
		Password:           cfg.HypernativePassword,
		TokenLifespan:      cfg.HypernativeTokenLifespan,
		Timeout:            cfg.HypernativeTimeout,
		MonitoringContract: cfg.MonitoringContract,
	}, logger)

	webhookSender := notify.NewWebhookSender(cfg.WebhookTimeout, logger)
	emailSender := notify.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, logger)

	m := metrics.New(prometheus.DefaultRegisterer)
	monitor := usecase.NewMonitor(alertRepo, reader, webhookSender, emailSender, m, cfg.PollInterval, logger)
	alertUC := usecase.NewAlertUsecase(alertRepo, ruleClient, logger)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}
	handlers := telegram.NewHandlers(alertUC, logger)
	bot := telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	cleanup := func() error {
		reader.Close()
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{
		bot:           bot,
		monitor:       monitor,
		metricsServer: metricsServer,
		logger:        logger,
		cleanupFn:     cleanup,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("cooler-alerts service starting")

	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go a.monitor.Run(ctx)

	a.logger.Info("cooler-alerts service started")
	return a.bot.Start(ctx)
}

func (a *App) Shutdown() {
	a.logger.Info("cooler-alerts service shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("failed to stop metrics server", zap.Error(err))
	}

	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close resources", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
