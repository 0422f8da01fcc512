package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	EthereumRPCURL     string        `env:"ETHEREUM_RPC_URL,required"`
	MonitoringContract string        `env:"MONITORING_CONTRACT,default=0xA00F4b7c57a4995796D6E2ae4A6D5dEc8a557367"`
	PollInterval       time.Duration `env:"POLL_INTERVAL,default=30s"`

	HypernativeBaseURL       string        `env:"HYPERNATIVE_BASE_URL,default=https://api.hypernative.xyz"`
	HypernativeUsername      string        `env:"HYPERNATIVE_USERNAME,required"`
	HypernativePassword      string        `env:"HYPERNATIVE_PASSWORD,required"`
	HypernativeTokenLifespan time.Duration `env:"HYPERNATIVE_TOKEN_LIFESPAN,default=24h"`
	HypernativeTimeout       time.Duration `env:"HYPERNATIVE_TIMEOUT,default=15s"`

	SMTPHost       string        `env:"SMTP_HOST,default=smtp.gmail.com"`
	SMTPPort       int           `env:"SMTP_PORT,default=587"`
	SMTPUsername   string        `env:"SMTP_USERNAME"`
	SMTPPassword   string        `env:"SMTP_PASSWORD"`
	SMTPFrom       string        `env:"SMTP_FROM,default=Cooler Monitoring <alerts@olympusdao.finance>"`
	WebhookTimeout time.Duration `env:"WEBHOOK_TIMEOUT,default=10s"`

	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`
	MetricsAddr         string `env:"METRICS_ADDR,default=:9090"`
	LogLevel            string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
