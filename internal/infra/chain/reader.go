package chain

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const monitoringABI = `[{"inputs":[{"name":"cooler_","type":"address"},{"name":"id_","type":"uint256"}],"name":"timeToExpiry","outputs":[{"name":"secondsToExpiry","type":"uint256"}],"stateMutability":"view","type":"function"}]`

// Reader queries the Cooler monitoring contract for the remaining lifetime of
// a loan. Calls are read-only eth_call requests against the latest block.
type Reader struct {
	client   *ethclient.Client
	contract common.Address
	abi      abi.ABI
	logger   *zap.Logger
}

func NewReader(ctx context.Context, rpcURL, monitoringContract string, logger *zap.Logger) (*Reader, error) {
	if !common.IsHexAddress(monitoringContract) {
		return nil, fmt.Errorf("invalid monitoring contract address: %s", monitoringContract)
	}

	parsed, err := abi.JSON(strings.NewReader(monitoringABI))
	if err != nil {
		return nil, err
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ethereum rpc: %w", err)
	}

	return &Reader{
		client:   client,
		contract: common.HexToAddress(monitoringContract),
		abi:      parsed,
		logger:   logger,
	}, nil
}

func (r *Reader) TimeToExpiry(ctx context.Context, cooler string, loanID int64) (time.Duration, error) {
	if !common.IsHexAddress(cooler) {
		return 0, fmt.Errorf("invalid cooler address: %s", cooler)
	}

	data, err := r.abi.Pack("timeToExpiry", common.HexToAddress(cooler), big.NewInt(loanID))
	if err != nil {
		return 0, fmt.Errorf("pack timeToExpiry call: %w", err)
	}

	out, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("timeToExpiry call: %w", err)
	}

	values, err := r.abi.Unpack("timeToExpiry", out)
	if err != nil {
		return 0, fmt.Errorf("unpack timeToExpiry result: %w", err)
	}
	seconds, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected timeToExpiry result type %T", values[0])
	}

	if !seconds.IsInt64() || seconds.Int64() > math.MaxInt64/int64(time.Second) {
		// Effectively "never expires"; clamp rather than overflow.
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(seconds.Int64()) * time.Second, nil
}

func (r *Reader) Close() {
	r.client.Close()
}
