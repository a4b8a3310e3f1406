// =============================
// File: internal/dex/launchpad/config_account.go
// =============================
package launchpad

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ErrConfigNotFound возвращается, если глобальный конфиг отсутствует в сети.
var ErrConfigNotFound = errors.New("launchpad config not found")

// ConfigAccountSize is the borsh size of the global config account.
const ConfigAccountSize = 8 + 8 + 1 + 2 + 8*8 + 32*5 + 8*16

// Config is the LaunchLab global config account.
type Config struct {
	Discriminator       [8]byte
	Epoch               uint64
	CurveType           uint8
	Index               uint16
	MigrateFee          uint64
	TradeFeeRate        uint64
	MaxShareFeeRate     uint64
	MinSupplyA          uint64
	MaxLockRate         uint64
	MinSellRateA        uint64
	MinMigrateRateA     uint64
	MinFundRaisingB     uint64
	MintB               solana.PublicKey
	ProtocolFeeOwner    solana.PublicKey
	MigrateFeeOwner     solana.PublicKey
	MigrateToAmmWallet  solana.PublicKey
	MigrateToCpmmWallet solana.PublicKey
	Padding             [16]uint64
}

// DecodeConfig десериализует данные аккаунта конфига.
func DecodeConfig(data []byte) (*Config, error) {
	if len(data) < ConfigAccountSize {
		return nil, fmt.Errorf("config account data too short: %d bytes", len(data))
	}
	cfg := &Config{}
	if err := bin.NewBorshDecoder(data).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config account: %w", err)
	}
	return cfg, nil
}

// EncodeConfig сериализует конфиг в формат аккаунта.
func EncodeConfig(cfg *Config) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config account: %w", err)
	}
	return buf.Bytes(), nil
}

// AccountFetcher is the subset of the chain client needed to read accounts.
type AccountFetcher interface {
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// FetchConfig получает и декодирует глобальный конфиг.
func FetchConfig(ctx context.Context, client AccountFetcher, address solana.PublicKey) (*Config, error) {
	info, err := client.GetAccountInfo(ctx, address)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, address)
		}
		return nil, fmt.Errorf("failed to get config account: %w", err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, address)
	}
	if !info.Value.Owner.Equals(ProgramID) {
		return nil, fmt.Errorf("config account has incorrect owner: expected %s, got %s",
			ProgramID, info.Value.Owner)
	}
	return DecodeConfig(info.Value.Data.GetBinary())
}
