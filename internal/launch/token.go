// =============================
// File: internal/launch/token.go
// =============================
package launch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launch-bundler/internal/blockchain"
	"github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/programs/computebudget"
	txbuilder "github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/transaction"
	"github.com/rovshanmuradov/launch-bundler/internal/config"
	"github.com/rovshanmuradov/launch-bundler/internal/dex/launchpad"
	"github.com/rovshanmuradov/launch-bundler/internal/jito"
	"github.com/rovshanmuradov/launch-bundler/internal/metadata"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

// ErrQuoteMintMismatch возвращается, если конфиг лаунчпада котируется не в SOL.
var ErrQuoteMintMismatch = errors.New("launchpad config is not quoted in wrapped SOL")

// MetadataUploader загружает метаданные токена и возвращает URI.
type MetadataUploader interface {
	Upload(ctx context.Context, info metadata.TokenInfo) (string, error)
}

// Service строит транзакцию создания токена и buy инструкции кошельков.
type Service struct {
	client   blockchain.Client
	uploader MetadataUploader
	logger   *zap.Logger
	rng      *rand.Rand
}

// NewService создаёт сервис токена.
func NewService(client blockchain.Client, uploader MetadataUploader, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		uploader: uploader,
		logger:   logger.Named("token"),
	}
}

// WithRand фиксирует источник случайности выбора tip аккаунта.
func (s *Service) WithRand(rng *rand.Rand) *Service {
	s.rng = rng
	return s
}

// CreateMetadata загружает изображение и дескриптор токена.
func (s *Service) CreateMetadata(ctx context.Context, info metadata.TokenInfo) (string, error) {
	uri, err := s.uploader.Upload(ctx, info)
	if err != nil {
		return "", fmt.Errorf("failed to create token metadata: %w", err)
	}
	s.logger.Info("Token metadata uploaded", zap.String("uri", uri))
	return uri, nil
}

// CreateTokenRequest описывает создаваемый токен.
type CreateTokenRequest struct {
	Main        *wallet.Wallet
	Mint        *wallet.Wallet
	Name        string
	Symbol      string
	URI         string
	TipLamports uint64

	// LookupTable компилирует транзакцию в v0; Blockhash общий для всего бандла, если задан.
	LookupTable *blockchain.LookupTable
	Blockhash   solana.Hash
}

// CreateTokenTx строит и подписывает (main + mint) транзакцию создания токена с tip переводом.
// Транзакция не отправляется.
func (s *Service) CreateTokenTx(ctx context.Context, req CreateTokenRequest) (*solana.Transaction, error) {
	pool, err := launchpad.DerivePoolAccounts(req.Mint.PublicKey)
	if err != nil {
		return nil, err
	}

	cfg, err := launchpad.FetchConfig(ctx, s.client, pool.Config)
	if err != nil {
		return nil, err
	}
	if !cfg.MintB.IsZero() && !cfg.MintB.Equals(pool.MintB) {
		return nil, fmt.Errorf("%w: %s", ErrQuoteMintMismatch, cfg.MintB)
	}

	buyLamports := config.DecimalToLamports(config.CreationBuyAmountSOL)
	slippageBps := config.CreationSlippage.Shift(4).IntPart()
	s.logger.Debug("Launchpad config loaded",
		zap.String("config", pool.Config.String()),
		zap.Uint64("trade_fee_rate", cfg.TradeFeeRate),
		zap.Uint64("creation_buy_lamports", buyLamports),
		zap.Int64("slippage_bps", slippageBps))

	initIx, err := launchpad.NewInitializeInstruction(
		launchpad.InitializeAccounts{
			Payer:   req.Main.PublicKey,
			Creator: req.Main.PublicKey,
			Pool:    pool,
		},
		launchpad.MintParams{
			Decimals: launchpad.DefaultDecimals,
			Name:     req.Name,
			Symbol:   req.Symbol,
			URI:      req.URI,
		},
		launchpad.DefaultCurveParams(),
		launchpad.VestingParams{},
	)
	if err != nil {
		return nil, err
	}

	tipIx, tipAccount := jito.TipInstruction(req.Main.PublicKey, req.TipLamports, s.rng)

	builder := txbuilder.NewTransactionBuilder().
		WithComputeBudget(computebudget.Creation).
		AddInstruction(initIx, tipIx).
		AddSigner(req.Main.PrivateKey, req.Mint.PrivateKey)
	if req.LookupTable != nil {
		builder.WithLookupTable(req.LookupTable.Address, req.LookupTable.Addresses)
	}
	if !req.Blockhash.IsZero() {
		builder.WithBlockhash(req.Blockhash)
	}

	tx, err := builder.Build(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("failed to build token creation tx: %w", err)
	}

	s.logger.Info("Token creation transaction built",
		zap.String("mint", req.Mint.PublicKey.String()),
		zap.String("pool", pool.Pool.String()),
		zap.String("tip_account", tipAccount.String()),
		zap.String("tip_sol", config.LamportsToSol(req.TipLamports).String()))
	return tx, nil
}
