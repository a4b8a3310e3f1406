// =============================
// File: internal/distribution/distribution.go
// =============================
package distribution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launch-bundler/internal/blockchain"
	"github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/programs/computebudget"
	txbuilder "github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/transaction"
	"github.com/rovshanmuradov/launch-bundler/internal/config"
	"github.com/rovshanmuradov/launch-bundler/internal/retry"
	"github.com/rovshanmuradov/launch-bundler/internal/storage"
	"github.com/rovshanmuradov/launch-bundler/internal/transaction"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

var (
	// ErrInsufficientMainBalance - баланс основного кошелька ниже порога распределения.
	ErrInsufficientMainBalance = errors.New("main wallet balance is not enough for distribution")
	// ErrDistributionFailed - транзакция распределения не подтвердилась за отведённые попытки.
	ErrDistributionFailed = errors.New("sol distribution failed")
)

// Service распределяет SOL основного кошелька по новым суб-кошелькам.
type Service struct {
	client blockchain.Client
	store  storage.Storage
	logger *zap.Logger
	policy retry.Policy
}

// NewService создаёт сервис распределения.
func NewService(client blockchain.Client, store storage.Storage, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger.Named("wallet-distribution"),
		policy: retry.Policy{
			MaxAttempts: config.DistributionMaxAttempts,
			Delay:       config.DistributionRetryDelay,
		},
	}
}

// WithRetryPolicy заменяет политику повторов.
func (s *Service) WithRetryPolicy(policy retry.Policy) *Service {
	s.policy = policy
	return s
}

// BuildTransferInstructions возвращает compute budget пару и по одному переводу на получателя.
func BuildTransferInstructions(from solana.PublicKey, recipients []solana.PublicKey, lamports uint64) ([]solana.Instruction, error) {
	budget, err := computebudget.Default.Instructions()
	if err != nil {
		return nil, err
	}
	instructions := make([]solana.Instruction, 0, len(budget)+len(recipients))
	instructions = append(instructions, budget...)
	for _, to := range recipients {
		instructions = append(instructions, wallet.TransferInstruction(from, to, lamports))
	}
	return instructions, nil
}

// Distribute генерирует count кошельков, сохраняет их секреты и переводит каждому lamports одной транзакцией.
func (s *Service) Distribute(ctx context.Context, main *wallet.Wallet, count int, lamports uint64) ([]*wallet.Wallet, error) {
	if count < 1 {
		return nil, fmt.Errorf("wallet count must be positive, got %d", count)
	}

	balance, err := s.client.GetBalance(ctx, main.PublicKey, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get main wallet balance: %w", err)
	}
	if balance <= config.MinMainBalanceLamports {
		s.logger.Warn("Main wallet balance is not enough",
			zap.String("sol", config.LamportsToSol(balance).String()))
		return nil, ErrInsufficientMainBalance
	}

	wallets := make([]*wallet.Wallet, count)
	keys := make([]solana.PrivateKey, count)
	recipients := make([]solana.PublicKey, count)
	for i := range wallets {
		w, err := wallet.Generate()
		if err != nil {
			return nil, err
		}
		wallets[i], keys[i], recipients[i] = w, w.PrivateKey, w.PublicKey
	}

	// секреты сохраняются до отправки, чтобы средства можно было вернуть
	if err := s.store.SaveWallets(keys); err != nil {
		return nil, fmt.Errorf("failed to persist distribution wallets: %w", err)
	}

	instructions, err := BuildTransferInstructions(main.PublicKey, recipients, lamports)
	if err != nil {
		return nil, err
	}

	sig, err := retry.Do(ctx, s.policy, func(attempt int) (solana.Signature, error) {
		tx, err := txbuilder.NewTransactionBuilder().
			AddInstruction(instructions...).
			AddSigner(main.PrivateKey).
			Build(ctx, s.client)
		if err != nil {
			return solana.Signature{}, err
		}
		return transaction.SendAndConfirm(ctx, s.client, tx, s.logger)
	}, func(attempt int, err error, next time.Duration) {
		s.logger.Warn("Distribution attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", next),
			zap.Error(err))
	})
	if err != nil {
		s.logger.Error("Error in distribution", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrDistributionFailed, err)
	}

	s.logger.Info("SOL distributed",
		zap.Int("wallets", count),
		zap.String("per_wallet_sol", config.LamportsToSol(lamports).String()),
		zap.String("url", transaction.SolscanTxURL(sig)))
	return wallets, nil
}
