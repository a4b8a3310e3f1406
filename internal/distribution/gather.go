// internal/distribution/gather.go
package distribution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	txbuilder "github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/transaction"
	"github.com/rovshanmuradov/launch-bundler/internal/config"
	"github.com/rovshanmuradov/launch-bundler/internal/retry"
	"github.com/rovshanmuradov/launch-bundler/internal/transaction"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

// GatherResult summarises a sweep of sub-wallets back to the main wallet.
type GatherResult struct {
	Swept    int
	Skipped  int
	Lamports uint64
}

// Gather возвращает SOL из сохранённых суб-кошельков на основной кошелёк.
func (s *Service) Gather(ctx context.Context, main solana.PublicKey, wallets []*wallet.Wallet) (*GatherResult, error) {
	result := &GatherResult{}
	var failures []error

	for _, w := range wallets {
		balance, err := s.client.GetBalance(ctx, w.PublicKey, rpc.CommitmentConfirmed)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: balance: %w", w, err))
			continue
		}
		if balance <= config.SignatureFeeLamports {
			result.Skipped++
			continue
		}
		amount := balance - config.SignatureFeeLamports

		_, err = retry.Do(ctx, s.policy, func(int) (solana.Signature, error) {
			tx, err := txbuilder.NewTransactionBuilder().
				AddInstruction(wallet.TransferInstruction(w.PublicKey, main, amount)).
				AddSigner(w.PrivateKey).
				Build(ctx, s.client)
			if err != nil {
				return solana.Signature{}, err
			}
			return transaction.SendAndConfirm(ctx, s.client, tx, s.logger)
		}, func(attempt int, err error, next time.Duration) {
			s.logger.Warn("Gather attempt failed",
				zap.String("wallet", w.String()),
				zap.Int("attempt", attempt),
				zap.Error(err))
		})
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", w, err))
			continue
		}

		result.Swept++
		result.Lamports += amount
		s.logger.Info("Wallet swept",
			zap.String("wallet", w.String()),
			zap.String("sol", config.LamportsToSol(amount).String()))
	}

	return result, errors.Join(failures...)
}
