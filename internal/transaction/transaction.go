// internal/transaction/transaction.go
package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launch-bundler/internal/blockchain"
)

// ErrSimulationFailed возвращается, если симуляция транзакции завершилась ошибкой.
var ErrSimulationFailed = errors.New("transaction simulation failed")

// SendAndConfirm отправляет подписанную транзакцию без preflight и ждёт подтверждения.
func SendAndConfirm(ctx context.Context, client blockchain.Client, tx *solana.Transaction, logger *zap.Logger) (solana.Signature, error) {
	sig, err := client.SendTransactionWithOpts(ctx, tx, blockchain.TransactionOptions{
		SkipPreflight:       true,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	logger.Debug("Transaction sent", zap.String("signature", sig.String()))

	if err := client.WaitForTransactionConfirmation(ctx, sig, rpc.CommitmentConfirmed); err != nil {
		return sig, fmt.Errorf("confirm %s: %w", sig, err)
	}
	logger.Info("Transaction confirmed", zap.String("url", SolscanTxURL(sig)))
	return sig, nil
}

// Simulate симулирует транзакцию с проверкой подписей и логирует диагностику.
func Simulate(ctx context.Context, client blockchain.Client, tx *solana.Transaction, label string, logger *zap.Logger) (*blockchain.SimulationResult, error) {
	result, err := client.SimulateTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("simulate %s: %w", label, err)
	}

	if result.Failed() {
		logger.Error("Simulation failed",
			zap.String("tx", label),
			zap.Any("err", result.Err),
			zap.Uint64("units", result.UnitsConsumed),
			zap.String("logs", strings.Join(result.Logs, "\n")))
		return result, fmt.Errorf("%w: %s: %v", ErrSimulationFailed, label, result.Err)
	}

	logger.Info("Simulation ok",
		zap.String("tx", label),
		zap.Uint64("units", result.UnitsConsumed))
	return result, nil
}

// SerializedSize returns the wire size of a signed transaction.
func SerializedSize(tx *solana.Transaction) (int, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return 0, err
	}
	return len(raw), nil
}

// SolscanTxURL returns the explorer link of a transaction.
func SolscanTxURL(sig solana.Signature) string {
	return "https://solscan.io/tx/" + sig.String()
}

// LookupTableEntriesURL returns the explorer link listing a table's entries.
func LookupTableEntriesURL(table solana.PublicKey) string {
	return "https://explorer.solana.com/address/" + table.String() + "/entries"
}
