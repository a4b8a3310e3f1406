// internal/blockchain/types.go
package blockchain

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ErrTransactionFailed возвращается, когда транзакция подтверждена с ошибкой исполнения.
var ErrTransactionFailed = errors.New("transaction failed on-chain")

// TransactionOptions определяет опции для отправки транзакций.
type TransactionOptions struct {
	SkipPreflight       bool
	PreflightCommitment rpc.CommitmentType
}

// SimulationResult представляет результат симуляции транзакции.
type SimulationResult struct {
	Err           interface{}
	Logs          []string
	UnitsConsumed uint64
}

// Failed reports whether the simulated transaction returned an error.
func (r *SimulationResult) Failed() bool {
	return r != nil && r.Err != nil
}

// LookupTable is the on-chain state of an address lookup table.
type LookupTable struct {
	Address   solana.PublicKey
	Authority *solana.PublicKey
	Addresses solana.PublicKeySlice
}

// Client определяет общий интерфейс для взаимодействия с блокчейном.
type Client interface {
	// Получить последний blockhash.
	GetRecentBlockhash(ctx context.Context) (solana.Hash, error)
	// Получить текущий слот.
	GetSlot(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
	// Получить баланс аккаунта.
	GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error)
	// Получить информацию об аккаунте.
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	// Минимальный баланс для освобождения от ренты.
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
	// Получить статусы подписей транзакций.
	GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	// Отправить транзакцию с опциями.
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts TransactionOptions) (solana.Signature, error)
	// Симулировать транзакцию с проверкой подписей.
	SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*SimulationResult, error)
	// Ожидание подтверждения транзакции.
	WaitForTransactionConfirmation(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error
	// Прочитать lookup table; nil, nil если аккаунта нет.
	GetAddressLookupTable(ctx context.Context, address solana.PublicKey) (*LookupTable, error)
}
