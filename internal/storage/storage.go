// internal/storage/storage.go
package storage

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

// ErrNotFound возвращается, если запрошенное состояние ещё не сохранялось.
var ErrNotFound = errors.New("state not found")

// Storage определяет интерфейс для сохранения состояния запуска
type Storage interface {
	// Кошельки распределения
	SaveWallets(keys []solana.PrivateKey) error
	LoadWallets() ([]solana.PrivateKey, error)

	// Mint keypair
	SaveMint(key solana.PrivateKey) error
	LoadMint() (solana.PrivateKey, error)

	// Lookup table
	SaveLookupTable(address solana.PublicKey) error
	LoadLookupTable() (solana.PublicKey, error)
}
