// internal/blockchain/solana/transaction/builder.go
package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/programs/computebudget"
)

// ErrNoSigners возвращается, если билдер вызван без подписантов.
var ErrNoSigners = errors.New("no signers provided")

// SolanaClient определяет интерфейс для получения blockhash.
type SolanaClient interface {
	GetRecentBlockhash(ctx context.Context) (solana.Hash, error)
}

// Builder помогает конструировать и подписывать транзакции.
type Builder struct {
	instructions []solana.Instruction
	signers      []solana.PrivateKey
	payer        *solana.PublicKey
	profile      *computebudget.Profile
	tables       map[solana.PublicKey]solana.PublicKeySlice
	blockhash    *solana.Hash
}

// NewTransactionBuilder создает новый билдер транзакций.
func NewTransactionBuilder() *Builder {
	return &Builder{}
}

// WithComputeBudget добавляет пару compute budget инструкций в начало транзакции.
func (b *Builder) WithComputeBudget(profile computebudget.Profile) *Builder {
	b.profile = &profile
	return b
}

// AddInstruction добавляет инструкции в транзакцию.
func (b *Builder) AddInstruction(instructions ...solana.Instruction) *Builder {
	b.instructions = append(b.instructions, instructions...)
	return b
}

// AddSigner добавляет подписантов; первый становится плательщиком, если он не задан явно.
func (b *Builder) AddSigner(signers ...solana.PrivateKey) *Builder {
	b.signers = append(b.signers, signers...)
	return b
}

// SetFeePayer задает плательщика комиссии.
func (b *Builder) SetFeePayer(payer solana.PublicKey) *Builder {
	b.payer = &payer
	return b
}

// WithLookupTable компилирует сообщение в v0 с указанной таблицей адресов.
func (b *Builder) WithLookupTable(table solana.PublicKey, addresses solana.PublicKeySlice) *Builder {
	if b.tables == nil {
		b.tables = make(map[solana.PublicKey]solana.PublicKeySlice)
	}
	b.tables[table] = addresses
	return b
}

// WithBlockhash фиксирует blockhash вместо запроса к RPC.
func (b *Builder) WithBlockhash(hash solana.Hash) *Builder {
	b.blockhash = &hash
	return b
}

// Instructions возвращает итоговый список инструкций с compute budget префиксом.
func (b *Builder) Instructions() ([]solana.Instruction, error) {
	instructions := make([]solana.Instruction, 0, len(b.instructions)+2)
	if b.profile != nil {
		budget, err := b.profile.Instructions()
		if err != nil {
			return nil, fmt.Errorf("failed to build compute budget instructions: %w", err)
		}
		instructions = append(instructions, budget...)
	}
	return append(instructions, b.instructions...), nil
}

// Build создает и подписывает транзакцию.
func (b *Builder) Build(ctx context.Context, client SolanaClient) (*solana.Transaction, error) {
	if len(b.signers) == 0 {
		return nil, ErrNoSigners
	}

	var blockhash solana.Hash
	if b.blockhash != nil {
		blockhash = *b.blockhash
	} else {
		hash, err := client.GetRecentBlockhash(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent blockhash: %w", err)
		}
		blockhash = hash
	}

	instructions, err := b.Instructions()
	if err != nil {
		return nil, err
	}

	payer := b.signers[0].PublicKey()
	if b.payer != nil {
		payer = *b.payer
	}

	opts := []solana.TransactionOption{solana.TransactionPayer(payer)}
	if len(b.tables) > 0 {
		opts = append(opts, solana.TransactionAddressTables(b.tables))
	}

	tx, err := solana.NewTransaction(instructions, blockhash, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if _, err := tx.Sign(SignerGetter(b.signers)); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return tx, nil
}

// SignerGetter возвращает функцию поиска приватного ключа для tx.Sign.
func SignerGetter(signers []solana.PrivateKey) func(key solana.PublicKey) *solana.PrivateKey {
	return func(key solana.PublicKey) *solana.PrivateKey {
		for _, signer := range signers {
			if signer.PublicKey().Equals(key) {
				privateCopy := signer
				return &privateCopy
			}
		}
		return nil
	}
}
