// internal/bundler/batches.go
package bundler

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/launch-bundler/internal/blockchain"
	"github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/programs/computebudget"
	txbuilder "github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/transaction"
	"github.com/rovshanmuradov/launch-bundler/internal/config"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

// WalletBuy - buy инструкции одного кошелька.
type WalletBuy struct {
	Wallet       *wallet.Wallet
	Instructions []solana.Instruction
}

func (b *WalletBuy) missing() bool {
	return b == nil || b.Wallet == nil || len(b.Instructions) == 0
}

// BuildBuyBatches разбивает покупки на группы по size кошельков по индексу.
// Пропущенные индексы не попадают в группу; пустые группы отбрасываются.
func BuildBuyBatches(buys []*WalletBuy, size int) [][]*WalletBuy {
	if size < 1 {
		size = config.MaxWalletsPerBatch
	}
	var batches [][]*WalletBuy
	for start := 0; start < len(buys); start += size {
		end := start + size
		if end > len(buys) {
			end = len(buys)
		}
		batch := make([]*WalletBuy, 0, end-start)
		for _, buy := range buys[start:end] {
			if buy.missing() {
				continue
			}
			batch = append(batch, buy)
		}
		if len(batch) > 0 {
			batches = append(batches, batch)
		}
	}
	return batches
}

// AppendBuyer добавляет покупку отдельного кошелька в последнюю группу или в новую, если она заполнена.
func AppendBuyer(batches [][]*WalletBuy, buyer *WalletBuy, size int) [][]*WalletBuy {
	if buyer.missing() {
		return batches
	}
	if n := len(batches); n > 0 && len(batches[n-1]) < size {
		batches[n-1] = append(batches[n-1], buyer)
		return batches
	}
	return append(batches, []*WalletBuy{buyer})
}

// BuildBatchTransaction компилирует группу в v0 транзакцию против lookup table.
// Плательщик - первый кошелёк группы, подписывают все кошельки группы.
// Нулевой blockhash запрашивается у client.
func BuildBatchTransaction(ctx context.Context, client txbuilder.SolanaClient, batch []*WalletBuy, table *blockchain.LookupTable, blockhash solana.Hash) (*solana.Transaction, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("empty buy batch")
	}

	builder := txbuilder.NewTransactionBuilder().
		WithComputeBudget(computebudget.Default).
		SetFeePayer(batch[0].Wallet.PublicKey)
	for _, buy := range batch {
		builder.AddInstruction(buy.Instructions...).AddSigner(buy.Wallet.PrivateKey)
	}
	if table != nil {
		builder.WithLookupTable(table.Address, table.Addresses)
	}
	if !blockhash.IsZero() {
		builder.WithBlockhash(blockhash)
	}

	return builder.Build(ctx, client)
}
