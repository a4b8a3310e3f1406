// =============================
// File: internal/bundler/bundler.go
// =============================
package bundler

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
	"github.com/rovshanmuradov/launch-bundler/internal/config"
	"github.com/rovshanmuradov/launch-bundler/internal/distribution"
	"github.com/rovshanmuradov/launch-bundler/internal/launch"
	"github.com/rovshanmuradov/launch-bundler/internal/lut"
	"github.com/rovshanmuradov/launch-bundler/internal/metadata"
	"github.com/rovshanmuradov/launch-bundler/internal/retry"
	"github.com/rovshanmuradov/launch-bundler/internal/storage"
	"github.com/rovshanmuradov/launch-bundler/internal/transaction"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

var (
	// ErrTooManyBatches возвращается, если транзакции не помещаются в один бандл.
	ErrTooManyBatches = fmt.Errorf("bundle holds at most %d transactions", config.MaxBundleSize)
	// ErrTransactionTooLarge возвращается, если buy batch не помещается в пакет.
	ErrTransactionTooLarge = fmt.Errorf("transaction exceeds %d bytes", config.MaxTransactionSize)
)

// Distributor распределяет SOL по новым кошелькам.
type Distributor interface {
	Distribute(ctx context.Context, main *wallet.Wallet, count int, lamports uint64) ([]*wallet.Wallet, error)
}

// LookupTables создаёт, расширяет и ожидает lookup table.
type LookupTables interface {
	Create(ctx context.Context, main *wallet.Wallet) (solana.PublicKey, error)
	Extend(ctx context.Context, main *wallet.Wallet, table solana.PublicKey, phases []lut.Phase) error
	WaitReady(ctx context.Context, table solana.PublicKey) (*blockchain.LookupTable, error)
}

// TokenService строит транзакции токена.
type TokenService interface {
	CreateMetadata(ctx context.Context, info metadata.TokenInfo) (string, error)
	CreateTokenTx(ctx context.Context, req launch.CreateTokenRequest) (*solana.Transaction, error)
	MakeBuyInstructions(ctx context.Context, owner solana.PublicKey, lamports uint64, mint solana.PublicKey) ([]solana.Instruction, error)
}

// BundleSender отправляет бандл в relay.
type BundleSender interface {
	SendBundle(ctx context.Context, txs []*solana.Transaction) (string, error)
}

// Params - параметры одного запуска.
type Params struct {
	Token       metadata.TokenInfo
	SwapAmount  float64
	WalletCount int
	JitoFee     float64

	// Buyer - необязательный внешний покупатель, добавляемый в последний batch.
	Buyer       *wallet.Wallet
	BuyerAmount float64
}

// Result - итог запуска. Aborted=true означает мягкую остановку без ошибки.
type Result struct {
	Aborted bool
	Reason  string

	Mint         *wallet.Wallet
	Wallets      []*wallet.Wallet
	LookupTable  solana.PublicKey
	BuyBatches   int
	BuyIxCount   int
	Transactions []*solana.Transaction
	BundleID     string
	Elapsed      time.Duration
}

// run - состояние, передаваемое между шагами запуска.
type run struct {
	main   *wallet.Wallet
	params Params
	result *Result

	uri       string
	table     *blockchain.LookupTable
	blockhash solana.Hash
	buys      []*WalletBuy
	buyer     *WalletBuy
	batches   [][]*WalletBuy
}

// Bundler выполняет последовательность запуска токена и бандл-покупки.
type Bundler struct {
	client      blockchain.Client
	store       storage.Storage
	distributor Distributor
	tables      LookupTables
	token       TokenService
	relay       BundleSender
	newMint     MintGenerator
	sleep       lut.SleepFunc
	logger      *zap.Logger
}

// New создаёт оркестратор.
func New(
	client blockchain.Client,
	store storage.Storage,
	distributor Distributor,
	tables LookupTables,
	token TokenService,
	relay BundleSender,
	logger *zap.Logger,
) *Bundler {
	return &Bundler{
		client:      client,
		store:       store,
		distributor: distributor,
		tables:      tables,
		token:       token,
		relay:       relay,
		newMint:     RandomMint,
		sleep:       retry.Sleep,
		logger:      logger.Named("bundler"),
	}
}

// WithMintGenerator заменяет генератор mint keypair.
func (b *Bundler) WithMintGenerator(gen MintGenerator) *Bundler {
	b.newMint = gen
	return b
}

// WithSleep заменяет паузу после отправки бандла.
func (b *Bundler) WithSleep(sleep lut.SleepFunc) *Bundler {
	b.sleep = sleep
	return b
}

func (b *Bundler) abort(r *run, reason string, err error) *Result {
	fields := []zap.Field{zap.String("reason", reason)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	b.logger.Warn("Run aborted", fields...)
	r.result.Aborted = true
	r.result.Reason = reason
	return r.result
}

// Run выполняет запуск. Мягкие остановки возвращаются как Result.Aborted, жёсткие сбои как error.
func (b *Bundler) Run(ctx context.Context, main *wallet.Wallet, params Params) (*Result, error) {
	start := time.Now()
	r := &run{main: main, params: params, result: &Result{}}
	defer func() { r.result.Elapsed = time.Since(start) }()

	if params.WalletCount < 1 {
		return nil, fmt.Errorf("wallet count must be positive, got %d", params.WalletCount)
	}

	// 1. metadata
	uri, err := b.token.CreateMetadata(ctx, params.Token)
	if err != nil {
		return nil, err
	}
	r.uri = uri

	// 2. balance gate
	ok, err := b.checkMainBalance(ctx, r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return b.abort(r, "main wallet balance is not enough", nil), nil
	}

	mint, err := b.newMint(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mint: %w", err)
	}
	if err := b.store.SaveMint(mint.PrivateKey); err != nil {
		return nil, fmt.Errorf("failed to persist mint: %w", err)
	}
	r.result.Mint = mint
	b.logger.Info("Mint generated", zap.String("mint", mint.PublicKey.String()))

	// 3. distribution
	wallets, err := b.distributor.Distribute(ctx, main, params.WalletCount, config.DistributionLamports(params.SwapAmount))
	if err != nil {
		if errors.Is(err, distribution.ErrInsufficientMainBalance) || errors.Is(err, distribution.ErrDistributionFailed) {
			return b.abort(r, "sol distribution failed", err), nil
		}
		return nil, err
	}
	r.result.Wallets = wallets

	// 4. lookup table
	table, err := b.tables.Create(ctx, main)
	if err != nil {
		if errors.Is(err, lut.ErrLookupTableCreateFailed) {
			return b.abort(r, "lookup table creation failed", err), nil
		}
		return nil, err
	}
	r.result.LookupTable = table

	// 5. extend
	phases, err := lut.Phases(main.PublicKey, mint.PublicKey, tableWallets(wallets, params))
	if err != nil {
		return nil, err
	}
	if err := b.tables.Extend(ctx, main, table, phases); err != nil {
		return nil, err
	}

	// 6. buy instructions
	if err := b.buildBuys(ctx, r); err != nil {
		return nil, err
	}

	// 7. lookup table visibility
	state, err := b.tables.WaitReady(ctx, table)
	if err != nil {
		if errors.Is(err, lut.ErrLookupTableNotReady) {
			return b.abort(r, "lookup table is not ready", err), nil
		}
		return nil, err
	}
	r.table = state

	// 8. creation tx
	r.blockhash, err = b.client.GetRecentBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bundle blockhash: %w", err)
	}
	createTx, err := b.token.CreateTokenTx(ctx, launch.CreateTokenRequest{
		Main:        main,
		Mint:        mint,
		Name:        params.Token.Name,
		Symbol:      params.Token.Symbol,
		URI:         r.uri,
		TipLamports: config.SolToLamports(params.JitoFee),
		LookupTable: r.table,
		Blockhash:   r.blockhash,
	})
	if err != nil {
		return nil, err
	}
	r.result.Transactions = append(r.result.Transactions, createTx)

	// 9. buy batches
	if err := b.buildBatches(ctx, r); err != nil {
		return nil, err
	}

	// 10. simulation
	b.simulate(ctx, r.result.Transactions)

	// 11. relay
	bundleID, err := b.relay.SendBundle(ctx, r.result.Transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to send bundle: %w", err)
	}
	r.result.BundleID = bundleID
	b.logger.Info("Bundle submitted",
		zap.String("bundle_id", bundleID),
		zap.Int("transactions", len(r.result.Transactions)))

	b.reportCreation(ctx, createTx)

	// 12. settle
	if err := b.sleep(ctx, config.SettleDelay); err != nil {
		return nil, err
	}
	return r.result, nil
}

// tableWallets возвращает владельцев buy инструкций, чьи ключи и ATA попадают в lookup table.
func tableWallets(wallets []*wallet.Wallet, params Params) []solana.PublicKey {
	keys := make([]solana.PublicKey, 0, len(wallets)+1)
	for _, w := range wallets {
		keys = append(keys, w.PublicKey)
	}
	if hasBuyer(params) {
		keys = append(keys, params.Buyer.PublicKey)
	}
	return keys
}

func hasBuyer(params Params) bool {
	return params.Buyer != nil && params.BuyerAmount > 0
}

func (b *Bundler) checkMainBalance(ctx context.Context, r *run) (bool, error) {
	balance, err := b.client.GetBalance(ctx, r.main.PublicKey, rpc.CommitmentConfirmed)
	if err != nil {
		return false, fmt.Errorf("failed to get main wallet balance: %w", err)
	}
	have := config.LamportsToSol(balance)
	need := config.RequiredMainBalance(r.params.SwapAmount, r.params.WalletCount)
	b.logger.Info("Main wallet balance",
		zap.String("wallet", r.main.String()),
		zap.String("balance_sol", have.String()),
		zap.String("required_sol", need.String()))
	return have.GreaterThanOrEqual(need), nil
}

func (b *Bundler) buildBuys(ctx context.Context, r *run) error {
	mint := r.result.Mint.PublicKey
	lamports := config.SolToLamports(r.params.SwapAmount)

	r.buys = make([]*WalletBuy, 0, len(r.result.Wallets))
	for _, w := range r.result.Wallets {
		ixs, err := b.token.MakeBuyInstructions(ctx, w.PublicKey, lamports, mint)
		if err != nil {
			return err
		}
		r.buys = append(r.buys, &WalletBuy{Wallet: w, Instructions: ixs})
		r.result.BuyIxCount += len(ixs)
	}

	if hasBuyer(r.params) {
		ixs, err := b.token.MakeBuyInstructions(ctx, r.params.Buyer.PublicKey, config.SolToLamports(r.params.BuyerAmount), mint)
		if err != nil {
			return fmt.Errorf("buyer wallet: %w", err)
		}
		r.buyer = &WalletBuy{Wallet: r.params.Buyer, Instructions: ixs}
		r.result.BuyIxCount += len(ixs)
	}

	b.logger.Info("Buy instructions built",
		zap.Int("wallets", len(r.buys)),
		zap.Int("instructions", r.result.BuyIxCount))
	return nil
}

func (b *Bundler) buildBatches(ctx context.Context, r *run) error {
	r.batches = BuildBuyBatches(r.buys, config.MaxWalletsPerBatch)
	r.batches = AppendBuyer(r.batches, r.buyer, config.MaxWalletsPerBatch)
	if 1+len(r.batches) > config.MaxBundleSize {
		return fmt.Errorf("%w: 1 creation + %d buy batches", ErrTooManyBatches, len(r.batches))
	}

	for i, batch := range r.batches {
		tx, err := BuildBatchTransaction(ctx, b.client, batch, r.table, r.blockhash)
		if err != nil {
			return fmt.Errorf("failed to build buy batch %d: %w", i, err)
		}
		size, err := transaction.SerializedSize(tx)
		if err != nil {
			return err
		}
		if size > config.MaxTransactionSize {
			return fmt.Errorf("%w: buy batch %d with %d wallets is %d bytes", ErrTransactionTooLarge, i, len(batch), size)
		}
		b.logger.Debug("Buy batch built",
			zap.Int("batch", i),
			zap.Int("wallets", len(batch)),
			zap.Int("size", size),
			zap.Uint64("max_priority_fee", computebudget.Default.MaxPriorityFee()))
		r.result.Transactions = append(r.result.Transactions, tx)
	}
	r.result.BuyBatches = len(r.batches)
	return nil
}

func (b *Bundler) simulate(ctx context.Context, txs []*solana.Transaction) {
	for i, tx := range txs {
		label := fmt.Sprintf("buy-%d", i)
		if i == 0 {
			label = "create"
		}
		if _, err := transaction.Simulate(ctx, b.client, tx, label, b.logger); err != nil {
			b.logger.Warn("Simulation failed", zap.String("tx", label), zap.Error(err))
		}
	}
}

// reportCreation ждёт подтверждения транзакции создания; результат только логируется.
func (b *Bundler) reportCreation(ctx context.Context, tx *solana.Transaction) {
	if len(tx.Signatures) == 0 {
		return
	}
	sig := tx.Signatures[0]
	if err := b.client.WaitForTransactionConfirmation(ctx, sig, rpc.CommitmentConfirmed); err != nil {
		b.logger.Warn("Token creation not confirmed", zap.String("signature", sig.String()), zap.Error(err))
		return
	}
	b.logger.Info("Token created", zap.String("url", transaction.SolscanTxURL(sig)))
}
