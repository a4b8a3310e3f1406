package config

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

const (
	LamportsPerSOL = 1_000_000_000

	// MaxWalletsPerBatch caps the number of buyers packed into one transaction.
	MaxWalletsPerBatch = 5
	// MaxBundleSize is the relay limit on transactions per bundle.
	MaxBundleSize = 5
	// MaxTransactionSize is the packet limit on a serialized transaction.
	MaxTransactionSize = 1232

	// DistributionMaxAttempts bounds the submit-and-confirm loop of SOL distribution.
	DistributionMaxAttempts = 5
	// LookupTableMaxAttempts bounds LUT creation and each extension phase.
	LookupTableMaxAttempts = 6

	// MinMainBalanceLamports is the floor below which distribution is refused.
	MinMainBalanceLamports = 4_000_000

	// TokenAccountSize is the data length of an SPL token account.
	TokenAccountSize = 165

	TokenDecimals = 6

	// SignatureFeeLamports is the base fee of a single-signature transaction.
	SignatureFeeLamports = 5_000
)

var (
	// PerWalletFeeSOL is added to the swap amount sent to every sub-wallet.
	PerWalletFeeSOL = decimal.RequireFromString("0.01")
	// RunOverheadSOL covers LUT rent, creation fees and the relay tip.
	RunOverheadSOL = decimal.RequireFromString("0.05")

	// CreationBuyAmountSOL and CreationSlippage parameterise the launchpad creation request.
	CreationBuyAmountSOL = decimal.RequireFromString("0.01")
	CreationSlippage     = decimal.RequireFromString("0.1")
)

const (
	// MinTokensOut is the minimum-output floor of every buy.
	MinTokensOut uint64 = 1
	// ShareFeeRateBps is the fixed share fee rate passed to buy_exact_in.
	ShareFeeRateBps uint64 = 10_000
)

const (
	LookupTableCreateDelay = 15 * time.Second
	LookupTableExtendDelay = 10 * time.Second
	LookupTableReadyDelay  = 2 * time.Second
	LookupTableReadyChecks = 3
	DistributionRetryDelay = 2 * time.Second
	LookupTableRetryDelay  = 2 * time.Second
	SettleDelay            = 10 * time.Second
)

// JitoTipAccounts is the fixed pool of relay tip accounts.
var JitoTipAccounts = []string{
	"Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY",
	"DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL",
	"96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5",
	"3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT",
	"HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe",
	"ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49",
	"ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt",
	"DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh",
}

// SolToLamports converts a SOL amount to lamports, truncating dust.
func SolToLamports(sol float64) uint64 {
	return DecimalToLamports(decimal.NewFromFloat(sol))
}

// DecimalToLamports converts an exact SOL amount to lamports, truncating dust.
func DecimalToLamports(sol decimal.Decimal) uint64 {
	if sol.IsNegative() {
		return 0
	}
	return uint64(sol.Shift(9).Truncate(0).IntPart())
}

// LamportsToSol converts lamports to an exact SOL amount.
func LamportsToSol(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9)
}

// RequiredMainBalance returns (swapAmount + 0.01) * walletCount + 0.05 in SOL.
func RequiredMainBalance(swapAmount float64, walletCount int) decimal.Decimal {
	perWallet := decimal.NewFromFloat(swapAmount).Add(PerWalletFeeSOL)
	return perWallet.Mul(decimal.NewFromInt(int64(walletCount))).Add(RunOverheadSOL)
}

// DistributionLamports is the amount each sub-wallet receives.
func DistributionLamports(swapAmount float64) uint64 {
	return DecimalToLamports(decimal.NewFromFloat(swapAmount).Add(PerWalletFeeSOL))
}
