// internal/jito/tips.go
package jito

import (
	"math/rand"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/launch-bundler/internal/config"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

var tipAccounts = func() []solana.PublicKey {
	out := make([]solana.PublicKey, len(config.JitoTipAccounts))
	for i, addr := range config.JitoTipAccounts {
		out[i] = solana.MustPublicKeyFromBase58(addr)
	}
	return out
}()

// IsTipAccount reports whether addr belongs to the tip pool.
func IsTipAccount(addr solana.PublicKey) bool {
	for _, tip := range tipAccounts {
		if tip.Equals(addr) {
			return true
		}
	}
	return false
}

// RandomTipAccount picks a tip account uniformly at random; rng may be nil.
func RandomTipAccount(rng *rand.Rand) solana.PublicKey {
	if rng == nil {
		return tipAccounts[rand.Intn(len(tipAccounts))]
	}
	return tipAccounts[rng.Intn(len(tipAccounts))]
}

// TipInstruction transfers lamports from the payer to a random tip account.
func TipInstruction(from solana.PublicKey, lamports uint64, rng *rand.Rand) (solana.Instruction, solana.PublicKey) {
	to := RandomTipAccount(rng)
	return wallet.TransferInstruction(from, to, lamports), to
}
