// internal/lut/phases.go
package lut

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/launch-bundler/internal/dex/launchpad"
)

// StaticAddressCount is the size of the fourth extension phase.
const StaticAddressCount = 17

// Phase is one extend step of the lookup table.
type Phase struct {
	Name      string
	Addresses []solana.PublicKey
}

// Phases returns the four extension phases in the order they must be applied:
// wallet keys, mint ATAs, WSOL ATAs, then the static program/pool accounts.
func Phases(main, mint solana.PublicKey, wallets []solana.PublicKey) ([]Phase, error) {
	mintATAs := make([]solana.PublicKey, 0, len(wallets))
	wsolATAs := make([]solana.PublicKey, 0, len(wallets))
	for _, w := range wallets {
		ata, _, err := solana.FindAssociatedTokenAddress(w, mint)
		if err != nil {
			return nil, fmt.Errorf("mint ATA for %s: %w", w, err)
		}
		mintATAs = append(mintATAs, ata)

		wsol, _, err := solana.FindAssociatedTokenAddress(w, solana.WrappedSol)
		if err != nil {
			return nil, fmt.Errorf("wsol ATA for %s: %w", w, err)
		}
		wsolATAs = append(wsolATAs, wsol)
	}

	static, err := StaticAddresses(main, mint)
	if err != nil {
		return nil, err
	}

	keys := make([]solana.PublicKey, len(wallets))
	copy(keys, wallets)

	return []Phase{
		{Name: "wallets", Addresses: keys},
		{Name: "token-accounts", Addresses: mintATAs},
		{Name: "wsol-accounts", Addresses: wsolATAs},
		{Name: "static", Addresses: static},
	}, nil
}

// StaticAddresses возвращает программы и аккаунты пула, общие для всех buy инструкций.
func StaticAddresses(main, mint solana.PublicKey) ([]solana.PublicKey, error) {
	pool, err := launchpad.DerivePoolAccounts(mint)
	if err != nil {
		return nil, err
	}
	mainWSOL, _, err := solana.FindAssociatedTokenAddress(main, solana.WrappedSol)
	if err != nil {
		return nil, fmt.Errorf("main wsol ATA: %w", err)
	}

	return []solana.PublicKey{
		main,
		mint,
		launchpad.ProgramID,
		solana.SystemProgramID,
		solana.TokenProgramID,
		solana.SPLAssociatedTokenAccountProgramID,
		pool.EventAuthority,
		solana.SysVarRentPubkey,
		solana.ComputeBudget,
		pool.Config,
		pool.Platform,
		pool.Pool,
		pool.VaultA,
		pool.VaultB,
		mainWSOL,
		solana.WrappedSol,
		pool.Auth,
	}, nil
}
