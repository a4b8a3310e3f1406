// =============================
// File: internal/dex/launchpad/pda.go
// =============================
package launchpad

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// DeriveConfig вычисляет адрес глобального конфига для quote-минта, типа кривой и индекса.
func DeriveConfig(mintB solana.PublicKey, curveType uint8, index uint16) (solana.PublicKey, error) {
	idx := make([]byte, 2)
	binary.BigEndian.PutUint16(idx, index)
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(seedGlobalConfig), mintB.Bytes(), {curveType}, idx},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive config: %w", err)
	}
	return addr, nil
}

// DerivePool вычисляет адрес пула для пары base/quote.
func DerivePool(mintA, mintB solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(seedPool), mintA.Bytes(), mintB.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive pool: %w", err)
	}
	return addr, nil
}

// DeriveVault вычисляет адрес хранилища пула для указанного минта.
func DeriveVault(pool, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(seedPoolVault), pool.Bytes(), mint.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive vault: %w", err)
	}
	return addr, nil
}

// DeriveAuth вычисляет authority хранилищ программы.
func DeriveAuth() (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte(seedVaultAuth)}, ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive vault authority: %w", err)
	}
	return addr, nil
}

// DeriveEventAuthority вычисляет Anchor event authority программы.
func DeriveEventAuthority() (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte(seedEventAuthority)}, ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive event authority: %w", err)
	}
	return addr, nil
}

// DeriveMetadata вычисляет Metaplex metadata аккаунт минта.
func DeriveMetadata(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(seedMetadata), MetadataProgramID.Bytes(), mint.Bytes()},
		MetadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive metadata: %w", err)
	}
	return addr, nil
}

// PoolAccounts содержит все производные адреса пула нового токена.
type PoolAccounts struct {
	MintA          solana.PublicKey
	MintB          solana.PublicKey
	Config         solana.PublicKey
	Platform       solana.PublicKey
	Pool           solana.PublicKey
	VaultA         solana.PublicKey
	VaultB         solana.PublicKey
	Auth           solana.PublicKey
	EventAuthority solana.PublicKey
	Metadata       solana.PublicKey
}

// DerivePoolAccounts вычисляет адреса пула для mintA против wrapped SOL на платформе bonk.fun.
func DerivePoolAccounts(mintA solana.PublicKey) (*PoolAccounts, error) {
	mintB := solana.WrappedSol
	accounts := &PoolAccounts{MintA: mintA, MintB: mintB, Platform: BonkPlatformID}

	var err error
	if accounts.Config, err = DeriveConfig(mintB, CurveTypeConstant, DefaultConfigIndex); err != nil {
		return nil, err
	}
	if accounts.Pool, err = DerivePool(mintA, mintB); err != nil {
		return nil, err
	}
	if accounts.VaultA, err = DeriveVault(accounts.Pool, mintA); err != nil {
		return nil, err
	}
	if accounts.VaultB, err = DeriveVault(accounts.Pool, mintB); err != nil {
		return nil, err
	}
	if accounts.Auth, err = DeriveAuth(); err != nil {
		return nil, err
	}
	if accounts.EventAuthority, err = DeriveEventAuthority(); err != nil {
		return nil, err
	}
	if accounts.Metadata, err = DeriveMetadata(mintA); err != nil {
		return nil, err
	}
	return accounts, nil
}
