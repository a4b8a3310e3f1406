// ==============================================
// File: internal/dex/launchpad/instructions.go
// ==============================================
package launchpad

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Discriminator returns the Anchor instruction discriminator for name.
func Discriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("global:" + name))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

var (
	initializeDiscriminator = Discriminator("initialize")
	buyExactInDiscriminator = Discriminator("buy_exact_in")
)

// MintParams описывает новый токен.
type MintParams struct {
	Decimals uint8
	Name     string
	Symbol   string
	URI      string
}

// CurveParams описывает constant-кривую пула.
type CurveParams struct {
	Supply                uint64
	TotalBaseSell         uint64
	TotalQuoteFundRaising uint64
	MigrateType           uint8
}

// VestingParams описывает блокировку части предложения.
type VestingParams struct {
	TotalLockedAmount uint64
	CliffPeriod       uint64
	UnlockPeriod      uint64
}

// DefaultCurveParams возвращает параметры кривой bonk.fun.
func DefaultCurveParams() CurveParams {
	return CurveParams{
		Supply:                DefaultSupply,
		TotalBaseSell:         DefaultTotalBaseSell,
		TotalQuoteFundRaising: DefaultTotalQuoteFundRaising,
		MigrateType:           MigrateTypeAMM,
	}
}

// InitializeAccounts - аккаунты инструкции initialize.
type InitializeAccounts struct {
	Payer   solana.PublicKey
	Creator solana.PublicKey
	Pool    *PoolAccounts
}

func writeString(enc *bin.Encoder, s string) error {
	if err := enc.WriteUint32(uint32(len(s)), binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes([]byte(s), false)
}

// NewInitializeInstruction строит инструкцию создания токена и пула.
func NewInitializeInstruction(accounts InitializeAccounts, mint MintParams, curve CurveParams, vesting VestingParams) (solana.Instruction, error) {
	if accounts.Pool == nil {
		return nil, errors.New("pool accounts are required")
	}
	if mint.Name == "" || mint.Symbol == "" || mint.URI == "" {
		return nil, errors.New("mint name, symbol and uri are required")
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	steps := []func() error{
		func() error { return enc.WriteBytes(initializeDiscriminator[:], false) },
		func() error { return enc.WriteUint8(mint.Decimals) },
		func() error { return writeString(enc, mint.Name) },
		func() error { return writeString(enc, mint.Symbol) },
		func() error { return writeString(enc, mint.URI) },
		// CurveParams::Constant
		func() error { return enc.WriteUint8(0) },
		func() error { return enc.WriteUint64(curve.Supply, binary.LittleEndian) },
		func() error { return enc.WriteUint64(curve.TotalBaseSell, binary.LittleEndian) },
		func() error { return enc.WriteUint64(curve.TotalQuoteFundRaising, binary.LittleEndian) },
		func() error { return enc.WriteUint8(curve.MigrateType) },
		func() error { return enc.WriteUint64(vesting.TotalLockedAmount, binary.LittleEndian) },
		func() error { return enc.WriteUint64(vesting.CliffPeriod, binary.LittleEndian) },
		func() error { return enc.WriteUint64(vesting.UnlockPeriod, binary.LittleEndian) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("failed to encode initialize: %w", err)
		}
	}

	p := accounts.Pool
	// Account list must be in the exact order expected by the program
	insAccounts := []*solana.AccountMeta{
		{PublicKey: accounts.Payer, IsSigner: true, IsWritable: true},
		{PublicKey: accounts.Creator, IsSigner: true, IsWritable: false},
		{PublicKey: p.Config, IsSigner: false, IsWritable: false},
		{PublicKey: p.Platform, IsSigner: false, IsWritable: false},
		{PublicKey: p.Auth, IsSigner: false, IsWritable: false},
		{PublicKey: p.Pool, IsSigner: false, IsWritable: true},
		{PublicKey: p.MintA, IsSigner: true, IsWritable: true},
		{PublicKey: p.MintB, IsSigner: false, IsWritable: false},
		{PublicKey: p.VaultA, IsSigner: false, IsWritable: true},
		{PublicKey: p.VaultB, IsSigner: false, IsWritable: true},
		{PublicKey: p.Metadata, IsSigner: false, IsWritable: true},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: MetadataProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		{PublicKey: p.EventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: ProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(ProgramID, insAccounts, buf.Bytes()), nil
}

// BuyAccounts - аккаунты покупателя для buy_exact_in.
type BuyAccounts struct {
	Owner            solana.PublicKey
	UserTokenA       solana.PublicKey
	UserTokenB       solana.PublicKey
	ShareFeeReceiver *solana.PublicKey
	Pool             *PoolAccounts
}

// NewBuyExactInInstruction строит покупку за точное количество quote-токена.
func NewBuyExactInInstruction(accounts BuyAccounts, amountB, minAmountA, shareFeeRate uint64) (solana.Instruction, error) {
	if accounts.Pool == nil {
		return nil, errors.New("pool accounts are required")
	}

	data := make([]byte, 8, 32)
	copy(data, buyExactInDiscriminator[:])
	data = binary.LittleEndian.AppendUint64(data, amountB)
	data = binary.LittleEndian.AppendUint64(data, minAmountA)
	data = binary.LittleEndian.AppendUint64(data, shareFeeRate)

	p := accounts.Pool
	insAccounts := []*solana.AccountMeta{
		{PublicKey: accounts.Owner, IsSigner: true, IsWritable: true},
		{PublicKey: p.Auth, IsSigner: false, IsWritable: false},
		{PublicKey: p.Config, IsSigner: false, IsWritable: false},
		{PublicKey: p.Platform, IsSigner: false, IsWritable: false},
		{PublicKey: p.Pool, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.UserTokenA, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.UserTokenB, IsSigner: false, IsWritable: true},
		{PublicKey: p.VaultA, IsSigner: false, IsWritable: true},
		{PublicKey: p.VaultB, IsSigner: false, IsWritable: true},
		{PublicKey: p.MintA, IsSigner: false, IsWritable: false},
		{PublicKey: p.MintB, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: p.EventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: ProgramID, IsSigner: false, IsWritable: false},
	}
	if accounts.ShareFeeReceiver != nil {
		insAccounts = append(insAccounts, &solana.AccountMeta{PublicKey: *accounts.ShareFeeReceiver, IsWritable: true})
	}

	return solana.NewInstruction(ProgramID, insAccounts, data), nil
}
