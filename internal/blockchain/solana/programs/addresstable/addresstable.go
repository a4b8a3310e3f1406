// internal/blockchain/solana/programs/addresstable/addresstable.go
package addresstable

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("AddressLookupTab1e1111111111111111111111111")

const (
	InstructionCreate uint32 = 0
	InstructionExtend uint32 = 2
)

const (
	// MaxAddressesPerExtend keeps an extend transaction inside the packet limit.
	MaxAddressesPerExtend = 30
	// MaxAddresses is the hard capacity of one table.
	MaxAddresses = 256
)

var ErrTooManyAddresses = fmt.Errorf("extend accepts at most %d addresses", MaxAddressesPerExtend)

// DeriveAddress returns the table address for an authority and a recent slot.
func DeriveAddress(authority solana.PublicKey, recentSlot uint64) (solana.PublicKey, uint8, error) {
	slot := make([]byte, 8)
	binary.LittleEndian.PutUint64(slot, recentSlot)
	return solana.FindProgramAddress([][]byte{authority.Bytes(), slot}, ProgramID)
}

// NewCreateInstruction builds the create_lookup_table instruction and returns the derived table address.
func NewCreateInstruction(authority, payer solana.PublicKey, recentSlot uint64) (solana.Instruction, solana.PublicKey, error) {
	table, bump, err := DeriveAddress(authority, recentSlot)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("derive lookup table address: %w", err)
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint32(InstructionCreate, binary.LittleEndian); err != nil {
		return nil, solana.PublicKey{}, err
	}
	if err := enc.WriteUint64(recentSlot, binary.LittleEndian); err != nil {
		return nil, solana.PublicKey{}, err
	}
	if err := enc.WriteUint8(bump); err != nil {
		return nil, solana.PublicKey{}, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(table).WRITE(),
		solana.Meta(authority),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}
	return solana.NewInstruction(ProgramID, accounts, buf.Bytes()), table, nil
}

// NewExtendInstruction appends addresses to an existing table.
func NewExtendInstruction(table, authority, payer solana.PublicKey, addresses []solana.PublicKey) (solana.Instruction, error) {
	if len(addresses) == 0 {
		return nil, errors.New("extend requires at least one address")
	}
	if len(addresses) > MaxAddressesPerExtend {
		return nil, ErrTooManyAddresses
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint32(InstructionExtend, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(uint64(len(addresses)), binary.LittleEndian); err != nil {
		return nil, err
	}
	for _, addr := range addresses {
		if err := enc.WriteBytes(addr.Bytes(), false); err != nil {
			return nil, err
		}
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(table).WRITE(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}
	return solana.NewInstruction(ProgramID, accounts, buf.Bytes()), nil
}

// Chunk splits addresses into extend-sized groups.
func Chunk(addresses []solana.PublicKey) [][]solana.PublicKey {
	var out [][]solana.PublicKey
	for start := 0; start < len(addresses); start += MaxAddressesPerExtend {
		end := start + MaxAddressesPerExtend
		if end > len(addresses) {
			end = len(addresses)
		}
		out = append(out, addresses[start:end])
	}
	return out
}
