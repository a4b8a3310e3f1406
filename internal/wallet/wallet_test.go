package wallet

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	generated, err := Generate()
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "round trip", input: generated.SecretBase58()},
		{name: "not base58", input: "0OIl", wantErr: true},
		{name: "short key", input: base58.Encode(make([]byte, 32)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWallet(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, generated.PublicKey, w.PublicKey)
			assert.Equal(t, generated.PublicKey.String(), w.String())
		})
	}
}

func TestCreateAssociatedTokenAccountIdempotentInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ix, ata, err := CreateAssociatedTokenAccountIdempotentInstruction(payer, owner, mint)
	require.NoError(t, err)

	expected, _, _ := solana.FindAssociatedTokenAddress(owner, mint)
	assert.Equal(t, expected, ata)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 6)
	assert.True(t, accounts[0].IsSigner)
	assert.Equal(t, ata, accounts[1].PublicKey)
	assert.Equal(t, mint, accounts[3].PublicKey)
}

func TestTransferAndSyncNative(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()

	ix := TransferInstruction(from, to, 42)
	assert.Equal(t, solana.SystemProgramID, ix.ProgramID())
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[4:12]))

	sync := SyncNativeInstruction(to)
	assert.Equal(t, solana.TokenProgramID, sync.ProgramID())
	data, err = sync.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{17}, data)
}
