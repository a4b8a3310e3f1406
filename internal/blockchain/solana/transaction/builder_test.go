package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/rovshanmuradov/launch-bundler/internal/blockchain/solana/programs/computebudget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHash struct {
	hash solana.Hash
	err  error
}

func (s staticHash) GetRecentBlockhash(context.Context) (solana.Hash, error) {
	return s.hash, s.err
}

func transfer(from, to solana.PublicKey) solana.Instruction {
	return system.NewTransferInstruction(1000, from, to).Build()
}

func TestBuilderBuild(t *testing.T) {
	payer := solana.NewWallet().PrivateKey
	other := solana.NewWallet().PrivateKey
	hash := solana.Hash{1, 2, 3}

	tx, err := NewTransactionBuilder().
		WithComputeBudget(computebudget.Default).
		AddInstruction(transfer(payer.PublicKey(), other.PublicKey())).
		AddSigner(payer).
		Build(context.Background(), staticHash{hash: hash})
	require.NoError(t, err)

	assert.Equal(t, hash, tx.Message.RecentBlockhash)
	assert.Len(t, tx.Message.Instructions, 3)
	assert.Equal(t, payer.PublicKey(), tx.Message.AccountKeys[0])
	require.Len(t, tx.Signatures, 1)
	assert.NoError(t, tx.VerifySignatures())
}

func TestBuilderMultipleSigners(t *testing.T) {
	a := solana.NewWallet().PrivateKey
	b := solana.NewWallet().PrivateKey

	tx, err := NewTransactionBuilder().
		AddInstruction(transfer(a.PublicKey(), b.PublicKey()), transfer(b.PublicKey(), a.PublicKey())).
		AddSigner(a, b).
		WithBlockhash(solana.Hash{9}).
		Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, tx.Signatures, 2)
	assert.NoError(t, tx.VerifySignatures())
}

func TestBuilderErrors(t *testing.T) {
	a := solana.NewWallet().PrivateKey
	b := solana.NewWallet().PrivateKey

	_, err := NewTransactionBuilder().Build(context.Background(), staticHash{})
	assert.ErrorIs(t, err, ErrNoSigners)

	_, err = NewTransactionBuilder().
		AddInstruction(transfer(a.PublicKey(), b.PublicKey())).
		AddSigner(a).
		Build(context.Background(), staticHash{err: errors.New("rpc down")})
	assert.ErrorContains(t, err, "rpc down")

	// b must sign its own transfer
	_, err = NewTransactionBuilder().
		AddInstruction(transfer(b.PublicKey(), a.PublicKey())).
		AddSigner(a).
		WithBlockhash(solana.Hash{1}).
		Build(context.Background(), nil)
	assert.Error(t, err)
}

func TestBuilderLookupTable(t *testing.T) {
	payer := solana.NewWallet().PrivateKey
	dest := solana.NewWallet().PublicKey()
	table := solana.NewWallet().PublicKey()

	tx, err := NewTransactionBuilder().
		AddInstruction(transfer(payer.PublicKey(), dest)).
		AddSigner(payer).
		WithLookupTable(table, solana.PublicKeySlice{dest}).
		WithBlockhash(solana.Hash{7}).
		Build(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, tx.Message.IsVersioned())
	require.Len(t, tx.Message.AddressTableLookups, 1)
	assert.Equal(t, table, tx.Message.AddressTableLookups[0].AccountKey)
}
