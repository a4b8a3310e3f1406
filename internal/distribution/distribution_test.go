package distribution

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launch-bundler/internal/blockchain/mocks"
	"github.com/rovshanmuradov/launch-bundler/internal/config"
	"github.com/rovshanmuradov/launch-bundler/internal/retry"
	"github.com/rovshanmuradov/launch-bundler/internal/storage"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

var fastPolicy = retry.Policy{MaxAttempts: config.DistributionMaxAttempts}

func newTestService(t *testing.T, client *mocks.Client) (*Service, *storage.JSONStore) {
	t.Helper()
	store, err := storage.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return NewService(client, store, zap.NewNop()).WithRetryPolicy(fastPolicy), store
}

func newMainWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.Generate()
	require.NoError(t, err)
	return w
}

func TestBuildTransferInstructions(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	recipients := []solana.PublicKey{solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()}

	ixs, err := BuildTransferInstructions(from, recipients, 123)
	require.NoError(t, err)
	require.Len(t, ixs, 2+len(recipients))

	assert.Equal(t, solana.ComputeBudget, ixs[0].ProgramID())
	assert.Equal(t, solana.ComputeBudget, ixs[1].ProgramID())
	for i, to := range recipients {
		ix := ixs[2+i]
		assert.Equal(t, solana.SystemProgramID, ix.ProgramID())
		accounts := ix.Accounts()
		assert.Equal(t, from, accounts[0].PublicKey)
		assert.Equal(t, to, accounts[1].PublicKey)
	}
}

func TestDistribute(t *testing.T) {
	ctx := context.Background()
	lamports := config.DistributionLamports(0.1)

	t.Run("balance below threshold", func(t *testing.T) {
		client := new(mocks.Client)
		svc, store := newTestService(t, client)
		main := newMainWallet(t)
		client.On("GetBalance", ctx, main.PublicKey, rpc.CommitmentConfirmed).Return(uint64(config.MinMainBalanceLamports), nil)

		_, err := svc.Distribute(ctx, main, 3, lamports)
		assert.ErrorIs(t, err, ErrInsufficientMainBalance)

		_, err = store.LoadWallets()
		assert.ErrorIs(t, err, storage.ErrNotFound)
		client.AssertNotCalled(t, "SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("succeeds after retries", func(t *testing.T) {
		client := new(mocks.Client)
		svc, store := newTestService(t, client)
		main := newMainWallet(t)
		sig := solana.Signature{9}

		client.On("GetBalance", ctx, main.PublicKey, rpc.CommitmentConfirmed).Return(uint64(5*solana.LAMPORTS_PER_SOL), nil)
		client.On("GetRecentBlockhash", ctx).Return(solana.Hash{1}, nil)
		client.On("SendTransactionWithOpts", ctx, mock.Anything, mock.Anything).Return(solana.Signature{}, errors.New("blockhash expired")).Twice()
		client.On("SendTransactionWithOpts", ctx, mock.Anything, mock.Anything).Return(sig, nil).Once()
		client.On("WaitForTransactionConfirmation", ctx, sig, rpc.CommitmentConfirmed).Return(nil)

		wallets, err := svc.Distribute(ctx, main, 3, lamports)
		require.NoError(t, err)
		require.Len(t, wallets, 3)

		saved, err := store.LoadWallets()
		require.NoError(t, err)
		require.Len(t, saved, 3)
		for i, w := range wallets {
			assert.Equal(t, w.PublicKey, saved[i].PublicKey())
		}

		client.AssertNumberOfCalls(t, "SendTransactionWithOpts", 3)
		client.AssertNumberOfCalls(t, "GetRecentBlockhash", 3)
	})

	t.Run("fails after all attempts", func(t *testing.T) {
		client := new(mocks.Client)
		svc, store := newTestService(t, client)
		main := newMainWallet(t)

		client.On("GetBalance", ctx, main.PublicKey, rpc.CommitmentConfirmed).Return(uint64(5*solana.LAMPORTS_PER_SOL), nil)
		client.On("GetRecentBlockhash", ctx).Return(solana.Hash{1}, nil)
		client.On("SendTransactionWithOpts", ctx, mock.Anything, mock.Anything).Return(solana.Signature{}, errors.New("node unhealthy"))

		_, err := svc.Distribute(ctx, main, 2, lamports)
		assert.ErrorIs(t, err, ErrDistributionFailed)
		assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)
		client.AssertNumberOfCalls(t, "SendTransactionWithOpts", config.DistributionMaxAttempts)

		// кошельки уже сохранены
		saved, err := store.LoadWallets()
		require.NoError(t, err)
		assert.Len(t, saved, 2)
	})

	t.Run("invalid count", func(t *testing.T) {
		svc, _ := newTestService(t, new(mocks.Client))
		_, err := svc.Distribute(ctx, newMainWallet(t), 0, lamports)
		assert.Error(t, err)
	})
}

func TestGather(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	svc, _ := newTestService(t, client)
	main := solana.NewWallet().PublicKey()

	rich := newMainWallet(t)
	empty := newMainWallet(t)
	broken := newMainWallet(t)
	sig := solana.Signature{4}

	client.On("GetBalance", ctx, rich.PublicKey, rpc.CommitmentConfirmed).Return(uint64(1_000_000), nil)
	client.On("GetBalance", ctx, empty.PublicKey, rpc.CommitmentConfirmed).Return(uint64(config.SignatureFeeLamports), nil)
	client.On("GetBalance", ctx, broken.PublicKey, rpc.CommitmentConfirmed).Return(uint64(0), errors.New("timeout"))
	client.On("GetRecentBlockhash", ctx).Return(solana.Hash{2}, nil)
	client.On("SendTransactionWithOpts", ctx, mock.Anything, mock.Anything).Return(sig, nil)
	client.On("WaitForTransactionConfirmation", ctx, sig, rpc.CommitmentConfirmed).Return(nil)

	res, err := svc.Gather(ctx, main, []*wallet.Wallet{rich, empty, broken})
	assert.ErrorContains(t, err, "timeout")
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Swept)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, uint64(1_000_000-config.SignatureFeeLamports), res.Lamports)
}
