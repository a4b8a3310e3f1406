// internal/blockchain/mocks/client.go
package mocks

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"

	"github.com/rovshanmuradov/launch-bundler/internal/blockchain"
)

// Client реализует blockchain.Client на testify/mock.
type Client struct {
	mock.Mock
}

func (m *Client) GetRecentBlockhash(ctx context.Context) (solana.Hash, error) {
	args := m.Called(ctx)
	return args.Get(0).(solana.Hash), args.Error(1)
}

func (m *Client) GetSlot(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	args := m.Called(ctx, commitment)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	args := m.Called(ctx, pubkey, commitment)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	args := m.Called(ctx, pubkey)
	if res := args.Get(0); res != nil {
		return res.(*rpc.GetAccountInfoResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	args := m.Called(ctx, size)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *Client) GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	args := m.Called(ctx, signatures)
	if res := args.Get(0); res != nil {
		return res.(*rpc.GetSignatureStatusesResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts blockchain.TransactionOptions) (solana.Signature, error) {
	args := m.Called(ctx, tx, opts)
	return args.Get(0).(solana.Signature), args.Error(1)
}

func (m *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*blockchain.SimulationResult, error) {
	args := m.Called(ctx, tx)
	if res := args.Get(0); res != nil {
		return res.(*blockchain.SimulationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) WaitForTransactionConfirmation(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error {
	args := m.Called(ctx, signature, commitment)
	return args.Error(0)
}

func (m *Client) GetAddressLookupTable(ctx context.Context, address solana.PublicKey) (*blockchain.LookupTable, error) {
	args := m.Called(ctx, address)
	if res := args.Get(0); res != nil {
		return res.(*blockchain.LookupTable), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ blockchain.Client = (*Client)(nil)
