package launchpad

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDiscriminator(t *testing.T) {
	assert.Equal(t, [8]byte{175, 175, 109, 31, 13, 152, 155, 237}, Discriminator("initialize"))
	assert.NotEqual(t, Discriminator("initialize"), Discriminator("buy_exact_in"))
}

func TestDerivePoolAccounts(t *testing.T) {
	mint := solana.NewWallet().PublicKey()

	accounts, err := DerivePoolAccounts(mint)
	require.NoError(t, err)

	pool, err := DerivePool(mint, solana.WrappedSol)
	require.NoError(t, err)
	assert.Equal(t, pool, accounts.Pool)
	assert.Equal(t, solana.WrappedSol, accounts.MintB)
	assert.Equal(t, BonkPlatformID, accounts.Platform)

	// config does not depend on the new mint
	other, err := DerivePoolAccounts(solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.Equal(t, accounts.Config, other.Config)
	assert.Equal(t, accounts.Auth, other.Auth)
	assert.NotEqual(t, accounts.Pool, other.Pool)
	assert.NotEqual(t, accounts.VaultA, accounts.VaultB)
}

func TestNewInitializeInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	pool, err := DerivePoolAccounts(mint)
	require.NoError(t, err)

	params := MintParams{Decimals: 6, Name: "Bonk", Symbol: "BNK", URI: "https://ipfs.io/x"}
	ix, err := NewInitializeInstruction(InitializeAccounts{Payer: payer, Creator: payer, Pool: pool},
		params, DefaultCurveParams(), VestingParams{})
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)

	want := new(bytes.Buffer)
	want.Write(initializeDiscriminator[:])
	want.WriteByte(6)
	for _, s := range []string{"Bonk", "BNK", "https://ipfs.io/x"} {
		_ = binary.Write(want, binary.LittleEndian, uint32(len(s)))
		want.WriteString(s)
	}
	want.WriteByte(0)
	_ = binary.Write(want, binary.LittleEndian, []uint64{DefaultSupply, DefaultTotalBaseSell, DefaultTotalQuoteFundRaising})
	want.WriteByte(MigrateTypeAMM)
	_ = binary.Write(want, binary.LittleEndian, []uint64{0, 0, 0})
	assert.Equal(t, want.Bytes(), data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 18)
	assert.True(t, accounts[0].IsSigner)
	assert.True(t, accounts[6].IsSigner)
	assert.Equal(t, mint, accounts[6].PublicKey)
	assert.Equal(t, pool.Metadata, accounts[10].PublicKey)
	assert.Equal(t, ProgramID, accounts[17].PublicKey)

	_, err = NewInitializeInstruction(InitializeAccounts{Payer: payer, Creator: payer, Pool: pool},
		MintParams{Name: "x"}, DefaultCurveParams(), VestingParams{})
	assert.Error(t, err)
}

func TestNewBuyExactInInstruction(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	pool, err := DerivePoolAccounts(mint)
	require.NoError(t, err)
	share := solana.NewWallet().PublicKey()

	tests := []struct {
		name     string
		share    *solana.PublicKey
		accounts int
	}{
		{name: "without share receiver", accounts: 15},
		{name: "with share receiver", share: &share, accounts: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := NewBuyExactInInstruction(BuyAccounts{
				Owner:            owner,
				UserTokenA:       solana.NewWallet().PublicKey(),
				UserTokenB:       solana.NewWallet().PublicKey(),
				ShareFeeReceiver: tt.share,
				Pool:             pool,
			}, 20_000_000, 1, 10_000)
			require.NoError(t, err)

			data, err := ix.Data()
			require.NoError(t, err)
			require.Len(t, data, 32)
			assert.Equal(t, buyExactInDiscriminator[:], data[:8])
			assert.Equal(t, uint64(20_000_000), binary.LittleEndian.Uint64(data[8:16]))
			assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(data[16:24]))
			assert.Equal(t, uint64(10_000), binary.LittleEndian.Uint64(data[24:32]))

			accounts := ix.Accounts()
			require.Len(t, accounts, tt.accounts)
			assert.Equal(t, owner, accounts[0].PublicKey)
			assert.True(t, accounts[0].IsSigner)
			assert.Equal(t, pool.Pool, accounts[4].PublicKey)
		})
	}
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	args := m.Called(ctx, pubkey)
	if res := args.Get(0); res != nil {
		return res.(*rpc.GetAccountInfoResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func configBytes(mintB solana.PublicKey) []byte {
	buf := new(bytes.Buffer)
	buf.Write(make([]byte, 8))
	_ = binary.Write(buf, binary.LittleEndian, uint64(7))
	buf.WriteByte(CurveTypeConstant)
	_ = binary.Write(buf, binary.LittleEndian, uint16(0))
	_ = binary.Write(buf, binary.LittleEndian, []uint64{1, 2500, 10000, 4, 5, 6, 7, 30_000_000_000})
	buf.Write(mintB.Bytes())
	for i := 0; i < 4; i++ {
		buf.Write(solana.SystemProgramID.Bytes())
	}
	buf.Write(make([]byte, 8*16))
	return buf.Bytes()
}

func TestFetchConfig(t *testing.T) {
	address := solana.NewWallet().PublicKey()
	ctx := context.Background()

	t.Run("decodes", func(t *testing.T) {
		data := configBytes(solana.WrappedSol)
		require.Len(t, data, ConfigAccountSize)

		m := new(mockFetcher)
		m.On("GetAccountInfo", ctx, address).Return(&rpc.GetAccountInfoResult{
			Value: &rpc.Account{Owner: ProgramID, Data: rpc.DataBytesOrJSONFromBytes(data)},
		}, nil)

		cfg, err := FetchConfig(ctx, m, address)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), cfg.Epoch)
		assert.Equal(t, uint64(2500), cfg.TradeFeeRate)
		assert.Equal(t, uint64(30_000_000_000), cfg.MinFundRaisingB)
		assert.Equal(t, solana.WrappedSol, cfg.MintB)
		m.AssertExpectations(t)
	})

	t.Run("missing account", func(t *testing.T) {
		m := new(mockFetcher)
		m.On("GetAccountInfo", ctx, address).Return(nil, rpc.ErrNotFound)

		_, err := FetchConfig(ctx, m, address)
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("rpc failure", func(t *testing.T) {
		m := new(mockFetcher)
		m.On("GetAccountInfo", ctx, address).Return(nil, errors.New("timeout"))

		_, err := FetchConfig(ctx, m, address)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("wrong owner", func(t *testing.T) {
		m := new(mockFetcher)
		m.On("GetAccountInfo", ctx, address).Return(&rpc.GetAccountInfoResult{
			Value: &rpc.Account{Owner: solana.SystemProgramID, Data: rpc.DataBytesOrJSONFromBytes(configBytes(solana.WrappedSol))},
		}, nil)

		_, err := FetchConfig(ctx, m, address)
		assert.Error(t, err)
	})

	t.Run("short data", func(t *testing.T) {
		_, err := DecodeConfig(make([]byte, 10))
		assert.Error(t, err)
	})
}

func TestEncodeConfig(t *testing.T) {
	data, err := EncodeConfig(&Config{Epoch: 3, TradeFeeRate: 2500, MintB: solana.WrappedSol})
	require.NoError(t, err)
	assert.Len(t, data, ConfigAccountSize)
	assert.Equal(t, configBytesWith(t, data), data)
}

func configBytesWith(t *testing.T, data []byte) []byte {
	t.Helper()
	cfg, err := DecodeConfig(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), cfg.Epoch)
	assert.Equal(t, solana.WrappedSol, cfg.MintB)
	out, err := EncodeConfig(cfg)
	require.NoError(t, err)
	return out
}
