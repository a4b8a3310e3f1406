package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *JSONStore {
	t.Helper()
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	return store
}

func TestWalletsPersistence(t *testing.T) {
	store := newStore(t)
	keys := []solana.PrivateKey{solana.NewWallet().PrivateKey, solana.NewWallet().PrivateKey}

	require.NoError(t, store.SaveWallets(keys))

	raw, err := os.ReadFile(store.Path(WalletsFile))
	require.NoError(t, err)
	var values []string
	require.NoError(t, json.Unmarshal(raw, &values))
	assert.Equal(t, []string{keys[0].String(), keys[1].String()}, values)

	loaded, err := store.LoadWallets()
	require.NoError(t, err)
	assert.Equal(t, keys, loaded)

	// overwritten, not merged
	require.NoError(t, store.SaveWallets(keys[:1]))
	loaded, err = store.LoadWallets()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestMintAndLookupTablePersistence(t *testing.T) {
	store := newStore(t)
	mint := solana.NewWallet().PrivateKey
	table := solana.NewWallet().PublicKey()

	require.NoError(t, store.SaveMint(mint))
	require.NoError(t, store.SaveLookupTable(table))

	loadedMint, err := store.LoadMint()
	require.NoError(t, err)
	assert.Equal(t, mint.PublicKey(), loadedMint.PublicKey())

	loadedTable, err := store.LoadLookupTable()
	require.NoError(t, err)
	assert.Equal(t, table, loadedTable)
}

func TestLoadMissing(t *testing.T) {
	store := newStore(t)

	_, err := store.LoadWallets()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.LoadMint()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.LoadLookupTable()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorrupted(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path(WalletsFile), []byte(`["not-a-key"]`), 0o600))

	_, err := store.LoadWallets()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNoTempFilesLeft(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SaveMint(solana.NewWallet().PrivateKey))

	entries, err := os.ReadDir(store.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, MintFile, entries[0].Name())
}
