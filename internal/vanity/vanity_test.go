package vanity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSuffix(t *testing.T) {
	result, err := Generate(context.Background(), Options{Suffix: "a", Workers: 2, Timeout: time.Minute})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(result.PublicKey.String(), "a"))
	assert.Equal(t, result.PrivateKey.PublicKey(), result.PublicKey)
	assert.GreaterOrEqual(t, result.Attempts, uint64(1))
}

func TestGenerateInvalidPattern(t *testing.T) {
	_, err := Generate(context.Background(), Options{Suffix: "b0nk"})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestGenerateTimeout(t *testing.T) {
	// ten base58 characters are out of reach in a millisecond
	_, err := Generate(context.Background(), Options{Suffix: "zzzzzzzzzz", Workers: 1, Timeout: time.Millisecond})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, Options{Suffix: "zzzzzzzzzz", Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEstimateDifficulty(t *testing.T) {
	assert.Equal(t, uint64(58), EstimateDifficulty(0, 1))
	assert.Equal(t, uint64(58*58*58*58), EstimateDifficulty(1, 3))
}
