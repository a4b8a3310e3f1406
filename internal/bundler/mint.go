// internal/bundler/mint.go
package bundler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/launch-bundler/internal/vanity"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

const vanityTimeout = 10 * time.Minute

// MintGenerator создаёт keypair нового токена.
type MintGenerator func(ctx context.Context) (*wallet.Wallet, error)

// RandomMint генерирует обычный keypair.
func RandomMint(context.Context) (*wallet.Wallet, error) {
	return wallet.Generate()
}

// VanityMint ищет keypair, адрес которого оканчивается на suffix.
func VanityMint(suffix string, logger *zap.Logger) MintGenerator {
	return func(ctx context.Context) (*wallet.Wallet, error) {
		logger.Info("Searching vanity mint address",
			zap.String("suffix", suffix),
			zap.Uint64("expected_attempts", vanity.EstimateDifficulty(0, len(suffix))))

		res, err := vanity.Generate(ctx, vanity.Options{Suffix: suffix, Timeout: vanityTimeout})
		if err != nil {
			return nil, err
		}
		logger.Info("Vanity mint found",
			zap.String("address", res.PublicKey.String()),
			zap.Uint64("attempts", res.Attempts),
			zap.Duration("took", res.Duration))
		return wallet.FromPrivateKey(res.PrivateKey), nil
	}
}
