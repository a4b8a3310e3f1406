// =============================
// File: internal/dex/launchpad/constants.go
// =============================
package launchpad

import "github.com/gagliardetto/solana-go"

var (
	// ProgramID is the Raydium LaunchLab program.
	ProgramID = solana.MustPublicKeyFromBase58("LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj")
	// BonkPlatformID is the bonk.fun platform config.
	BonkPlatformID = solana.MustPublicKeyFromBase58("FfYek5vEz23cMkWsdJwG2oa6EphsvXSHrGpdALN4g6W1")
	// MetadataProgramID is the Metaplex token metadata program.
	MetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
)

// PDA seeds
const (
	seedGlobalConfig   = "global_config"
	seedPool           = "pool"
	seedPoolVault      = "pool_vault"
	seedVaultAuth      = "vault_auth_seed"
	seedEventAuthority = "__event_authority"
	seedMetadata       = "metadata"
)

const (
	// CurveTypeConstant selects the constant-product bonding curve.
	CurveTypeConstant uint8 = 0
	// DefaultConfigIndex is the config index used by the SOL-quoted bonk.fun pools.
	DefaultConfigIndex uint16 = 0

	// MigrateTypeAMM migrates the pool to the Raydium AMM after graduation.
	MigrateTypeAMM uint8 = 0
)

// Curve defaults of a bonk.fun launch.
const (
	DefaultDecimals              uint8  = 6
	DefaultSupply                uint64 = 1_000_000_000_000_000
	DefaultTotalBaseSell         uint64 = 793_100_000_000_000
	DefaultTotalQuoteFundRaising uint64 = 85_000_000_000
)
