// Package launchpad encodes instructions and accounts of the Raydium LaunchLab program
// used by the bonk.fun platform.
//
// This package provides:
// - PDA derivation for the global config, pool, vaults, authority, event authority and metadata.
// - Decoding of the on-chain global config account.
// - The initialize instruction that creates the mint, pool and metadata in one step.
// - The buy_exact_in instruction used by every bundled buyer.
//
// Detailed information can be found in the respective source files:
//   - constants.go: program ids, seeds and curve defaults.
//   - pda.go: address derivation and the PoolAccounts set.
//   - config_account.go: global config layout and FetchConfig.
//   - instructions.go: instruction encoders.
package launchpad
