// internal/launch/buy.go
package launch

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launch-bundler/internal/config"
	"github.com/rovshanmuradov/launch-bundler/internal/dex/launchpad"
	"github.com/rovshanmuradov/launch-bundler/internal/wallet"
)

// BuyInstructionCount is the length of the per-wallet buy sequence.
const BuyInstructionCount = 5

// InsufficientFundsError возвращается, если баланса не хватает на ренту двух ATA и покупку.
type InsufficientFundsError struct {
	Wallet    solana.PublicKey
	Required  uint64
	Available uint64
	Shortfall uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in %s: required %s SOL, available %s SOL, short by %s SOL",
		e.Wallet,
		config.LamportsToSol(e.Required),
		config.LamportsToSol(e.Available),
		config.LamportsToSol(e.Shortfall))
}

// MakeBuyInstructions строит последовательность покупки для owner:
// ATA токена, ATA WSOL, перевод в WSOL, sync native, buy_exact_in.
func (s *Service) MakeBuyInstructions(ctx context.Context, owner solana.PublicKey, lamports uint64, mint solana.PublicKey) ([]solana.Instruction, error) {
	rent, err := s.client.GetMinimumBalanceForRentExemption(ctx, config.TokenAccountSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get token account rent: %w", err)
	}
	balance, err := s.client.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s: %w", owner, err)
	}

	required := 2*rent + lamports
	if balance < required {
		return nil, &InsufficientFundsError{
			Wallet:    owner,
			Required:  required,
			Available: balance,
			Shortfall: required - balance,
		}
	}

	pool, err := launchpad.DerivePoolAccounts(mint)
	if err != nil {
		return nil, err
	}

	mintATAIx, mintATA, err := wallet.CreateAssociatedTokenAccountIdempotentInstruction(owner, owner, mint)
	if err != nil {
		return nil, err
	}
	wsolATAIx, wsolATA, err := wallet.CreateAssociatedTokenAccountIdempotentInstruction(owner, owner, solana.WrappedSol)
	if err != nil {
		return nil, err
	}

	buyIx, err := launchpad.NewBuyExactInInstruction(launchpad.BuyAccounts{
		Owner:            owner,
		UserTokenA:       mintATA,
		UserTokenB:       wsolATA,
		ShareFeeReceiver: &wsolATA,
		Pool:             pool,
	}, lamports, config.MinTokensOut, config.ShareFeeRateBps)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Buy instructions built",
		zap.String("wallet", owner.String()),
		zap.String("sol", config.LamportsToSol(lamports).String()))

	return []solana.Instruction{
		mintATAIx,
		wsolATAIx,
		wallet.TransferInstruction(owner, wsolATA, lamports),
		wallet.SyncNativeInstruction(wsolATA),
		buyIx,
	}, nil
}
