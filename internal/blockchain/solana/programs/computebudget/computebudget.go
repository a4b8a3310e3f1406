// internal/blockchain/solana/programs/computebudget/computebudget.go
package computebudget

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	sdkbudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

var ProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

// Profile определяет лимит compute units и цену за unit в микролампортах.
type Profile struct {
	Name      string
	Units     uint32
	UnitPrice uint64
}

// Предопределенные профили
var (
	// Default используется для распределения SOL и покупок.
	Default = Profile{Name: "default", Units: 1_000_000, UnitPrice: 200_000}
	// Creation используется транзакцией запуска токена.
	Creation = Profile{Name: "creation", Units: 5_000_000, UnitPrice: 20_000}
	// LookupTable используется для создания и расширения LUT.
	LookupTable = Profile{Name: "lookup-table", Units: 50_000, UnitPrice: 500_000}
)

// Instructions возвращает пару инструкций [SetComputeUnitLimit, SetComputeUnitPrice].
func (p Profile) Instructions() ([]solana.Instruction, error) {
	if p.Units == 0 {
		return nil, fmt.Errorf("compute budget profile %q has zero units", p.Name)
	}

	limit, err := sdkbudget.NewSetComputeUnitLimitInstruction(p.Units).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build compute unit limit instruction: %w", err)
	}
	price, err := sdkbudget.NewSetComputeUnitPriceInstruction(p.UnitPrice).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build compute unit price instruction: %w", err)
	}
	return []solana.Instruction{limit, price}, nil
}

// MaxPriorityFee возвращает верхнюю границу приоритетной комиссии в лампортах.
func (p Profile) MaxPriorityFee() uint64 {
	return uint64(p.Units) * p.UnitPrice / 1_000_000
}
