package allocator

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/depositflow-backend/internal/domain"
)

// divisionPrecision is the number of decimal places kept by each ratio division.
// The last portfolio absorbs whatever the truncated shares leave behind.
const divisionPrecision int32 = 28

// Distribute splits amount across the weights proportionally
// Returns a new allocation keyed like weights, in the same order
// Logic:
//  1. Sum the weights; a zero total yields an empty allocation
//  2. Every portfolio except the last gets amount * weight / total
//  3. The last portfolio (insertion order) gets amount minus everything handed out so far
//
// Safety: The result always sums exactly to amount (no penny lost)
func Distribute(amount decimal.Decimal, weights *domain.Allocation) *domain.Allocation {
	contributions := domain.NewAllocation()

	totalWeight := weights.Total()
	if totalWeight.IsZero() {
		return contributions
	}

	keys := weights.Keys()
	distributed := decimal.Zero
	for _, id := range keys[:len(keys)-1] {
		contribution := share(amount, weights.Get(id), totalWeight)
		contributions.Set(id, contribution)
		distributed = distributed.Add(contribution)
	}

	contributions.Set(keys[len(keys)-1], amount.Sub(distributed))

	return contributions
}

func share(amount, weight, totalWeight decimal.Decimal) decimal.Decimal {
	return amount.Mul(weight).DivRound(totalWeight, divisionPrecision)
}
