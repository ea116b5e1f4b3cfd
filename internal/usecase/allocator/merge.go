package allocator

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/depositflow-backend/internal/domain"
)

// Merge sums allocations into a new one. Portfolios missing from an input count as zero.
// Inputs are never mutated; nil inputs are skipped.
func Merge(allocations ...*domain.Allocation) *domain.Allocation {
	merged := domain.NewAllocation()
	for _, allocation := range allocations {
		allocation.Each(func(id uuid.UUID, amount decimal.Decimal) {
			merged.Add(id, amount)
		})
	}
	return merged
}
