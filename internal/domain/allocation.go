package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation maps portfolio IDs to amounts.
// Insertion order is preserved because the proportional split hands its rounding
// remainder to the last portfolio, so "last" has to be well defined.
// The zero value is an empty allocation ready to use.
type Allocation struct {
	order   []uuid.UUID
	amounts map[uuid.UUID]decimal.Decimal
}

// NewAllocation creates an empty allocation
func NewAllocation() *Allocation {
	return &Allocation{amounts: make(map[uuid.UUID]decimal.Decimal)}
}

// AllocationEntry is a single portfolio/amount pair, used to build allocations in a fixed order
type AllocationEntry struct {
	PortfolioID uuid.UUID
	Amount      decimal.Decimal
}

// NewAllocationFrom builds an allocation from entries, keeping their order.
// Repeated portfolio IDs are summed.
func NewAllocationFrom(entries ...AllocationEntry) *Allocation {
	a := NewAllocation()
	for _, e := range entries {
		a.Add(e.PortfolioID, e.Amount)
	}
	return a
}

func (a *Allocation) init() {
	if a.amounts == nil {
		a.amounts = make(map[uuid.UUID]decimal.Decimal)
	}
}

// Set replaces the amount for a portfolio. A new portfolio is appended to the order,
// an existing one keeps its position.
func (a *Allocation) Set(portfolioID uuid.UUID, amount decimal.Decimal) {
	a.init()
	if _, ok := a.amounts[portfolioID]; !ok {
		a.order = append(a.order, portfolioID)
	}
	a.amounts[portfolioID] = amount
}

// Add accumulates amount onto the portfolio's current value
func (a *Allocation) Add(portfolioID uuid.UUID, amount decimal.Decimal) {
	a.Set(portfolioID, a.Get(portfolioID).Add(amount))
}

// Get returns the amount for a portfolio, zero if absent
func (a *Allocation) Get(portfolioID uuid.UUID) decimal.Decimal {
	if a == nil || a.amounts == nil {
		return decimal.Zero
	}
	amount, ok := a.amounts[portfolioID]
	if !ok {
		return decimal.Zero
	}
	return amount
}

// Has reports whether the portfolio is present
func (a *Allocation) Has(portfolioID uuid.UUID) bool {
	if a == nil || a.amounts == nil {
		return false
	}
	_, ok := a.amounts[portfolioID]
	return ok
}

// Keys returns the portfolio IDs in insertion order
func (a *Allocation) Keys() []uuid.UUID {
	if a == nil {
		return nil
	}
	keys := make([]uuid.UUID, len(a.order))
	copy(keys, a.order)
	return keys
}

// Len returns the number of portfolios
func (a *Allocation) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// Total returns the sum of all amounts
func (a *Allocation) Total() decimal.Decimal {
	total := decimal.Zero
	a.Each(func(_ uuid.UUID, amount decimal.Decimal) {
		total = total.Add(amount)
	})
	return total
}

// Each calls fn for every entry in insertion order
func (a *Allocation) Each(fn func(portfolioID uuid.UUID, amount decimal.Decimal)) {
	if a == nil {
		return
	}
	for _, id := range a.order {
		fn(id, a.amounts[id])
	}
}

// Entries returns the allocation as an ordered slice
func (a *Allocation) Entries() []AllocationEntry {
	entries := make([]AllocationEntry, 0, a.Len())
	a.Each(func(id uuid.UUID, amount decimal.Decimal) {
		entries = append(entries, AllocationEntry{PortfolioID: id, Amount: amount})
	})
	return entries
}

// Clone returns an independent copy
func (a *Allocation) Clone() *Allocation {
	c := NewAllocation()
	a.Each(func(id uuid.UUID, amount decimal.Decimal) {
		c.Set(id, amount)
	})
	return c
}

// Equal reports whether both allocations hold the same portfolios with numerically
// equal amounts. Order is ignored.
func (a *Allocation) Equal(other *Allocation) bool {
	if a.Len() != other.Len() {
		return false
	}
	equal := true
	a.Each(func(id uuid.UUID, amount decimal.Decimal) {
		if !other.Has(id) || !other.Get(id).Equal(amount) {
			equal = false
		}
	})
	return equal
}

// Formatted renders every amount with a fixed number of decimal places, rounding half up.
// This is a presentation helper; nothing in the allocation math rounds.
func (a *Allocation) Formatted(places int32) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, a.Len())
	a.Each(func(id uuid.UUID, amount decimal.Decimal) {
		out[id] = amount.StringFixed(places)
	})
	return out
}
