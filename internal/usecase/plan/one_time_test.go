package plan

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/depositflow-backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func alloc(pairs ...interface{}) *domain.Allocation {
	a := domain.NewAllocation()
	for i := 0; i < len(pairs); i += 2 {
		a.Set(pairs[i].(uuid.UUID), dec(pairs[i+1].(string)))
	}
	return a
}

func newOneTime(t *testing.T, targets *domain.Allocation) *OneTimePlan {
	t.Helper()
	p, err := NewOneTimePlan(uuid.New(), targets)
	require.NoError(t, err)
	return p
}

func TestOneTimePlan_Basics(t *testing.T) {
	customerID := uuid.New()
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()

	p, err := NewOneTimePlan(customerID, alloc(p1, "150", p2, "250", p3, "100"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID())
	assert.Equal(t, customerID, p.CustomerID())
	assert.Equal(t, domain.PlanKindOneTime, p.Kind())
	assert.Equal(t, DefaultOneTimePriority, p.Priority())
	assert.True(t, p.RemainingTarget().Equal(dec("500")))
	assert.False(t, p.IsFilled())
	assert.Equal(t, 0, p.Applied().Len())
}

func TestOneTimePlan_RejectsInvalidTargets(t *testing.T) {
	_, err := NewOneTimePlan(uuid.New(), domain.NewAllocation())
	assert.Error(t, err)

	_, err = NewOneTimePlan(uuid.New(), alloc(uuid.New(), "-1"))
	assert.Error(t, err)
}

func TestOneTimePlan_DepositExceedsTarget(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	p := newOneTime(t, alloc(p1, "100", p2, "200"))

	current := alloc(p1, "25", p2, "50")
	updated, remaining := p.ApplyDeposit(dec("400"), current)

	assert.True(t, updated.Get(p1).Equal(dec("125")))
	assert.True(t, updated.Get(p2).Equal(dec("250")))
	assert.True(t, remaining.Equal(dec("100")))
	assert.True(t, p.IsFilled())

	// The caller's allocation is left alone
	assert.True(t, current.Get(p1).Equal(dec("25")))
}

func TestOneTimePlan_DepositExceedsTarget_Fractions(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	p := newOneTime(t, alloc(p1, "99.33", p2, "200.67"))

	updated, remaining := p.ApplyDeposit(dec("500"), domain.NewAllocation())

	assert.True(t, updated.Get(p1).Equal(dec("99.33")))
	assert.True(t, updated.Get(p2).Equal(dec("200.67")))
	assert.True(t, remaining.Equal(dec("200")))
	assert.True(t, p.IsFilled())
}

func TestOneTimePlan_DepositEqualsTarget(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	p := newOneTime(t, alloc(p1, "100", p2, "200"))

	updated, remaining := p.ApplyDeposit(dec("300"), alloc(p1, "25", p2, "50"))

	assert.True(t, updated.Get(p1).Equal(dec("125")))
	assert.True(t, updated.Get(p2).Equal(dec("250")))
	assert.True(t, remaining.IsZero())
	assert.True(t, p.IsFilled())
}

func TestOneTimePlan_InsufficientDepositFillsProportionally(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	p := newOneTime(t, alloc(a, "100", b, "300"))

	updated, remaining := p.ApplyDeposit(dec("200"), domain.NewAllocation())

	assert.True(t, updated.Get(a).Equal(dec("50")))
	assert.True(t, updated.Get(b).Equal(dec("150")))
	assert.True(t, remaining.IsZero())
	assert.False(t, p.IsFilled())
	assert.True(t, p.RemainingTarget().Equal(dec("200")))
}

func TestOneTimePlan_PartialFillsConvergeToExactTargets(t *testing.T) {
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	targets := alloc(p1, "100", p2, "100", p3, "100.01")
	p := newOneTime(t, targets)

	// Thirds of odd amounts leave non-terminating shares behind
	for _, d := range []string{"10", "33.33", "0.01", "77"} {
		_, remaining := p.ApplyDeposit(dec(d), domain.NewAllocation())
		assert.True(t, remaining.IsZero())
		assert.False(t, p.IsFilled())
	}

	_, remaining := p.ApplyDeposit(dec("1000"), domain.NewAllocation())

	assert.True(t, p.IsFilled())
	assert.True(t, remaining.Equal(dec("1000").Sub(dec("300.01").Sub(dec("120.34")))))
	assert.True(t, p.Applied().Equal(targets))
}

func TestOneTimePlan_FillIsMonotonicAndBounded(t *testing.T) {
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	targets := alloc(p1, "500", p2, "0.07", p3, "1234.56")
	p := newOneTime(t, targets)

	previous := p.Applied()
	for _, d := range []string{"0.01", "3", "100.10", "0.99", "500", "1", "2000", "50"} {
		p.ApplyDeposit(dec(d), domain.NewAllocation())
		applied := p.Applied()

		targets.Each(func(id uuid.UUID, target decimal.Decimal) {
			assert.True(t, applied.Get(id).GreaterThanOrEqual(previous.Get(id)), "applied amount decreased")
			assert.True(t, applied.Get(id).LessThanOrEqual(target), "applied amount exceeds target")
		})
		previous = applied
	}

	assert.True(t, p.IsFilled())
}

func TestOneTimePlan_FilledPlanIsNoOp(t *testing.T) {
	p1 := uuid.New()
	p := newOneTime(t, alloc(p1, "100"))
	p.ApplyDeposit(dec("100"), domain.NewAllocation())
	require.True(t, p.IsFilled())

	current := alloc(p1, "7")
	updated, remaining := p.ApplyDeposit(dec("50"), current)

	assert.Same(t, current, updated)
	assert.True(t, updated.Get(p1).Equal(dec("7")))
	assert.True(t, remaining.Equal(dec("50")))
	assert.True(t, p.Applied().Get(p1).Equal(dec("100")))
}

func TestOneTimePlan_SkipsPortfoliosAlreadyAtTarget(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	p, err := RestoreOneTimePlan(uuid.New(), uuid.New(), 1,
		alloc(p1, "100", p2, "100"),
		alloc(p1, "100", p2, "40"),
	)
	require.NoError(t, err)

	updated, remaining := p.ApplyDeposit(dec("30"), domain.NewAllocation())

	assert.True(t, remaining.IsZero())
	assert.False(t, updated.Has(p1))
	assert.True(t, updated.Get(p2).Equal(dec("30")))
	assert.True(t, p.Applied().Get(p2).Equal(dec("70")))
}

func TestOneTimePlan_ExactFillReportsEveryTargetPortfolio(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	p := newOneTime(t, alloc(p1, "0", p2, "500"))

	updated, remaining := p.ApplyDeposit(dec("500"), domain.NewAllocation())

	assert.True(t, remaining.IsZero())
	assert.True(t, p.IsFilled())
	require.Equal(t, []uuid.UUID{p1, p2}, updated.Keys())
	assert.True(t, updated.Get(p1).IsZero())
	assert.True(t, updated.Get(p2).Equal(dec("500")))
}

func TestOneTimePlan_ExactFillIncludesPortfoliosAlreadyAtTarget(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	p, err := RestoreOneTimePlan(uuid.New(), uuid.New(), 1,
		alloc(p1, "100", p2, "100"),
		alloc(p1, "100", p2, "40"),
	)
	require.NoError(t, err)

	updated, remaining := p.ApplyDeposit(dec("75"), domain.NewAllocation())

	assert.True(t, remaining.Equal(dec("15")))
	require.True(t, updated.Has(p1))
	assert.True(t, updated.Get(p1).IsZero())
	assert.True(t, updated.Get(p2).Equal(dec("60")))
	assert.True(t, p.Applied().Get(p1).Equal(dec("100")))
	assert.True(t, p.IsFilled())
}

func TestRestoreOneTimePlan_ValidatesAppliedState(t *testing.T) {
	p1 := uuid.New()
	targets := alloc(p1, "100")

	_, err := RestoreOneTimePlan(uuid.New(), uuid.New(), 1, targets, alloc(p1, "100.01"))
	assert.Error(t, err)

	_, err = RestoreOneTimePlan(uuid.New(), uuid.New(), 1, targets, alloc(uuid.New(), "1"))
	assert.Error(t, err)

	p, err := RestoreOneTimePlan(uuid.New(), uuid.New(), 5, targets, alloc(p1, "100"))
	require.NoError(t, err)
	assert.True(t, p.IsFilled())
	assert.Equal(t, 5, p.Priority())
}

func TestOneTimePlan_TargetsAreCopies(t *testing.T) {
	p1 := uuid.New()
	targets := alloc(p1, "100")
	p := newOneTime(t, targets)

	targets.Set(p1, dec("1"))
	p.Targets().Set(p1, dec("2"))

	assert.True(t, p.Targets().Get(p1).Equal(dec("100")))
}
