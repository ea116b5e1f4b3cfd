package plan

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/depositflow-backend/internal/domain"
)

func TestMonthlyPlan_SplitsWholeDeposit(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	p, err := NewMonthlyPlan(uuid.New(), alloc(p1, "25", p2, "75"))
	require.NoError(t, err)

	updated, remaining := p.ApplyDeposit(dec("1000"), alloc(p1, "10"))

	assert.True(t, updated.Get(p1).Equal(dec("260")))
	assert.True(t, updated.Get(p2).Equal(dec("750")))
	assert.True(t, remaining.IsZero())
}

func TestMonthlyPlan_NeverFills(t *testing.T) {
	p1 := uuid.New()
	p, err := NewMonthlyPlan(uuid.New(), alloc(p1, "1"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, remaining := p.ApplyDeposit(dec("1000000"), domain.NewAllocation())
		assert.True(t, remaining.IsZero())
		assert.False(t, p.IsFilled())
	}

	// Weights are never depleted
	assert.True(t, p.Targets().Get(p1).Equal(dec("1")))
}

func TestMonthlyPlan_ZeroWeightPortfolioGetsNothing(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	p, err := NewMonthlyPlan(uuid.New(), alloc(p1, "0", p2, "100"))
	require.NoError(t, err)

	updated, _ := p.ApplyDeposit(dec("100"), domain.NewAllocation())

	assert.True(t, updated.Get(p1).IsZero())
	assert.True(t, updated.Get(p2).Equal(dec("100")))
}

func TestMonthlyPlan_Basics(t *testing.T) {
	customerID := uuid.New()
	p, err := NewMonthlyPlan(customerID, alloc(uuid.New(), "1"))
	require.NoError(t, err)

	assert.Equal(t, customerID, p.CustomerID())
	assert.Equal(t, domain.PlanKindMonthly, p.Kind())
	assert.Equal(t, DefaultMonthlyPriority, p.Priority())
	assert.Greater(t, p.Priority(), DefaultOneTimePriority)
}

func TestMonthlyPlan_RejectsInvalidWeights(t *testing.T) {
	_, err := NewMonthlyPlan(uuid.New(), domain.NewAllocation())
	assert.Error(t, err)

	_, err = NewMonthlyPlan(uuid.New(), alloc(uuid.New(), "0", uuid.New(), "0"))
	assert.Error(t, err)

	_, err = RestoreMonthlyPlan(uuid.New(), uuid.New(), 2, alloc(uuid.New(), "-5"))
	assert.Error(t, err)
}
