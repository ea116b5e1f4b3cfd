package plan

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/depositflow-backend/internal/domain"
	"github.com/simaogato/depositflow-backend/internal/usecase/allocator"
)

// DefaultMonthlyPriority runs monthly plans after one-time ones
const DefaultMonthlyPriority = 2

// MonthlyPlan splits every deposit over fixed relative weights. It has no upper bound
// and never fills.
type MonthlyPlan struct {
	id         uuid.UUID
	customerID uuid.UUID
	priority   int
	weights    *domain.Allocation
}

// NewMonthlyPlan creates a monthly plan with the default priority
func NewMonthlyPlan(customerID uuid.UUID, weights *domain.Allocation) (*MonthlyPlan, error) {
	return RestoreMonthlyPlan(uuid.New(), customerID, DefaultMonthlyPriority, weights)
}

// RestoreMonthlyPlan rebuilds a plan from persisted state
func RestoreMonthlyPlan(id, customerID uuid.UUID, priority int, weights *domain.Allocation) (*MonthlyPlan, error) {
	if err := domain.ValidateTargets(weights); err != nil {
		return nil, err
	}
	if !weights.Total().IsPositive() {
		return nil, errors.New("monthly plan weights must not all be zero")
	}

	return &MonthlyPlan{
		id:         id,
		customerID: customerID,
		priority:   priority,
		weights:    weights.Clone(),
	}, nil
}

func (p *MonthlyPlan) ID() uuid.UUID               { return p.id }
func (p *MonthlyPlan) CustomerID() uuid.UUID       { return p.customerID }
func (p *MonthlyPlan) Kind() domain.PlanKind       { return domain.PlanKindMonthly }
func (p *MonthlyPlan) Priority() int               { return p.priority }
func (p *MonthlyPlan) Targets() *domain.Allocation { return p.weights.Clone() }
func (p *MonthlyPlan) IsFilled() bool              { return false }

// ApplyDeposit splits the whole deposit over the plan's weights and always consumes it
func (p *MonthlyPlan) ApplyDeposit(amount decimal.Decimal, current *domain.Allocation) (*domain.Allocation, decimal.Decimal) {
	contributions := allocator.Distribute(amount, p.weights)
	return allocator.Merge(current, contributions), decimal.Zero
}
