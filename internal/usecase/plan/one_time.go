package plan

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/depositflow-backend/internal/domain"
	"github.com/simaogato/depositflow-backend/internal/usecase/allocator"
)

// DefaultOneTimePriority runs one-time plans ahead of monthly ones
const DefaultOneTimePriority = 1

// OneTimePlan fills fixed target amounts per portfolio and then stops taking funds.
// It is Open until every target is met, then Filled for good.
//
// The applied amounts are mutated by ApplyDeposit and are not guarded:
// callers must not apply deposits to the same plan concurrently.
type OneTimePlan struct {
	id         uuid.UUID
	customerID uuid.UUID
	priority   int
	targets    *domain.Allocation
	applied    *domain.Allocation
}

// NewOneTimePlan creates an open one-time plan with the default priority
func NewOneTimePlan(customerID uuid.UUID, targets *domain.Allocation) (*OneTimePlan, error) {
	return RestoreOneTimePlan(uuid.New(), customerID, DefaultOneTimePriority, targets, nil)
}

// RestoreOneTimePlan rebuilds a plan from persisted state
func RestoreOneTimePlan(
	id uuid.UUID,
	customerID uuid.UUID,
	priority int,
	targets *domain.Allocation,
	applied *domain.Allocation,
) (*OneTimePlan, error) {
	if err := domain.ValidateTargets(targets); err != nil {
		return nil, err
	}

	appliedCopy := domain.NewAllocation()
	var err error
	applied.Each(func(portfolioID uuid.UUID, amount decimal.Decimal) {
		switch {
		case !targets.Has(portfolioID):
			err = errors.New("applied amount references a portfolio outside the plan targets")
		case amount.IsNegative() || amount.GreaterThan(targets.Get(portfolioID)):
			err = errors.New("applied amount must be between zero and the portfolio target")
		}
		appliedCopy.Set(portfolioID, amount)
	})
	if err != nil {
		return nil, err
	}

	return &OneTimePlan{
		id:         id,
		customerID: customerID,
		priority:   priority,
		targets:    targets.Clone(),
		applied:    appliedCopy,
	}, nil
}

func (p *OneTimePlan) ID() uuid.UUID               { return p.id }
func (p *OneTimePlan) CustomerID() uuid.UUID       { return p.customerID }
func (p *OneTimePlan) Kind() domain.PlanKind       { return domain.PlanKindOneTime }
func (p *OneTimePlan) Priority() int               { return p.priority }
func (p *OneTimePlan) Targets() *domain.Allocation { return p.targets.Clone() }

// Applied returns a copy of the amounts consumed so far
func (p *OneTimePlan) Applied() *domain.Allocation {
	return p.applied.Clone()
}

// RemainingTarget is the total still needed to fill the plan
func (p *OneTimePlan) RemainingTarget() decimal.Decimal {
	return p.targets.Total().Sub(p.applied.Total())
}

// IsFilled reports whether every portfolio has reached its target
func (p *OneTimePlan) IsFilled() bool {
	filled := true
	p.targets.Each(func(portfolioID uuid.UUID, target decimal.Decimal) {
		if p.applied.Get(portfolioID).LessThan(target) {
			filled = false
		}
	})
	return filled
}

// ApplyDeposit consumes the deposit against the outstanding targets
// Logic:
//  1. A filled plan consumes nothing
//  2. If the deposit covers the remaining target, top up every portfolio exactly to
//     its target and hand back the surplus
//  3. Otherwise split the whole deposit over the outstanding amounts per portfolio;
//     the plan stays open and nothing is handed back
func (p *OneTimePlan) ApplyDeposit(amount decimal.Decimal, current *domain.Allocation) (*domain.Allocation, decimal.Decimal) {
	if p.IsFilled() {
		return current, amount
	}

	remainingTarget := p.RemainingTarget()

	var contributions *domain.Allocation
	remaining := decimal.Zero
	if amount.GreaterThanOrEqual(remainingTarget) {
		// Exact top-up, so rounding can never leave the plan a fraction short of filled.
		// Every target portfolio is reported, including those already at target.
		contributions = p.residuals()
		remaining = amount.Sub(remainingTarget)
	} else {
		contributions = allocator.Distribute(amount, p.outstanding())
	}

	p.applied = allocator.Merge(p.applied, contributions)

	return allocator.Merge(current, contributions), remaining
}

// residuals returns target minus applied for every target portfolio, in target order
func (p *OneTimePlan) residuals() *domain.Allocation {
	residuals := domain.NewAllocation()
	p.targets.Each(func(portfolioID uuid.UUID, target decimal.Decimal) {
		residuals.Set(portfolioID, target.Sub(p.applied.Get(portfolioID)))
	})
	return residuals
}

// outstanding is residuals restricted to portfolios still short of target.
// Only these take a share of a partial deposit.
func (p *OneTimePlan) outstanding() *domain.Allocation {
	outstanding := domain.NewAllocation()
	p.residuals().Each(func(portfolioID uuid.UUID, residual decimal.Decimal) {
		if residual.IsPositive() {
			outstanding.Set(portfolioID, residual)
		}
	})
	return outstanding
}
