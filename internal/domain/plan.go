package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanKind identifies a deposit plan variant
type PlanKind string

const (
	PlanKindOneTime PlanKind = "ONE_TIME"
	PlanKindMonthly PlanKind = "MONTHLY"
)

// MaxPlansPerCustomer is the number of plans a customer may run at once:
// at most one of each kind.
const MaxPlansPerCustomer = 2

// Valid reports whether the kind is a known variant
func (k PlanKind) Valid() bool {
	return k == PlanKindOneTime || k == PlanKindMonthly
}

// DepositPlan is a standing instruction for splitting deposited funds across portfolios
type DepositPlan interface {
	ID() uuid.UUID
	CustomerID() uuid.UUID
	Kind() PlanKind
	// Priority orders plans against incoming funds. Lower runs first.
	Priority() int
	// Targets returns a copy of the plan's portfolio weights
	Targets() *Allocation
	// ApplyDeposit consumes up to amount against the plan's targets and returns
	// current with the plan's contributions added, plus whatever was not consumed.
	ApplyDeposit(amount decimal.Decimal, current *Allocation) (*Allocation, decimal.Decimal)
	IsFilled() bool
}

// ValidateTargets checks plan weights: at least one portfolio and no negative weight
func ValidateTargets(targets *Allocation) error {
	if targets.Len() == 0 {
		return errors.New("deposit plan must have at least one portfolio")
	}

	var err error
	targets.Each(func(_ uuid.UUID, amount decimal.Decimal) {
		if amount.IsNegative() {
			err = errors.New("deposit plan weights must not be negative")
		}
	})
	return err
}
