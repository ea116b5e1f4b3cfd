package funding

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/depositflow-backend/internal/domain"
)

// Result is the outcome of an allocation run.
// Exactly one of Allocations (success) or Reason (failure) is populated.
type Result struct {
	// CustomerID is the customer the batch resolved to, set on success
	CustomerID  uuid.UUID
	Allocations *domain.Allocation
	Reason      domain.FailureReason

	// Unallocated is what the leftover pass could not place because the running
	// allocation carried no weight. Zero on every normal run.
	Unallocated decimal.Decimal
}

// Success reports whether the run produced allocations
func (r Result) Success() bool {
	return r.Reason == ""
}

// Err returns the failure reason as an error, nil on success
func (r Result) Err() error {
	if r.Success() {
		return nil
	}
	return r.Reason
}

func succeeded(customerID uuid.UUID, allocations *domain.Allocation, unallocated decimal.Decimal) Result {
	return Result{CustomerID: customerID, Allocations: allocations, Unallocated: unallocated}
}

func failed(reason domain.FailureReason) Result {
	return Result{Reason: reason, Unallocated: decimal.Zero}
}
