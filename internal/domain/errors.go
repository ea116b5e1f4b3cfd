package domain

import "errors"

// ErrNotFound is returned by repositories when the requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrInvalidDeposit marks a deposit the caller must correct before resubmitting
var ErrInvalidDeposit = errors.New("invalid deposit")

// FailureReason explains why an allocation could not proceed.
// It is a caller-supplied inconsistency, never a transient condition.
type FailureReason string

const (
	FailureNoDeposits           FailureReason = "NoDeposits"
	FailureNoPlans              FailureReason = "NoPlans"
	FailureTooManyPlans         FailureReason = "TooManyPlans"
	FailureDuplicatePlanKind    FailureReason = "DuplicatePlanKind"
	FailureUnresolvedReference  FailureReason = "UnresolvedReference"
	FailureMixedReferences      FailureReason = "MixedReferences"
	FailurePlanCustomerMismatch FailureReason = "PlanCustomerMismatch"
)

var failureMessages = map[FailureReason]string{
	FailureNoDeposits:           "No deposits provided for allocation.",
	FailureNoPlans:              "No deposit plans found for customer.",
	FailureTooManyPlans:         "A customer can have at most one one-time and one monthly deposit plan.",
	FailureDuplicatePlanKind:    "A customer can have only one deposit plan of each kind.",
	FailureUnresolvedReference:  "No valid reference code found in deposits. Nothing will be allocated",
	FailureMixedReferences:      "Please ensure all deposits have the same reference code.",
	FailurePlanCustomerMismatch: "Deposit plans do not match the customer's reference code.",
}

// Message returns the human readable description
func (r FailureReason) Message() string {
	if msg, ok := failureMessages[r]; ok {
		return msg
	}
	return string(r)
}

func (r FailureReason) Error() string {
	return string(r) + ": " + r.Message()
}
