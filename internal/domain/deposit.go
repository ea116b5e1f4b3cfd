package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Deposit is an incoming cash amount tagged with the customer's reference code
type Deposit struct {
	Amount    decimal.Decimal
	Reference string
}

// NewDeposit creates a deposit
func NewDeposit(amount decimal.Decimal, reference string) Deposit {
	return Deposit{Amount: amount, Reference: reference}
}

// Validate ensures the deposit amount is not negative
func (d Deposit) Validate() error {
	if d.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidDeposit)
	}
	return nil
}

// SumDeposits returns the total amount of a batch
func SumDeposits(deposits []Deposit) decimal.Decimal {
	total := decimal.Zero
	for _, d := range deposits {
		total = total.Add(d.Amount)
	}
	return total
}
