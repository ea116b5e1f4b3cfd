package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Customer owns portfolios and deposit plans. Deposits are matched to a customer
// through its reference code.
type Customer struct {
	ID            uuid.UUID
	Name          string
	ReferenceCode string
}

// NewCustomer creates a customer with a fresh ID and reference code
func NewCustomer(name string) *Customer {
	return &Customer{
		ID:            uuid.New(),
		Name:          name,
		ReferenceCode: uuid.NewString(),
	}
}

// Validate ensures the customer adheres to domain rules
func (c *Customer) Validate() error {
	if c.Name == "" {
		return errors.New("customer name cannot be empty")
	}
	if c.ReferenceCode == "" {
		return errors.New("customer reference code cannot be empty")
	}
	return nil
}

// Portfolio is an investment portfolio that receives allocated funds
type Portfolio struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Name       string
}

// NewPortfolio creates a portfolio with a fresh ID
func NewPortfolio(customerID uuid.UUID, name string) *Portfolio {
	return &Portfolio{
		ID:         uuid.New(),
		CustomerID: customerID,
		Name:       name,
	}
}

// Validate ensures the portfolio adheres to domain rules
func (p *Portfolio) Validate() error {
	if p.Name == "" {
		return errors.New("portfolio name cannot be empty")
	}
	if p.CustomerID == uuid.Nil {
		return errors.New("portfolio must reference a customer")
	}
	return nil
}
