package domain

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence operations
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *Customer) error

	// GetByID retrieves a customer by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// GetByReferenceCode retrieves the customer owning a deposit reference code.
	// Returns ErrNotFound when no customer matches.
	GetByReferenceCode(ctx context.Context, code string) (*Customer, error)
}

// PortfolioRepository defines the interface for portfolio persistence operations
type PortfolioRepository interface {
	// Create creates a new portfolio
	Create(ctx context.Context, portfolio *Portfolio) error

	// GetByID retrieves a portfolio by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Portfolio, error)

	// ListByCustomerID retrieves all portfolios of a customer
	ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*Portfolio, error)
}

// DepositPlanRepository defines the interface for deposit plan persistence operations
type DepositPlanRepository interface {
	// Save creates the plan or updates its fill state
	Save(ctx context.Context, plan DepositPlan) error

	// ListByCustomerID retrieves all plans of a customer
	ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]DepositPlan, error)
}
