// Package memory provides keyed in-memory repositories. Stored plans are the live
// instances, so fill state mutated by an allocation is visible without a Save.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/depositflow-backend/internal/domain"
)

// customerRepository implements domain.CustomerRepository
type customerRepository struct {
	mu          sync.RWMutex
	byID        map[uuid.UUID]*domain.Customer
	byReference map[string]*domain.Customer
}

// NewCustomerRepository creates an empty customer repository
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepository{
		byID:        make(map[uuid.UUID]*domain.Customer),
		byReference: make(map[string]*domain.Customer),
	}
}

func (r *customerRepository) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[customer.ID]; ok {
		return fmt.Errorf("customer %s already exists", customer.ID)
	}
	if _, ok := r.byReference[customer.ReferenceCode]; ok {
		return fmt.Errorf("reference code %s already in use", customer.ReferenceCode)
	}

	c := *customer
	r.byID[c.ID] = &c
	r.byReference[c.ReferenceCode] = &c
	return nil
}

func (r *customerRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("customer not found: %w", domain.ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (r *customerRepository) GetByReferenceCode(_ context.Context, code string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byReference[code]
	if !ok {
		return nil, fmt.Errorf("customer not found: %w", domain.ErrNotFound)
	}
	out := *c
	return &out, nil
}

// portfolioRepository implements domain.PortfolioRepository
type portfolioRepository struct {
	mu         sync.RWMutex
	portfolios []*domain.Portfolio
}

// NewPortfolioRepository creates an empty portfolio repository
func NewPortfolioRepository() domain.PortfolioRepository {
	return &portfolioRepository{}
}

func (r *portfolioRepository) Create(_ context.Context, portfolio *domain.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.portfolios {
		if p.ID == portfolio.ID {
			return fmt.Errorf("portfolio %s already exists", portfolio.ID)
		}
	}
	p := *portfolio
	r.portfolios = append(r.portfolios, &p)
	return nil
}

func (r *portfolioRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.portfolios {
		if p.ID == id {
			out := *p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("portfolio not found: %w", domain.ErrNotFound)
}

func (r *portfolioRepository) ListByCustomerID(_ context.Context, customerID uuid.UUID) ([]*domain.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Portfolio
	for _, p := range r.portfolios {
		if p.CustomerID == customerID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

// depositPlanRepository implements domain.DepositPlanRepository
type depositPlanRepository struct {
	mu    sync.RWMutex
	plans []domain.DepositPlan
}

// NewDepositPlanRepository creates an empty deposit plan repository
func NewDepositPlanRepository() domain.DepositPlanRepository {
	return &depositPlanRepository{}
}

// Save stores the plan, replacing any plan with the same ID
func (r *depositPlanRepository) Save(_ context.Context, plan domain.DepositPlan) error {
	if !plan.Kind().Valid() {
		return fmt.Errorf("unknown deposit plan kind %q", plan.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.plans {
		if p.ID() == plan.ID() {
			r.plans[i] = plan
			return nil
		}
	}
	r.plans = append(r.plans, plan)
	return nil
}

// ListByCustomerID returns the customer's plans in the order they were first saved
func (r *depositPlanRepository) ListByCustomerID(_ context.Context, customerID uuid.UUID) ([]domain.DepositPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.DepositPlan
	for _, p := range r.plans {
		if p.CustomerID() == customerID {
			out = append(out, p)
		}
	}
	return out, nil
}
