package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/depositflow-backend/internal/domain"
)

// customerRepository implements domain.CustomerRepository
type customerRepository struct {
	db *DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *DB) domain.CustomerRepository {
	return &customerRepository{db: db}
}

// Create creates a new customer
func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, name, reference_code)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, customer.ID, customer.Name, customer.ReferenceCode)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by its ID
func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, name, reference_code
		FROM customers
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByReferenceCode retrieves the customer owning a reference code
func (r *customerRepository) GetByReferenceCode(ctx context.Context, code string) (*domain.Customer, error) {
	query := `
		SELECT id, name, reference_code
		FROM customers
		WHERE reference_code = $1
	`
	return r.getOne(ctx, query, code)
}

func (r *customerRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&customer.ID,
		&customer.Name,
		&customer.ReferenceCode,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &customer, nil
}
