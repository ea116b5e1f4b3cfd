package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/depositflow-backend/internal/domain"
)

// portfolioRepository implements domain.PortfolioRepository
type portfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *DB) domain.PortfolioRepository {
	return &portfolioRepository{db: db}
}

// Create creates a new portfolio
func (r *portfolioRepository) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (id, customer_id, name)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, portfolio.ID, portfolio.CustomerID, portfolio.Name)
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	return nil
}

// GetByID retrieves a portfolio by its ID
func (r *portfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	query := `
		SELECT id, customer_id, name
		FROM portfolios
		WHERE id = $1
	`

	var portfolio domain.Portfolio
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&portfolio.ID,
		&portfolio.CustomerID,
		&portfolio.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("portfolio not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get portfolio by ID: %w", err)
	}

	return &portfolio, nil
}

// ListByCustomerID retrieves all portfolios of a customer
func (r *portfolioRepository) ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Portfolio, error) {
	query := `
		SELECT id, customer_id, name
		FROM portfolios
		WHERE customer_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []*domain.Portfolio
	for rows.Next() {
		var portfolio domain.Portfolio
		if err := rows.Scan(&portfolio.ID, &portfolio.CustomerID, &portfolio.Name); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, &portfolio)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}

	return portfolios, nil
}
