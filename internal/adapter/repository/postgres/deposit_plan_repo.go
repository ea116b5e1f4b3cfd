package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/depositflow-backend/internal/domain"
	"github.com/simaogato/depositflow-backend/internal/usecase/plan"
)

// fillStater is implemented by plans that track how much of their targets is consumed
type fillStater interface {
	Applied() *domain.Allocation
}

// depositPlanRepository implements domain.DepositPlanRepository
type depositPlanRepository struct {
	db *DB
}

// NewDepositPlanRepository creates a new deposit plan repository
func NewDepositPlanRepository(db *DB) domain.DepositPlanRepository {
	return &depositPlanRepository{db: db}
}

// Save upserts the plan and its per-portfolio targets and applied amounts in one database transaction
func (r *depositPlanRepository) Save(ctx context.Context, p domain.DepositPlan) error {
	if !p.Kind().Valid() {
		return fmt.Errorf("unknown deposit plan kind %q", p.Kind())
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	upsertPlanQuery := `
		INSERT INTO deposit_plans (id, customer_id, kind, priority)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET priority = EXCLUDED.priority
	`

	_, err = dbTx.ExecContext(ctx, upsertPlanQuery,
		p.ID(),
		p.CustomerID(),
		string(p.Kind()),
		p.Priority(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert deposit plan: %w", err)
	}

	applied := domain.NewAllocation()
	if fs, ok := p.(fillStater); ok {
		applied = fs.Applied()
	}

	upsertTargetQuery := `
		INSERT INTO deposit_plan_targets (plan_id, portfolio_id, position, target, applied)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (plan_id, portfolio_id) DO UPDATE SET applied = EXCLUDED.applied
	`

	for position, entry := range p.Targets().Entries() {
		_, err = dbTx.ExecContext(ctx, upsertTargetQuery,
			p.ID(),
			entry.PortfolioID,
			position,
			entry.Amount.String(),
			applied.Get(entry.PortfolioID).String(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert deposit plan target: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type planRow struct {
	id         uuid.UUID
	customerID uuid.UUID
	kind       domain.PlanKind
	priority   int
}

// ListByCustomerID retrieves all plans of a customer, ordered by priority
func (r *depositPlanRepository) ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]domain.DepositPlan, error) {
	planQuery := `
		SELECT id, customer_id, kind, priority
		FROM deposit_plans
		WHERE customer_id = $1
		ORDER BY priority ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, planQuery, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposit plans: %w", err)
	}

	var planRows []planRow
	for rows.Next() {
		var row planRow
		if err := rows.Scan(&row.id, &row.customerID, &row.kind, &row.priority); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan deposit plan: %w", err)
		}
		planRows = append(planRows, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating deposit plans: %w", err)
	}
	rows.Close()

	plans := make([]domain.DepositPlan, 0, len(planRows))
	for _, row := range planRows {
		targets, applied, err := r.loadTargets(ctx, row.id)
		if err != nil {
			return nil, err
		}

		p, err := restorePlan(row, targets, applied)
		if err != nil {
			return nil, fmt.Errorf("failed to restore deposit plan %s: %w", row.id, err)
		}
		plans = append(plans, p)
	}

	return plans, nil
}

// loadTargets reads a plan's targets and applied amounts in their stored order
func (r *depositPlanRepository) loadTargets(ctx context.Context, planID uuid.UUID) (*domain.Allocation, *domain.Allocation, error) {
	query := `
		SELECT portfolio_id, target, applied
		FROM deposit_plan_targets
		WHERE plan_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query deposit plan targets: %w", err)
	}
	defer rows.Close()

	targets := domain.NewAllocation()
	applied := domain.NewAllocation()
	for rows.Next() {
		var portfolioID uuid.UUID
		var targetStr, appliedStr string
		if err := rows.Scan(&portfolioID, &targetStr, &appliedStr); err != nil {
			return nil, nil, fmt.Errorf("failed to scan deposit plan target: %w", err)
		}

		// Parse target and applied (NUMERIC)
		target, err := decimal.NewFromString(targetStr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse target: %w", err)
		}
		appliedAmount, err := decimal.NewFromString(appliedStr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse applied: %w", err)
		}

		targets.Set(portfolioID, target)
		applied.Set(portfolioID, appliedAmount)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating deposit plan targets: %w", err)
	}

	return targets, applied, nil
}

func restorePlan(row planRow, targets, applied *domain.Allocation) (domain.DepositPlan, error) {
	if !row.kind.Valid() {
		return nil, fmt.Errorf("unknown deposit plan kind %q", row.kind)
	}

	if row.kind == domain.PlanKindOneTime {
		return plan.RestoreOneTimePlan(row.id, row.customerID, row.priority, targets, applied)
	}
	return plan.RestoreMonthlyPlan(row.id, row.customerID, row.priority, targets)
}
