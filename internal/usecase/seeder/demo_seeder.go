package seeder

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/depositflow-backend/internal/domain"
	"github.com/simaogato/depositflow-backend/internal/usecase/plan"
)

// Fixed IDs for the demo customer so repeated seeding is idempotent
var (
	DEMO_CUSTOMER         = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	DEMO_HIGH_RISK        = uuid.MustParse("00000000-0000-0000-0000-000000000201")
	DEMO_RETIREMENT       = uuid.MustParse("00000000-0000-0000-0000-000000000202")
	DEMO_ONE_TIME_PLAN    = uuid.MustParse("00000000-0000-0000-0000-000000000301")
	DEMO_MONTHLY_PLAN     = uuid.MustParse("00000000-0000-0000-0000-000000000302")
	DEMO_REFERENCE_CODE   = "DEMO-0001"
	demoCustomerName      = "Wei Jian"
	demoHighRiskName      = "High Risk"
	demoRetirementName    = "Retirement"
	demoOneTimeHighRisk   = decimal.NewFromInt(10000)
	demoOneTimeRetirement = decimal.NewFromInt(500)
	demoMonthlyHighRisk   = decimal.Zero
	demoMonthlyRetirement = decimal.NewFromInt(100)
)

// DemoSeeder creates a demo customer with two portfolios and both plan kinds
type DemoSeeder struct {
	customers  domain.CustomerRepository
	portfolios domain.PortfolioRepository
	plans      domain.DepositPlanRepository
}

// NewDemoSeeder creates a new DemoSeeder instance
func NewDemoSeeder(
	customers domain.CustomerRepository,
	portfolios domain.PortfolioRepository,
	plans domain.DepositPlanRepository,
) *DemoSeeder {
	return &DemoSeeder{
		customers:  customers,
		portfolios: portfolios,
		plans:      plans,
	}
}

// Seed ensures the demo customer exists
// If the customer is already there, nothing is touched (plan fill state survives restarts)
func (s *DemoSeeder) Seed(ctx context.Context) error {
	_, err := s.customers.GetByID(ctx, DEMO_CUSTOMER)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	customer := &domain.Customer{
		ID:            DEMO_CUSTOMER,
		Name:          demoCustomerName,
		ReferenceCode: DEMO_REFERENCE_CODE,
	}
	if err := customer.Validate(); err != nil {
		return err
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return err
	}

	for _, p := range []*domain.Portfolio{
		{ID: DEMO_HIGH_RISK, CustomerID: DEMO_CUSTOMER, Name: demoHighRiskName},
		{ID: DEMO_RETIREMENT, CustomerID: DEMO_CUSTOMER, Name: demoRetirementName},
	} {
		if err := p.Validate(); err != nil {
			return err
		}
		if err := s.portfolios.Create(ctx, p); err != nil {
			return err
		}
	}

	oneTime, err := plan.RestoreOneTimePlan(
		DEMO_ONE_TIME_PLAN,
		DEMO_CUSTOMER,
		plan.DefaultOneTimePriority,
		domain.NewAllocationFrom(
			domain.AllocationEntry{PortfolioID: DEMO_HIGH_RISK, Amount: demoOneTimeHighRisk},
			domain.AllocationEntry{PortfolioID: DEMO_RETIREMENT, Amount: demoOneTimeRetirement},
		),
		nil,
	)
	if err != nil {
		return err
	}

	monthly, err := plan.RestoreMonthlyPlan(
		DEMO_MONTHLY_PLAN,
		DEMO_CUSTOMER,
		plan.DefaultMonthlyPriority,
		domain.NewAllocationFrom(
			domain.AllocationEntry{PortfolioID: DEMO_HIGH_RISK, Amount: demoMonthlyHighRisk},
			domain.AllocationEntry{PortfolioID: DEMO_RETIREMENT, Amount: demoMonthlyRetirement},
		),
	)
	if err != nil {
		return err
	}

	if err := s.plans.Save(ctx, oneTime); err != nil {
		return err
	}
	return s.plans.Save(ctx, monthly)
}
