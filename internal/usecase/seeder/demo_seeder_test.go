package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/depositflow-backend/internal/adapter/repository/memory"
	"github.com/simaogato/depositflow-backend/internal/domain"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByReferenceCode(ctx context.Context, code string) (*domain.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func TestDemoSeeder_Seed_CreatesCustomerPortfoliosAndPlans(t *testing.T) {
	ctx := context.Background()
	customers := memory.NewCustomerRepository()
	portfolios := memory.NewPortfolioRepository()
	plans := memory.NewDepositPlanRepository()

	require.NoError(t, NewDemoSeeder(customers, portfolios, plans).Seed(ctx))

	customer, err := customers.GetByReferenceCode(ctx, DEMO_REFERENCE_CODE)
	require.NoError(t, err)
	assert.Equal(t, DEMO_CUSTOMER, customer.ID)

	list, err := portfolios.ListByCustomerID(ctx, DEMO_CUSTOMER)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	stored, err := plans.ListByCustomerID(ctx, DEMO_CUSTOMER)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, domain.PlanKindOneTime, stored[0].Kind())
	assert.Equal(t, domain.PlanKindMonthly, stored[1].Kind())
	assert.True(t, stored[0].Targets().Total().Equal(demoOneTimeHighRisk.Add(demoOneTimeRetirement)))
	assert.False(t, stored[0].IsFilled())
}

func TestDemoSeeder_Seed_Idempotent(t *testing.T) {
	ctx := context.Background()
	customers := memory.NewCustomerRepository()
	portfolios := memory.NewPortfolioRepository()
	plans := memory.NewDepositPlanRepository()
	s := NewDemoSeeder(customers, portfolios, plans)

	require.NoError(t, s.Seed(ctx))
	require.NoError(t, s.Seed(ctx))

	stored, err := plans.ListByCustomerID(ctx, DEMO_CUSTOMER)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestDemoSeeder_Seed_LookupError(t *testing.T) {
	ctx := context.Background()
	customers := new(MockCustomerRepository)
	customers.On("GetByID", ctx, DEMO_CUSTOMER).Return(nil, errors.New("connection reset"))

	err := NewDemoSeeder(customers, memory.NewPortfolioRepository(), memory.NewDepositPlanRepository()).Seed(ctx)

	assert.EqualError(t, err, "connection reset")
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDemoSeeder_Seed_CreateError(t *testing.T) {
	ctx := context.Background()
	customers := new(MockCustomerRepository)
	customers.On("GetByID", ctx, DEMO_CUSTOMER).Return(nil, domain.ErrNotFound)
	customers.On("Create", ctx, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.ID == DEMO_CUSTOMER && c.ReferenceCode == DEMO_REFERENCE_CODE
	})).Return(errors.New("insert failed"))

	plans := memory.NewDepositPlanRepository()
	err := NewDemoSeeder(customers, memory.NewPortfolioRepository(), plans).Seed(ctx)

	assert.EqualError(t, err, "insert failed")
	stored, _ := plans.ListByCustomerID(ctx, DEMO_CUSTOMER)
	assert.Empty(t, stored)
	customers.AssertExpectations(t)
}
