package funding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/depositflow-backend/internal/domain"
	"github.com/simaogato/depositflow-backend/internal/usecase/allocator"
)

// FundingService allocates deposit batches across a customer's deposit plans
type FundingService struct {
	CustomerRepo domain.CustomerRepository
	PlanRepo     domain.DepositPlanRepository
	Logger       zerolog.Logger

	locks sync.Map // customer ID -> *sync.Mutex
}

// NewFundingService creates a new FundingService instance
func NewFundingService(
	customerRepo domain.CustomerRepository,
	planRepo domain.DepositPlanRepository,
	logger zerolog.Logger,
) *FundingService {
	return &FundingService{
		CustomerRepo: customerRepo,
		PlanRepo:     planRepo,
		Logger:       logger.With().Str("service", "funding").Logger(),
	}
}

// AllocateFunds allocates a deposit batch across the given plans
// Logic:
//  1. Validate the batch: deposits and plans present, at most one plan of each kind,
//     a resolvable and uniform reference code, plans owned by the resolved customer
//  2. Sum the deposits into a single remaining amount
//  3. Feed the remaining amount through each unfilled plan, lowest priority value first
//  4. Spread whatever is left over the portfolios already allocated, weighted by
//     what they received
//
// Validation problems come back as a failed Result. The returned error is reserved
// for customer lookup failures other than "not found".
//
// One-time plans are mutated in place; callers must not run two allocations against
// the same plan instance concurrently.
func (s *FundingService) AllocateFunds(ctx context.Context, plans []domain.DepositPlan, deposits []domain.Deposit) (Result, error) {
	if len(deposits) == 0 {
		return failed(domain.FailureNoDeposits), nil
	}
	if len(plans) == 0 {
		return failed(domain.FailureNoPlans), nil
	}
	if len(plans) > domain.MaxPlansPerCustomer {
		return failed(domain.FailureTooManyPlans), nil
	}
	if hasDuplicateKind(plans) {
		return failed(domain.FailureDuplicatePlanKind), nil
	}

	customer, referenceCode, err := s.resolveCustomer(ctx, deposits)
	if err != nil {
		return Result{}, err
	}
	if customer == nil {
		return failed(domain.FailureUnresolvedReference), nil
	}

	for _, d := range deposits {
		if d.Reference != referenceCode {
			return failed(domain.FailureMixedReferences), nil
		}
	}

	for _, p := range plans {
		if p.CustomerID() != customer.ID {
			return failed(domain.FailurePlanCustomerMismatch), nil
		}
	}

	// One pass over the summed batch instead of one per deposit
	remaining := domain.SumDeposits(deposits)
	current := domain.NewAllocation()

	for _, p := range byPriority(plans) {
		if !remaining.IsPositive() || p.IsFilled() {
			continue
		}
		current, remaining = p.ApplyDeposit(remaining, current.Clone())
		s.Logger.Debug().
			Str("plan_id", p.ID().String()).
			Str("kind", string(p.Kind())).
			Str("remaining", remaining.String()).
			Msg("applied deposit to plan")
	}

	unallocated := decimal.Zero
	if remaining.IsPositive() {
		// Weighted by what each portfolio already received, so portfolios sitting at
		// zero get none of the leftover.
		leftover := allocator.Distribute(remaining, current)
		if leftover.Len() == 0 {
			unallocated = remaining
			s.Logger.Warn().
				Str("customer_id", customer.ID.String()).
				Str("unallocated", remaining.String()).
				Msg("leftover funds could not be placed")
		}
		current = allocator.Merge(current, leftover)
	}

	return succeeded(customer.ID, current, unallocated), nil
}

// Settle allocates a deposit batch against the plans stored for the customer it
// references and persists the plans' fill state on success.
// Settlements for the same customer are serialized.
func (s *FundingService) Settle(ctx context.Context, deposits []domain.Deposit) (Result, error) {
	for _, d := range deposits {
		if err := d.Validate(); err != nil {
			return Result{}, err
		}
	}

	customer, _, err := s.resolveCustomer(ctx, deposits)
	if err != nil {
		return Result{}, err
	}
	if customer == nil {
		if len(deposits) == 0 {
			return failed(domain.FailureNoDeposits), nil
		}
		return failed(domain.FailureUnresolvedReference), nil
	}

	unlock := s.lock(customer.ID)
	defer unlock()

	plans, err := s.PlanRepo.ListByCustomerID(ctx, customer.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load deposit plans: %w", err)
	}

	result, err := s.AllocateFunds(ctx, plans, deposits)
	if err != nil {
		return Result{}, err
	}
	if !result.Success() {
		s.Logger.Warn().
			Str("customer_id", customer.ID.String()).
			Str("reason", string(result.Reason)).
			Msg("allocation rejected")
		return result, nil
	}

	for _, p := range plans {
		if err := s.PlanRepo.Save(ctx, p); err != nil {
			return Result{}, fmt.Errorf("failed to save deposit plan %s: %w", p.ID(), err)
		}
	}

	s.Logger.Info().
		Str("customer_id", customer.ID.String()).
		Int("deposits", len(deposits)).
		Int("portfolios", result.Allocations.Len()).
		Msg("deposits settled")

	return result, nil
}

// resolveCustomer scans deposits in order and returns the first customer whose
// reference code resolves, together with that code
func (s *FundingService) resolveCustomer(ctx context.Context, deposits []domain.Deposit) (*domain.Customer, string, error) {
	for _, d := range deposits {
		customer, err := s.CustomerRepo.GetByReferenceCode(ctx, d.Reference)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, "", fmt.Errorf("failed to resolve reference code: %w", err)
		}
		if customer != nil {
			return customer, d.Reference, nil
		}
	}
	return nil, "", nil
}

func (s *FundingService) lock(customerID uuid.UUID) func() {
	mu, _ := s.locks.LoadOrStore(customerID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func hasDuplicateKind(plans []domain.DepositPlan) bool {
	seen := make(map[domain.PlanKind]bool, len(plans))
	for _, p := range plans {
		if seen[p.Kind()] {
			return true
		}
		seen[p.Kind()] = true
	}
	return false
}

// byPriority returns a copy of plans sorted by ascending priority, ties kept in input order
func byPriority(plans []domain.DepositPlan) []domain.DepositPlan {
	sorted := make([]domain.DepositPlan, len(plans))
	copy(sorted, plans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return sorted
}
