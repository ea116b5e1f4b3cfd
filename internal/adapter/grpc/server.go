package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/depositflow-backend/internal/domain"
	"github.com/simaogato/depositflow-backend/internal/usecase/funding"
)

// Request and response field names
const (
	fieldDeposits       = "deposits"
	fieldAmount         = "amount"
	fieldReference      = "reference"
	fieldPortfolioNames = "portfolio_names"
	fieldAllocations    = "allocations"
	fieldUnallocated    = "unallocated"

	displayPlaces int32 = 2
)

// Server implements AllocationServer
type Server struct {
	FundingService *funding.FundingService
	PortfolioRepo  domain.PortfolioRepository
}

// NewServer creates a new gRPC server instance
func NewServer(fundingService *funding.FundingService, portfolioRepo domain.PortfolioRepository) *Server {
	return &Server{
		FundingService: fundingService,
		PortfolioRepo:  portfolioRepo,
	}
}

// AllocateDeposits handles the AllocateDeposits RPC
// Request:  {"deposits": [{"amount": "10500", "reference": "..."}], "portfolio_names": false}
// Response: {"allocations": {"<portfolio>": "10000.00"}, "unallocated": "0.00"}
func (s *Server) AllocateDeposits(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	deposits, err := parseDeposits(req)
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.FundingService.Settle(ctx, deposits)
	if err != nil {
		return nil, mapError(err)
	}
	if !result.Success() {
		return nil, mapError(result.Reason)
	}

	var keys map[uuid.UUID]string
	if req.GetFields()[fieldPortfolioNames].GetBoolValue() {
		keys = s.portfolioKeys(ctx, result.CustomerID, result.Allocations.Keys())
	}

	allocations := make(map[string]interface{}, result.Allocations.Len())
	for _, entry := range result.Allocations.Entries() {
		key, ok := keys[entry.PortfolioID]
		if !ok {
			key = entry.PortfolioID.String()
		}
		allocations[key] = entry.Amount.StringFixed(displayPlaces)
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		fieldAllocations: allocations,
		fieldUnallocated: result.Unallocated.StringFixed(displayPlaces),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to build response: %v", err)
	}
	return resp, nil
}

// portfolioKeys maps portfolio IDs to display names. A name shared by several
// portfolios is suffixed with the ID so no allocation is overwritten in the response.
// Portfolios that cannot be looked up are left out and keyed by ID.
func (s *Server) portfolioKeys(ctx context.Context, customerID uuid.UUID, ids []uuid.UUID) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(ids))
	if s.PortfolioRepo == nil {
		return names
	}

	owned, err := s.PortfolioRepo.ListByCustomerID(ctx, customerID)
	if err == nil {
		for _, p := range owned {
			names[p.ID] = p.Name
		}
	}
	for _, id := range ids {
		if _, ok := names[id]; ok {
			continue
		}
		if p, err := s.PortfolioRepo.GetByID(ctx, id); err == nil {
			names[id] = p.Name
		}
	}

	seen := make(map[string]int, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			seen[name]++
		}
	}

	keys := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			continue
		}
		if seen[name] > 1 {
			name = fmt.Sprintf("%s (%s)", name, id)
		}
		keys[id] = name
	}
	return keys
}

// parseDeposits reads the deposit list. Amounts must be decimal strings; JSON numbers
// are rejected because they arrive as binary floats.
func parseDeposits(req *structpb.Struct) ([]domain.Deposit, error) {
	list := req.GetFields()[fieldDeposits].GetListValue()
	deposits := make([]domain.Deposit, 0, len(list.GetValues()))

	for i, v := range list.GetValues() {
		item := v.GetStructValue()
		if item == nil {
			return nil, fmt.Errorf("%w %d: must be an object", domain.ErrInvalidDeposit, i)
		}

		amountValue, ok := item.GetFields()[fieldAmount].GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w %d: amount must be a decimal string", domain.ErrInvalidDeposit, i)
		}
		amount, err := decimal.NewFromString(amountValue.StringValue)
		if err != nil {
			return nil, fmt.Errorf("%w %d: invalid amount format: %v", domain.ErrInvalidDeposit, i, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w %d: amount must not be negative", domain.ErrInvalidDeposit, i)
		}

		deposits = append(deposits, domain.NewDeposit(amount, item.GetFields()[fieldReference].GetStringValue()))
	}

	return deposits, nil
}

var failureCodes = map[domain.FailureReason]codes.Code{
	domain.FailureNoDeposits:           codes.InvalidArgument,
	domain.FailureMixedReferences:      codes.InvalidArgument,
	domain.FailureUnresolvedReference:  codes.NotFound,
	domain.FailureNoPlans:              codes.FailedPrecondition,
	domain.FailureTooManyPlans:         codes.FailedPrecondition,
	domain.FailureDuplicatePlanKind:    codes.FailedPrecondition,
	domain.FailurePlanCustomerMismatch: codes.FailedPrecondition,
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var reason domain.FailureReason
	if errors.As(err, &reason) {
		code, ok := failureCodes[reason]
		if !ok {
			code = codes.FailedPrecondition
		}
		return status.Errorf(code, "%s", reason.Error())
	}

	if errors.Is(err, domain.ErrNotFound) {
		return status.Errorf(codes.NotFound, "%s", err.Error())
	}

	if errors.Is(err, domain.ErrInvalidDeposit) {
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
