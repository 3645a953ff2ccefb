package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// ReplenishmentService drives the replenishment request state machine.
// Requests never move stock themselves; fulfillment links a transfer that
// was already completed.
type ReplenishmentService struct {
	replenishmentRepo inventory.ReplenishmentRepository
	scope             TransactionScope
	shopReader        catalog.ShopReader
}

// NewReplenishmentService creates a new ReplenishmentService
func NewReplenishmentService(
	replenishmentRepo inventory.ReplenishmentRepository,
	scope TransactionScope,
	shopReader catalog.ShopReader,
) *ReplenishmentService {
	return &ReplenishmentService{
		replenishmentRepo: replenishmentRepo,
		scope:             scope,
		shopReader:        shopReader,
	}
}

// Create registers a pending replenishment request for an active shop
func (s *ReplenishmentService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateReplenishmentRequest) (*ReplenishmentResponse, error) {
	item, err := inventory.NewItemRef(inventory.ItemKind(req.ItemKind), req.ItemID)
	if err != nil {
		return nil, err
	}

	if s.shopReader != nil {
		exists, err := s.shopReader.Exists(ctx, tenantID, req.ShopID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.NewDomainError("NOT_FOUND", "Shop not found")
		}
		active, err := s.shopReader.IsActive(ctx, tenantID, req.ShopID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, shared.NewDomainError("INVALID_STATE", "Shop is inactive")
		}
	}

	request, err := inventory.NewReplenishmentRequest(tenantID, req.ShopID, item, req.Quantity, userID)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ReplenishmentRepo().Create(ctx, request); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, request.GetDomainEvents()...); err != nil {
			return err
		}
		request.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToReplenishmentResponse(request)
	return &response, nil
}

// Approve moves a pending request to approved
func (s *ReplenishmentService) Approve(ctx context.Context, tenantID, reviewerID, requestID uuid.UUID) (*ReplenishmentResponse, error) {
	return s.transition(ctx, tenantID, requestID, func(request *inventory.ReplenishmentRequest, _ TransactionalRepositories) error {
		return request.Approve(reviewerID)
	})
}

// Reject moves a pending request to the terminal rejected state
func (s *ReplenishmentService) Reject(ctx context.Context, tenantID, reviewerID, requestID uuid.UUID, reason string) (*ReplenishmentResponse, error) {
	return s.transition(ctx, tenantID, requestID, func(request *inventory.ReplenishmentRequest, _ TransactionalRepositories) error {
		return request.Reject(reviewerID, reason)
	})
}

// Fulfill links a completed transfer to an approved request. The transfer
// must exist, belong to the tenant and be completed.
func (s *ReplenishmentService) Fulfill(ctx context.Context, tenantID, requestID, transferID uuid.UUID) (*ReplenishmentResponse, error) {
	return s.transition(ctx, tenantID, requestID, func(request *inventory.ReplenishmentRequest, repos TransactionalRepositories) error {
		transfer, err := repos.TransferRepo().FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		if !transfer.IsCompleted() {
			return shared.NewDomainError("INVALID_STATE", "Transfer is not completed")
		}
		return request.Fulfill(transfer.ID)
	})
}

// transition loads the request, applies the state change and persists it
// together with any raised events
func (s *ReplenishmentService) transition(
	ctx context.Context,
	tenantID, requestID uuid.UUID,
	apply func(request *inventory.ReplenishmentRequest, repos TransactionalRepositories) error,
) (*ReplenishmentResponse, error) {
	var request *inventory.ReplenishmentRequest
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		request, err = repos.ReplenishmentRepo().FindByIDForTenant(ctx, tenantID, requestID)
		if err != nil {
			return err
		}
		if err := apply(request, repos); err != nil {
			return err
		}
		if err := repos.ReplenishmentRepo().Save(ctx, request); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, request.GetDomainEvents()...); err != nil {
			return err
		}
		request.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToReplenishmentResponse(request)
	return &response, nil
}

// Get retrieves a replenishment request by ID
func (s *ReplenishmentService) Get(ctx context.Context, tenantID, requestID uuid.UUID) (*ReplenishmentResponse, error) {
	request, err := s.replenishmentRepo.FindByIDForTenant(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	response := ToReplenishmentResponse(request)
	return &response, nil
}

// List retrieves replenishment requests with filtering and pagination
func (s *ReplenishmentService) List(ctx context.Context, tenantID uuid.UUID, filter ReplenishmentListFilter) ([]ReplenishmentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := inventory.ReplenishmentFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		ShopID: filter.ShopID,
	}
	if filter.Status != "" {
		status := inventory.ReplenishmentStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Unknown replenishment status: "+filter.Status)
		}
		domainFilter.Status = &status
	}

	requests, total, err := s.replenishmentRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToReplenishmentResponses(requests), total, nil
}
