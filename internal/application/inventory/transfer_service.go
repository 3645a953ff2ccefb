package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
)

// TransferService moves stock between locations. A transfer consumes
// source batches and materializes one destination batch per consumed
// batch, carrying cost and provenance, all inside one transaction.
type TransferService struct {
	transferRepo inventory.StockTransferRepository
	scope        TransactionScope
	strategies   *inventory.ConsumptionStrategyFactory
	cache        AvailabilityCache
}

// NewTransferService creates a new TransferService
func NewTransferService(
	transferRepo inventory.StockTransferRepository,
	scope TransactionScope,
	strategies *inventory.ConsumptionStrategyFactory,
) *TransferService {
	return &TransferService{
		transferRepo: transferRepo,
		scope:        scope,
		strategies:   strategies,
	}
}

// SetAvailabilityCache sets the availability cache (optional)
func (s *TransferService) SetAvailabilityCache(cache AvailabilityCache) {
	s.cache = cache
}

// Transfer executes a stock movement. The quantity removed from the
// source always equals the quantity added to the destination; the
// transfer row flips to completed inside the same commit.
func (s *TransferService) Transfer(ctx context.Context, tenantID, userID uuid.UUID, req TransferRequest) (*TransferResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transfer", "transfer")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTransferType, req.TransferType,
		telemetry.SpanAttrItemKind, req.ItemKind,
		telemetry.SpanAttrItemID, req.ItemID.String(),
		telemetry.SpanAttrQuantity, req.Quantity.String(),
	)

	item, err := inventory.NewItemRef(inventory.ItemKind(req.ItemKind), req.ItemID)
	if err != nil {
		return nil, err
	}
	transferType := inventory.TransferType(req.TransferType)
	if !transferType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown transfer type: "+req.TransferType)
	}
	endpoints := inventory.TransferEndpoints{
		FromWarehouseID: req.FromWarehouseID,
		FromShopID:      req.FromShopID,
		ToWarehouseID:   req.ToWarehouseID,
		ToShopID:        req.ToShopID,
	}
	transfer, err := inventory.NewStockTransfer(tenantID, transferType, item, req.Quantity, endpoints, userID, req.Notes)
	if err != nil {
		return nil, err
	}
	strat, err := s.strategyFor(req.Method)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		source := transfer.SourceLocation()
		destination := transfer.DestinationLocation()

		batches, err := repos.BatchRepo().FindAvailableByItem(ctx, tenantID, item, &source)
		if err != nil {
			return err
		}
		result, err := strat.SelectBatches(req.Quantity, batches)
		if err != nil {
			return err
		}
		if err := inventory.ApplyConsumption(batches, result); err != nil {
			return err
		}

		byID := make(map[uuid.UUID]*inventory.StockBatch, len(batches))
		for _, b := range batches {
			byID[b.ID] = b
		}

		changes := make([]*inventory.StockChange, 0, 2*len(result.Consumptions))
		destinationIDs := make([]uuid.UUID, 0, len(result.Consumptions))

		for _, take := range result.Consumptions {
			src := byID[take.BatchID]
			if err := repos.BatchRepo().SaveWithLock(ctx, src); err != nil {
				return err
			}
			outgoing, err := inventory.NewBatchChange(src, take.ConsumedQuantity.Neg(), inventory.ChangeReasonTransfer, userID)
			if err != nil {
				return err
			}
			changes = append(changes, outgoing.WithTransfer(transfer.ID))

			// Destination batch inherits the source lot's cost and provenance
			dest, err := inventory.NewStockBatch(tenantID, item, take.ConsumedQuantity, src.CostPrice, destination)
			if err != nil {
				return err
			}
			if src.IsOwnPurchase {
				dest.WithOwnPurchase()
			} else if src.SupplierID != nil {
				dest.WithSupplier(*src.SupplierID, src.IsCredit)
			}
			if err := repos.BatchRepo().Create(ctx, dest); err != nil {
				return err
			}
			destinationIDs = append(destinationIDs, dest.ID)

			incoming, err := inventory.NewBatchChange(dest, take.ConsumedQuantity, inventory.ChangeReasonTransfer, userID)
			if err != nil {
				return err
			}
			changes = append(changes, incoming.WithTransfer(transfer.ID))
		}

		if err := repos.ChangeRepo().Create(ctx, changes...); err != nil {
			return err
		}

		if err := transfer.Complete(destinationIDs); err != nil {
			return err
		}
		if err := repos.TransferRepo().Create(ctx, transfer); err != nil {
			return err
		}
		if err := repos.SaveEvents(ctx, transfer.GetDomainEvents()...); err != nil {
			return err
		}
		transfer.ClearDomainEvents()
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, tenantID, item)
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrTransferID, transfer.ID.String())
	response := ToTransferResponse(transfer)
	return &response, nil
}

// GetTransfer retrieves a transfer by ID
func (s *TransferService) GetTransfer(ctx context.Context, tenantID, transferID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByIDForTenant(ctx, tenantID, transferID)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// ListTransfers retrieves transfers with filtering and pagination
func (s *TransferService) ListTransfers(ctx context.Context, tenantID uuid.UUID, filter TransferListFilter) ([]TransferResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := inventory.TransferFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
	}
	if filter.TransferType != "" {
		transferType := inventory.TransferType(filter.TransferType)
		if !transferType.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Unknown transfer type: "+filter.TransferType)
		}
		domainFilter.TransferType = &transferType
	}
	if filter.Status != "" {
		status := inventory.TransferStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.ItemKind != "" && filter.ItemID != nil {
		item, err := inventory.NewItemRef(inventory.ItemKind(filter.ItemKind), *filter.ItemID)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Item = &item
	}

	transfers, total, err := s.transferRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransferResponses(transfers), total, nil
}

func (s *TransferService) strategyFor(method string) (inventory.ConsumptionStrategy, error) {
	if method == "" {
		return s.strategies.Default(), nil
	}
	return s.strategies.ForMethod(inventory.ConsumptionMethod(method))
}
