package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
)

// StockService handles batch lifecycle, consumption and adjustment
// operations. Mutations run through the transaction scope so the batch
// write, its ledger rows and any outbox entries commit together.
type StockService struct {
	batchRepo     inventory.StockBatchRepository
	changeRepo    inventory.StockChangeRepository
	scope         TransactionScope
	strategies    *inventory.ConsumptionStrategyFactory
	cache         AvailabilityCache
	productReader catalog.ProductReader
	materialsRead catalog.MaterialReader
}

// NewStockService creates a new StockService
func NewStockService(
	batchRepo inventory.StockBatchRepository,
	changeRepo inventory.StockChangeRepository,
	scope TransactionScope,
	strategies *inventory.ConsumptionStrategyFactory,
) *StockService {
	return &StockService{
		batchRepo:  batchRepo,
		changeRepo: changeRepo,
		scope:      scope,
		strategies: strategies,
	}
}

// SetAvailabilityCache sets the availability cache (optional)
func (s *StockService) SetAvailabilityCache(cache AvailabilityCache) {
	s.cache = cache
}

// SetCatalogReaders sets the catalog readers used to validate item
// references on batch creation (optional)
func (s *StockService) SetCatalogReaders(products catalog.ProductReader, materials catalog.MaterialReader) {
	s.productReader = products
	s.materialsRead = materials
}

// CreateBatch creates a new stock batch and writes its creation ledger row
func (s *StockService) CreateBatch(ctx context.Context, tenantID, userID uuid.UUID, req CreateBatchRequest) (*BatchResponse, error) {
	return s.createBatch(ctx, tenantID, userID, req, inventory.ChangeReasonCreation)
}

// Restock creates a new batch for an item that is already stocked. For
// materials with a cost price it also requests a finance expense entry
// through the outbox.
func (s *StockService) Restock(ctx context.Context, tenantID, userID uuid.UUID, req CreateBatchRequest) (*BatchResponse, error) {
	return s.createBatch(ctx, tenantID, userID, req, inventory.ChangeReasonRestock)
}

func (s *StockService) createBatch(ctx context.Context, tenantID, userID uuid.UUID, req CreateBatchRequest, reason inventory.ChangeReason) (*BatchResponse, error) {
	item, err := inventory.NewItemRef(inventory.ItemKind(req.ItemKind), req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyItemExists(ctx, tenantID, item); err != nil {
		return nil, err
	}

	location := inventory.Location{Type: inventory.LocationType(req.LocationType), LocationID: req.LocationID}
	batch, err := inventory.NewStockBatch(tenantID, item, req.Quantity, req.CostPrice, location)
	if err != nil {
		return nil, err
	}
	if req.IsOwnPurchase {
		batch.WithOwnPurchase()
	} else if req.SupplierID != nil {
		batch.WithSupplier(*req.SupplierID, req.IsCredit)
	}
	if req.Notes != "" {
		batch.WithNotes(req.Notes)
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.BatchRepo().Create(ctx, batch); err != nil {
			return err
		}

		change, err := inventory.NewBatchChange(batch, batch.Quantity, reason, userID)
		if err != nil {
			return err
		}
		if err := repos.ChangeRepo().Create(ctx, change); err != nil {
			return err
		}

		// Material restocks with a known cost price become a finance expense
		if reason == inventory.ChangeReasonRestock && item.IsMaterial() && batch.CostPrice.GreaterThan(decimal.Zero) {
			amount := batch.Quantity.Mul(batch.CostPrice).Neg()
			event := inventory.NewFinanceEntryRequestedEvent(batch, amount, "Material restock")
			if err := repos.SaveEvents(ctx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, tenantID, item)

	response := ToBatchResponse(batch)
	return &response, nil
}

// Consume deducts the requested quantity from the item's batches using the
// requested method (FIFO by default) and writes one negative ledger row per
// consumed batch. Nothing is committed when stock is insufficient.
func (s *StockService) Consume(ctx context.Context, tenantID, userID uuid.UUID, req ConsumeRequest) (*ConsumptionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "consume")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrItemKind, req.ItemKind,
		telemetry.SpanAttrItemID, req.ItemID.String(),
		telemetry.SpanAttrQuantity, req.Quantity.String(),
	)

	item, err := inventory.NewItemRef(inventory.ItemKind(req.ItemKind), req.ItemID)
	if err != nil {
		return nil, err
	}
	location, err := optionalLocation(req.LocationType, req.LocationID)
	if err != nil {
		return nil, err
	}
	strat, err := s.strategyFor(req.Method)
	if err != nil {
		return nil, err
	}
	reason := inventory.ChangeReasonSale
	if req.Reason != "" {
		reason = inventory.ChangeReason(req.Reason)
		if !reason.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown change reason: "+req.Reason)
		}
	}

	var result *inventory.ConsumptionResult
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batches, err := repos.BatchRepo().FindAvailableByItem(ctx, tenantID, item, location)
		if err != nil {
			return err
		}

		result, err = strat.SelectBatches(req.Quantity, batches)
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

		changes := make([]*inventory.StockChange, 0, len(result.Consumptions))
		for _, take := range result.Consumptions {
			batch := byID[take.BatchID]
			if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
				return err
			}
			change, err := inventory.NewBatchChange(batch, take.ConsumedQuantity.Neg(), reason, userID)
			if err != nil {
				return err
			}
			changes = append(changes, change)
		}
		return repos.ChangeRepo().Create(ctx, changes...)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.invalidateAvailability(ctx, tenantID, item)

	telemetry.SetAttribute(span, "total_cost", result.TotalCost.String())
	response := ToConsumptionResponse(result)
	return &response, nil
}

// AdjustBatch applies one adjustment to a batch, writes the resulting
// ledger row and, when the outcome is billable, saves a debt adjustment
// event to the outbox in the same transaction.
func (s *StockService) AdjustBatch(ctx context.Context, tenantID, userID, batchID uuid.UUID, adj inventory.BatchAdjustment) (*BatchResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "adjust_batch")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrBatchID, batchID.String())

	var batch *inventory.StockBatch
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batch, err = repos.BatchRepo().FindByIDForTenant(ctx, tenantID, batchID)
		if err != nil {
			return err
		}

		outcome, err := inventory.ApplyAdjustment(batch, adj)
		if err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return err
		}

		// A zero-delta row is still written for cost corrections so the
		// ledger records the price history
		change, err := inventory.NewBatchChange(batch, outcome.Delta, outcome.Reason, userID)
		if err != nil {
			return err
		}
		if err := repos.ChangeRepo().Create(ctx, change); err != nil {
			return err
		}

		if s.billsSupplier(batch, adj, outcome) {
			amount := outcome.DebtDelta.Mul(outcome.EffectiveCostPrice)
			event := inventory.NewDebtAdjustmentRequestedEvent(
				tenantID, *batch.SupplierID, batch.ID, amount,
				"Batch adjustment: "+outcome.Reason.String(),
			)
			if err := repos.SaveEvents(ctx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.invalidateAvailability(ctx, tenantID, batch.Item)

	telemetry.SetAttribute(span, telemetry.SpanAttrBatchStatus, batch.Status.String())
	response := ToBatchResponse(batch)
	return &response, nil
}

// billsSupplier decides whether an adjustment outcome touches supplier
// debt. Damage is absorbed as loss; only supplier-sourced product batches
// are billable.
func (s *StockService) billsSupplier(batch *inventory.StockBatch, adj inventory.BatchAdjustment, outcome *inventory.AdjustmentOutcome) bool {
	if adj.IsDamage() || outcome.DebtDelta.IsZero() {
		return false
	}
	if !batch.Item.IsProduct() {
		return false
	}
	return batch.SupplierID != nil && !batch.IsOwnPurchase
}

// DeleteBatch soft-deletes an emptied batch and writes a deletion marker
// to the ledger
func (s *StockService) DeleteBatch(ctx context.Context, tenantID, userID, batchID uuid.UUID) error {
	var item inventory.ItemRef
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByIDForTenant(ctx, tenantID, batchID)
		if err != nil {
			return err
		}
		if err := batch.MarkDeleted(); err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return err
		}
		item = batch.Item

		change, err := inventory.NewBatchChange(batch, decimal.Zero, inventory.ChangeReasonBatchDeletion, userID)
		if err != nil {
			return err
		}
		return repos.ChangeRepo().Create(ctx, change)
	})
	if err != nil {
		return err
	}

	s.invalidateAvailability(ctx, tenantID, item)
	return nil
}

// GetBatch retrieves a batch by ID
func (s *StockService) GetBatch(ctx context.Context, tenantID, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByIDForTenant(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	response := ToBatchResponse(batch)
	return &response, nil
}

// ListBatches retrieves batches with filtering and pagination
func (s *StockService) ListBatches(ctx context.Context, tenantID uuid.UUID, filter BatchListFilter) ([]BatchResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := inventory.BatchFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
	}
	if filter.ItemKind != "" && filter.ItemID != nil {
		item, err := inventory.NewItemRef(inventory.ItemKind(filter.ItemKind), *filter.ItemID)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Item = &item
	}
	if filter.Status != "" {
		status := inventory.BatchStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Unknown batch status: "+filter.Status)
		}
		domainFilter.Status = &status
	}
	if filter.LocationType != "" {
		locType := inventory.LocationType(filter.LocationType)
		if !locType.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Unknown location type: "+filter.LocationType)
		}
		domainFilter.LocationType = &locType
		domainFilter.LocationID = filter.LocationID
	}
	domainFilter.SupplierID = filter.SupplierID

	batches, total, err := s.batchRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToBatchResponses(batches), total, nil
}

// GetAvailability returns the summed available quantity for an item,
// served from the cache when possible
func (s *StockService) GetAvailability(ctx context.Context, tenantID uuid.UUID, query AvailabilityQuery) (*AvailabilityResponse, error) {
	item, err := inventory.NewItemRef(inventory.ItemKind(query.ItemKind), query.ItemID)
	if err != nil {
		return nil, err
	}
	location, err := optionalLocation(query.LocationType, query.LocationID)
	if err != nil {
		return nil, err
	}

	response := &AvailabilityResponse{
		ItemKind:     query.ItemKind,
		ItemID:       query.ItemID,
		LocationType: query.LocationType,
		LocationID:   query.LocationID,
	}

	if s.cache != nil {
		if total, ok, err := s.cache.Get(ctx, tenantID, item, location); err == nil && ok {
			response.AvailableQuantity = total
			response.FromCache = true
			return response, nil
		}
	}

	total, err := s.batchRepo.SumAvailableQuantity(ctx, tenantID, item, location)
	if err != nil {
		return nil, err
	}
	response.AvailableQuantity = total

	if s.cache != nil {
		_ = s.cache.Set(ctx, tenantID, item, location, total)
	}
	return response, nil
}

// ListChanges retrieves ledger rows with filtering and pagination
func (s *StockService) ListChanges(ctx context.Context, tenantID uuid.UUID, filter ChangeListFilter) ([]StockChangeResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := inventory.ChangeFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		BatchID: filter.BatchID,
	}
	if filter.ItemKind != "" && filter.ItemID != nil {
		item, err := inventory.NewItemRef(inventory.ItemKind(filter.ItemKind), *filter.ItemID)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Item = &item
	}
	if filter.Reason != "" {
		reason := inventory.ChangeReason(filter.Reason)
		if !reason.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Unknown change reason: "+filter.Reason)
		}
		domainFilter.Reason = &reason
	}

	changes, total, err := s.changeRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToStockChangeResponses(changes), total, nil
}

// verifyItemExists checks the catalog when readers are configured
func (s *StockService) verifyItemExists(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef) error {
	var (
		exists bool
		err    error
	)
	switch {
	case item.IsProduct() && s.productReader != nil:
		exists, err = s.productReader.Exists(ctx, tenantID, item.ID)
	case item.IsMaterial() && s.materialsRead != nil:
		exists, err = s.materialsRead.Exists(ctx, tenantID, item.ID)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("NOT_FOUND", "Item not found: "+item.String())
	}
	return nil
}

func (s *StockService) strategyFor(method string) (inventory.ConsumptionStrategy, error) {
	if method == "" {
		return s.strategies.Default(), nil
	}
	return s.strategies.ForMethod(inventory.ConsumptionMethod(method))
}

func (s *StockService) invalidateAvailability(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, tenantID, item)
}

// optionalLocation builds a location filter from request fields; an empty
// type means no filter
func optionalLocation(locationType string, locationID *uuid.UUID) (*inventory.Location, error) {
	if locationType == "" {
		return nil, nil
	}
	location := inventory.Location{Type: inventory.LocationType(locationType), LocationID: locationID}
	if err := location.Validate(); err != nil {
		return nil, err
	}
	return &location, nil
}
