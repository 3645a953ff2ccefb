package inventory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// fakeBatchRepo is an in-memory StockBatchRepository for service tests
type fakeBatchRepo struct {
	mu      sync.Mutex
	batches []*inventory.StockBatch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{}
}

func (r *fakeBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.batches {
		if b.ID == id {
			if b.TenantID != tenantID {
				return nil, shared.ErrUnauthorized
			}
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) FindByItem(_ context.Context, tenantID uuid.UUID, item inventory.ItemRef) ([]*inventory.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.StockBatch, 0)
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.Item.Equals(item) && !b.IsDeleted() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) FindAvailableByItem(_ context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location) ([]*inventory.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.StockBatch, 0)
	for _, b := range r.batches {
		if b.TenantID != tenantID || !b.Item.Equals(item) || !b.IsAvailable() {
			continue
		}
		if location != nil && !b.Location.Equals(*location) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBatchRepo) SumAvailableQuantity(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location) (decimal.Decimal, error) {
	batches, err := r.FindAvailableByItem(ctx, tenantID, item, location)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.AvailableQuantity())
	}
	return total, nil
}

func (r *fakeBatchRepo) FindAll(_ context.Context, tenantID uuid.UUID, filter inventory.BatchFilter) ([]*inventory.StockBatch, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.StockBatch, 0)
	for _, b := range r.batches {
		if b.TenantID != tenantID {
			continue
		}
		if filter.Item != nil && !b.Item.Equals(*filter.Item) {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBatchRepo) Create(_ context.Context, batch *inventory.StockBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch)
	return nil
}

func (r *fakeBatchRepo) Save(_ context.Context, _ *inventory.StockBatch) error {
	return nil
}

func (r *fakeBatchRepo) SaveWithLock(_ context.Context, _ *inventory.StockBatch) error {
	return nil
}

// fakeChangeRepo is an in-memory StockChangeRepository
type fakeChangeRepo struct {
	mu      sync.Mutex
	changes []*inventory.StockChange
}

func newFakeChangeRepo() *fakeChangeRepo {
	return &fakeChangeRepo{}
}

func (r *fakeChangeRepo) Create(_ context.Context, changes ...*inventory.StockChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, changes...)
	return nil
}

func (r *fakeChangeRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.StockChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.changes {
		if c.ID == id {
			if c.TenantID != tenantID {
				return nil, shared.ErrUnauthorized
			}
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeChangeRepo) FindByBatch(_ context.Context, tenantID, batchID uuid.UUID) ([]*inventory.StockChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.StockChange, 0)
	for _, c := range r.changes {
		if c.TenantID == tenantID && c.BatchID != nil && *c.BatchID == batchID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeChangeRepo) FindAll(_ context.Context, tenantID uuid.UUID, filter inventory.ChangeFilter) ([]*inventory.StockChange, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.StockChange, 0)
	for _, c := range r.changes {
		if c.TenantID != tenantID {
			continue
		}
		if filter.Reason != nil && c.Reason != *filter.Reason {
			continue
		}
		if filter.BatchID != nil && (c.BatchID == nil || *c.BatchID != *filter.BatchID) {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeChangeRepo) SumChangeForBatch(ctx context.Context, tenantID, batchID uuid.UUID) (decimal.Decimal, error) {
	changes, err := r.FindByBatch(ctx, tenantID, batchID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range changes {
		total = total.Add(c.Change)
	}
	return total, nil
}

func (r *fakeChangeRepo) DeleteByID(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.changes {
		if c.ID == id && c.TenantID == tenantID {
			r.changes = append(r.changes[:i], r.changes[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

// fakeTransferRepo is an in-memory StockTransferRepository
type fakeTransferRepo struct {
	mu        sync.Mutex
	transfers []*inventory.StockTransfer
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{}
}

func (r *fakeTransferRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.StockTransfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.transfers {
		if t.ID == id {
			if t.TenantID != tenantID {
				return nil, shared.ErrUnauthorized
			}
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransferRepo) FindAll(_ context.Context, tenantID uuid.UUID, filter inventory.TransferFilter) ([]*inventory.StockTransfer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.StockTransfer, 0)
	for _, t := range r.transfers {
		if t.TenantID != tenantID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTransferRepo) Create(_ context.Context, transfer *inventory.StockTransfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = append(r.transfers, transfer)
	return nil
}

func (r *fakeTransferRepo) Save(_ context.Context, _ *inventory.StockTransfer) error {
	return nil
}

// fakeReplenishmentRepo is an in-memory ReplenishmentRepository
type fakeReplenishmentRepo struct {
	mu       sync.Mutex
	requests []*inventory.ReplenishmentRequest
}

func newFakeReplenishmentRepo() *fakeReplenishmentRepo {
	return &fakeReplenishmentRepo{}
}

func (r *fakeReplenishmentRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.ReplenishmentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID == id {
			if req.TenantID != tenantID {
				return nil, shared.ErrUnauthorized
			}
			return req, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeReplenishmentRepo) FindAll(_ context.Context, tenantID uuid.UUID, filter inventory.ReplenishmentFilter) ([]*inventory.ReplenishmentRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.ReplenishmentRequest, 0)
	for _, req := range r.requests {
		if req.TenantID != tenantID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.ShopID != nil && req.ShopID != *filter.ShopID {
			continue
		}
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

func (r *fakeReplenishmentRepo) Create(_ context.Context, request *inventory.ReplenishmentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, request)
	return nil
}

func (r *fakeReplenishmentRepo) Save(_ context.Context, _ *inventory.ReplenishmentRequest) error {
	return nil
}

// eventRecorder captures published events for assertions
type eventRecorder struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (r *eventRecorder) Publish(_ context.Context, events ...shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *eventRecorder) ofType(eventType string) []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shared.DomainEvent, 0)
	for _, e := range r.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeShopReader answers shop lookups from a map
type fakeShopReader struct {
	shops map[uuid.UUID]bool // id -> active
}

func (r *fakeShopReader) Exists(_ context.Context, _, shopID uuid.UUID) (bool, error) {
	_, ok := r.shops[shopID]
	return ok, nil
}

func (r *fakeShopReader) IsActive(_ context.Context, _, shopID uuid.UUID) (bool, error) {
	return r.shops[shopID], nil
}

// fakeAvailabilityCache records cache traffic
type fakeAvailabilityCache struct {
	mu          sync.Mutex
	values      map[string]decimal.Decimal
	invalidated int
}

func newFakeAvailabilityCache() *fakeAvailabilityCache {
	return &fakeAvailabilityCache{values: make(map[string]decimal.Decimal)}
}

func cacheKey(tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location) string {
	key := tenantID.String() + ":" + item.String()
	if location != nil {
		key += ":" + location.Type.String()
		if location.LocationID != nil {
			key += ":" + location.LocationID.String()
		}
	}
	return key
}

func (c *fakeAvailabilityCache) Get(_ context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location) (decimal.Decimal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[cacheKey(tenantID, item, location)]
	return v, ok, nil
}

func (c *fakeAvailabilityCache) Set(_ context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location, total decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[cacheKey(tenantID, item, location)] = total
	return nil
}

func (c *fakeAvailabilityCache) Invalidate(_ context.Context, tenantID uuid.UUID, item inventory.ItemRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := tenantID.String() + ":" + item.String()
	for k := range c.values {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.values, k)
		}
	}
	c.invalidated++
	return nil
}

// testEnv wires the services over the in-memory fakes
type testEnv struct {
	batchRepo         *fakeBatchRepo
	changeRepo        *fakeChangeRepo
	transferRepo      *fakeTransferRepo
	replenishmentRepo *fakeReplenishmentRepo
	recorder          *eventRecorder
	scope             *NoOpTransactionScope
	stock             *StockService
	transfers         *TransferService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		batchRepo:         newFakeBatchRepo(),
		changeRepo:        newFakeChangeRepo(),
		transferRepo:      newFakeTransferRepo(),
		replenishmentRepo: newFakeReplenishmentRepo(),
		recorder:          &eventRecorder{},
	}
	env.scope = NewNoOpTransactionScope(
		env.batchRepo, env.changeRepo, env.transferRepo, env.replenishmentRepo, env.recorder,
	)
	factory := inventory.NewConsumptionStrategyFactory()
	env.stock = NewStockService(env.batchRepo, env.changeRepo, env.scope, factory)
	env.transfers = NewTransferService(env.transferRepo, env.scope, factory)
	return env
}
