package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	inventoryapp "github.com/retailops/backend/internal/application/inventory"
	partnerapp "github.com/retailops/backend/internal/application/partner"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/interfaces/http/dto"
)

// In-memory repository fakes backing the handler tests. The services are
// real; only persistence is replaced.

type fakeBatchRepo struct {
	mu      sync.Mutex
	batches []*inventory.StockBatch
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

type fakeChangeRepo struct {
	mu      sync.Mutex
	changes []*inventory.StockChange
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

type fakeTransferRepo struct {
	mu        sync.Mutex
	transfers []*inventory.StockTransfer
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

type fakeReplenishmentRepo struct {
	mu       sync.Mutex
	requests []*inventory.ReplenishmentRequest
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

type fakeDebtRepo struct {
	mu      sync.Mutex
	entries []*partner.SupplierDebtEntry
}

func (r *fakeDebtRepo) Create(_ context.Context, entry *partner.SupplierDebtEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeDebtRepo) FindBySupplier(_ context.Context, tenantID, supplierID uuid.UUID) ([]*partner.SupplierDebtEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*partner.SupplierDebtEntry, 0)
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.SupplierID == supplierID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeDebtRepo) Outstanding(ctx context.Context, tenantID, supplierID uuid.UUID) (decimal.Decimal, error) {
	entries, err := r.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return decimal.Zero, err
	}
	return partner.OutstandingFromEntries(entries), nil
}

func (r *fakeDebtRepo) DeleteByID(_ context.Context, tenantID, supplierID, entryID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == entryID && e.TenantID == tenantID && e.SupplierID == supplierID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

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

// handlerTestEnv wires real services over in-memory fakes behind a gin
// router, mirroring the production route layout.
type handlerTestEnv struct {
	batchRepo         *fakeBatchRepo
	changeRepo        *fakeChangeRepo
	transferRepo      *fakeTransferRepo
	replenishmentRepo *fakeReplenishmentRepo
	debtRepo          *fakeDebtRepo
	shops             *fakeShopReader

	stock          *inventoryapp.StockService
	transfers      *inventoryapp.TransferService
	replenishments *inventoryapp.ReplenishmentService
	debts          *partnerapp.DebtService

	router   *gin.Engine
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newHandlerTestEnv() *handlerTestEnv {
	gin.SetMode(gin.TestMode)

	env := &handlerTestEnv{
		batchRepo:         &fakeBatchRepo{},
		changeRepo:        &fakeChangeRepo{},
		transferRepo:      &fakeTransferRepo{},
		replenishmentRepo: &fakeReplenishmentRepo{},
		debtRepo:          &fakeDebtRepo{},
		shops:             &fakeShopReader{shops: make(map[uuid.UUID]bool)},
		tenantID:          uuid.New(),
		userID:            uuid.New(),
	}

	scope := inventoryapp.NewNoOpTransactionScope(
		env.batchRepo, env.changeRepo, env.transferRepo, env.replenishmentRepo, nil,
	)
	factory := inventory.NewConsumptionStrategyFactory()
	env.stock = inventoryapp.NewStockService(env.batchRepo, env.changeRepo, scope, factory)
	env.transfers = inventoryapp.NewTransferService(env.transferRepo, scope, factory)
	env.replenishments = inventoryapp.NewReplenishmentService(env.replenishmentRepo, scope, env.shops)
	env.debts = partnerapp.NewDebtService(env.debtRepo)

	stockHandler := NewStockHandler(env.stock)
	transferHandler := NewTransferHandler(env.transfers)
	replenishmentHandler := NewReplenishmentHandler(env.replenishments)
	debtHandler := NewDebtHandler(env.debts)

	router := gin.New()
	api := router.Group("/api/v1")
	{
		api.POST("/inventory/batches", stockHandler.CreateBatch)
		api.POST("/inventory/batches/restock", stockHandler.Restock)
		api.GET("/inventory/batches", stockHandler.ListBatches)
		api.GET("/inventory/batches/:id", stockHandler.GetBatch)
		api.PUT("/inventory/batches/:id/adjust", stockHandler.AdjustBatch)
		api.DELETE("/inventory/batches/:id", stockHandler.DeleteBatch)
		api.POST("/inventory/stock/consume", stockHandler.Consume)
		api.GET("/inventory/stock/availability", stockHandler.GetAvailability)
		api.GET("/inventory/changes", stockHandler.ListChanges)

		api.POST("/inventory/transfers", transferHandler.Transfer)
		api.GET("/inventory/transfers", transferHandler.ListTransfers)
		api.GET("/inventory/transfers/:id", transferHandler.GetTransfer)

		api.POST("/inventory/replenishments", replenishmentHandler.Create)
		api.GET("/inventory/replenishments", replenishmentHandler.List)
		api.GET("/inventory/replenishments/:id", replenishmentHandler.Get)
		api.POST("/inventory/replenishments/:id/approve", replenishmentHandler.Approve)
		api.POST("/inventory/replenishments/:id/reject", replenishmentHandler.Reject)
		api.POST("/inventory/replenishments/:id/fulfill", replenishmentHandler.Fulfill)

		api.GET("/partner/suppliers/:supplier_id/debt", debtHandler.GetDebt)
		api.POST("/partner/suppliers/:supplier_id/debt", debtHandler.AddDebt)
		api.POST("/partner/suppliers/:supplier_id/debt/refunds", debtHandler.AddRefund)
		api.DELETE("/partner/suppliers/:supplier_id/debt/entries/:entry_id", debtHandler.RemoveEntry)
	}
	env.router = router
	return env
}

// do issues a request with tenant and user identity headers set.
func (env *handlerTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", env.tenantID.String())
	req.Header.Set("X-User-ID", env.userID.String())

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// doAnonymous issues a request without identity headers.
func (env *handlerTestEnv) doAnonymous(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// dataField digs a field out of the response data object.
func dataField(t *testing.T, resp dto.Response, key string) any {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "expected object data, got %T", resp.Data)
	return data[key]
}

// batchCreate builds a warehouse product batch request for seeding.
func batchCreate(itemID, warehouseID uuid.UUID, quantity, cost string) inventoryapp.CreateBatchRequest {
	return inventoryapp.CreateBatchRequest{
		ItemKind:     "product",
		ItemID:       itemID,
		Quantity:     decimal.RequireFromString(quantity),
		CostPrice:    decimal.RequireFromString(cost),
		LocationType: "warehouse",
		LocationID:   &warehouseID,
	}
}

// seedBatch persists a batch through the stock service and returns its view.
func (env *handlerTestEnv) seedBatch(t *testing.T, itemID, warehouseID uuid.UUID, quantity, cost string) inventoryapp.BatchResponse {
	t.Helper()
	resp, err := env.stock.CreateBatch(context.Background(), env.tenantID, env.userID, batchCreate(itemID, warehouseID, quantity, cost))
	require.NoError(t, err)
	return *resp
}
