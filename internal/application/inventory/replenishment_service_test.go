package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/backend/internal/domain/inventory"
)

func newReplenishmentEnv(shops map[uuid.UUID]bool) (*testEnv, *ReplenishmentService) {
	env := newTestEnv()
	service := NewReplenishmentService(env.replenishmentRepo, env.scope, &fakeShopReader{shops: shops})
	return env, service
}

func TestReplenishmentService_CreateAndApprove(t *testing.T) {
	shopID := uuid.New()
	env, service := newReplenishmentEnv(map[uuid.UUID]bool{shopID: true})
	ctx := context.Background()
	tenantID := uuid.New()
	requester := uuid.New()
	reviewer := uuid.New()

	created, err := service.Create(ctx, tenantID, requester, CreateReplenishmentRequest{
		ShopID:   shopID,
		ItemKind: "product",
		ItemID:   uuid.New(),
		Quantity: dec("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	require.Len(t, env.recorder.ofType(inventory.EventTypeReplenishmentRequested), 1)

	approved, err := service.Approve(ctx, tenantID, reviewer, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, reviewer, *approved.ReviewedBy)
}

func TestReplenishmentService_Create_InactiveShop(t *testing.T) {
	shopID := uuid.New()
	_, service := newReplenishmentEnv(map[uuid.UUID]bool{shopID: false})

	_, err := service.Create(context.Background(), uuid.New(), uuid.New(), CreateReplenishmentRequest{
		ShopID:   shopID,
		ItemKind: "product",
		ItemID:   uuid.New(),
		Quantity: dec("10"),
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", domainCode(t, err))
}

func TestReplenishmentService_Create_UnknownShop(t *testing.T) {
	_, service := newReplenishmentEnv(map[uuid.UUID]bool{})

	_, err := service.Create(context.Background(), uuid.New(), uuid.New(), CreateReplenishmentRequest{
		ShopID:   uuid.New(),
		ItemKind: "product",
		ItemID:   uuid.New(),
		Quantity: dec("10"),
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestReplenishmentService_Reject(t *testing.T) {
	shopID := uuid.New()
	env, service := newReplenishmentEnv(map[uuid.UUID]bool{shopID: true})
	ctx := context.Background()
	tenantID := uuid.New()

	created, err := service.Create(ctx, tenantID, uuid.New(), CreateReplenishmentRequest{
		ShopID:   shopID,
		ItemKind: "product",
		ItemID:   uuid.New(),
		Quantity: dec("10"),
	})
	require.NoError(t, err)

	rejected, err := service.Reject(ctx, tenantID, uuid.New(), created.ID, "stock allocated elsewhere")
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
	assert.Equal(t, "stock allocated elsewhere", rejected.RejectedReason)
	require.Len(t, env.recorder.ofType(inventory.EventTypeReplenishmentRejected), 1)

	// terminal: no further transitions
	_, err = service.Approve(ctx, tenantID, uuid.New(), created.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", domainCode(t, err))
}

func TestReplenishmentService_Fulfill(t *testing.T) {
	shopID := uuid.New()
	env, service := newReplenishmentEnv(map[uuid.UUID]bool{shopID: true})
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	productID := uuid.New()
	warehouseID := uuid.New()

	created, err := service.Create(ctx, tenantID, userID, CreateReplenishmentRequest{
		ShopID:   shopID,
		ItemKind: "product",
		ItemID:   productID,
		Quantity: dec("5"),
	})
	require.NoError(t, err)
	_, err = service.Approve(ctx, tenantID, uuid.New(), created.ID)
	require.NoError(t, err)

	_, err = env.stock.CreateBatch(ctx, tenantID, userID, warehouseBatchRequest(productID, warehouseID, "10", "100"))
	require.NoError(t, err)
	transfer, err := env.transfers.Transfer(ctx, tenantID, userID, TransferRequest{
		TransferType:    "warehouse_to_shop",
		ItemKind:        "product",
		ItemID:          productID,
		Quantity:        dec("5"),
		FromWarehouseID: &warehouseID,
		ToShopID:        &shopID,
	})
	require.NoError(t, err)

	fulfilled, err := service.Fulfill(ctx, tenantID, created.ID, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, "fulfilled", fulfilled.Status)
	require.NotNil(t, fulfilled.TransferID)
	assert.Equal(t, transfer.ID, *fulfilled.TransferID)
	require.Len(t, env.recorder.ofType(inventory.EventTypeReplenishmentFulfilled), 1)
}

func TestReplenishmentService_Fulfill_RejectsPendingTransfer(t *testing.T) {
	shopID := uuid.New()
	env, service := newReplenishmentEnv(map[uuid.UUID]bool{shopID: true})
	ctx := context.Background()
	tenantID := uuid.New()

	created, err := service.Create(ctx, tenantID, uuid.New(), CreateReplenishmentRequest{
		ShopID:   shopID,
		ItemKind: "product",
		ItemID:   uuid.New(),
		Quantity: dec("5"),
	})
	require.NoError(t, err)
	_, err = service.Approve(ctx, tenantID, uuid.New(), created.ID)
	require.NoError(t, err)

	pending, err := inventory.NewStockTransfer(
		tenantID,
		inventory.TransferTypeWarehouseToShop,
		inventory.ProductRef(uuid.New()),
		dec("5"),
		inventory.TransferEndpoints{FromWarehouseID: ptr(uuid.New()), ToShopID: &shopID},
		uuid.New(),
		"",
	)
	require.NoError(t, err)
	require.NoError(t, env.transferRepo.Create(ctx, pending))

	_, err = service.Fulfill(ctx, tenantID, created.ID, pending.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", domainCode(t, err))
}

func TestReplenishmentService_Fulfill_NotApproved(t *testing.T) {
	shopID := uuid.New()
	_, service := newReplenishmentEnv(map[uuid.UUID]bool{shopID: true})
	ctx := context.Background()
	tenantID := uuid.New()

	created, err := service.Create(ctx, tenantID, uuid.New(), CreateReplenishmentRequest{
		ShopID:   shopID,
		ItemKind: "product",
		ItemID:   uuid.New(),
		Quantity: dec("5"),
	})
	require.NoError(t, err)

	_, err = service.Fulfill(ctx, tenantID, created.ID, uuid.New())
	require.Error(t, err)
}

func TestReplenishmentService_ListByStatus(t *testing.T) {
	shopID := uuid.New()
	_, service := newReplenishmentEnv(map[uuid.UUID]bool{shopID: true})
	ctx := context.Background()
	tenantID := uuid.New()

	first, err := service.Create(ctx, tenantID, uuid.New(), CreateReplenishmentRequest{
		ShopID: shopID, ItemKind: "product", ItemID: uuid.New(), Quantity: dec("1"),
	})
	require.NoError(t, err)
	_, err = service.Create(ctx, tenantID, uuid.New(), CreateReplenishmentRequest{
		ShopID: shopID, ItemKind: "product", ItemID: uuid.New(), Quantity: dec("2"),
	})
	require.NoError(t, err)

	_, err = service.Approve(ctx, tenantID, uuid.New(), first.ID)
	require.NoError(t, err)

	pending, total, err := service.List(ctx, tenantID, ReplenishmentListFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
}

func ptr[T any](v T) *T {
	return &v
}
