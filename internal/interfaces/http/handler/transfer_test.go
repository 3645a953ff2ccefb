package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/backend/internal/interfaces/http/dto"
)

func TestTransferHandler_Transfer(t *testing.T) {
	env := newHandlerTestEnv()
	productID := uuid.New()
	warehouseID := uuid.New()
	shopID := uuid.New()
	source := env.seedBatch(t, productID, warehouseID, "10", "100")

	w := env.do(t, http.MethodPost, "/api/v1/inventory/transfers", gin.H{
		"transfer_type":     "warehouse_to_shop",
		"item_kind":         "product",
		"item_id":           productID.String(),
		"quantity":          6,
		"from_warehouse_id": warehouseID.String(),
		"to_shop_id":        shopID.String(),
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.Equal(t, "completed", dataField(t, resp, "status"))
	assert.Equal(t, "6", dataField(t, resp, "quantity"))

	batchIDs, ok := dataField(t, resp, "batch_ids").([]any)
	require.True(t, ok)
	require.Len(t, batchIDs, 1)

	// Source lot drained, destination lot materialized at the shop with
	// the same cost price.
	src, err := env.batchRepo.FindByIDForTenant(context.Background(), env.tenantID, source.ID)
	require.NoError(t, err)
	assert.Equal(t, "4", src.RemainingQuantity.String())

	destID, err := uuid.Parse(batchIDs[0].(string))
	require.NoError(t, err)
	dest, err := env.batchRepo.FindByIDForTenant(context.Background(), env.tenantID, destID)
	require.NoError(t, err)
	assert.Equal(t, "6", dest.RemainingQuantity.String())
	assert.Equal(t, "100", dest.CostPrice.String())
	assert.Equal(t, "shop", dest.Location.Type.String())
	require.NotNil(t, dest.Location.LocationID)
	assert.Equal(t, shopID, *dest.Location.LocationID)

	// One outgoing and one incoming ledger row per consumed batch, both
	// linked to the transfer.
	transferID := dataField(t, resp, "id").(string)
	rows := 0
	for _, c := range env.changeRepo.changes {
		if c.Reason.String() == "transfer" {
			rows++
			require.NotNil(t, c.TransferID)
			assert.Equal(t, transferID, c.TransferID.String())
		}
	}
	assert.Equal(t, 2, rows)
}

func TestTransferHandler_Transfer_PreservesProvenance(t *testing.T) {
	env := newHandlerTestEnv()
	productID := uuid.New()
	warehouseID := uuid.New()
	shopID := uuid.New()
	supplierID := uuid.New()

	req := batchCreate(productID, warehouseID, "8", "50")
	req.SupplierID = &supplierID
	req.IsCredit = true
	_, err := env.stock.CreateBatch(context.Background(), env.tenantID, env.userID, req)
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/v1/inventory/transfers", gin.H{
		"transfer_type":     "warehouse_to_shop",
		"item_kind":         "product",
		"item_id":           productID.String(),
		"quantity":          8,
		"from_warehouse_id": warehouseID.String(),
		"to_shop_id":        shopID.String(),
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	batchIDs := dataField(t, resp, "batch_ids").([]any)
	require.Len(t, batchIDs, 1)

	destID := uuid.MustParse(batchIDs[0].(string))
	dest, err := env.batchRepo.FindByIDForTenant(context.Background(), env.tenantID, destID)
	require.NoError(t, err)
	require.NotNil(t, dest.SupplierID)
	assert.Equal(t, supplierID, *dest.SupplierID)
	assert.True(t, dest.IsCredit)
}

func TestTransferHandler_Transfer_InsufficientStock(t *testing.T) {
	env := newHandlerTestEnv()
	productID := uuid.New()
	warehouseID := uuid.New()
	env.seedBatch(t, productID, warehouseID, "2", "100")

	w := env.do(t, http.MethodPost, "/api/v1/inventory/transfers", gin.H{
		"transfer_type":     "warehouse_to_shop",
		"item_kind":         "product",
		"item_id":           productID.String(),
		"quantity":          5,
		"from_warehouse_id": warehouseID.String(),
		"to_shop_id":        uuid.New().String(),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)

	// The failed transfer must create neither a transfer row nor ledger rows.
	assert.Empty(t, env.transferRepo.transfers)
	assert.Len(t, env.changeRepo.changes, 1)
}

func TestTransferHandler_Transfer_MissingEndpoint(t *testing.T) {
	env := newHandlerTestEnv()
	productID := uuid.New()
	warehouseID := uuid.New()
	env.seedBatch(t, productID, warehouseID, "10", "100")

	w := env.do(t, http.MethodPost, "/api/v1/inventory/transfers", gin.H{
		"transfer_type": "warehouse_to_shop",
		"item_kind":     "product",
		"item_id":       productID.String(),
		"quantity":      5,
		"to_shop_id":    uuid.New().String(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
}

func TestTransferHandler_Transfer_MissingUserIdentity(t *testing.T) {
	env := newHandlerTestEnv()

	w := env.doAnonymous(t, http.MethodPost, "/api/v1/inventory/transfers", gin.H{
		"transfer_type":     "warehouse_to_shop",
		"item_kind":         "product",
		"item_id":           uuid.New().String(),
		"quantity":          1,
		"from_warehouse_id": uuid.New().String(),
		"to_shop_id":        uuid.New().String(),
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTransferHandler_GetTransfer_NotFound(t *testing.T) {
	env := newHandlerTestEnv()

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/inventory/transfers/%s", uuid.New()), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransferHandler_ListTransfers(t *testing.T) {
	env := newHandlerTestEnv()
	productID := uuid.New()
	warehouseID := uuid.New()
	shopID := uuid.New()
	env.seedBatch(t, productID, warehouseID, "20", "100")

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/api/v1/inventory/transfers", gin.H{
			"transfer_type":     "warehouse_to_shop",
			"item_kind":         "product",
			"item_id":           productID.String(),
			"quantity":          3,
			"from_warehouse_id": warehouseID.String(),
			"to_shop_id":        shopID.String(),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.do(t, http.MethodGet, "/api/v1/inventory/transfers?transfer_type=warehouse_to_shop", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	items, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}
