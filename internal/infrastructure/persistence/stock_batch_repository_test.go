package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
)

// newMockStockBatchRepository creates a GormStockBatchRepository with a mocked SQL connection
func newMockStockBatchRepository(t *testing.T) (*GormStockBatchRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStockBatchRepository(gormDB), mock, mockDB
}

func batchRows(batchID, tenantID, productID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "item_kind", "item_id",
		"quantity", "remaining_quantity", "damaged_quantity", "cost_price",
		"location_type", "status", "version",
	}).AddRow(
		batchID, tenantID, "product", productID,
		decimal.NewFromInt(10), decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(100),
		"global", "active", 1,
	)
}

func TestGormStockBatchRepository_FindByID(t *testing.T) {
	t.Run("finds existing batch", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()
		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_batches" WHERE id = \$1`).
			WithArgs(batchID, 1).
			WillReturnRows(batchRows(batchID, tenantID, productID))

		batch, err := repo.FindByID(context.Background(), batchID)

		assert.NoError(t, err)
		assert.NotNil(t, batch)
		assert.Equal(t, batchID, batch.ID)
		assert.Equal(t, inventory.ItemKindProduct, batch.Item.Kind)
		assert.True(t, batch.RemainingQuantity.Equal(decimal.NewFromInt(10)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent batch", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_batches" WHERE id = \$1`).
			WithArgs(batchID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		batch, err := repo.FindByID(context.Background(), batchID)

		assert.Error(t, err)
		assert.Nil(t, batch)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockBatchRepository_FindByIDForTenant(t *testing.T) {
	t.Run("rejects cross-tenant access", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()
		ownerTenant := uuid.New()
		otherTenant := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_batches" WHERE id = \$1`).
			WithArgs(batchID, 1).
			WillReturnRows(batchRows(batchID, ownerTenant, productID))

		batch, err := repo.FindByIDForTenant(context.Background(), otherTenant, batchID)

		assert.Nil(t, batch)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("finds batch within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		batchID := uuid.New()
		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_batches" WHERE id = \$1`).
			WithArgs(batchID, 1).
			WillReturnRows(batchRows(batchID, tenantID, productID))

		batch, err := repo.FindByIDForTenant(context.Background(), tenantID, batchID)

		assert.NoError(t, err)
		require.NotNil(t, batch)
		assert.Equal(t, tenantID, batch.TenantID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockBatchRepository_SaveWithLock(t *testing.T) {
	t.Run("returns conflict when version moved", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		batch, err := inventory.NewStockBatch(
			uuid.New(),
			inventory.ProductRef(uuid.New()),
			decimal.NewFromInt(10),
			decimal.NewFromInt(100),
			inventory.GlobalLocation(),
		)
		require.NoError(t, err)
		batch.IncrementVersion()

		mock.ExpectExec(`UPDATE "stock_batches"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), batch)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("saves when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		batch, err := inventory.NewStockBatch(
			uuid.New(),
			inventory.ProductRef(uuid.New()),
			decimal.NewFromInt(10),
			decimal.NewFromInt(100),
			inventory.GlobalLocation(),
		)
		require.NoError(t, err)
		batch.IncrementVersion()

		mock.ExpectExec(`UPDATE "stock_batches"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveWithLock(context.Background(), batch)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockBatchRepository_SumAvailableQuantity(t *testing.T) {
	t.Run("sums remaining quantity", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(remaining_quantity\), 0\) as total FROM "stock_batches"`).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.NewFromInt(42)))

		total, err := repo.SumAvailableQuantity(context.Background(), tenantID, inventory.ProductRef(productID), nil)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(42)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
