package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/inventory"
)

// AvailabilityCache caches the summed available quantity per item so the
// read path can skip the database. Every batch mutation invalidates the
// item's entries; a short TTL bounds staleness on top of that.
type AvailabilityCache interface {
	// Get returns the cached total and whether the key was present
	Get(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location) (decimal.Decimal, bool, error)
	// Set stores the total for the item/location pair
	Set(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef, location *inventory.Location, total decimal.Decimal) error
	// Invalidate drops all cached totals for the item
	Invalidate(ctx context.Context, tenantID uuid.UUID, item inventory.ItemRef) error
}
