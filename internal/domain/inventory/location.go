package inventory

import (
	"github.com/google/uuid"

	"github.com/retailops/backend/internal/domain/shared"
)

// LocationType classifies where a batch physically sits
type LocationType string

const (
	LocationTypeWarehouse  LocationType = "warehouse"
	LocationTypeShop       LocationType = "shop"
	LocationTypeProduction LocationType = "production"
	LocationTypeGlobal     LocationType = "global"
)

// IsValid checks if the location type is valid
func (t LocationType) IsValid() bool {
	switch t {
	case LocationTypeWarehouse, LocationTypeShop, LocationTypeProduction, LocationTypeGlobal:
		return true
	}
	return false
}

// String returns the string representation
func (t LocationType) String() string {
	return string(t)
}

// RequiresID returns true if the location type refers to a concrete site
func (t LocationType) RequiresID() bool {
	return t == LocationTypeWarehouse || t == LocationTypeShop
}

// Location is where a batch is stocked. Warehouse and shop locations carry
// the id of the site; production and global locations do not.
type Location struct {
	Type       LocationType `gorm:"column:location_type;type:varchar(16);not null;index"`
	LocationID *uuid.UUID   `gorm:"column:location_id;type:uuid;index"`
}

// WarehouseLocation creates a warehouse location
func WarehouseLocation(warehouseID uuid.UUID) Location {
	return Location{Type: LocationTypeWarehouse, LocationID: &warehouseID}
}

// ShopLocation creates a shop location
func ShopLocation(shopID uuid.UUID) Location {
	return Location{Type: LocationTypeShop, LocationID: &shopID}
}

// ProductionLocation creates a production location
func ProductionLocation() Location {
	return Location{Type: LocationTypeProduction}
}

// GlobalLocation creates an unscoped location
func GlobalLocation() Location {
	return Location{Type: LocationTypeGlobal}
}

// Validate checks the location type and id consistency
func (l Location) Validate() error {
	if !l.Type.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown location type: "+string(l.Type))
	}
	if l.Type.RequiresID() {
		if l.LocationID == nil || *l.LocationID == uuid.Nil {
			return shared.NewDomainError("INVALID_INPUT", "Location of type "+string(l.Type)+" requires a location ID")
		}
		return nil
	}
	if l.LocationID != nil {
		return shared.NewDomainError("INVALID_INPUT", "Location of type "+string(l.Type)+" must not carry a location ID")
	}
	return nil
}

// Equals compares two locations
func (l Location) Equals(other Location) bool {
	if l.Type != other.Type {
		return false
	}
	if l.LocationID == nil || other.LocationID == nil {
		return l.LocationID == other.LocationID
	}
	return *l.LocationID == *other.LocationID
}
