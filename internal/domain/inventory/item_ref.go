package inventory

import (
	"github.com/google/uuid"

	"github.com/retailops/backend/internal/domain/shared"
)

// ItemKind discriminates what kind of catalog item a batch or change refers to
type ItemKind string

const (
	ItemKindProduct  ItemKind = "product"
	ItemKindMaterial ItemKind = "material"
)

// IsValid checks if the item kind is valid
func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindProduct, ItemKindMaterial:
		return true
	}
	return false
}

// String returns the string representation
func (k ItemKind) String() string {
	return string(k)
}

// ItemRef identifies a catalog item as a tagged pair (kind, id).
// Exactly one item is referenced; there are no nullable foreign keys to
// keep in sync.
type ItemRef struct {
	Kind ItemKind  `gorm:"column:item_kind;type:varchar(16);not null;index:idx_item_ref"`
	ID   uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:idx_item_ref"`
}

// ProductRef creates an ItemRef pointing at a product
func ProductRef(id uuid.UUID) ItemRef {
	return ItemRef{Kind: ItemKindProduct, ID: id}
}

// MaterialRef creates an ItemRef pointing at a raw material
func MaterialRef(id uuid.UUID) ItemRef {
	return ItemRef{Kind: ItemKindMaterial, ID: id}
}

// NewItemRef creates an ItemRef, validating the kind and id
func NewItemRef(kind ItemKind, id uuid.UUID) (ItemRef, error) {
	if !kind.IsValid() {
		return ItemRef{}, shared.NewDomainError("INVALID_INPUT", "Unknown item kind: "+string(kind))
	}
	if id == uuid.Nil {
		return ItemRef{}, shared.NewDomainError("INVALID_INPUT", "Item ID is required")
	}
	return ItemRef{Kind: kind, ID: id}, nil
}

// IsProduct returns true if the reference points at a product
func (r ItemRef) IsProduct() bool {
	return r.Kind == ItemKindProduct
}

// IsMaterial returns true if the reference points at a raw material
func (r ItemRef) IsMaterial() bool {
	return r.Kind == ItemKindMaterial
}

// IsZero returns true if the reference is unset
func (r ItemRef) IsZero() bool {
	return r.ID == uuid.Nil
}

// Equals compares two item references
func (r ItemRef) Equals(other ItemRef) bool {
	return r.Kind == other.Kind && r.ID == other.ID
}

// String returns a human-readable representation
func (r ItemRef) String() string {
	return string(r.Kind) + ":" + r.ID.String()
}
