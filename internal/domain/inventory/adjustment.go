package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// AdjustmentType selects which batch mutation an adjustment performs
type AdjustmentType string

const (
	// AdjustmentTypeQuantityCorrection rewrites the original lot size
	AdjustmentTypeQuantityCorrection AdjustmentType = "quantity_correction"
	// AdjustmentTypeRemainingAdjustment applies a signed delta to remaining
	AdjustmentTypeRemainingAdjustment AdjustmentType = "remaining_adjustment"
	// AdjustmentTypeDamage writes off remaining stock as damaged
	AdjustmentTypeDamage AdjustmentType = "damage"
	// AdjustmentTypeCostCorrection rewrites the per-unit cost price
	AdjustmentTypeCostCorrection AdjustmentType = "cost_correction"
	// AdjustmentTypeCombined applies any subset of the above in one pass
	AdjustmentTypeCombined AdjustmentType = "combined"
)

// IsValid checks if the adjustment type is valid
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentTypeQuantityCorrection, AdjustmentTypeRemainingAdjustment,
		AdjustmentTypeDamage, AdjustmentTypeCostCorrection, AdjustmentTypeCombined:
		return true
	}
	return false
}

// String returns the string representation
func (t AdjustmentType) String() string {
	return string(t)
}

// BatchAdjustment is the input contract of the adjustment engine. It is a
// value object, never persisted; the resulting ledger rows are.
type BatchAdjustment struct {
	Type                   AdjustmentType
	NewTotalQuantity       *decimal.Decimal
	RemainingQuantityDelta *decimal.Decimal
	DamageQuantity         *decimal.Decimal
	NewCostPrice           *decimal.Decimal
	Notes                  string
}

// Validate checks that the fields required by the adjustment type are
// present and well-formed. All validation happens before any write.
func (a BatchAdjustment) Validate() error {
	if !a.Type.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown adjustment type: "+string(a.Type))
	}

	switch a.Type {
	case AdjustmentTypeQuantityCorrection:
		if a.NewTotalQuantity == nil {
			return shared.NewDomainError("INVALID_INPUT", "Quantity correction requires a new total quantity")
		}
	case AdjustmentTypeRemainingAdjustment:
		if a.RemainingQuantityDelta == nil {
			return shared.NewDomainError("INVALID_INPUT", "Remaining adjustment requires a quantity delta")
		}
	case AdjustmentTypeDamage:
		if a.DamageQuantity == nil {
			return shared.NewDomainError("INVALID_INPUT", "Damage adjustment requires a damage quantity")
		}
	case AdjustmentTypeCostCorrection:
		if a.NewCostPrice == nil {
			return shared.NewDomainError("INVALID_INPUT", "Cost correction requires a new cost price")
		}
	case AdjustmentTypeCombined:
		if a.NewTotalQuantity == nil && a.RemainingQuantityDelta == nil &&
			a.DamageQuantity == nil && a.NewCostPrice == nil {
			return shared.NewDomainError("INVALID_INPUT", "Combined adjustment requires at least one field")
		}
	}

	if a.NewTotalQuantity != nil && a.NewTotalQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Total quantity cannot be negative")
	}
	if a.DamageQuantity != nil && a.DamageQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Damage quantity must be positive")
	}
	if a.NewCostPrice != nil && a.NewCostPrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Cost price cannot be negative")
	}
	return nil
}

// IsDamage returns true for pure damage adjustments, which never touch
// supplier debt
func (a BatchAdjustment) IsDamage() bool {
	return a.Type == AdjustmentTypeDamage
}

// AdjustmentOutcome summarizes what an adjustment did to a batch
type AdjustmentOutcome struct {
	// Delta is the net signed change applied to the remaining quantity,
	// recorded on the ledger row
	Delta decimal.Decimal
	// DebtDelta is the portion of Delta that is billable to the supplier.
	// Damage write-offs are absorbed as loss, so they are excluded.
	DebtDelta decimal.Decimal
	// Reason classifies the resulting ledger row
	Reason ChangeReason
	// EffectiveCostPrice is the per-unit cost after the adjustment
	EffectiveCostPrice decimal.Decimal
}

// ApplyAdjustment runs one adjustment against a batch and reports the net
// outcome. Combined adjustments apply their parts in a fixed order:
// quantity, then remaining, then damage, then cost.
func ApplyAdjustment(batch *StockBatch, adj BatchAdjustment) (*AdjustmentOutcome, error) {
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	delta := decimal.Zero
	damagePortion := decimal.Zero

	if adj.Type == AdjustmentTypeQuantityCorrection || (adj.Type == AdjustmentTypeCombined && adj.NewTotalQuantity != nil) {
		d, err := batch.CorrectQuantity(*adj.NewTotalQuantity)
		if err != nil {
			return nil, err
		}
		delta = delta.Add(d)
	}

	if adj.Type == AdjustmentTypeRemainingAdjustment || (adj.Type == AdjustmentTypeCombined && adj.RemainingQuantityDelta != nil) {
		if err := batch.AdjustRemaining(*adj.RemainingQuantityDelta); err != nil {
			return nil, err
		}
		delta = delta.Add(*adj.RemainingQuantityDelta)
	}

	if adj.Type == AdjustmentTypeDamage || (adj.Type == AdjustmentTypeCombined && adj.DamageQuantity != nil) {
		if err := batch.RecordDamage(*adj.DamageQuantity); err != nil {
			return nil, err
		}
		delta = delta.Sub(*adj.DamageQuantity)
		damagePortion = *adj.DamageQuantity
	}

	if adj.Type == AdjustmentTypeCostCorrection || (adj.Type == AdjustmentTypeCombined && adj.NewCostPrice != nil) {
		if err := batch.CorrectCost(*adj.NewCostPrice); err != nil {
			return nil, err
		}
	}

	if adj.Notes != "" {
		batch.Notes = adj.Notes
	}

	return &AdjustmentOutcome{
		Delta:              delta,
		DebtDelta:          delta.Add(damagePortion),
		Reason:             adj.changeReason(),
		EffectiveCostPrice: batch.EffectiveCostPrice(),
	}, nil
}

// changeReason maps the adjustment type to the ledger reason
func (a BatchAdjustment) changeReason() ChangeReason {
	switch a.Type {
	case AdjustmentTypeQuantityCorrection:
		return ChangeReasonQuantityCorrection
	case AdjustmentTypeDamage:
		return ChangeReasonDamage
	case AdjustmentTypeCostCorrection:
		return ChangeReasonCostCorrection
	default:
		return ChangeReasonManualAdjustment
	}
}
