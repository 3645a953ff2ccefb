package partner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
)

// DebtEntryResponse is the API view of a debt ledger row
type DebtEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	BatchID     *uuid.UUID      `json:"batch_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToDebtEntryResponse maps a ledger row to its API view
func ToDebtEntryResponse(e *partner.SupplierDebtEntry) DebtEntryResponse {
	return DebtEntryResponse{
		ID:          e.ID,
		SupplierID:  e.SupplierID,
		Kind:        string(e.Kind),
		Amount:      e.Amount,
		Description: e.Description,
		BatchID:     e.BatchID,
		CreatedAt:   e.CreatedAt,
	}
}

// SupplierDebtResponse is the computed debt position of one supplier
type SupplierDebtResponse struct {
	SupplierID  uuid.UUID           `json:"supplier_id"`
	Outstanding decimal.Decimal     `json:"outstanding"`
	Entries     []DebtEntryResponse `json:"entries"`
}

// DebtService maintains the supplier debt ledger. Refunds are capped at
// the outstanding debt at write time so the ledger sum never goes
// negative.
type DebtService struct {
	debtRepo partner.SupplierDebtRepository
}

// NewDebtService creates a new DebtService
func NewDebtService(debtRepo partner.SupplierDebtRepository) *DebtService {
	return &DebtService{debtRepo: debtRepo}
}

// AddDebt records new debt towards a supplier
func (s *DebtService) AddDebt(ctx context.Context, tenantID, supplierID uuid.UUID, amount decimal.Decimal, description string, batchID *uuid.UUID) (*DebtEntryResponse, error) {
	entry, err := partner.NewDebtEntry(tenantID, supplierID, amount, description, batchID)
	if err != nil {
		return nil, err
	}
	if err := s.debtRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	response := ToDebtEntryResponse(entry)
	return &response, nil
}

// AddRefund records a refund, capped at the supplier's outstanding debt.
// Fails with INVALID_STATE when there is nothing to refund.
func (s *DebtService) AddRefund(ctx context.Context, tenantID, supplierID uuid.UUID, amount decimal.Decimal, description string) (*DebtEntryResponse, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Refund amount must be positive")
	}

	outstanding, err := s.debtRepo.Outstanding(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if outstanding.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_STATE", "Supplier has no outstanding debt to refund")
	}

	capped := decimal.Min(amount, outstanding)
	entry, err := partner.NewRefundEntry(tenantID, supplierID, capped, description)
	if err != nil {
		return nil, err
	}
	if err := s.debtRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	response := ToDebtEntryResponse(entry)
	return &response, nil
}

// RecordAdjustment applies a signed debt adjustment coming from a stock
// mutation: positive amounts become debt, negative amounts a capped
// refund. A refund against zero outstanding debt is a no-op.
func (s *DebtService) RecordAdjustment(ctx context.Context, tenantID, supplierID uuid.UUID, amount decimal.Decimal, description string, batchID *uuid.UUID) (*DebtEntryResponse, error) {
	switch {
	case amount.GreaterThan(decimal.Zero):
		return s.AddDebt(ctx, tenantID, supplierID, amount, description, batchID)
	case amount.LessThan(decimal.Zero):
		response, err := s.AddRefund(ctx, tenantID, supplierID, amount.Neg(), description)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == "INVALID_STATE" {
				return nil, nil
			}
			return nil, err
		}
		return response, nil
	default:
		return nil, nil
	}
}

// GetDebt returns the supplier's outstanding debt and its ledger rows
func (s *DebtService) GetDebt(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierDebtResponse, error) {
	entries, err := s.debtRepo.FindBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	responses := make([]DebtEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, ToDebtEntryResponse(e))
	}
	return &SupplierDebtResponse{
		SupplierID:  supplierID,
		Outstanding: partner.OutstandingFromEntries(entries),
		Entries:     responses,
	}, nil
}

// RemoveEntry deletes one ledger row. Exceptional corrections only.
func (s *DebtService) RemoveEntry(ctx context.Context, tenantID, supplierID, entryID uuid.UUID) error {
	return s.debtRepo.DeleteByID(ctx, tenantID, supplierID, entryID)
}
