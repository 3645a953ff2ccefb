package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// StockBatchSortFields contains allowed sort fields for stock batches
var StockBatchSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"item_kind":          true,
	"quantity":           true,
	"remaining_quantity": true,
	"damaged_quantity":   true,
	"cost_price":         true,
	"location_type":      true,
	"status":             true,
}

// StockChangeSortFields contains allowed sort fields for stock changes
var StockChangeSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"item_kind":  true,
	"change":     true,
	"reason":     true,
}

// StockTransferSortFields contains allowed sort fields for stock transfers
var StockTransferSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"transfer_type": true,
	"quantity":      true,
	"status":        true,
}

// ReplenishmentSortFields contains allowed sort fields for replenishment requests
var ReplenishmentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"shop_id":    true,
	"quantity":   true,
	"status":     true,
}
