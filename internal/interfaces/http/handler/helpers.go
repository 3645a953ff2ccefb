package handler

import "github.com/shopspring/decimal"

// Request DTOs carry quantities and money as float64; the domain works
// in decimal. These helpers do the conversion at the handler boundary.

func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func toDecimalPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}
