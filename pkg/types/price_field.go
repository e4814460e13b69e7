package types

import "github.com/shopspring/decimal"

// PriceField is a named price delta contributed by a modifier. Line items and
// carts persist the fields that applied so totals stay auditable.
type PriceField struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// PriceFields is stored as a JSON column on cart items and order items.
type PriceFields []PriceField
