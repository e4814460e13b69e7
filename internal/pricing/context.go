package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
)

// Line is the evaluation context for a single cart line. Total carries the
// running line total so chained modifiers see earlier adjustments.
type Line struct {
	Product  *models.Product
	Quantity int
	Total    decimal.Decimal
}

// Cart is the evaluation context for cart-level modifiers and for the
// redemption-code gate on line modifiers.
type Cart struct {
	Total        decimal.Decimal
	Quantity     int
	AppliedCodes []string
	Now          time.Time
}

// HasCode reports whether the shopper redeemed the given code string.
func (c Cart) HasCode(code string) bool {
	for _, applied := range c.AppliedCodes {
		if applied == code {
			return true
		}
	}
	return false
}

// ConditionRegistry resolves condition keys to predicate evaluations. The
// second return reports whether the key is known; unknown keys are treated
// as passing so a stale condition row never blocks a sale.
type ConditionRegistry interface {
	EvalLine(key string, line Line, arg decimal.Decimal) (result, known bool)
	EvalCart(key string, cart Cart, arg decimal.Decimal) (result, known bool)
}
