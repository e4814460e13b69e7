// Package conditions holds the predicate registry backing modifier
// conditions. Keys are stable strings stored on condition rows; adding a new
// predicate is a registry entry, not a schema change.
package conditions

import (
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/internal/pricing"
	"github.com/shopworks/catalog-backend/pkg/enums"
)

// LinePredicate evaluates a condition against a single cart line.
type LinePredicate func(line pricing.Line, arg decimal.Decimal) bool

// CartPredicate evaluates a condition against the whole cart.
type CartPredicate func(cart pricing.Cart, arg decimal.Decimal) bool

// Registry maps condition keys to their line and cart evaluations. It
// implements pricing.ConditionRegistry.
type Registry struct {
	line map[string]LinePredicate
	cart map[string]CartPredicate
}

// NewRegistry returns a registry preloaded with the built-in predicates.
func NewRegistry() *Registry {
	r := &Registry{
		line: map[string]LinePredicate{},
		cart: map[string]CartPredicate{},
	}
	r.registerBuiltins()
	return r
}

// RegisterLine binds a line predicate to a key, replacing any existing one.
func (r *Registry) RegisterLine(key string, pred LinePredicate) {
	r.line[key] = pred
}

// RegisterCart binds a cart predicate to a key, replacing any existing one.
func (r *Registry) RegisterCart(key string, pred CartPredicate) {
	r.cart[key] = pred
}

// EvalLine evaluates a key against a line. Unknown keys report known=false.
func (r *Registry) EvalLine(key string, line pricing.Line, arg decimal.Decimal) (bool, bool) {
	pred, ok := r.line[key]
	if !ok {
		return false, false
	}
	return pred(line, arg), true
}

// EvalCart evaluates a key against a cart. Keys that only make sense per
// line (quantity, measurements) are vacuously true at cart level.
func (r *Registry) EvalCart(key string, cart pricing.Cart, arg decimal.Decimal) (bool, bool) {
	pred, ok := r.cart[key]
	if !ok {
		return false, false
	}
	return pred(cart, arg), true
}

func (r *Registry) registerBuiltins() {
	r.RegisterLine("price_gt", func(line pricing.Line, arg decimal.Decimal) bool {
		return pricing.Price(line.Product).GreaterThan(arg)
	})
	r.RegisterLine("price_lt", func(line pricing.Line, arg decimal.Decimal) bool {
		return pricing.Price(line.Product).LessThan(arg)
	})
	r.RegisterCart("price_gt", func(cart pricing.Cart, arg decimal.Decimal) bool {
		return cart.Total.GreaterThan(arg)
	})
	r.RegisterCart("price_lt", func(cart pricing.Cart, arg decimal.Decimal) bool {
		return cart.Total.LessThan(arg)
	})

	r.RegisterLine("quantity_gt", func(line pricing.Line, arg decimal.Decimal) bool {
		return decimal.NewFromInt(int64(line.Quantity)).GreaterThan(arg)
	})
	r.RegisterLine("quantity_lt", func(line pricing.Line, arg decimal.Decimal) bool {
		return decimal.NewFromInt(int64(line.Quantity)).LessThan(arg)
	})
	r.RegisterCart("quantity_gt", alwaysTrue)
	r.RegisterCart("quantity_lt", alwaysTrue)

	measurements := map[string]enums.MeasurementKind{
		"width":  enums.MeasurementKindWidth,
		"height": enums.MeasurementKindHeight,
		"depth":  enums.MeasurementKindDepth,
		"weight": enums.MeasurementKindWeight,
	}
	for name, kind := range measurements {
		kind := kind
		r.RegisterLine(name+"_gt", func(line pricing.Line, arg decimal.Decimal) bool {
			value, ok := pricing.StandardMeasurement(line.Product, kind)
			return ok && value.GreaterThan(arg)
		})
		r.RegisterLine(name+"_lt", func(line pricing.Line, arg decimal.Decimal) bool {
			value, ok := pricing.StandardMeasurement(line.Product, kind)
			return ok && value.LessThan(arg)
		})
		r.RegisterCart(name+"_gt", alwaysTrue)
		r.RegisterCart(name+"_lt", alwaysTrue)
	}
}

func alwaysTrue(pricing.Cart, decimal.Decimal) bool { return true }
