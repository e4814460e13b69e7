package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
	"github.com/shopworks/catalog-backend/pkg/types"
)

// LinePriceField evaluates a modifier against a cart line. It returns the
// named price delta and whether the modifier applied. The gate order is
// eligibility, then conditions, then redemption codes.
func LinePriceField(m *models.Modifier, line Line, cart Cart, reg ConditionRegistry) (types.PriceField, bool) {
	if m == nil || !m.Active || line.Product == nil {
		return types.PriceField{}, false
	}
	if m.IsCartModifier() {
		return types.PriceField{}, false
	}
	if m.Kind == enums.ModifierKindDiscount && !line.Product.IsDiscountable {
		return types.PriceField{}, false
	}
	for _, cond := range m.Conditions {
		ok, known := reg.EvalLine(cond.Key, line, cond.Arg)
		if known && !ok {
			return types.PriceField{}, false
		}
	}
	if !codesSatisfied(m, cart) {
		return types.PriceField{}, false
	}
	delta, ok := delta(m, line.Total, line.Quantity)
	if !ok {
		return types.PriceField{}, false
	}
	return types.PriceField{Name: m.Name, Amount: delta}, true
}

// CartPriceField evaluates a cart-kind modifier against the whole cart.
func CartPriceField(m *models.Modifier, cart Cart, reg ConditionRegistry) (types.PriceField, bool) {
	if m == nil || !m.Active || !m.IsCartModifier() {
		return types.PriceField{}, false
	}
	for _, cond := range m.Conditions {
		ok, known := reg.EvalCart(cond.Key, cart, cond.Arg)
		if known && !ok {
			return types.PriceField{}, false
		}
	}
	if !codesSatisfied(m, cart) {
		return types.PriceField{}, false
	}
	delta, ok := delta(m, cart.Total, 1)
	if !ok {
		return types.PriceField{}, false
	}
	return types.PriceField{Name: m.Name, Amount: delta}, true
}

// codesSatisfied enforces the redemption gate. Only currently valid codes
// gate the modifier: one of them must be among the cart's applied codes.
// A modifier whose codes have all lapsed is ungated, unless RequiresCode
// forces the gate shut.
func codesSatisfied(m *models.Modifier, cart Cart) bool {
	gated := m.RequiresCode
	for _, code := range m.Codes {
		if !code.IsCurrentlyValid(cart.Now) {
			continue
		}
		gated = true
		if cart.HasCode(code.Code) {
			return true
		}
	}
	return !gated
}

// delta computes the raw adjustment. Percent takes precedence over amount;
// a modifier with neither contributes nothing.
func delta(m *models.Modifier, total decimal.Decimal, quantity int) (decimal.Decimal, bool) {
	if m.Percent.Valid {
		return round2(total.Mul(m.Percent.Decimal).Div(hundred)), true
	}
	if m.Amount.Valid {
		return round2(m.Amount.Decimal.Mul(decimal.NewFromInt(int64(quantity)))), true
	}
	return decimal.Zero, false
}

// ApplyLineModifiers folds modifiers over a line. Each applied field is
// reported as computed; the running total is clamped at zero so a stack of
// discounts can never drive a line negative.
func ApplyLineModifiers(mods []models.Modifier, line Line, cart Cart, reg ConditionRegistry) (decimal.Decimal, types.PriceFields) {
	var fields types.PriceFields
	total := line.Total
	for i := range mods {
		current := line
		current.Total = total
		field, ok := LinePriceField(&mods[i], current, cart, reg)
		if !ok {
			continue
		}
		fields = append(fields, field)
		total = clampZero(total.Add(field.Amount))
	}
	return round2(total), fields
}

// ApplyCartModifiers folds cart-kind modifiers over the cart total with the
// same clamp policy as lines.
func ApplyCartModifiers(mods []models.Modifier, cart Cart, reg ConditionRegistry) (decimal.Decimal, types.PriceFields) {
	var fields types.PriceFields
	total := cart.Total
	for i := range mods {
		current := cart
		current.Total = total
		field, ok := CartPriceField(&mods[i], current, reg)
		if !ok {
			continue
		}
		fields = append(fields, field)
		total = clampZero(total.Add(field.Amount))
	}
	return round2(total), fields
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
