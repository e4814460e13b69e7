// Package pricing implements the price resolution and modifier evaluation
// rules for catalog products. Everything here is a pure function over
// preloaded models; persistence and transport live in the domain services.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// round2 rounds half away from zero to two fractional digits, the same
// rounding every persisted money column uses.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// UnitPrice resolves the base unit price of a product. A variant whose own
// unit price is zero sells at its parent's price.
func UnitPrice(p *models.Product) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	if p.IsVariant() && p.UnitPrice.IsZero() && p.Parent != nil {
		return UnitPrice(p.Parent)
	}
	return round2(p.UnitPrice)
}

// DiscountPercent resolves the discount percentage, walking up to the parent
// when a variant leaves its own discount unset. Unset resolves to zero.
func DiscountPercent(p *models.Product) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	if p.DiscountPercent.Valid {
		return p.DiscountPercent.Decimal
	}
	if p.IsVariant() && p.Parent != nil {
		return DiscountPercent(p.Parent)
	}
	return decimal.Zero
}

// IsDiscounted reports whether a non-zero discount percentage is set on the
// product's inheritance chain. An explicit zero counts as no discount and
// does not fall through to the parent.
func IsDiscounted(p *models.Product) bool {
	if p == nil {
		return false
	}
	if p.DiscountPercent.Valid {
		return !p.DiscountPercent.Decimal.IsZero()
	}
	if p.IsVariant() && p.Parent != nil {
		return IsDiscounted(p.Parent)
	}
	return false
}

// ResolveTax returns the tax that applies to the product, walking up to the
// parent when a variant has no tax of its own.
func ResolveTax(p *models.Product) *models.Tax {
	if p == nil {
		return nil
	}
	if p.TaxID != nil {
		return p.Tax
	}
	if p.IsVariant() && p.Parent != nil {
		return ResolveTax(p.Parent)
	}
	return nil
}

// TaxPercent resolves the tax percentage via ResolveTax; no tax means zero.
func TaxPercent(p *models.Product) decimal.Decimal {
	tax := ResolveTax(p)
	if tax == nil {
		return decimal.Zero
	}
	return tax.Percent
}

// IsTaxed reports whether a tax applies anywhere on the inheritance chain.
func IsTaxed(p *models.Product) bool {
	return ResolveTax(p) != nil
}

// Price computes the selling price: the resolved unit price, minus the
// resolved discount, plus the resolved tax on the discounted amount,
// rounded to two fractional digits.
func Price(p *models.Product) decimal.Decimal {
	price := UnitPrice(p)
	if IsDiscounted(p) {
		price = price.Sub(price.Mul(DiscountPercent(p)).Div(hundred))
	}
	if IsTaxed(p) {
		price = price.Add(price.Mul(TaxPercent(p)).Div(hundred))
	}
	return round2(price)
}
