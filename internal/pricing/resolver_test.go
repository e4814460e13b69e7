package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func variantOf(parent *models.Product) *models.Product {
	id := parent.ID
	return &models.Product{
		ID:       uuid.New(),
		ParentID: &id,
		Parent:   parent,
	}
}

func TestUnitPriceInheritance(t *testing.T) {
	parent := &models.Product{ID: uuid.New(), UnitPrice: dec("25.00")}

	t.Run("variantWithZeroPriceInherits", func(t *testing.T) {
		v := variantOf(parent)
		if got := UnitPrice(v); !got.Equal(dec("25.00")) {
			t.Fatalf("expected inherited 25.00, got %s", got)
		}
	})

	t.Run("variantWithOwnPrice", func(t *testing.T) {
		v := variantOf(parent)
		v.UnitPrice = dec("30.00")
		if got := UnitPrice(v); !got.Equal(dec("30.00")) {
			t.Fatalf("expected own 30.00, got %s", got)
		}
	})

	t.Run("nilProduct", func(t *testing.T) {
		if got := UnitPrice(nil); !got.IsZero() {
			t.Fatalf("expected zero, got %s", got)
		}
	})
}

func TestDiscountPercentInheritance(t *testing.T) {
	parent := &models.Product{ID: uuid.New(), UnitPrice: dec("100"), DiscountPercent: nullDec("10")}

	t.Run("variantInheritsUnsetDiscount", func(t *testing.T) {
		v := variantOf(parent)
		if got := DiscountPercent(v); !got.Equal(dec("10")) {
			t.Fatalf("expected 10, got %s", got)
		}
		if !IsDiscounted(v) {
			t.Fatal("expected variant to be discounted via parent")
		}
	})

	t.Run("variantOverridesDiscount", func(t *testing.T) {
		v := variantOf(parent)
		v.DiscountPercent = nullDec("5")
		if got := DiscountPercent(v); !got.Equal(dec("5")) {
			t.Fatalf("expected 5, got %s", got)
		}
	})

	t.Run("explicitZeroIsNotInherited", func(t *testing.T) {
		v := variantOf(parent)
		v.DiscountPercent = nullDec("0")
		if got := DiscountPercent(v); !got.IsZero() {
			t.Fatalf("expected 0, got %s", got)
		}
	})

	t.Run("explicitZeroIsNotDiscounted", func(t *testing.T) {
		v := variantOf(parent)
		v.DiscountPercent = nullDec("0")
		if IsDiscounted(v) {
			t.Fatal("zero percent must not count as discounted")
		}
	})

	t.Run("topLevelZeroIsNotDiscounted", func(t *testing.T) {
		p := &models.Product{ID: uuid.New(), UnitPrice: dec("100"), DiscountPercent: nullDec("0")}
		if IsDiscounted(p) {
			t.Fatal("zero percent must not count as discounted")
		}
	})

	t.Run("noDiscountAnywhere", func(t *testing.T) {
		p := &models.Product{ID: uuid.New(), UnitPrice: dec("100")}
		if IsDiscounted(p) {
			t.Fatal("expected no discount")
		}
	})
}

func TestTaxInheritance(t *testing.T) {
	tax := &models.Tax{ID: uuid.New(), Name: "VAT", Percent: dec("20")}
	taxID := tax.ID
	parent := &models.Product{ID: uuid.New(), UnitPrice: dec("50"), TaxID: &taxID, Tax: tax}

	t.Run("variantInheritsTax", func(t *testing.T) {
		v := variantOf(parent)
		if !IsTaxed(v) {
			t.Fatal("expected taxed via parent")
		}
		if got := TaxPercent(v); !got.Equal(dec("20")) {
			t.Fatalf("expected 20, got %s", got)
		}
	})

	t.Run("untaxedChain", func(t *testing.T) {
		p := &models.Product{ID: uuid.New()}
		if IsTaxed(p) {
			t.Fatal("expected untaxed")
		}
	})
}

func TestPrice(t *testing.T) {
	tax := &models.Tax{ID: uuid.New(), Name: "VAT", Percent: dec("20")}
	taxID := tax.ID

	t.Run("plain", func(t *testing.T) {
		p := &models.Product{UnitPrice: dec("19.99")}
		if got := Price(p); !got.Equal(dec("19.99")) {
			t.Fatalf("expected 19.99, got %s", got)
		}
	})

	t.Run("discountThenTax", func(t *testing.T) {
		// 100 - 10% = 90, + 20% tax = 108
		p := &models.Product{
			UnitPrice:       dec("100"),
			DiscountPercent: nullDec("10"),
			TaxID:           &taxID,
			Tax:             tax,
		}
		if got := Price(p); !got.Equal(dec("108")) {
			t.Fatalf("expected 108, got %s", got)
		}
	})

	t.Run("roundsHalfUp", func(t *testing.T) {
		// 10.01 - 2.5% = 9.759750 -> 9.76
		p := &models.Product{UnitPrice: dec("10.01"), DiscountPercent: nullDec("2.5")}
		if got := Price(p); !got.Equal(dec("9.76")) {
			t.Fatalf("expected 9.76, got %s", got)
		}
	})

	t.Run("variantFullChain", func(t *testing.T) {
		parent := &models.Product{
			ID:              uuid.New(),
			UnitPrice:       dec("40"),
			DiscountPercent: nullDec("25"),
		}
		v := variantOf(parent)
		if got := Price(v); !got.Equal(dec("30")) {
			t.Fatalf("expected 30, got %s", got)
		}
	})
}

func TestStandardMeasurementInheritance(t *testing.T) {
	parent := &models.Product{
		ID: uuid.New(),
		Measurements: []models.ProductMeasurement{
			{Kind: "weight", Value: dec("0.5"), Unit: "kg"},
		},
	}

	t.Run("converted", func(t *testing.T) {
		got, ok := StandardMeasurement(parent, "weight")
		if !ok {
			t.Fatal("expected measurement present")
		}
		if !got.Equal(dec("500")) {
			t.Fatalf("expected 500 g, got %s", got)
		}
	})

	t.Run("variantInherits", func(t *testing.T) {
		v := variantOf(parent)
		got, ok := StandardMeasurement(v, "weight")
		if !ok || !got.Equal(dec("500")) {
			t.Fatalf("expected inherited 500 g, got %s (ok=%v)", got, ok)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, ok := StandardMeasurement(parent, "width"); ok {
			t.Fatal("expected missing width")
		}
	})
}
