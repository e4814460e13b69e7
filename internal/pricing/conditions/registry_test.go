package conditions_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/internal/pricing"
	"github.com/shopworks/catalog-backend/internal/pricing/conditions"
	"github.com/shopworks/catalog-backend/pkg/db/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(price string, quantity int) pricing.Line {
	return pricing.Line{
		Product:  &models.Product{ID: uuid.New(), IsDiscountable: true, UnitPrice: dec(price)},
		Quantity: quantity,
		Total:    dec(price).Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func TestPricePredicates(t *testing.T) {
	reg := conditions.NewRegistry()

	cases := []struct {
		key  string
		arg  string
		want bool
	}{
		{"price_gt", "10", true},
		{"price_gt", "20", false},
		{"price_lt", "20", true},
		{"price_lt", "10", false},
	}
	for _, tc := range cases {
		got, known := reg.EvalLine(tc.key, line("15", 1), dec(tc.arg))
		if !known {
			t.Fatalf("%s should be a known key", tc.key)
		}
		if got != tc.want {
			t.Errorf("%s(%s) on price 15 = %v, want %v", tc.key, tc.arg, got, tc.want)
		}
	}
}

func TestQuantityPredicates(t *testing.T) {
	reg := conditions.NewRegistry()

	got, known := reg.EvalLine("quantity_gt", line("5", 12), dec("10"))
	if !known || !got {
		t.Fatalf("quantity_gt(10) with qty 12 = %v (known=%v)", got, known)
	}
	got, _ = reg.EvalLine("quantity_lt", line("5", 12), dec("10"))
	if got {
		t.Fatal("quantity_lt(10) with qty 12 should fail")
	}

	// quantity has no cart-level meaning, so it never blocks there
	got, known = reg.EvalCart("quantity_gt", pricing.Cart{Quantity: 1}, dec("100"))
	if !known || !got {
		t.Fatalf("cart-level quantity_gt should be vacuously true, got %v (known=%v)", got, known)
	}
}

func TestMeasurementPredicates(t *testing.T) {
	reg := conditions.NewRegistry()

	heavy := line("5", 1)
	heavy.Product.Measurements = []models.ProductMeasurement{
		{Kind: "weight", Value: dec("2"), Unit: "kg"},
	}

	got, known := reg.EvalLine("weight_gt", heavy, dec("1000"))
	if !known || !got {
		t.Fatalf("weight_gt(1000g) with 2kg = %v (known=%v)", got, known)
	}
	got, _ = reg.EvalLine("weight_lt", heavy, dec("1000"))
	if got {
		t.Fatal("weight_lt(1000g) with 2kg should fail")
	}

	t.Run("missingMeasurementFails", func(t *testing.T) {
		bare := line("5", 1)
		got, known := reg.EvalLine("width_gt", bare, dec("1"))
		if !known {
			t.Fatal("width_gt should be a known key")
		}
		if got {
			t.Fatal("missing measurement must fail the condition")
		}
	})

	t.Run("cartLevelVacuous", func(t *testing.T) {
		got, known := reg.EvalCart("depth_lt", pricing.Cart{}, dec("1"))
		if !known || !got {
			t.Fatalf("cart-level depth_lt should be vacuously true, got %v (known=%v)", got, known)
		}
	})
}

func TestCartPricePredicates(t *testing.T) {
	reg := conditions.NewRegistry()
	cart := pricing.Cart{Total: dec("150")}

	got, known := reg.EvalCart("price_gt", cart, dec("100"))
	if !known || !got {
		t.Fatalf("cart price_gt(100) with total 150 = %v (known=%v)", got, known)
	}
	got, _ = reg.EvalCart("price_lt", cart, dec("100"))
	if got {
		t.Fatal("cart price_lt(100) with total 150 should fail")
	}
}

func TestUnknownKeyReportsUnknown(t *testing.T) {
	reg := conditions.NewRegistry()
	if _, known := reg.EvalLine("phase_of_moon", line("5", 1), dec("1")); known {
		t.Fatal("unregistered key must report unknown")
	}
	if _, known := reg.EvalCart("phase_of_moon", pricing.Cart{}, dec("1")); known {
		t.Fatal("unregistered key must report unknown")
	}
}

func TestCustomRegistration(t *testing.T) {
	reg := conditions.NewRegistry()
	reg.RegisterLine("always_no", func(pricing.Line, decimal.Decimal) bool { return false })

	got, known := reg.EvalLine("always_no", line("5", 1), dec("0"))
	if !known || got {
		t.Fatalf("custom predicate should be known and false, got %v (known=%v)", got, known)
	}
}
