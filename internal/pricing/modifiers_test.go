package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
)

// stubRegistry resolves every key from a fixed map; keys absent from the map
// are unknown.
type stubRegistry struct {
	results map[string]bool
}

func (s stubRegistry) EvalLine(key string, _ Line, _ decimal.Decimal) (bool, bool) {
	result, known := s.results[key]
	return result, known
}

func (s stubRegistry) EvalCart(key string, _ Cart, _ decimal.Decimal) (bool, bool) {
	result, known := s.results[key]
	return result, known
}

func discountableLine(total string) Line {
	return Line{
		Product:  &models.Product{ID: uuid.New(), IsDiscountable: true, UnitPrice: dec(total)},
		Quantity: 1,
		Total:    dec(total),
	}
}

func TestLinePriceFieldEligibility(t *testing.T) {
	reg := stubRegistry{}
	cart := Cart{Now: time.Now()}

	t.Run("percentDelta", func(t *testing.T) {
		m := &models.Modifier{ID: uuid.New(), Name: "Summer Sale", Active: true, Percent: nullDec("-10")}
		field, ok := LinePriceField(m, discountableLine("50"), cart, reg)
		if !ok {
			t.Fatal("expected modifier to apply")
		}
		if !field.Amount.Equal(dec("-5")) {
			t.Fatalf("expected -5, got %s", field.Amount)
		}
		if field.Name != "Summer Sale" {
			t.Fatalf("unexpected field name %q", field.Name)
		}
	})

	t.Run("amountDeltaScalesWithQuantity", func(t *testing.T) {
		m := &models.Modifier{ID: uuid.New(), Name: "Handling", Active: true, Amount: nullDec("2.50")}
		line := discountableLine("50")
		line.Quantity = 3
		field, ok := LinePriceField(m, line, cart, reg)
		if !ok || !field.Amount.Equal(dec("7.50")) {
			t.Fatalf("expected 7.50, got %s (ok=%v)", field.Amount, ok)
		}
	})

	t.Run("inactiveModifier", func(t *testing.T) {
		m := &models.Modifier{ID: uuid.New(), Percent: nullDec("-10")}
		if _, ok := LinePriceField(m, discountableLine("50"), cart, reg); ok {
			t.Fatal("inactive modifier must not apply")
		}
	})

	t.Run("discountKindNeedsDiscountableProduct", func(t *testing.T) {
		m := &models.Modifier{ID: uuid.New(), Active: true, Kind: enums.ModifierKindDiscount, Percent: nullDec("-10")}
		line := discountableLine("50")
		line.Product.IsDiscountable = false
		if _, ok := LinePriceField(m, line, cart, reg); ok {
			t.Fatal("discount must not apply to non-discountable product")
		}
	})

	t.Run("standardKindIgnoresDiscountability", func(t *testing.T) {
		m := &models.Modifier{ID: uuid.New(), Active: true, Kind: enums.ModifierKindStandard, Amount: nullDec("1.50")}
		line := discountableLine("50")
		line.Product.IsDiscountable = false
		if _, ok := LinePriceField(m, line, cart, reg); !ok {
			t.Fatal("standard modifier must apply regardless of discountability")
		}
	})

	t.Run("cartModifierNeverAppliesToLine", func(t *testing.T) {
		m := &models.Modifier{ID: uuid.New(), Active: true, Kind: enums.ModifierKindCart, Percent: nullDec("-10")}
		if _, ok := LinePriceField(m, discountableLine("50"), cart, reg); ok {
			t.Fatal("cart modifier must not apply to a line")
		}
	})

	t.Run("neitherPercentNorAmount", func(t *testing.T) {
		m := &models.Modifier{ID: uuid.New(), Active: true}
		if _, ok := LinePriceField(m, discountableLine("50"), cart, reg); ok {
			t.Fatal("empty modifier must not apply")
		}
	})
}

func TestLinePriceFieldConditions(t *testing.T) {
	cart := Cart{Now: time.Now()}
	m := &models.Modifier{
		ID:      uuid.New(),
		Name:    "Bulk",
		Active:  true,
		Percent: nullDec("-15"),
		Conditions: []models.ModifierCondition{
			{Key: "quantity_gt", Arg: dec("10")},
		},
	}

	t.Run("failingConditionBlocks", func(t *testing.T) {
		reg := stubRegistry{results: map[string]bool{"quantity_gt": false}}
		if _, ok := LinePriceField(m, discountableLine("50"), cart, reg); ok {
			t.Fatal("failing condition must block the modifier")
		}
	})

	t.Run("passingConditionAllows", func(t *testing.T) {
		reg := stubRegistry{results: map[string]bool{"quantity_gt": true}}
		if _, ok := LinePriceField(m, discountableLine("50"), cart, reg); !ok {
			t.Fatal("passing condition must allow the modifier")
		}
	})

	t.Run("unknownKeyFailsOpen", func(t *testing.T) {
		reg := stubRegistry{}
		if _, ok := LinePriceField(m, discountableLine("50"), cart, reg); !ok {
			t.Fatal("unknown condition key must not block the modifier")
		}
	})
}

func TestCodeGating(t *testing.T) {
	reg := stubRegistry{}
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	gated := &models.Modifier{
		ID:      uuid.New(),
		Name:    "Promo",
		Active:  true,
		Percent: nullDec("-20"),
		Codes: []models.ModifierCode{
			{Code: "SAVE20", Active: true, ValidFrom: &past, ValidUntil: &future},
		},
	}

	t.Run("withoutRedeemedCode", func(t *testing.T) {
		cart := Cart{Now: now}
		if _, ok := LinePriceField(gated, discountableLine("50"), cart, reg); ok {
			t.Fatal("gated modifier must not apply without a redeemed code")
		}
	})

	t.Run("withRedeemedCode", func(t *testing.T) {
		cart := Cart{Now: now, AppliedCodes: []string{"SAVE20"}}
		if _, ok := LinePriceField(gated, discountableLine("50"), cart, reg); !ok {
			t.Fatal("gated modifier must apply once its code is redeemed")
		}
	})

	t.Run("expiredCodeDoesNotUnlock", func(t *testing.T) {
		m := &models.Modifier{
			ID:      uuid.New(),
			Active:  true,
			Percent: nullDec("-20"),
			Codes: []models.ModifierCode{
				{Code: "OLD", Active: true, ValidUntil: &past},
				{Code: "NEW", Active: true, ValidFrom: &past, ValidUntil: &future},
			},
		}
		cart := Cart{Now: now, AppliedCodes: []string{"OLD"}}
		if _, ok := LinePriceField(m, discountableLine("50"), cart, reg); ok {
			t.Fatal("expired code must not unlock the modifier")
		}
	})

	t.Run("allCodesExpiredLiftsGate", func(t *testing.T) {
		m := &models.Modifier{
			ID:      uuid.New(),
			Active:  true,
			Percent: nullDec("-20"),
			Codes: []models.ModifierCode{
				{Code: "OLD", Active: true, ValidUntil: &past},
			},
		}
		cart := Cart{Now: now}
		if _, ok := LinePriceField(m, discountableLine("50"), cart, reg); !ok {
			t.Fatal("modifier with only lapsed codes must apply without a code")
		}
	})

	t.Run("inactiveCodeLiftsGate", func(t *testing.T) {
		m := &models.Modifier{
			ID:      uuid.New(),
			Active:  true,
			Percent: nullDec("-20"),
			Codes: []models.ModifierCode{
				{Code: "PAUSED", ValidFrom: &past, ValidUntil: &future},
			},
		}
		cart := Cart{Now: now}
		if _, ok := LinePriceField(m, discountableLine("50"), cart, reg); !ok {
			t.Fatal("modifier with only inactive codes must apply without a code")
		}
	})

	t.Run("requiresCodeWithNoCodesNeverApplies", func(t *testing.T) {
		m := &models.Modifier{ID: uuid.New(), Active: true, RequiresCode: true, Percent: nullDec("-5")}
		cart := Cart{Now: now, AppliedCodes: []string{"ANYTHING"}}
		if _, ok := LinePriceField(m, discountableLine("50"), cart, reg); ok {
			t.Fatal("code-required modifier with no codes must never apply")
		}
	})
}

func TestApplyLineModifiersClampsRunningTotal(t *testing.T) {
	reg := stubRegistry{}
	cart := Cart{Now: time.Now()}
	mods := []models.Modifier{
		{ID: uuid.New(), Name: "Big Discount", Active: true, Amount: nullDec("-40")},
		{ID: uuid.New(), Name: "Extra", Active: true, Amount: nullDec("-40")},
	}
	line := discountableLine("50")

	total, fields := ApplyLineModifiers(mods, line, cart, reg)
	if !total.IsZero() {
		t.Fatalf("expected clamped total 0, got %s", total)
	}
	if len(fields) != 2 {
		t.Fatalf("expected both fields reported, got %d", len(fields))
	}
	// fields report the raw deltas even though the total clamps
	if !fields[0].Amount.Equal(dec("-40")) || !fields[1].Amount.Equal(dec("-40")) {
		t.Fatalf("expected raw -40 deltas, got %s and %s", fields[0].Amount, fields[1].Amount)
	}
}

func TestApplyLineModifiersChainsTotals(t *testing.T) {
	reg := stubRegistry{}
	cart := Cart{Now: time.Now()}
	mods := []models.Modifier{
		{ID: uuid.New(), Name: "Ten Off", Active: true, Percent: nullDec("-10")},
		{ID: uuid.New(), Name: "Ten More", Active: true, Percent: nullDec("-10")},
	}
	line := discountableLine("100")

	total, fields := ApplyLineModifiers(mods, line, cart, reg)
	// second percent applies to the already reduced total: 100 -> 90 -> 81
	if !total.Equal(dec("81")) {
		t.Fatalf("expected 81, got %s", total)
	}
	if !fields[1].Amount.Equal(dec("-9")) {
		t.Fatalf("expected second delta -9, got %s", fields[1].Amount)
	}
}

func TestApplyCartModifiers(t *testing.T) {
	reg := stubRegistry{}
	mods := []models.Modifier{
		{ID: uuid.New(), Name: "Order Discount", Active: true, Kind: enums.ModifierKindCart, Percent: nullDec("-10")},
		{ID: uuid.New(), Name: "Line Only", Active: true, Percent: nullDec("-50")},
	}
	cart := Cart{Total: dec("200"), Quantity: 4, Now: time.Now()}

	total, fields := ApplyCartModifiers(mods, cart, reg)
	if !total.Equal(dec("180")) {
		t.Fatalf("expected 180, got %s", total)
	}
	if len(fields) != 1 {
		t.Fatalf("expected only the cart modifier to apply, got %d fields", len(fields))
	}
}
