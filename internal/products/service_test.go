package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/pkg/config"
	"github.com/shopworks/catalog-backend/pkg/db"
	"github.com/shopworks/catalog-backend/pkg/db/models"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
)

// newServiceWithDB boots the full service against an in-memory database so
// transactional paths run for real.
func newServiceWithDB(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		DSN:          "file::memory:",
		Driver:       "sqlite",
		MaxOpenConns: 1,
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	if err := conn.Exec(productDDL).Error; err != nil {
		t.Fatalf("apply ddl: %v", err)
	}
	for _, stmt := range splitStatements(detailDDL) {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply detail ddl: %v", err)
		}
	}

	repo := NewRepository(conn)
	svc, err := NewService(repo, client, repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestValidatePricingInput(t *testing.T) {
	t.Run("negativePrice", func(t *testing.T) {
		err := validatePricingInput(decimal.NewFromInt(-1), nil)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("discountOutOfRange", func(t *testing.T) {
		over := decimal.NewFromInt(101)
		err := validatePricingInput(decimal.NewFromInt(10), &over)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("boundaryDiscount", func(t *testing.T) {
		full := decimal.NewFromInt(100)
		if err := validatePricingInput(decimal.NewFromInt(10), &full); err != nil {
			t.Fatalf("100%% discount should validate, got %v", err)
		}
	})
}

func TestBuildMeasurements(t *testing.T) {
	productID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		rows, err := buildMeasurements(productID, []MeasurementInput{
			{Kind: "weight", Value: decimal.NewFromInt(2), Unit: "kg"},
			{Kind: "width", Value: decimal.NewFromInt(30), Unit: "cm"},
		})
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
	})

	t.Run("weightWithDistanceUnit", func(t *testing.T) {
		_, err := buildMeasurements(productID, []MeasurementInput{
			{Kind: "weight", Value: decimal.NewFromInt(2), Unit: "cm"},
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("duplicateKind", func(t *testing.T) {
		_, err := buildMeasurements(productID, []MeasurementInput{
			{Kind: "width", Value: decimal.NewFromInt(1), Unit: "m"},
			{Kind: "width", Value: decimal.NewFromInt(2), Unit: "m"},
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknownUnit", func(t *testing.T) {
		_, err := buildMeasurements(productID, []MeasurementInput{
			{Kind: "width", Value: decimal.NewFromInt(1), Unit: "furlong"},
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestApplyUpdate(t *testing.T) {
	record := &models.Product{
		Name:      "Old",
		UnitPrice: decimal.NewFromInt(10),
		DiscountPercent: decimal.NullDecimal{
			Decimal: decimal.NewFromInt(5),
			Valid:   true,
		},
	}

	name := "  New Name "
	price := decimal.NewFromInt(20)
	applyUpdate(record, UpdateInput{Name: &name, UnitPrice: &price, ClearDiscount: true})

	if record.Name != "New Name" {
		t.Fatalf("expected trimmed name, got %q", record.Name)
	}
	if !record.UnitPrice.Equal(price) {
		t.Fatalf("expected price 20, got %s", record.UnitPrice)
	}
	if record.DiscountPercent.Valid {
		t.Fatal("expected discount cleared")
	}
}

func TestProductFlags(t *testing.T) {
	svc, _ := newServiceWithDB(t)
	ctx := context.Background()

	parent, err := svc.Create(ctx, CreateInput{
		Name: "Hoodie", Slug: "hoodie", UnitPrice: decimal.NewFromInt(40), Active: true,
		Flags: []FlagInput{{Code: "featured", Name: "Featured", Value: true}},
	})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if len(parent.Flags) != 1 || parent.Flags[0].Code != "featured" || !parent.Flags[0].Value {
		t.Fatalf("expected featured flag set, got %+v", parent.Flags)
	}

	t.Run("variantInheritsParentFlags", func(t *testing.T) {
		variant, err := svc.Create(ctx, CreateInput{
			Name: "Hoodie S", Slug: "hoodie-s", Active: true, ParentID: &parent.ID,
		})
		if err != nil {
			t.Fatalf("create variant: %v", err)
		}
		if len(variant.Flags) != 1 || variant.Flags[0].Code != "featured" || !variant.Flags[0].Value {
			t.Fatalf("expected inherited featured flag, got %+v", variant.Flags)
		}
	})

	t.Run("variantOverridesParentFlag", func(t *testing.T) {
		variant, err := svc.Create(ctx, CreateInput{
			Name: "Hoodie XL", Slug: "hoodie-xl", Active: true, ParentID: &parent.ID,
			Flags: []FlagInput{{Code: "featured", Value: false}},
		})
		if err != nil {
			t.Fatalf("create variant: %v", err)
		}
		if len(variant.Flags) != 1 || variant.Flags[0].Value {
			t.Fatalf("expected overridden featured=false, got %+v", variant.Flags)
		}
	})

	t.Run("duplicateFlagCode", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateInput{
			Name: "Dup", Slug: "dup", Active: true,
			Flags: []FlagInput{{Code: "sale"}, {Code: "sale"}},
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestProductRelatedProducts(t *testing.T) {
	svc, _ := newServiceWithDB(t)
	ctx := context.Background()

	base, err := svc.Create(ctx, CreateInput{Name: "Camera", Slug: "camera", Active: true})
	if err != nil {
		t.Fatalf("create base: %v", err)
	}
	lens, err := svc.Create(ctx, CreateInput{Name: "Lens", Slug: "lens", Active: true})
	if err != nil {
		t.Fatalf("create lens: %v", err)
	}

	updated, err := svc.Update(ctx, base.ID, UpdateInput{
		RelatedProducts: &[]RelatedProductInput{{ProductID: lens.ID, Kind: "cross_sell"}},
	})
	if err != nil {
		t.Fatalf("attach related: %v", err)
	}
	if len(updated.RelatedProducts) != 1 {
		t.Fatalf("expected 1 related product, got %d", len(updated.RelatedProducts))
	}
	if rel := updated.RelatedProducts[0]; rel.Slug != "lens" || rel.Kind != "cross_sell" {
		t.Fatalf("unexpected related entry %+v", rel)
	}

	t.Run("unknownTarget", func(t *testing.T) {
		_, err := svc.Update(ctx, base.ID, UpdateInput{
			RelatedProducts: &[]RelatedProductInput{{ProductID: uuid.New(), Kind: "up_sell"}},
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("selfReference", func(t *testing.T) {
		_, err := svc.Update(ctx, base.ID, UpdateInput{
			RelatedProducts: &[]RelatedProductInput{{ProductID: base.ID, Kind: "up_sell"}},
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknownKind", func(t *testing.T) {
		_, err := svc.Update(ctx, base.ID, UpdateInput{
			RelatedProducts: &[]RelatedProductInput{{ProductID: lens.ID, Kind: "bundle"}},
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestServiceReplaceModifiers(t *testing.T) {
	svc, conn := newServiceWithDB(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Tee", Slug: "tee", Active: true, IsDiscountable: true})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	lineMod := models.Modifier{
		ID: uuid.New(), Name: "Line Deal", Code: "line-deal", Kind: "discount", Active: true,
		Percent: decimal.NullDecimal{Decimal: decimal.NewFromInt(-10), Valid: true},
	}
	cartMod := models.Modifier{
		ID: uuid.New(), Name: "Cart Deal", Code: "cart-deal", Kind: "cart_modifier", Active: true,
		Percent: decimal.NullDecimal{Decimal: decimal.NewFromInt(-5), Valid: true},
	}
	for _, m := range []models.Modifier{lineMod, cartMod} {
		if err := conn.Create(&m).Error; err != nil {
			t.Fatalf("create modifier: %v", err)
		}
	}

	attached, err := svc.ReplaceModifiers(ctx, created.ID, []uuid.UUID{lineMod.ID})
	if err != nil {
		t.Fatalf("replace modifiers: %v", err)
	}
	if len(attached.Modifiers) != 1 || attached.Modifiers[0].Code != "line-deal" {
		t.Fatalf("expected line-deal attached, got %+v", attached.Modifiers)
	}

	t.Run("cartKindRejected", func(t *testing.T) {
		_, err := svc.ReplaceModifiers(ctx, created.ID, []uuid.UUID{cartMod.ID})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknownModifier", func(t *testing.T) {
		_, err := svc.ReplaceModifiers(ctx, created.ID, []uuid.UUID{uuid.New()})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("emptyListClears", func(t *testing.T) {
		cleared, err := svc.ReplaceModifiers(ctx, created.ID, nil)
		if err != nil {
			t.Fatalf("clear modifiers: %v", err)
		}
		if len(cleared.Modifiers) != 0 {
			t.Fatalf("expected no modifiers, got %+v", cleared.Modifiers)
		}
	})
}

func TestNewProductDTOComputesPricing(t *testing.T) {
	parent := &models.Product{
		ID:        uuid.New(),
		Name:      "Prod 1",
		Slug:      "prod-1",
		Active:    true,
		UnitPrice: decimal.NewFromInt(25),
		DiscountPercent: decimal.NullDecimal{
			Decimal: decimal.NewFromInt(20),
			Valid:   true,
		},
	}
	parentID := parent.ID
	parent.Variants = []models.Product{{
		ID:       uuid.New(),
		Name:     "Prod 1-1",
		Slug:     "prod-1-1",
		ParentID: &parentID,
	}}

	dto := NewProductDTO(parent)
	if !dto.IsGroup {
		t.Fatal("expected group product")
	}
	if dto.Purchasable {
		t.Fatal("group products are not purchasable")
	}
	if !dto.Pricing.Price.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected discounted price 20, got %s", dto.Pricing.Price)
	}

	// the variant inherits the parent's price and discount through the DTO
	v := dto.Variants[0]
	if !v.Pricing.UnitPrice.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected inherited unit price 25, got %s", v.Pricing.UnitPrice)
	}
	if !v.Pricing.InheritsPrice {
		t.Fatal("expected inherits_price on variant")
	}
}
