package categorization

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
)

const categorizationDDL = `
CREATE TABLE catalog_categories (
    id text PRIMARY KEY,
    name text NOT NULL,
    slug text NOT NULL UNIQUE,
    description text,
    active boolean NOT NULL DEFAULT true,
    parent_id text,
    created_at datetime NOT NULL,
    updated_at datetime NOT NULL
);
CREATE TABLE catalog_modifiers (
    id text PRIMARY KEY,
    name text NOT NULL,
    code text NOT NULL UNIQUE,
    kind text NOT NULL DEFAULT 'discount',
    active boolean NOT NULL DEFAULT true,
    percent numeric,
    amount numeric,
    requires_code boolean NOT NULL DEFAULT false,
    created_at datetime NOT NULL,
    updated_at datetime NOT NULL
);
CREATE TABLE catalog_modifier_conditions (
    id text PRIMARY KEY,
    modifier_id text NOT NULL,
    key text NOT NULL,
    arg numeric NOT NULL,
    created_at datetime NOT NULL
);
CREATE TABLE catalog_modifier_codes (
    id text PRIMARY KEY,
    modifier_id text NOT NULL,
    code text NOT NULL UNIQUE,
    active boolean NOT NULL DEFAULT true,
    valid_from datetime,
    valid_until datetime,
    created_at datetime NOT NULL,
    updated_at datetime NOT NULL
);
CREATE TABLE catalog_category_modifiers (
    category_id text NOT NULL,
    modifier_id text NOT NULL,
    PRIMARY KEY (category_id, modifier_id)
);
`

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection keeps the in-memory database alive for the whole test
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	for _, stmt := range splitStatements(categorizationDDL) {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply ddl: %v", err)
		}
	}
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, conn
}

func splitStatements(ddl string) []string {
	var out []string
	start := 0
	for i := 0; i < len(ddl); i++ {
		if ddl[i] == ';' {
			out = append(out, ddl[start:i+1])
			start = i + 1
		}
	}
	return out
}

func TestCreateAndGetNode(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateNode(ctx, NodeKindCategory, NodeInput{Name: "Beverages", Slug: "beverages", Active: true})
	if err != nil {
		t.Fatalf("create node: %v", err)
	}

	got, err := svc.GetNode(ctx, NodeKindCategory, created.ID)
	if err != nil {
		t.Fatalf("get node: %v", err)
	}
	if got.Name != "Beverages" || got.Kind != NodeKindCategory {
		t.Fatalf("unexpected node %+v", got)
	}
}

func TestCreateNodeValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("missingName", func(t *testing.T) {
		_, err := svc.CreateNode(ctx, NodeKindCategory, NodeInput{Slug: "x"})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknownKind", func(t *testing.T) {
		_, err := svc.CreateNode(ctx, NodeKind("warehouse"), NodeInput{Name: "x", Slug: "x"})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("missingParent", func(t *testing.T) {
		phantom := uuid.New()
		_, err := svc.CreateNode(ctx, NodeKindCategory, NodeInput{Name: "x", Slug: "x2", ParentID: &phantom})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}

func TestNodeModifiersAggregatesAncestors(t *testing.T) {
	svc, repo, conn := newTestService(t)
	ctx := context.Background()

	root := &models.Category{ID: uuid.New(), Name: "All", Slug: "all", Active: true}
	if err := repo.CreateCategory(ctx, root); err != nil {
		t.Fatalf("create root: %v", err)
	}
	rootID := root.ID
	child := &models.Category{ID: uuid.New(), Name: "Snacks", Slug: "snacks", Active: true, ParentID: &rootID}
	if err := repo.CreateCategory(ctx, child); err != nil {
		t.Fatalf("create child: %v", err)
	}

	rootMod := models.Modifier{
		ID: uuid.New(), Name: "Store Wide", Code: "store-wide", Kind: "discount", Active: true,
		Percent: decimal.NullDecimal{Decimal: decimal.NewFromInt(-5), Valid: true},
	}
	childMod := models.Modifier{
		ID: uuid.New(), Name: "Snack Deal", Code: "snack-deal", Kind: "discount", Active: true,
		Amount: decimal.NullDecimal{Decimal: decimal.NewFromInt(-1), Valid: true},
	}
	cartMod := models.Modifier{
		ID: uuid.New(), Name: "Cart Deal", Code: "cart-deal", Kind: "cart_modifier", Active: true,
		Percent: decimal.NullDecimal{Decimal: decimal.NewFromInt(-10), Valid: true},
	}
	for _, m := range []models.Modifier{rootMod, childMod, cartMod} {
		if err := conn.Create(&m).Error; err != nil {
			t.Fatalf("create modifier: %v", err)
		}
	}
	link := func(categoryID, modifierID uuid.UUID) {
		if err := conn.Exec(
			"INSERT INTO catalog_category_modifiers (category_id, modifier_id) VALUES (?, ?)",
			categoryID, modifierID,
		).Error; err != nil {
			t.Fatalf("link modifier: %v", err)
		}
	}
	link(root.ID, rootMod.ID)
	link(child.ID, childMod.ID)
	link(child.ID, cartMod.ID)

	got, err := svc.NodeModifiers(ctx, NodeKindCategory, child.ID)
	if err != nil {
		t.Fatalf("node modifiers: %v", err)
	}
	if len(got.Modifiers) != 2 {
		t.Fatalf("expected child + root line modifiers, got %d", len(got.Modifiers))
	}
	if got.Modifiers[0].Name != "Snack Deal" {
		t.Fatalf("expected nearest-first ordering, got %q first", got.Modifiers[0].Name)
	}
	for _, m := range got.Modifiers {
		if m.Kind == "cart_modifier" {
			t.Fatal("cart modifiers must not appear in tree aggregation")
		}
	}
}

func TestReplaceNodeModifiers(t *testing.T) {
	svc, repo, conn := newTestService(t)
	ctx := context.Background()

	root := &models.Category{ID: uuid.New(), Name: "All", Slug: "all", Active: true}
	if err := repo.CreateCategory(ctx, root); err != nil {
		t.Fatalf("create root: %v", err)
	}
	rootID := root.ID
	child := &models.Category{ID: uuid.New(), Name: "Snacks", Slug: "snacks", Active: true, ParentID: &rootID}
	if err := repo.CreateCategory(ctx, child); err != nil {
		t.Fatalf("create child: %v", err)
	}

	storeWide := models.Modifier{
		ID: uuid.New(), Name: "Store Wide", Code: "store-wide", Kind: "discount", Active: true,
		Percent: decimal.NullDecimal{Decimal: decimal.NewFromInt(-5), Valid: true},
	}
	if err := conn.Create(&storeWide).Error; err != nil {
		t.Fatalf("create modifier: %v", err)
	}

	got, err := svc.ReplaceNodeModifiers(ctx, NodeKindCategory, root.ID, []uuid.UUID{storeWide.ID})
	if err != nil {
		t.Fatalf("replace node modifiers: %v", err)
	}
	if len(got.Modifiers) != 1 || got.Modifiers[0].Code != "store-wide" {
		t.Fatalf("expected store-wide attached, got %+v", got.Modifiers)
	}

	t.Run("childInheritsAttachment", func(t *testing.T) {
		agg, err := svc.NodeModifiers(ctx, NodeKindCategory, child.ID)
		if err != nil {
			t.Fatalf("node modifiers: %v", err)
		}
		if len(agg.Modifiers) != 1 || agg.Modifiers[0].Code != "store-wide" {
			t.Fatalf("expected inherited store-wide, got %+v", agg.Modifiers)
		}
	})

	t.Run("unknownModifier", func(t *testing.T) {
		_, err := svc.ReplaceNodeModifiers(ctx, NodeKindCategory, root.ID, []uuid.UUID{uuid.New()})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("unknownNode", func(t *testing.T) {
		_, err := svc.ReplaceNodeModifiers(ctx, NodeKindCategory, uuid.New(), []uuid.UUID{storeWide.ID})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("emptyListClears", func(t *testing.T) {
		cleared, err := svc.ReplaceNodeModifiers(ctx, NodeKindCategory, root.ID, nil)
		if err != nil {
			t.Fatalf("clear modifiers: %v", err)
		}
		if len(cleared.Modifiers) != 0 {
			t.Fatalf("expected no modifiers, got %+v", cleared.Modifiers)
		}
	})
}

func TestUpdateNodeSelfParent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateNode(ctx, NodeKindCategory, NodeInput{Name: "A", Slug: "a", Active: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.UpdateNode(ctx, NodeKindCategory, created.ID, NodeUpdateInput{ParentID: &created.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
