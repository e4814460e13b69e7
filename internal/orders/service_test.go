package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
	"github.com/shopworks/catalog-backend/pkg/pagination"
	"github.com/shopworks/catalog-backend/pkg/types"
)

const orderDDL = `
CREATE TABLE catalog_orders (
    id text PRIMARY KEY,
    number text NOT NULL UNIQUE,
    cart_id text,
    status text NOT NULL DEFAULT 'pending',
    currency text NOT NULL,
    email text NOT NULL,
    subtotal numeric NOT NULL,
    modifier_total numeric NOT NULL,
    total numeric NOT NULL,
    price_fields text,
    created_at datetime NOT NULL,
    updated_at datetime NOT NULL
);
CREATE TABLE catalog_order_items (
    id text PRIMARY KEY,
    order_id text NOT NULL,
    product_id text,
    product_name text NOT NULL,
    upc text,
    quantity integer NOT NULL,
    unit_price numeric NOT NULL,
    line_total numeric NOT NULL,
    price_fields text,
    created_at datetime NOT NULL
);
CREATE TABLE catalog_carts (
    id text PRIMARY KEY,
    status text NOT NULL DEFAULT 'active',
    currency text NOT NULL DEFAULT 'USD',
    subtotal numeric NOT NULL DEFAULT 0,
    modifier_total numeric NOT NULL DEFAULT 0,
    total numeric NOT NULL DEFAULT 0,
    price_fields text,
    expires_at datetime,
    created_at datetime NOT NULL,
    updated_at datetime NOT NULL
);
`

type stubCarts struct {
	byID map[uuid.UUID]*models.CartRecord
}

func (s stubCarts) FindByID(_ context.Context, id uuid.UUID) (*models.CartRecord, error) {
	return s.byID[id], nil
}

type txStub struct {
	db *gorm.DB
}

func (s txStub) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.Transaction(fn)
}

func openOrderDB(t *testing.T) *gorm.DB {
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
	for _, stmt := range splitStatements(orderDDL) {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply ddl: %v", err)
		}
	}
	return conn
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

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func quotedCart(t *testing.T, conn *gorm.DB) *models.CartRecord {
	t.Helper()
	upc := "012345678905"
	product := &models.Product{ID: uuid.New(), Name: "Widget", UPC: &upc}
	record := &models.CartRecord{
		ID:            uuid.New(),
		Status:        enums.CartStatusActive,
		Currency:      enums.CurrencyUSD,
		Subtotal:      dec("20"),
		ModifierTotal: dec("-2"),
		Total:         dec("18"),
		Items: []models.CartItem{{
			ID:           uuid.New(),
			ProductID:    product.ID,
			Product:      product,
			Quantity:     2,
			UnitPrice:    dec("10"),
			LineSubtotal: dec("20"),
			LineTotal:    dec("18"),
			PriceFields:  types.PriceFields{{Name: "Ten Off", Amount: dec("-2")}},
		}},
	}
	if err := conn.Omit("Items").Create(record).Error; err != nil {
		t.Fatalf("seed cart row: %v", err)
	}
	return record
}

func TestCreateFromCart(t *testing.T) {
	conn := openOrderDB(t)
	record := quotedCart(t, conn)
	svc, err := NewService(NewRepository(conn), txStub{db: conn}, stubCarts{byID: map[uuid.UUID]*models.CartRecord{record.ID: record}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	order, err := svc.CreateFromCart(ctx, CreateInput{CartID: record.ID, Email: "buyer@example.com"})
	if err != nil {
		t.Fatalf("create from cart: %v", err)
	}

	if !strings.HasPrefix(order.Number, "ORD-") {
		t.Fatalf("unexpected order number %q", order.Number)
	}
	if order.Status != "pending" || order.Email != "buyer@example.com" {
		t.Fatalf("unexpected order %+v", order)
	}
	if !order.Total.Equal(dec("18")) || !order.Subtotal.Equal(dec("20")) {
		t.Fatalf("totals not copied from cart: %+v", order)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.ProductName != "Widget" || item.UPC == nil || *item.UPC != "012345678905" {
		t.Fatalf("item not denormalized: %+v", item)
	}
	if len(item.PriceFields) != 1 || item.PriceFields[0].Name != "Ten Off" {
		t.Fatalf("price fields not carried over: %+v", item.PriceFields)
	}

	var status string
	if err := conn.Raw("SELECT status FROM catalog_carts WHERE id = ?", record.ID).Scan(&status).Error; err != nil {
		t.Fatalf("read cart status: %v", err)
	}
	if status != "converted" {
		t.Fatalf("expected cart converted, got %q", status)
	}
}

func TestCreateFromCartValidation(t *testing.T) {
	conn := openOrderDB(t)
	record := quotedCart(t, conn)
	empty := &models.CartRecord{ID: uuid.New(), Status: enums.CartStatusActive, Currency: enums.CurrencyUSD}
	converted := &models.CartRecord{ID: uuid.New(), Status: enums.CartStatusConverted, Currency: enums.CurrencyUSD}
	svc, err := NewService(NewRepository(conn), txStub{db: conn}, stubCarts{byID: map[uuid.UUID]*models.CartRecord{
		record.ID:    record,
		empty.ID:     empty,
		converted.ID: converted,
	}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	t.Run("missingEmail", func(t *testing.T) {
		_, err := svc.CreateFromCart(ctx, CreateInput{CartID: record.ID})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknownCart", func(t *testing.T) {
		_, err := svc.CreateFromCart(ctx, CreateInput{CartID: uuid.New(), Email: "a@b.co"})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("emptyCart", func(t *testing.T) {
		_, err := svc.CreateFromCart(ctx, CreateInput{CartID: empty.ID, Email: "a@b.co"})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("convertedCart", func(t *testing.T) {
		_, err := svc.CreateFromCart(ctx, CreateInput{CartID: converted.ID, Email: "a@b.co"})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict, got %v", err)
		}
	})
}

func TestGetByNumber(t *testing.T) {
	conn := openOrderDB(t)
	record := quotedCart(t, conn)
	svc, err := NewService(NewRepository(conn), txStub{db: conn}, stubCarts{byID: map[uuid.UUID]*models.CartRecord{record.ID: record}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	order, err := svc.CreateFromCart(ctx, CreateInput{CartID: record.ID, Email: "buyer@example.com"})
	if err != nil {
		t.Fatalf("create from cart: %v", err)
	}

	found, err := svc.GetByNumber(ctx, " "+order.Number+" ")
	if err != nil {
		t.Fatalf("get by number: %v", err)
	}
	if found.ID != order.ID {
		t.Fatalf("expected order %s, got %s", order.ID, found.ID)
	}

	t.Run("unknownNumber", func(t *testing.T) {
		_, err := svc.GetByNumber(ctx, "ORD-00000000")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("blankNumber", func(t *testing.T) {
		_, err := svc.GetByNumber(ctx, "  ")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	conn := openOrderDB(t)
	record := quotedCart(t, conn)
	svc, err := NewService(NewRepository(conn), txStub{db: conn}, stubCarts{byID: map[uuid.UUID]*models.CartRecord{record.ID: record}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	order, err := svc.CreateFromCart(ctx, CreateInput{CartID: record.ID, Email: "buyer@example.com"})
	if err != nil {
		t.Fatalf("create from cart: %v", err)
	}

	t.Run("invalidStatus", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, order.ID, "teleported")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("skippedTransition", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, order.ID, "shipped")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict, got %v", err)
		}
	})

	updated, err := svc.UpdateStatus(ctx, order.ID, "processing")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != "processing" {
		t.Fatalf("expected processing, got %q", updated.Status)
	}

	t.Run("terminalStateLocks", func(t *testing.T) {
		if _, err := svc.UpdateStatus(ctx, order.ID, "cancelled"); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		_, err := svc.UpdateStatus(ctx, order.ID, "processing")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict, got %v", err)
		}
	})
}

func TestListPagination(t *testing.T) {
	conn := openOrderDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, txStub{db: conn}, stubCarts{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		order := &models.Order{
			ID:            uuid.New(),
			Number:        newOrderNumber(base.Add(time.Duration(i) * time.Hour)),
			Status:        enums.OrderStatusPending,
			Currency:      enums.CurrencyUSD,
			Email:         "buyer@example.com",
			Subtotal:      dec("10"),
			ModifierTotal: dec("0"),
			Total:         dec("10"),
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}

	first, err := svc.List(ctx, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Orders) != 2 || first.NextCursor == "" {
		t.Fatalf("expected full first page with cursor, got %d orders", len(first.Orders))
	}

	second, err := svc.List(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Orders) != 1 || second.NextCursor != "" {
		t.Fatalf("expected final page of one, got %d orders (cursor %q)", len(second.Orders), second.NextCursor)
	}
}
