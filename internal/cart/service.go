package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/internal/pricing"
	"github.com/shopworks/catalog-backend/pkg/config"
	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
)

// defaultCartTTL bounds how long an untouched cart stays quotable when the
// config does not say otherwise.
const defaultCartTTL = 7 * 24 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productReader interface {
	GetDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type modifierSource interface {
	ListCartModifiers(ctx context.Context) ([]models.Modifier, error)
	FindRedemptionCode(ctx context.Context, code string) (*models.ModifierCode, error)
}

// Service exposes cart lifecycle and quoting operations.
type Service interface {
	CreateCart(ctx context.Context) (*CartDTO, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*CartDTO, error)
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []ItemInput) (*CartDTO, error)
	ApplyCode(ctx context.Context, cartID uuid.UUID, code string) (*CartDTO, error)
	RemoveCode(ctx context.Context, cartID uuid.UUID, code string) (*CartDTO, error)
	Quote(ctx context.Context, cartID uuid.UUID) (*CartDTO, error)
}

// ItemInput is one requested cart line.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

type service struct {
	repo      *Repository
	tx        txRunner
	products  productReader
	modifiers modifierSource
	registry  pricing.ConditionRegistry
	currency  enums.Currency
	ttl       time.Duration
	clock     func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, products productReader, modifiers modifierSource, registry pricing.ConditionRegistry, cfg config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if modifiers == nil {
		return nil, fmt.Errorf("modifier source required")
	}
	if registry == nil {
		return nil, fmt.Errorf("condition registry required")
	}
	currency, err := enums.ParseCurrency(cfg.Currency)
	if err != nil {
		currency = enums.CurrencyUSD
	}
	ttl := cfg.CartTTL
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &service{
		repo:      repo,
		tx:        tx,
		products:  products,
		modifiers: modifiers,
		registry:  registry,
		currency:  currency,
		ttl:       ttl,
		clock:     time.Now,
	}, nil
}

func (s *service) CreateCart(ctx context.Context) (*CartDTO, error) {
	expires := s.clock().Add(s.ttl)
	record := &models.CartRecord{
		ID:        uuid.New(),
		Status:    enums.CartStatusActive,
		Currency:  s.currency,
		ExpiresAt: &expires,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart")
	}
	return s.GetCart(ctx, record.ID)
}

func (s *service) GetCart(ctx context.Context, cartID uuid.UUID) (*CartDTO, error) {
	record, err := s.mustFind(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return NewCartDTO(record), nil
}

// ReplaceItems swaps the cart's lines and requotes. Every referenced product
// must currently be purchasable.
func (s *service) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []ItemInput) (*CartDTO, error) {
	record, err := s.mustFindOpen(ctx, cartID)
	if err != nil {
		return nil, err
	}

	seen := map[uuid.UUID]struct{}{}
	rows := make([]models.CartItem, 0, len(items))
	for _, in := range items {
		if in.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if _, dup := seen[in.ProductID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in cart").
				WithDetails(map[string]any{"product_id": in.ProductID})
		}
		seen[in.ProductID] = struct{}{}

		product, err := s.products.GetDetail(ctx, in.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": in.ProductID})
		}
		if !product.CanBeAddedToCart() {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product cannot be added to cart").
				WithDetails(map[string]any{"product_id": in.ProductID})
		}
		rows = append(rows, models.CartItem{
			ID:        uuid.New(),
			CartID:    record.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
		})
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplaceItems(ctx, record.ID, rows)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing cart items")
	}
	return s.Quote(ctx, cartID)
}

// ApplyCode validates and records a redemption code, then requotes.
func (s *service) ApplyCode(ctx context.Context, cartID uuid.UUID, code string) (*CartDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	record, err := s.mustFindOpen(ctx, cartID)
	if err != nil {
		return nil, err
	}

	row, err := s.modifiers.FindRedemptionCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up redemption code")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown redemption code")
	}
	if !row.IsCurrentlyValid(s.clock()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is not currently redeemable")
	}
	for _, applied := range record.AppliedCodes {
		if applied.CodeID == row.ID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "code already applied to cart")
		}
	}

	if err := s.repo.AddAppliedCode(ctx, &models.CartModifierCode{
		ID:     uuid.New(),
		CartID: record.ID,
		CodeID: row.ID,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "applying code")
	}
	return s.Quote(ctx, cartID)
}

// RemoveCode drops an applied code and requotes.
func (s *service) RemoveCode(ctx context.Context, cartID uuid.UUID, code string) (*CartDTO, error) {
	record, err := s.mustFindOpen(ctx, cartID)
	if err != nil {
		return nil, err
	}

	var codeID uuid.UUID
	for _, applied := range record.AppliedCodes {
		if applied.Code != nil && applied.Code.Code == code {
			codeID = applied.CodeID
			break
		}
	}
	if codeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "code not applied to cart")
	}

	if err := s.repo.RemoveAppliedCode(ctx, record.ID, codeID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing code")
	}
	return s.Quote(ctx, cartID)
}

// Quote reprices every line and the cart itself, persisting the results.
// Line totals run through the product's aggregated modifiers; the cart total
// then runs through the active cart-kind modifiers.
func (s *service) Quote(ctx context.Context, cartID uuid.UUID) (*CartDTO, error) {
	record, err := s.mustFindOpen(ctx, cartID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	cartCtx := pricing.Cart{
		AppliedCodes: record.RedeemedCodes(),
		Quantity:     record.TotalQuantity(),
		Now:          now,
	}

	subtotal := decimal.Zero
	lineTotals := decimal.Zero
	for i := range record.Items {
		item := &record.Items[i]
		product, err := s.products.GetDetail(ctx, item.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}
		if product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart references a missing product").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}

		price := pricing.Price(product)
		lineSubtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		line := pricing.Line{Product: product, Quantity: item.Quantity, Total: lineSubtotal}
		lineTotal, fields := pricing.ApplyLineModifiers(pricing.ProductModifiers(product), line, cartCtx, s.registry)

		item.UnitPrice = price
		item.LineSubtotal = lineSubtotal
		item.LineTotal = lineTotal
		item.PriceFields = fields

		subtotal = subtotal.Add(lineSubtotal)
		lineTotals = lineTotals.Add(lineTotal)
	}

	cartMods, err := s.modifiers.ListCartModifiers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart modifiers")
	}
	cartCtx.Total = lineTotals
	total, cartFields := pricing.ApplyCartModifiers(cartMods, cartCtx, s.registry)

	record.Subtotal = subtotal.Round(2)
	record.Total = total
	record.ModifierTotal = total.Sub(record.Subtotal)
	record.PriceFields = cartFields

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.SaveItems(ctx, record.Items); err != nil {
			return err
		}
		return txRepo.Update(ctx, record)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting quote")
	}
	return s.GetCart(ctx, cartID)
}

func (s *service) mustFind(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error) {
	record, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return record, nil
}

func (s *service) mustFindOpen(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error) {
	record, err := s.mustFind(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !record.IsOpen() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is no longer active")
	}
	return record, nil
}
