package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
	"github.com/shopworks/catalog-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error)
}

// Service turns quoted carts into immutable orders and walks them through
// the fulfillment status machine.
type Service interface {
	CreateFromCart(ctx context.Context, input CreateInput) (*OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	GetByNumber(ctx context.Context, number string) (*OrderDTO, error)
	List(ctx context.Context, params pagination.Params) (*OrderListResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error)
}

// CreateInput holds the payload to convert a cart into an order.
type CreateInput struct {
	CartID uuid.UUID
	Email  string
}

type service struct {
	repo  *Repository
	tx    txRunner
	carts cartSource
	clock func() time.Time
}

// NewService builds an order service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, carts cartSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart source required")
	}
	return &service{repo: repo, tx: tx, carts: carts, clock: time.Now}, nil
}

// CreateFromCart snapshots the cart's last quote into an order and marks the
// cart converted, atomically.
func (s *service) CreateFromCart(ctx context.Context, input CreateInput) (*OrderDTO, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	record, err := s.carts.FindByID(ctx, input.CartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if !record.IsOpen() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is already converted")
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	cartID := record.ID
	order := &models.Order{
		ID:            uuid.New(),
		Number:        newOrderNumber(s.clock()),
		CartID:        &cartID,
		Status:        enums.OrderStatusPending,
		Currency:      record.Currency,
		Email:         email,
		Subtotal:      record.Subtotal,
		ModifierTotal: record.ModifierTotal,
		Total:         record.Total,
		PriceFields:   record.PriceFields,
	}
	for _, item := range record.Items {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart references a missing product").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		productID := item.ProductID
		order.Items = append(order.Items, models.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   &productID,
			ProductName: item.Product.Name,
			UPC:         item.Product.UPC,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			PriceFields: item.PriceFields,
		})
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Create(ctx, order); err != nil {
			return err
		}
		return txRepo.markCartConverted(ctx, cartID)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}
	return s.Get(ctx, order.ID)
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDTO(order), nil
}

// GetByNumber resolves an order by its human-facing number.
func (s *service) GetByNumber(ctx context.Context, number string) (*OrderDTO, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*OrderListResult, error) {
	records, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	result := &OrderListResult{
		Orders:     make([]OrderDTO, 0, len(records)),
		NextCursor: next,
	}
	for i := range records {
		result.Orders = append(result.Orders, *NewOrderDTO(&records[i]))
	}
	return result, nil
}

// UpdateStatus moves the order along the allowed status machine.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !order.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
			WithDetails(map[string]any{"from": order.Status.String(), "to": next.String()})
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	return s.Get(ctx, orderID)
}

// newOrderNumber builds a human-facing order reference. Uniqueness is
// enforced by the database index.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
