package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/types"
)

// ItemDTO is one purchased line in an order payload.
type ItemDTO struct {
	ID          uuid.UUID         `json:"id"`
	ProductID   *uuid.UUID        `json:"product_id,omitempty"`
	ProductName string            `json:"product_name"`
	UPC         *string           `json:"upc,omitempty"`
	Quantity    int               `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	LineTotal   decimal.Decimal   `json:"line_total"`
	PriceFields types.PriceFields `json:"price_fields,omitempty"`
}

// OrderDTO is the full order payload.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	Number        string            `json:"number"`
	CartID        *uuid.UUID        `json:"cart_id,omitempty"`
	Status        string            `json:"status"`
	Currency      string            `json:"currency"`
	Email         string            `json:"email"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	ModifierTotal decimal.Decimal   `json:"modifier_total"`
	Total         decimal.Decimal   `json:"total"`
	PriceFields   types.PriceFields `json:"price_fields,omitempty"`
	Items         []ItemDTO         `json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// OrderListResult pairs a page of orders with its continuation cursor.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewOrderDTO maps a preloaded order into its payload shape.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:            order.ID,
		Number:        order.Number,
		CartID:        order.CartID,
		Status:        order.Status.String(),
		Currency:      order.Currency.String(),
		Email:         order.Email,
		Subtotal:      order.Subtotal,
		ModifierTotal: order.ModifierTotal,
		Total:         order.Total,
		PriceFields:   order.PriceFields,
		Items:         make([]ItemDTO, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UPC:         item.UPC,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			PriceFields: item.PriceFields,
		})
	}
	return dto
}
