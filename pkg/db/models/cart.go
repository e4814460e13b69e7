package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/enums"
	"github.com/shopworks/catalog-backend/pkg/types"
)

// CartRecord is a shopper's working basket. Totals are recomputed on every
// mutation; the persisted numbers are the last quoted values.
type CartRecord struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Status        enums.CartStatus   `gorm:"column:status;not null;default:'active'"`
	Currency      enums.Currency     `gorm:"column:currency;not null;default:'USD'"`
	Subtotal      decimal.Decimal    `gorm:"column:subtotal;type:numeric(12,2);not null;default:0"`
	ModifierTotal decimal.Decimal    `gorm:"column:modifier_total;type:numeric(12,2);not null;default:0"`
	Total         decimal.Decimal    `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	PriceFields   types.PriceFields  `gorm:"column:price_fields;serializer:json"`
	ExpiresAt     *time.Time         `gorm:"column:expires_at"`
	Items         []CartItem         `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	AppliedCodes  []CartModifierCode `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartRecord) TableName() string { return "catalog_carts" }

// IsOpen reports whether the cart can still be mutated.
func (c *CartRecord) IsOpen() bool {
	return c.Status == enums.CartStatusActive
}

// TotalQuantity sums item quantities across the cart.
func (c *CartRecord) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// RedeemedCodes flattens applied code rows to their code strings, skipping
// rows whose code association is not loaded.
func (c *CartRecord) RedeemedCodes() []string {
	out := make([]string, 0, len(c.AppliedCodes))
	for _, applied := range c.AppliedCodes {
		if applied.Code != nil {
			out = append(out, applied.Code.Code)
		}
	}
	return out
}

// CartItem is one product line inside a cart.
type CartItem struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID       uuid.UUID         `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:uix_cart_product"`
	ProductID    uuid.UUID         `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uix_cart_product"`
	Product      *Product          `gorm:"foreignKey:ProductID"`
	Quantity     int               `gorm:"column:quantity;not null;default:1"`
	UnitPrice    decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	LineSubtotal decimal.Decimal   `gorm:"column:line_subtotal;type:numeric(12,2);not null;default:0"`
	LineTotal    decimal.Decimal   `gorm:"column:line_total;type:numeric(12,2);not null;default:0"`
	PriceFields  types.PriceFields `gorm:"column:price_fields;serializer:json"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "catalog_cart_items" }
