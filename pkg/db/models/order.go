package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/enums"
	"github.com/shopworks/catalog-backend/pkg/types"
)

// Order is an immutable snapshot of a converted cart. Product names and
// prices are copied at checkout so later catalog edits never rewrite
// historical orders.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number        string            `gorm:"column:number;not null;uniqueIndex"`
	CartID        *uuid.UUID        `gorm:"column:cart_id;type:uuid"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Currency      enums.Currency    `gorm:"column:currency;not null"`
	Email         string            `gorm:"column:email;not null"`
	Subtotal      decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ModifierTotal decimal.Decimal   `gorm:"column:modifier_total;type:numeric(12,2);not null"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	PriceFields   types.PriceFields `gorm:"column:price_fields;serializer:json"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "catalog_orders" }

// CanTransitionTo delegates to the status machine.
func (o *Order) CanTransitionTo(next enums.OrderStatus) bool {
	return o.Status.CanTransitionTo(next)
}

// OrderItem is one purchased line, denormalized from the cart item and its
// product at checkout time.
type OrderItem struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID         `gorm:"column:order_id;type:uuid;not null"`
	ProductID   *uuid.UUID        `gorm:"column:product_id;type:uuid"`
	ProductName string            `gorm:"column:product_name;not null"`
	UPC         *string           `gorm:"column:upc"`
	Quantity    int               `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal   decimal.Decimal   `gorm:"column:line_total;type:numeric(12,2);not null"`
	PriceFields types.PriceFields `gorm:"column:price_fields;serializer:json"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "catalog_order_items" }
