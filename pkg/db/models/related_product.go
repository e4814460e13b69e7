package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopworks/catalog-backend/pkg/enums"
)

// RelatedProduct links a base product to another product as an up-sell or
// cross-sell suggestion.
type RelatedProduct struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BaseProductID uuid.UUID               `gorm:"column:base_product_id;type:uuid;not null;uniqueIndex:uix_related_pair"`
	ProductID     uuid.UUID               `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uix_related_pair"`
	Product       *Product                `gorm:"foreignKey:ProductID"`
	Kind          enums.RelatedProductKind `gorm:"column:kind;not null"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (RelatedProduct) TableName() string { return "catalog_related_products" }
