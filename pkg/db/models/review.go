package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductReview is shopper feedback on a product. Reviews start inactive and
// become visible after moderation.
type ProductReview struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	Body      string    `gorm:"column:body;not null"`
	Active    bool      `gorm:"column:active;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductReview) TableName() string { return "catalog_product_reviews" }
