package models

import (
	"time"

	"github.com/google/uuid"
)

// Flag is a named boolean toggle that can be stamped onto products, such as
// "featured" or "clearance".
type Flag struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string    `gorm:"column:code;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Flag) TableName() string { return "catalog_flags" }

// ProductFlag assigns a flag state to a product.
type ProductFlag struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uix_product_flag"`
	FlagID    uuid.UUID `gorm:"column:flag_id;type:uuid;not null;uniqueIndex:uix_product_flag"`
	Flag      *Flag     `gorm:"foreignKey:FlagID"`
	IsTrue    bool      `gorm:"column:is_true;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductFlag) TableName() string { return "catalog_product_flags" }
