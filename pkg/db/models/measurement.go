package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/enums"
)

// ProductMeasurement stores one physical dimension of a product in whatever
// unit it was entered with. Comparisons always go through StandardValue.
type ProductMeasurement struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID             `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uix_product_measurement"`
	Kind      enums.MeasurementKind `gorm:"column:kind;not null;uniqueIndex:uix_product_measurement"`
	Value     decimal.Decimal       `gorm:"column:value;type:numeric(14,4);not null"`
	Unit      enums.MeasurementUnit `gorm:"column:unit;not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductMeasurement) TableName() string { return "catalog_product_measurements" }

// StandardValue converts the stored value into the standard unit for its
// dimension (meters for distances, grams for weight).
func (m *ProductMeasurement) StandardValue() decimal.Decimal {
	return m.Value.Mul(m.Unit.StandardFactor())
}
