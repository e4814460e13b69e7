package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shopworks/catalog-backend/pkg/enums"
)

// Attribute defines a typed property that products can carry, such as
// "volume" or "organic". The kind decides which value column of
// ProductAttributeValue is authoritative.
type Attribute struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string              `gorm:"column:name;not null"`
	Slug       string              `gorm:"column:slug;not null;uniqueIndex"`
	Kind       enums.AttributeKind `gorm:"column:kind;not null"`
	IsNullable bool                `gorm:"column:is_nullable;not null;default:false"`
	Options    []AttributeOption   `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Attribute) TableName() string { return "catalog_attributes" }

// AttributeOption is one of the allowed values for an option-kind attribute.
type AttributeOption struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AttributeID uuid.UUID `gorm:"column:attribute_id;type:uuid;not null"`
	Value       string    `gorm:"column:value;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AttributeOption) TableName() string { return "catalog_attribute_options" }

// ProductAttributeValue assigns a concrete attribute value to a product.
// Exactly one of the typed value columns is set, chosen by the attribute kind.
type ProductAttributeValue struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID        `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uix_product_attribute"`
	AttributeID  uuid.UUID        `gorm:"column:attribute_id;type:uuid;not null;uniqueIndex:uix_product_attribute"`
	Attribute    *Attribute       `gorm:"foreignKey:AttributeID"`
	ValueInteger *int64           `gorm:"column:value_integer"`
	ValueBoolean *bool            `gorm:"column:value_boolean"`
	ValueFloat   *float64         `gorm:"column:value_float"`
	ValueDate    *time.Time       `gorm:"column:value_date;type:date"`
	OptionID     *uuid.UUID       `gorm:"column:option_id;type:uuid"`
	Option       *AttributeOption `gorm:"foreignKey:OptionID"`
	ValueFile    *string          `gorm:"column:value_file"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductAttributeValue) TableName() string { return "catalog_product_attribute_values" }

// Value renders the assigned value as its canonical string so assignments
// of different kinds compare uniformly. An unset value renders as "".
func (v *ProductAttributeValue) Value() string {
	if v.Attribute == nil {
		return ""
	}
	switch v.Attribute.Kind {
	case enums.AttributeKindInteger:
		if v.ValueInteger != nil {
			return strconv.FormatInt(*v.ValueInteger, 10)
		}
	case enums.AttributeKindBoolean:
		if v.ValueBoolean != nil {
			return strconv.FormatBool(*v.ValueBoolean)
		}
	case enums.AttributeKindFloat:
		if v.ValueFloat != nil {
			return strconv.FormatFloat(*v.ValueFloat, 'f', -1, 64)
		}
	case enums.AttributeKindDate:
		if v.ValueDate != nil {
			return v.ValueDate.Format("2006-01-02")
		}
	case enums.AttributeKindOption:
		if v.Option != nil {
			return v.Option.Value
		}
	case enums.AttributeKindFile, enums.AttributeKindImage:
		if v.ValueFile != nil {
			return *v.ValueFile
		}
	}
	return ""
}

// Slug returns the owning attribute's slug, or "" when not preloaded.
func (v *ProductAttributeValue) Slug() string {
	if v.Attribute == nil {
		return ""
	}
	return v.Attribute.Slug
}
