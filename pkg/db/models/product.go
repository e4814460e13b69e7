package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog listing. A product with a parent is a
// "variant" and inherits unset pricing fields from it; a top-level product
// with variants is a "group" and cannot itself be added to a cart.
type Product struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UPC             *string             `gorm:"column:upc;uniqueIndex"`
	Name            string              `gorm:"column:name;not null"`
	Slug            string              `gorm:"column:slug;not null;uniqueIndex"`
	Description     *string             `gorm:"column:description"`
	ParentID        *uuid.UUID          `gorm:"column:parent_id;type:uuid"`
	Parent          *Product            `gorm:"foreignKey:ParentID"`
	Variants        []Product           `gorm:"foreignKey:ParentID"`
	UnitPrice       decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	IsDiscountable  bool                `gorm:"column:is_discountable;not null;default:true"`
	DiscountPercent decimal.NullDecimal `gorm:"column:discount_percent;type:numeric(5,2)"`
	TaxID           *uuid.UUID          `gorm:"column:tax_id;type:uuid"`
	Tax             *Tax                `gorm:"foreignKey:TaxID"`
	Quantity        *int                `gorm:"column:quantity"`
	Active          bool                `gorm:"column:active;not null;default:true"`
	FeaturedImage   *string             `gorm:"column:featured_image"`
	CategoryID      *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	Category        *Category           `gorm:"foreignKey:CategoryID"`
	BrandID         *uuid.UUID          `gorm:"column:brand_id;type:uuid"`
	Brand           *Brand              `gorm:"foreignKey:BrandID"`
	ManufacturerID  *uuid.UUID          `gorm:"column:manufacturer_id;type:uuid"`
	Manufacturer    *Manufacturer       `gorm:"foreignKey:ManufacturerID"`
	AttributeValues []ProductAttributeValue `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Modifiers       []Modifier          `gorm:"many2many:catalog_product_modifiers"`
	Measurements    []ProductMeasurement `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Flags           []ProductFlag       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	RelatedProducts []RelatedProduct    `gorm:"foreignKey:BaseProductID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "catalog_products" }

// IsTopLevel reports whether the product has no parent.
func (p *Product) IsTopLevel() bool {
	return p.ParentID == nil
}

// IsVariant reports whether the product belongs to a parent product.
func (p *Product) IsVariant() bool {
	return p.ParentID != nil
}

// IsGroup reports whether the product is a top-level product with variants.
// Variants must be loaded for this to be meaningful.
func (p *Product) IsGroup() bool {
	return p.IsTopLevel() && len(p.Variants) > 0
}

// IsAvailable reports stock availability; a nil quantity means unlimited.
func (p *Product) IsAvailable() bool {
	return p.Quantity == nil || *p.Quantity > 0
}

// CanBeAddedToCart reports whether the product is purchasable. Group
// products are containers for variants and are never purchasable themselves.
func (p *Product) CanBeAddedToCart() bool {
	return p.Active && p.IsAvailable() && !p.IsGroup()
}

// Reference returns the UPC when set, otherwise the product id.
func (p *Product) Reference() string {
	if p.UPC != nil && *p.UPC != "" {
		return *p.UPC
	}
	return p.ID.String()
}

// FeaturedImagePath resolves the featured image, inheriting the parent's
// image for variants that do not set their own.
func (p *Product) FeaturedImagePath() *string {
	if p.IsVariant() && p.FeaturedImage == nil && p.Parent != nil {
		return p.Parent.FeaturedImagePath()
	}
	return p.FeaturedImage
}

// EffectiveFlags merges the product's flags with its parent's. A variant
// inherits every parent flag it does not set itself; its own assignment wins
// when both reference the same flag.
func (p *Product) EffectiveFlags() []ProductFlag {
	if !p.IsVariant() || p.Parent == nil {
		return p.Flags
	}
	out := append([]ProductFlag(nil), p.Flags...)
	seen := make(map[uuid.UUID]struct{}, len(p.Flags))
	for _, f := range p.Flags {
		seen[f.FlagID] = struct{}{}
	}
	for _, f := range p.Parent.EffectiveFlags() {
		if _, ok := seen[f.FlagID]; !ok {
			out = append(out, f)
		}
	}
	return out
}
