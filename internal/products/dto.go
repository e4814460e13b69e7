package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/internal/pricing"
	"github.com/shopworks/catalog-backend/pkg/db/models"
)

// PricingDTO is the computed price block on product payloads. Resolved
// values reflect variant inheritance, so a variant shows its parent's
// numbers when it does not override them.
type PricingDTO struct {
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	IsDiscounted    bool            `json:"is_discounted"`
	IsTaxed         bool            `json:"is_taxed"`
	InheritsPrice   bool            `json:"inherits_price"`
}

// AttributeValueDTO is one canonical attribute assignment.
type AttributeValueDTO struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// MeasurementDTO reports a dimension in both entered and standard units.
type MeasurementDTO struct {
	Kind          string          `json:"kind"`
	Value         decimal.Decimal `json:"value"`
	Unit          string          `json:"unit"`
	StandardValue decimal.Decimal `json:"standard_value"`
}

// VariantSummaryDTO is the compact variant row on a group detail payload.
type VariantSummaryDTO struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	Slug       string              `json:"slug"`
	Active     bool                `json:"active"`
	Pricing    PricingDTO          `json:"pricing"`
	Attributes []AttributeValueDTO `json:"attributes"`
}

// FlagDTO is one boolean badge on a product. Variants show inherited parent
// flags they do not override.
type FlagDTO struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

// RelatedProductDTO is one up-sell or cross-sell suggestion.
type RelatedProductDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Kind      string    `json:"kind"`
}

// ModifierRefDTO is the compact modifier row on product payloads.
type ModifierRefDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
	Kind string    `json:"kind"`
}

// ProductDTO is the full product payload.
type ProductDTO struct {
	ID              uuid.UUID           `json:"id"`
	UPC             *string             `json:"upc,omitempty"`
	Name            string              `json:"name"`
	Slug            string              `json:"slug"`
	Description     *string             `json:"description,omitempty"`
	ParentID        *uuid.UUID          `json:"parent_id,omitempty"`
	IsGroup         bool                `json:"is_group"`
	Active          bool                `json:"active"`
	Available       bool                `json:"available"`
	Purchasable     bool                `json:"purchasable"`
	Quantity        *int                `json:"quantity,omitempty"`
	FeaturedImage   *string             `json:"featured_image,omitempty"`
	CategoryID      *uuid.UUID          `json:"category_id,omitempty"`
	BrandID         *uuid.UUID          `json:"brand_id,omitempty"`
	ManufacturerID  *uuid.UUID          `json:"manufacturer_id,omitempty"`
	Pricing         PricingDTO          `json:"pricing"`
	Attributes      []AttributeValueDTO `json:"attributes,omitempty"`
	Measurements    []MeasurementDTO    `json:"measurements,omitempty"`
	Flags           []FlagDTO           `json:"flags,omitempty"`
	RelatedProducts []RelatedProductDTO `json:"related_products,omitempty"`
	Modifiers       []ModifierRefDTO    `json:"modifiers,omitempty"`
	Variants        []VariantSummaryDTO `json:"variants,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ProductListResult is one cursor page of products.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func newPricingDTO(p *models.Product) PricingDTO {
	return PricingDTO{
		UnitPrice:       pricing.UnitPrice(p),
		Price:           pricing.Price(p),
		DiscountPercent: pricing.DiscountPercent(p),
		TaxPercent:      pricing.TaxPercent(p),
		IsDiscounted:    pricing.IsDiscounted(p),
		IsTaxed:         pricing.IsTaxed(p),
		InheritsPrice:   p.IsVariant() && p.UnitPrice.IsZero(),
	}
}

func newAttributeValueDTOs(values []models.ProductAttributeValue) []AttributeValueDTO {
	var out []AttributeValueDTO
	for i := range values {
		v := &values[i]
		if v.Attribute == nil {
			continue
		}
		out = append(out, AttributeValueDTO{
			Slug:  v.Slug(),
			Name:  v.Attribute.Name,
			Kind:  v.Attribute.Kind.String(),
			Value: v.Value(),
		})
	}
	return out
}

func newMeasurementDTOs(measurements []models.ProductMeasurement) []MeasurementDTO {
	var out []MeasurementDTO
	for i := range measurements {
		m := &measurements[i]
		out = append(out, MeasurementDTO{
			Kind:          m.Kind.String(),
			Value:         m.Value,
			Unit:          m.Unit.String(),
			StandardValue: m.StandardValue(),
		})
	}
	return out
}

func newFlagDTOs(flags []models.ProductFlag) []FlagDTO {
	var out []FlagDTO
	for i := range flags {
		f := &flags[i]
		if f.Flag == nil {
			continue
		}
		out = append(out, FlagDTO{Code: f.Flag.Code, Name: f.Flag.Name, Value: f.IsTrue})
	}
	return out
}

func newRelatedProductDTOs(rels []models.RelatedProduct) []RelatedProductDTO {
	var out []RelatedProductDTO
	for i := range rels {
		r := &rels[i]
		if r.Product == nil {
			continue
		}
		out = append(out, RelatedProductDTO{
			ProductID: r.ProductID,
			Name:      r.Product.Name,
			Slug:      r.Product.Slug,
			Kind:      r.Kind.String(),
		})
	}
	return out
}

func newModifierRefDTOs(mods []models.Modifier) []ModifierRefDTO {
	var out []ModifierRefDTO
	for _, m := range mods {
		out = append(out, ModifierRefDTO{ID: m.ID, Name: m.Name, Code: m.Code, Kind: m.Kind.String()})
	}
	return out
}

// NewProductDTO maps a preloaded product into its payload shape.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:              p.ID,
		UPC:             p.UPC,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		ParentID:        p.ParentID,
		IsGroup:         p.IsGroup(),
		Active:          p.Active,
		Available:       p.IsAvailable(),
		Purchasable:     p.CanBeAddedToCart(),
		Quantity:        p.Quantity,
		FeaturedImage:   p.FeaturedImagePath(),
		CategoryID:      p.CategoryID,
		BrandID:         p.BrandID,
		ManufacturerID:  p.ManufacturerID,
		Pricing:         newPricingDTO(p),
		Attributes:      newAttributeValueDTOs(p.AttributeValues),
		Measurements:    newMeasurementDTOs(p.Measurements),
		Flags:           newFlagDTOs(p.EffectiveFlags()),
		RelatedProducts: newRelatedProductDTOs(p.RelatedProducts),
		Modifiers:       newModifierRefDTOs(p.Modifiers),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		// price inheritance needs the parent pointer populated
		if v.Parent == nil {
			v.Parent = p
		}
		dto.Variants = append(dto.Variants, VariantSummaryDTO{
			ID:         v.ID,
			Name:       v.Name,
			Slug:       v.Slug,
			Active:     v.Active,
			Pricing:    newPricingDTO(v),
			Attributes: newAttributeValueDTOs(v.AttributeValues),
		})
	}
	return dto
}
