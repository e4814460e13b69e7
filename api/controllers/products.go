package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/api/responses"
	"github.com/shopworks/catalog-backend/api/validators"
	productsvc "github.com/shopworks/catalog-backend/internal/products"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
	"github.com/shopworks/catalog-backend/pkg/logger"
)

// CreateProduct handles catalog product creation.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// MatchProductVariant resolves one exact variant from the query filters.
func MatchProductVariant(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := svc.MatchVariant(r.Context(), productID, filterParams(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, variant)
	}
}

// FilterProductVariants lists the variants compatible with a partial filter.
func FilterProductVariants(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variants, err := svc.FilterVariants(r.Context(), productID, filterParams(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, variants)
	}
}

// GetProductVariations returns the selectable attribute axes of a group.
func GetProductVariations(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variations, err := svc.GetVariations(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, variations)
	}
}

// ReplaceProductModifiers swaps the modifiers attached directly to a product.
func ReplaceProductModifiers(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceModifiersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := payload.toIDs()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.ReplaceModifiers(r.Context(), productID, ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type attributeValueRequest struct {
	AttributeID string     `json:"attribute_id" validate:"required,uuid"`
	Integer     *int64     `json:"integer,omitempty"`
	Boolean     *bool      `json:"boolean,omitempty"`
	Float       *float64   `json:"float,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	OptionID    *string    `json:"option_id,omitempty" validate:"omitempty,uuid"`
	File        *string    `json:"file,omitempty"`
}

type measurementRequest struct {
	Kind  string          `json:"kind" validate:"required"`
	Value decimal.Decimal `json:"value" validate:"required"`
	Unit  string          `json:"unit" validate:"required"`
}

type flagRequest struct {
	Code  string `json:"code" validate:"required"`
	Name  string `json:"name,omitempty"`
	Value *bool  `json:"value,omitempty"`
}

type relatedProductRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Kind      string `json:"kind" validate:"required"`
}

type createProductRequest struct {
	UPC             *string                 `json:"upc,omitempty"`
	Name            string                  `json:"name" validate:"required"`
	Slug            string                  `json:"slug" validate:"required"`
	Description     *string                 `json:"description,omitempty"`
	ParentID        *string                 `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	UnitPrice       decimal.Decimal         `json:"unit_price"`
	IsDiscountable  bool                    `json:"is_discountable"`
	DiscountPercent *decimal.Decimal        `json:"discount_percent,omitempty"`
	TaxID           *string                 `json:"tax_id,omitempty" validate:"omitempty,uuid"`
	Quantity        *int                    `json:"quantity,omitempty"`
	Active          *bool                   `json:"active,omitempty"`
	FeaturedImage   *string                 `json:"featured_image,omitempty"`
	CategoryID      *string                 `json:"category_id,omitempty" validate:"omitempty,uuid"`
	BrandID         *string                 `json:"brand_id,omitempty" validate:"omitempty,uuid"`
	ManufacturerID  *string                 `json:"manufacturer_id,omitempty" validate:"omitempty,uuid"`
	AttributeValues []attributeValueRequest `json:"attribute_values,omitempty" validate:"omitempty,dive"`
	Measurements    []measurementRequest    `json:"measurements,omitempty" validate:"omitempty,dive"`
	Flags           []flagRequest           `json:"flags,omitempty" validate:"omitempty,dive"`
	RelatedProducts []relatedProductRequest `json:"related_products,omitempty" validate:"omitempty,dive"`
}

func (r createProductRequest) toInput() (productsvc.CreateInput, error) {
	parentID, err := parseOptionalUUID(r.ParentID, "parent_id")
	if err != nil {
		return productsvc.CreateInput{}, err
	}
	taxID, err := parseOptionalUUID(r.TaxID, "tax_id")
	if err != nil {
		return productsvc.CreateInput{}, err
	}
	categoryID, err := parseOptionalUUID(r.CategoryID, "category_id")
	if err != nil {
		return productsvc.CreateInput{}, err
	}
	brandID, err := parseOptionalUUID(r.BrandID, "brand_id")
	if err != nil {
		return productsvc.CreateInput{}, err
	}
	manufacturerID, err := parseOptionalUUID(r.ManufacturerID, "manufacturer_id")
	if err != nil {
		return productsvc.CreateInput{}, err
	}

	values, err := toAttributeValueInputs(r.AttributeValues)
	if err != nil {
		return productsvc.CreateInput{}, err
	}
	related, err := toRelatedProductInputs(r.RelatedProducts)
	if err != nil {
		return productsvc.CreateInput{}, err
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return productsvc.CreateInput{
		UPC:             r.UPC,
		Name:            strings.TrimSpace(r.Name),
		Slug:            strings.TrimSpace(r.Slug),
		Description:     r.Description,
		ParentID:        parentID,
		UnitPrice:       r.UnitPrice,
		IsDiscountable:  r.IsDiscountable,
		DiscountPercent: r.DiscountPercent,
		TaxID:           taxID,
		Quantity:        r.Quantity,
		Active:          active,
		FeaturedImage:   r.FeaturedImage,
		CategoryID:      categoryID,
		BrandID:         brandID,
		ManufacturerID:  manufacturerID,
		AttributeValues: values,
		Measurements:    toMeasurementInputs(r.Measurements),
		Flags:           toFlagInputs(r.Flags),
		RelatedProducts: related,
	}, nil
}

type updateProductRequest struct {
	UPC             *string                  `json:"upc,omitempty"`
	Name            *string                  `json:"name,omitempty"`
	Slug            *string                  `json:"slug,omitempty"`
	Description     *string                  `json:"description,omitempty"`
	UnitPrice       *decimal.Decimal         `json:"unit_price,omitempty"`
	IsDiscountable  *bool                    `json:"is_discountable,omitempty"`
	DiscountPercent *decimal.Decimal         `json:"discount_percent,omitempty"`
	ClearDiscount   bool                     `json:"clear_discount,omitempty"`
	TaxID           *string                  `json:"tax_id,omitempty" validate:"omitempty,uuid"`
	ClearTax        bool                     `json:"clear_tax,omitempty"`
	Quantity        *int                     `json:"quantity,omitempty"`
	Active          *bool                    `json:"active,omitempty"`
	FeaturedImage   *string                  `json:"featured_image,omitempty"`
	CategoryID      *string                  `json:"category_id,omitempty" validate:"omitempty,uuid"`
	BrandID         *string                  `json:"brand_id,omitempty" validate:"omitempty,uuid"`
	ManufacturerID  *string                  `json:"manufacturer_id,omitempty" validate:"omitempty,uuid"`
	AttributeValues *[]attributeValueRequest `json:"attribute_values,omitempty" validate:"omitempty,dive"`
	Measurements    *[]measurementRequest    `json:"measurements,omitempty" validate:"omitempty,dive"`
	Flags           *[]flagRequest           `json:"flags,omitempty" validate:"omitempty,dive"`
	RelatedProducts *[]relatedProductRequest `json:"related_products,omitempty" validate:"omitempty,dive"`
}

func (r updateProductRequest) toInput() (productsvc.UpdateInput, error) {
	taxID, err := parseOptionalUUID(r.TaxID, "tax_id")
	if err != nil {
		return productsvc.UpdateInput{}, err
	}
	categoryID, err := parseOptionalUUID(r.CategoryID, "category_id")
	if err != nil {
		return productsvc.UpdateInput{}, err
	}
	brandID, err := parseOptionalUUID(r.BrandID, "brand_id")
	if err != nil {
		return productsvc.UpdateInput{}, err
	}
	manufacturerID, err := parseOptionalUUID(r.ManufacturerID, "manufacturer_id")
	if err != nil {
		return productsvc.UpdateInput{}, err
	}

	input := productsvc.UpdateInput{
		UPC:             r.UPC,
		Name:            r.Name,
		Slug:            r.Slug,
		Description:     r.Description,
		UnitPrice:       r.UnitPrice,
		IsDiscountable:  r.IsDiscountable,
		DiscountPercent: r.DiscountPercent,
		ClearDiscount:   r.ClearDiscount,
		TaxID:           taxID,
		ClearTax:        r.ClearTax,
		Quantity:        r.Quantity,
		Active:          r.Active,
		FeaturedImage:   r.FeaturedImage,
		CategoryID:      categoryID,
		BrandID:         brandID,
		ManufacturerID:  manufacturerID,
	}

	if r.AttributeValues != nil {
		values, err := toAttributeValueInputs(*r.AttributeValues)
		if err != nil {
			return productsvc.UpdateInput{}, err
		}
		input.AttributeValues = &values
	}
	if r.Measurements != nil {
		measurements := toMeasurementInputs(*r.Measurements)
		input.Measurements = &measurements
	}
	if r.Flags != nil {
		flags := toFlagInputs(*r.Flags)
		input.Flags = &flags
	}
	if r.RelatedProducts != nil {
		related, err := toRelatedProductInputs(*r.RelatedProducts)
		if err != nil {
			return productsvc.UpdateInput{}, err
		}
		input.RelatedProducts = &related
	}

	return input, nil
}

func toAttributeValueInputs(requests []attributeValueRequest) ([]productsvc.AttributeValueInput, error) {
	out := make([]productsvc.AttributeValueInput, 0, len(requests))
	for _, req := range requests {
		attributeID, err := uuid.Parse(strings.TrimSpace(req.AttributeID))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid attribute id")
		}
		optionID, err := parseOptionalUUID(req.OptionID, "option_id")
		if err != nil {
			return nil, err
		}
		out = append(out, productsvc.AttributeValueInput{
			AttributeID: attributeID,
			Integer:     req.Integer,
			Boolean:     req.Boolean,
			Float:       req.Float,
			Date:        req.Date,
			OptionID:    optionID,
			File:        req.File,
		})
	}
	return out, nil
}

func toMeasurementInputs(requests []measurementRequest) []productsvc.MeasurementInput {
	out := make([]productsvc.MeasurementInput, 0, len(requests))
	for _, req := range requests {
		out = append(out, productsvc.MeasurementInput{
			Kind:  strings.TrimSpace(req.Kind),
			Value: req.Value,
			Unit:  strings.TrimSpace(req.Unit),
		})
	}
	return out
}

func toFlagInputs(requests []flagRequest) []productsvc.FlagInput {
	out := make([]productsvc.FlagInput, 0, len(requests))
	for _, req := range requests {
		// a flag defaults to set unless the payload says otherwise
		value := true
		if req.Value != nil {
			value = *req.Value
		}
		out = append(out, productsvc.FlagInput{
			Code:  strings.TrimSpace(req.Code),
			Name:  strings.TrimSpace(req.Name),
			Value: value,
		})
	}
	return out
}

func toRelatedProductInputs(requests []relatedProductRequest) ([]productsvc.RelatedProductInput, error) {
	out := make([]productsvc.RelatedProductInput, 0, len(requests))
	for _, req := range requests {
		productID, err := uuid.Parse(strings.TrimSpace(req.ProductID))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid related product id")
		}
		out = append(out, productsvc.RelatedProductInput{
			ProductID: productID,
			Kind:      strings.TrimSpace(req.Kind),
		})
	}
	return out, nil
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid uuid").
			WithDetails(map[string]any{"field": field})
	}
	return &id, nil
}
