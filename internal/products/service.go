package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/pkg/db"
	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
	"github.com/shopworks/catalog-backend/pkg/pagination"
)

// Service exposes catalog product management and variant matching.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, productID uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, params pagination.Params) (*ProductListResult, error)
	MatchVariant(ctx context.Context, parentID uuid.UUID, filters map[string]string) (*ProductDTO, error)
	FilterVariants(ctx context.Context, parentID uuid.UUID, filters map[string]string) ([]ProductDTO, error)
	GetVariations(ctx context.Context, parentID uuid.UUID) (map[string]Variation, error)
	ReplaceModifiers(ctx context.Context, productID uuid.UUID, modifierIDs []uuid.UUID) (*ProductDTO, error)
}

// AttributeValueInput assigns one attribute to a product. Exactly one typed
// value should be set; which one is checked against the attribute's kind.
type AttributeValueInput struct {
	AttributeID uuid.UUID
	Integer     *int64
	Boolean     *bool
	Float       *float64
	Date        *time.Time
	OptionID    *uuid.UUID
	File        *string
}

// MeasurementInput sets one dimension of the product.
type MeasurementInput struct {
	Kind  string
	Value decimal.Decimal
	Unit  string
}

// FlagInput stamps one boolean badge onto a product. The flag row is created
// on first use of a code.
type FlagInput struct {
	Code  string
	Name  string
	Value bool
}

// RelatedProductInput links one up-sell or cross-sell suggestion.
type RelatedProductInput struct {
	ProductID uuid.UUID
	Kind      string
}

// CreateInput holds the validated payload to create a product.
type CreateInput struct {
	UPC             *string
	Name            string
	Slug            string
	Description     *string
	ParentID        *uuid.UUID
	UnitPrice       decimal.Decimal
	IsDiscountable  bool
	DiscountPercent *decimal.Decimal
	TaxID           *uuid.UUID
	Quantity        *int
	Active          bool
	FeaturedImage   *string
	CategoryID      *uuid.UUID
	BrandID         *uuid.UUID
	ManufacturerID  *uuid.UUID
	AttributeValues []AttributeValueInput
	Measurements    []MeasurementInput
	Flags           []FlagInput
	RelatedProducts []RelatedProductInput
}

// UpdateInput holds optional mutation values for a product.
type UpdateInput struct {
	UPC             *string
	Name            *string
	Slug            *string
	Description     *string
	UnitPrice       *decimal.Decimal
	IsDiscountable  *bool
	DiscountPercent *decimal.Decimal
	ClearDiscount   bool
	TaxID           *uuid.UUID
	ClearTax        bool
	Quantity        *int
	Active          *bool
	FeaturedImage   *string
	CategoryID      *uuid.UUID
	BrandID         *uuid.UUID
	ManufacturerID  *uuid.UUID
	AttributeValues *[]AttributeValueInput
	Measurements    *[]MeasurementInput
	Flags           *[]FlagInput
	RelatedProducts *[]RelatedProductInput
}

type attributeReader interface {
	FindAttributesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Attribute, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	attrRepo attributeReader
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, attrRepo attributeReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if attrRepo == nil {
		return nil, fmt.Errorf("attribute repository required")
	}
	return &service{repo: repo, dbClient: dbClient, attrRepo: attrRepo}, nil
}

// Create validates and persists a product with its attribute values and
// measurements in one transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if err := validatePricingInput(input.UnitPrice, input.DiscountPercent); err != nil {
		return nil, err
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	if existing, err := s.repo.FindBySlug(ctx, input.Slug); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking slug uniqueness")
	} else if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
	}

	if input.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading parent product")
		}
		if parent == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parent product not found")
		}
		if parent.IsVariant() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variants cannot be nested under variants")
		}
	}

	values, err := s.buildAttributeValues(ctx, uuid.Nil, input.AttributeValues)
	if err != nil {
		return nil, err
	}
	measurements, err := buildMeasurements(uuid.Nil, input.Measurements)
	if err != nil {
		return nil, err
	}
	if err := validateFlagInputs(input.Flags); err != nil {
		return nil, err
	}
	related, err := s.buildRelatedProducts(ctx, uuid.Nil, input.RelatedProducts)
	if err != nil {
		return nil, err
	}

	discount := decimal.NullDecimal{}
	if input.DiscountPercent != nil {
		discount = decimal.NullDecimal{Decimal: *input.DiscountPercent, Valid: true}
	}

	record := &models.Product{
		ID:              uuid.New(),
		UPC:             input.UPC,
		Name:            input.Name,
		Slug:            input.Slug,
		Description:     input.Description,
		ParentID:        input.ParentID,
		UnitPrice:       input.UnitPrice,
		IsDiscountable:  input.IsDiscountable,
		DiscountPercent: discount,
		TaxID:           input.TaxID,
		Quantity:        input.Quantity,
		Active:          input.Active,
		FeaturedImage:   input.FeaturedImage,
		CategoryID:      input.CategoryID,
		BrandID:         input.BrandID,
		ManufacturerID:  input.ManufacturerID,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
		}
		if len(values) > 0 {
			for i := range values {
				values[i].ProductID = record.ID
			}
			if err := txRepo.ReplaceAttributeValues(ctx, record.ID, values); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing attribute values")
			}
		}
		if len(measurements) > 0 {
			for i := range measurements {
				measurements[i].ProductID = record.ID
			}
			if err := txRepo.ReplaceMeasurements(ctx, record.ID, measurements); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing measurements")
			}
		}
		if len(input.Flags) > 0 {
			if err := storeFlags(ctx, txRepo, record.ID, input.Flags); err != nil {
				return err
			}
		}
		if len(related) > 0 {
			for i := range related {
				related[i].BaseProductID = record.ID
			}
			if err := txRepo.ReplaceRelatedProducts(ctx, record.ID, related); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing related products")
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s.Get(ctx, record.ID)
}

// Update applies the provided mutations inside one transaction.
func (s *service) Update(ctx context.Context, productID uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	record, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug cannot be empty")
		}
		if slug != record.Slug {
			existing, err := s.repo.FindBySlug(ctx, slug)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking slug uniqueness")
			}
			if existing != nil {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
			}
		}
		record.Slug = slug
	}

	applyUpdate(record, input)

	if err := validatePricingInput(record.UnitPrice, discountPtr(record.DiscountPercent)); err != nil {
		return nil, err
	}
	if record.Quantity != nil && *record.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	var values []models.ProductAttributeValue
	if input.AttributeValues != nil {
		values, err = s.buildAttributeValues(ctx, record.ID, *input.AttributeValues)
		if err != nil {
			return nil, err
		}
	}
	var measurements []models.ProductMeasurement
	if input.Measurements != nil {
		measurements, err = buildMeasurements(record.ID, *input.Measurements)
		if err != nil {
			return nil, err
		}
	}
	if input.Flags != nil {
		if err := validateFlagInputs(*input.Flags); err != nil {
			return nil, err
		}
	}
	var related []models.RelatedProduct
	if input.RelatedProducts != nil {
		related, err = s.buildRelatedProducts(ctx, record.ID, *input.RelatedProducts)
		if err != nil {
			return nil, err
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Update(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
		}
		if input.AttributeValues != nil {
			if err := txRepo.ReplaceAttributeValues(ctx, record.ID, values); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing attribute values")
			}
		}
		if input.Measurements != nil {
			if err := txRepo.ReplaceMeasurements(ctx, record.ID, measurements); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing measurements")
			}
		}
		if input.Flags != nil {
			if err := storeFlags(ctx, txRepo, record.ID, *input.Flags); err != nil {
				return err
			}
		}
		if input.RelatedProducts != nil {
			if err := txRepo.ReplaceRelatedProducts(ctx, record.ID, related); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing related products")
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s.Get(ctx, record.ID)
}

// Delete removes the product; variants go with it.
func (s *service) Delete(ctx context.Context, productID uuid.UUID) error {
	record, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if record == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

// Get returns the full detail payload with computed pricing.
func (s *service) Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	record, err := s.repo.GetDetail(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product detail")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(record), nil
}

// List returns a cursor page of active top-level products.
func (s *service) List(ctx context.Context, params pagination.Params) (*ProductListResult, error) {
	records, next, err := s.repo.ListActive(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	result := &ProductListResult{NextCursor: next, Products: make([]ProductDTO, 0, len(records))}
	for i := range records {
		result.Products = append(result.Products, *NewProductDTO(&records[i]))
	}
	return result, nil
}

// MatchVariant finds the exact variant for a filter set, or a not-found
// error when nothing matches.
func (s *service) MatchVariant(ctx context.Context, parentID uuid.UUID, filters map[string]string) (*ProductDTO, error) {
	parent, err := s.loadGroup(ctx, parentID)
	if err != nil {
		return nil, err
	}
	matched := MatchVariant(parent, filters)
	if matched == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no variant matches the requested attributes")
	}
	if matched.Parent == nil {
		matched.Parent = parent
	}
	return NewProductDTO(matched), nil
}

// FilterVariants returns the variants compatible with a partial filter set.
func (s *service) FilterVariants(ctx context.Context, parentID uuid.UUID, filters map[string]string) ([]ProductDTO, error) {
	parent, err := s.loadGroup(ctx, parentID)
	if err != nil {
		return nil, err
	}
	matched := FilterVariants(parent, filters)
	out := make([]ProductDTO, 0, len(matched))
	for i := range matched {
		if matched[i].Parent == nil {
			matched[i].Parent = parent
		}
		out = append(out, *NewProductDTO(&matched[i]))
	}
	return out, nil
}

// GetVariations returns the selectable attribute axes of a group product.
func (s *service) GetVariations(ctx context.Context, parentID uuid.UUID) (map[string]Variation, error) {
	parent, err := s.loadGroup(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return Variations(parent), nil
}

// ReplaceModifiers swaps the modifiers attached directly to a product and
// returns the refreshed detail payload. Cart-kind modifiers never attach to
// products.
func (s *service) ReplaceModifiers(ctx context.Context, productID uuid.UUID, modifierIDs []uuid.UUID) (*ProductDTO, error) {
	record, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	mods, err := s.resolveModifiers(ctx, modifierIDs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceModifiers(ctx, record, mods); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing product modifiers")
	}
	return s.Get(ctx, productID)
}

// resolveModifiers loads the referenced modifiers, rejecting unknown ids and
// cart-kind modifiers. An empty id list clears the attachment.
func (s *service) resolveModifiers(ctx context.Context, ids []uuid.UUID) ([]models.Modifier, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return []models.Modifier{}, nil
	}
	mods, err := s.repo.FindModifiersByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading modifiers")
	}
	if len(mods) != len(unique) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "one or more modifiers not found")
	}
	for i := range mods {
		if mods[i].IsCartModifier() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart modifiers cannot be attached to products").
				WithDetails(map[string]any{"modifier": mods[i].Code})
		}
	}
	return mods, nil
}

func (s *service) loadGroup(ctx context.Context, parentID uuid.UUID) (*models.Product, error) {
	parent, err := s.repo.GetDetail(ctx, parentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product detail")
	}
	if parent == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !parent.IsGroup() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product has no variants")
	}
	return parent, nil
}

// buildAttributeValues validates assignments against their attribute kinds
// and returns model rows ready for insert.
func (s *service) buildAttributeValues(ctx context.Context, productID uuid.UUID, inputs []AttributeValueInput) ([]models.ProductAttributeValue, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.AttributeID)
	}
	attrs, err := s.attrRepo.FindAttributesByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading attributes")
	}

	seen := map[uuid.UUID]struct{}{}
	out := make([]models.ProductAttributeValue, 0, len(inputs))
	for _, in := range inputs {
		attr, ok := attrs[in.AttributeID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attribute not found").
				WithDetails(map[string]any{"attribute_id": in.AttributeID})
		}
		if _, dup := seen[in.AttributeID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate attribute assignment").
				WithDetails(map[string]any{"attribute": attr.Slug})
		}
		seen[in.AttributeID] = struct{}{}

		row := models.ProductAttributeValue{ID: uuid.New(), ProductID: productID, AttributeID: in.AttributeID}
		switch attr.Kind {
		case enums.AttributeKindInteger:
			if in.Integer == nil {
				return nil, missingValueErr(attr)
			}
			row.ValueInteger = in.Integer
		case enums.AttributeKindBoolean:
			if in.Boolean == nil {
				return nil, missingValueErr(attr)
			}
			row.ValueBoolean = in.Boolean
		case enums.AttributeKindFloat:
			if in.Float == nil {
				return nil, missingValueErr(attr)
			}
			row.ValueFloat = in.Float
		case enums.AttributeKindDate:
			if in.Date == nil {
				return nil, missingValueErr(attr)
			}
			row.ValueDate = in.Date
		case enums.AttributeKindOption:
			if in.OptionID == nil {
				return nil, missingValueErr(attr)
			}
			if !optionBelongs(attr, *in.OptionID) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "option does not belong to attribute").
					WithDetails(map[string]any{"attribute": attr.Slug})
			}
			row.OptionID = in.OptionID
		case enums.AttributeKindFile, enums.AttributeKindImage:
			if in.File == nil {
				return nil, missingValueErr(attr)
			}
			row.ValueFile = in.File
		}
		out = append(out, row)
	}
	return out, nil
}

func missingValueErr(attr *models.Attribute) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "attribute value missing for its kind").
		WithDetails(map[string]any{"attribute": attr.Slug, "kind": attr.Kind.String()})
}

func optionBelongs(attr *models.Attribute, optionID uuid.UUID) bool {
	for _, opt := range attr.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

func buildMeasurements(productID uuid.UUID, inputs []MeasurementInput) ([]models.ProductMeasurement, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	seen := map[enums.MeasurementKind]struct{}{}
	out := make([]models.ProductMeasurement, 0, len(inputs))
	for _, in := range inputs {
		kind, err := enums.ParseMeasurementKind(in.Kind)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		unit, err := enums.ParseMeasurementUnit(in.Unit)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		if kind == enums.MeasurementKindWeight && unit.IsDistance() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight requires a weight unit")
		}
		if kind != enums.MeasurementKindWeight && !unit.IsDistance() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "distance measurements require a distance unit")
		}
		if in.Value.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "measurement value cannot be negative")
		}
		if _, dup := seen[kind]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate measurement kind").
				WithDetails(map[string]any{"kind": kind.String()})
		}
		seen[kind] = struct{}{}
		out = append(out, models.ProductMeasurement{
			ID:        uuid.New(),
			ProductID: productID,
			Kind:      kind,
			Value:     in.Value,
			Unit:      unit,
		})
	}
	return out, nil
}

func validateFlagInputs(inputs []FlagInput) error {
	seen := map[string]struct{}{}
	for _, in := range inputs {
		code := strings.TrimSpace(in.Code)
		if code == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "flag code is required")
		}
		if _, dup := seen[code]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate flag code").
				WithDetails(map[string]any{"code": code})
		}
		seen[code] = struct{}{}
	}
	return nil
}

// storeFlags resolves each flag code to its row, creating missing ones, and
// swaps the product's assignments.
func storeFlags(ctx context.Context, txRepo *Repository, productID uuid.UUID, inputs []FlagInput) error {
	rows := make([]models.ProductFlag, 0, len(inputs))
	for _, in := range inputs {
		code := strings.TrimSpace(in.Code)
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = code
		}
		flag, err := txRepo.EnsureFlag(ctx, code, name)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ensuring flag")
		}
		rows = append(rows, models.ProductFlag{
			ID:        uuid.New(),
			ProductID: productID,
			FlagID:    flag.ID,
			IsTrue:    in.Value,
		})
	}
	if err := txRepo.ReplaceFlags(ctx, productID, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing flags")
	}
	return nil
}

// buildRelatedProducts validates the suggestion links and returns model rows
// ready for insert. BaseProductID is stamped by the caller for new products.
func (s *service) buildRelatedProducts(ctx context.Context, productID uuid.UUID, inputs []RelatedProductInput) ([]models.RelatedProduct, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	seen := map[uuid.UUID]struct{}{}
	out := make([]models.RelatedProduct, 0, len(inputs))
	for _, in := range inputs {
		kind, err := enums.ParseRelatedProductKind(in.Kind)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		if productID != uuid.Nil && in.ProductID == productID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product cannot relate to itself")
		}
		if _, dup := seen[in.ProductID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate related product").
				WithDetails(map[string]any{"product_id": in.ProductID})
		}
		seen[in.ProductID] = struct{}{}
		target, err := s.repo.FindByID(ctx, in.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading related product")
		}
		if target == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "related product not found").
				WithDetails(map[string]any{"product_id": in.ProductID})
		}
		out = append(out, models.RelatedProduct{
			ID:            uuid.New(),
			BaseProductID: productID,
			ProductID:     in.ProductID,
			Kind:          kind,
		})
	}
	return out, nil
}

func validatePricingInput(unitPrice decimal.Decimal, discount *decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
	}
	if discount != nil {
		if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be between 0 and 100")
		}
	}
	return nil
}

func discountPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}

func applyUpdate(record *models.Product, input UpdateInput) {
	if input.UPC != nil {
		record.UPC = input.UPC
	}
	if input.Name != nil {
		record.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		record.Description = input.Description
	}
	if input.UnitPrice != nil {
		record.UnitPrice = *input.UnitPrice
	}
	if input.IsDiscountable != nil {
		record.IsDiscountable = *input.IsDiscountable
	}
	if input.ClearDiscount {
		record.DiscountPercent = decimal.NullDecimal{}
	} else if input.DiscountPercent != nil {
		record.DiscountPercent = decimal.NullDecimal{Decimal: *input.DiscountPercent, Valid: true}
	}
	if input.ClearTax {
		record.TaxID = nil
	} else if input.TaxID != nil {
		record.TaxID = input.TaxID
	}
	if input.Quantity != nil {
		record.Quantity = input.Quantity
	}
	if input.Active != nil {
		record.Active = *input.Active
	}
	if input.FeaturedImage != nil {
		record.FeaturedImage = input.FeaturedImage
	}
	if input.CategoryID != nil {
		record.CategoryID = input.CategoryID
	}
	if input.BrandID != nil {
		record.BrandID = input.BrandID
	}
	if input.ManufacturerID != nil {
		record.ManufacturerID = input.ManufacturerID
	}
}
