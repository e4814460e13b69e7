package product

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/pagination"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations. Missing rows return nil.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product by slug. Missing rows return nil.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// detailPreloads covers everything price resolution and the detail payload
// need: the parent chain for inheritance, variants with their attribute
// values for matching, and the modifier associations.
func (r *Repository) detailPreloads(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Parent").
		Preload("Parent.Tax").
		Preload("Parent.Measurements").
		Preload("Parent.Modifiers.Conditions").
		Preload("Parent.Modifiers.Codes").
		Preload("Parent.Flags.Flag").
		Preload("Parent.Category.Modifiers.Conditions").
		Preload("Parent.Category.Modifiers.Codes").
		Preload("Parent.Brand.Modifiers.Conditions").
		Preload("Parent.Brand.Modifiers.Codes").
		Preload("Parent.Manufacturer.Modifiers.Conditions").
		Preload("Parent.Manufacturer.Modifiers.Codes").
		Preload("Tax").
		Preload("Measurements").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Variants.AttributeValues.Attribute").
		Preload("Variants.AttributeValues.Option").
		Preload("AttributeValues.Attribute").
		Preload("AttributeValues.Option").
		Preload("Modifiers.Conditions").
		Preload("Modifiers.Codes").
		Preload("Flags.Flag").
		Preload("RelatedProducts.Product").
		Preload("Category.Modifiers.Conditions").
		Preload("Category.Modifiers.Codes").
		Preload("Brand.Modifiers.Conditions").
		Preload("Brand.Modifiers.Codes").
		Preload("Manufacturer.Modifiers.Conditions").
		Preload("Manufacturer.Modifiers.Codes")
}

// GetDetail fetches the product with every association the pricing and
// variant paths consume, ancestor tree nodes included. Missing rows
// return nil.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.detailPreloads(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachTreeChains(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// maxTreeDepth caps ancestor walks so a cyclic parent reference in bad data
// cannot loop the loader forever.
const maxTreeDepth = 32

// attachTreeChains links ancestor nodes into the product's categorization
// trees. Preloads stop at the directly assigned node; tree-wide modifier
// aggregation walks parent pointers, so the ancestors are stitched in here.
// A variant's parent gets the same treatment since pricing falls back to it.
func (r *Repository) attachTreeChains(ctx context.Context, product *models.Product) error {
	if product == nil {
		return nil
	}
	if err := r.attachCategoryAncestors(ctx, product.Category); err != nil {
		return err
	}
	if err := r.attachBrandAncestors(ctx, product.Brand); err != nil {
		return err
	}
	if err := r.attachManufacturerAncestors(ctx, product.Manufacturer); err != nil {
		return err
	}
	return r.attachTreeChains(ctx, product.Parent)
}

func (r *Repository) attachCategoryAncestors(ctx context.Context, node *models.Category) error {
	current := node
	for depth := 0; current != nil && current.ParentID != nil && depth < maxTreeDepth; depth++ {
		var parent models.Category
		err := r.db.WithContext(ctx).
			Preload("Modifiers.Conditions").
			Preload("Modifiers.Codes").
			First(&parent, "id = ?", *current.ParentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return err
		}
		current.Parent = &parent
		current = &parent
	}
	return nil
}

func (r *Repository) attachBrandAncestors(ctx context.Context, node *models.Brand) error {
	current := node
	for depth := 0; current != nil && current.ParentID != nil && depth < maxTreeDepth; depth++ {
		var parent models.Brand
		err := r.db.WithContext(ctx).
			Preload("Modifiers.Conditions").
			Preload("Modifiers.Codes").
			First(&parent, "id = ?", *current.ParentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return err
		}
		current.Parent = &parent
		current = &parent
	}
	return nil
}

func (r *Repository) attachManufacturerAncestors(ctx context.Context, node *models.Manufacturer) error {
	current := node
	for depth := 0; current != nil && current.ParentID != nil && depth < maxTreeDepth; depth++ {
		var parent models.Manufacturer
		err := r.db.WithContext(ctx).
			Preload("Modifiers.Conditions").
			Preload("Modifiers.Codes").
			First(&parent, "id = ?", *current.ParentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return err
		}
		current.Parent = &parent
		current = &parent
	}
	return nil
}

// Create inserts a new product row with its owned associations.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update saves an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product by id. Variants cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ReplaceAttributeValues swaps the product's attribute assignments.
func (r *Repository) ReplaceAttributeValues(ctx context.Context, productID uuid.UUID, values []models.ProductAttributeValue) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductAttributeValue{}).Error; err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	return tx.Create(&values).Error
}

// ReplaceMeasurements swaps the product's measurements.
func (r *Repository) ReplaceMeasurements(ctx context.Context, productID uuid.UUID, measurements []models.ProductMeasurement) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductMeasurement{}).Error; err != nil {
		return err
	}
	if len(measurements) == 0 {
		return nil
	}
	return tx.Create(&measurements).Error
}

// ReplaceFlags swaps the product's flag assignments.
func (r *Repository) ReplaceFlags(ctx context.Context, productID uuid.UUID, rows []models.ProductFlag) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductFlag{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// EnsureFlag finds or creates the named flag row by code.
func (r *Repository) EnsureFlag(ctx context.Context, code, name string) (*models.Flag, error) {
	var flag models.Flag
	err := r.db.WithContext(ctx).First(&flag, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		flag = models.Flag{ID: uuid.New(), Code: code, Name: name}
		if err := r.db.WithContext(ctx).Create(&flag).Error; err != nil {
			return nil, err
		}
		return &flag, nil
	}
	if err != nil {
		return nil, err
	}
	return &flag, nil
}

// ReplaceRelatedProducts swaps the product's up-sell and cross-sell links.
func (r *Repository) ReplaceRelatedProducts(ctx context.Context, productID uuid.UUID, rows []models.RelatedProduct) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("base_product_id = ?", productID).Delete(&models.RelatedProduct{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// ReplaceModifiers swaps the modifiers attached directly to a product.
func (r *Repository) ReplaceModifiers(ctx context.Context, product *models.Product, mods []models.Modifier) error {
	return r.db.WithContext(ctx).Model(product).Association("Modifiers").Replace(mods)
}

// FindModifiersByIDs loads modifier rows for the given ids. Unknown ids are
// simply absent from the result.
func (r *Repository) FindModifiersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Modifier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var mods []models.Modifier
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&mods).Error
	if err != nil {
		return nil, err
	}
	return mods, nil
}

// FindAttributesByIDs loads attributes with their options, keyed by id.
// Unknown ids are simply absent from the map.
func (r *Repository) FindAttributesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Attribute, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*models.Attribute{}, nil
	}
	var attrs []models.Attribute
	err := r.db.WithContext(ctx).
		Preload("Options").
		Where("id IN ?", ids).
		Find(&attrs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*models.Attribute, len(attrs))
	for i := range attrs {
		out[attrs[i].ID] = &attrs[i]
	}
	return out, nil
}

// ListActive returns a cursor page of active top-level products.
func (r *Repository) ListActive(ctx context.Context, params pagination.Params) ([]models.Product, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("parent_id IS NULL").
		Order("created_at ASC, id ASC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, "", err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(products) > limit {
		products = products[:limit]
		last := products[len(products)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return products, next, nil
}
