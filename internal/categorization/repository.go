package categorization

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/pkg/db/models"
)

// maxTreeDepth caps ancestor walks so a cyclic parent reference in bad data
// cannot loop the loader forever.
const maxTreeDepth = 32

// Repository persists the three categorization trees.
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

// FindCategory loads one category with its modifiers. Missing rows return nil.
func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var node models.Category
	err := r.db.WithContext(ctx).
		Preload("Modifiers.Conditions").
		Preload("Modifiers.Codes").
		First(&node, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// LoadCategoryChain loads a category and links in its ancestors up to the
// root so tree-wide modifier aggregation can walk parent pointers.
func (r *Repository) LoadCategoryChain(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	node, err := r.FindCategory(ctx, id)
	if err != nil || node == nil {
		return node, err
	}
	current := node
	for depth := 0; current.ParentID != nil && depth < maxTreeDepth; depth++ {
		parent, err := r.FindCategory(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		current.Parent = parent
		current = parent
	}
	return node, nil
}

// FindBrand loads one brand with its modifiers. Missing rows return nil.
func (r *Repository) FindBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var node models.Brand
	err := r.db.WithContext(ctx).
		Preload("Modifiers.Conditions").
		Preload("Modifiers.Codes").
		First(&node, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// LoadBrandChain loads a brand with its ancestor chain linked in.
func (r *Repository) LoadBrandChain(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	node, err := r.FindBrand(ctx, id)
	if err != nil || node == nil {
		return node, err
	}
	current := node
	for depth := 0; current.ParentID != nil && depth < maxTreeDepth; depth++ {
		parent, err := r.FindBrand(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		current.Parent = parent
		current = parent
	}
	return node, nil
}

// FindManufacturer loads one manufacturer with its modifiers. Missing rows
// return nil.
func (r *Repository) FindManufacturer(ctx context.Context, id uuid.UUID) (*models.Manufacturer, error) {
	var node models.Manufacturer
	err := r.db.WithContext(ctx).
		Preload("Modifiers.Conditions").
		Preload("Modifiers.Codes").
		First(&node, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// LoadManufacturerChain loads a manufacturer with its ancestor chain linked in.
func (r *Repository) LoadManufacturerChain(ctx context.Context, id uuid.UUID) (*models.Manufacturer, error) {
	node, err := r.FindManufacturer(ctx, id)
	if err != nil || node == nil {
		return node, err
	}
	current := node
	for depth := 0; current.ParentID != nil && depth < maxTreeDepth; depth++ {
		parent, err := r.FindManufacturer(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		current.Parent = parent
		current = parent
	}
	return node, nil
}

// CreateCategory inserts a category row.
func (r *Repository) CreateCategory(ctx context.Context, node *models.Category) error {
	return r.db.WithContext(ctx).Create(node).Error
}

// UpdateCategory saves a category row.
func (r *Repository) UpdateCategory(ctx context.Context, node *models.Category) error {
	return r.db.WithContext(ctx).Save(node).Error
}

// DeleteCategory removes a category; children reparent to NULL at the
// schema level.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// CreateBrand inserts a brand row.
func (r *Repository) CreateBrand(ctx context.Context, node *models.Brand) error {
	return r.db.WithContext(ctx).Create(node).Error
}

// UpdateBrand saves a brand row.
func (r *Repository) UpdateBrand(ctx context.Context, node *models.Brand) error {
	return r.db.WithContext(ctx).Save(node).Error
}

// DeleteBrand removes a brand.
func (r *Repository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Brand{}).Error
}

// CreateManufacturer inserts a manufacturer row.
func (r *Repository) CreateManufacturer(ctx context.Context, node *models.Manufacturer) error {
	return r.db.WithContext(ctx).Create(node).Error
}

// UpdateManufacturer saves a manufacturer row.
func (r *Repository) UpdateManufacturer(ctx context.Context, node *models.Manufacturer) error {
	return r.db.WithContext(ctx).Save(node).Error
}

// DeleteManufacturer removes a manufacturer.
func (r *Repository) DeleteManufacturer(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Manufacturer{}).Error
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

// ReplaceCategoryModifiers swaps the modifiers attached to a category.
func (r *Repository) ReplaceCategoryModifiers(ctx context.Context, node *models.Category, mods []models.Modifier) error {
	return r.db.WithContext(ctx).Model(node).Association("Modifiers").Replace(mods)
}

// ReplaceBrandModifiers swaps the modifiers attached to a brand.
func (r *Repository) ReplaceBrandModifiers(ctx context.Context, node *models.Brand, mods []models.Modifier) error {
	return r.db.WithContext(ctx).Model(node).Association("Modifiers").Replace(mods)
}

// ReplaceManufacturerModifiers swaps the modifiers attached to a manufacturer.
func (r *Repository) ReplaceManufacturerModifiers(ctx context.Context, node *models.Manufacturer, mods []models.Modifier) error {
	return r.db.WithContext(ctx).Model(node).Association("Modifiers").Replace(mods)
}
