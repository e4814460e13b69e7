package modifier

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/pkg/db/models"
)

// Repository persists modifiers, their conditions and redemption codes.
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

// FindByID loads a modifier with conditions and codes. Missing rows return nil.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Modifier, error) {
	var mod models.Modifier
	err := r.db.WithContext(ctx).
		Preload("Conditions").
		Preload("Codes").
		First(&mod, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mod, nil
}

// FindByCode loads a modifier by its unique code. Missing rows return nil.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Modifier, error) {
	var mod models.Modifier
	err := r.db.WithContext(ctx).
		Preload("Conditions").
		Preload("Codes").
		First(&mod, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mod, nil
}

// FindRedemptionCode loads one redemption code row by its code string.
// Missing rows return nil.
func (r *Repository) FindRedemptionCode(ctx context.Context, code string) (*models.ModifierCode, error) {
	var row models.ModifierCode
	err := r.db.WithContext(ctx).First(&row, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all modifiers with their conditions and codes.
func (r *Repository) List(ctx context.Context) ([]models.Modifier, error) {
	var mods []models.Modifier
	err := r.db.WithContext(ctx).
		Preload("Conditions").
		Preload("Codes").
		Order("created_at ASC").
		Find(&mods).Error
	if err != nil {
		return nil, err
	}
	return mods, nil
}

// ListCartModifiers returns every active cart-kind modifier.
func (r *Repository) ListCartModifiers(ctx context.Context) ([]models.Modifier, error) {
	var mods []models.Modifier
	err := r.db.WithContext(ctx).
		Preload("Conditions").
		Preload("Codes").
		Where("kind = ? AND active = ?", "cart_modifier", true).
		Order("created_at ASC").
		Find(&mods).Error
	if err != nil {
		return nil, err
	}
	return mods, nil
}

// Create inserts a modifier with its owned rows.
func (r *Repository) Create(ctx context.Context, mod *models.Modifier) error {
	return r.db.WithContext(ctx).Create(mod).Error
}

// Update saves a modifier row without touching owned associations.
func (r *Repository) Update(ctx context.Context, mod *models.Modifier) error {
	return r.db.WithContext(ctx).Omit("Conditions", "Codes").Save(mod).Error
}

// Delete removes a modifier; conditions and codes cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Modifier{}).Error
}

// AddCondition inserts one condition row.
func (r *Repository) AddCondition(ctx context.Context, cond *models.ModifierCondition) error {
	return r.db.WithContext(ctx).Create(cond).Error
}

// DeleteCondition removes one condition row scoped to its modifier.
func (r *Repository) DeleteCondition(ctx context.Context, modifierID, conditionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND modifier_id = ?", conditionID, modifierID).
		Delete(&models.ModifierCondition{}).Error
}

// AddCode inserts one redemption code row.
func (r *Repository) AddCode(ctx context.Context, code *models.ModifierCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// DeleteCode removes one redemption code row scoped to its modifier.
func (r *Repository) DeleteCode(ctx context.Context, modifierID, codeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND modifier_id = ?", codeID, modifierID).
		Delete(&models.ModifierCode{}).Error
}
