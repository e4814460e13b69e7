package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
)

// Repository persists cart records, their items and applied codes.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads a cart with its items and applied code rows. Missing rows
// return nil.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Product").
		Preload("AppliedCodes.Code").
		First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new cart record.
func (r *Repository) Create(ctx context.Context, record *models.CartRecord) error {
	if record.Status == "" {
		record.Status = enums.CartStatusActive
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// Update saves the cart row without touching owned associations.
func (r *Repository) Update(ctx context.Context, record *models.CartRecord) error {
	return r.db.WithContext(ctx).Omit("Items", "AppliedCodes").Save(record).Error
}

// UpdateStatus moves the cart to the given status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CartStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ReplaceItems swaps the cart's item rows.
func (r *Repository) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// SaveItems persists updated quote values on existing item rows.
func (r *Repository) SaveItems(ctx context.Context, items []models.CartItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&items).Error
}

// AddAppliedCode records a redeemed code against the cart.
func (r *Repository) AddAppliedCode(ctx context.Context, row *models.CartModifierCode) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// RemoveAppliedCode deletes one applied code row scoped to its cart.
func (r *Repository) RemoveAppliedCode(ctx context.Context, cartID, codeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND code_id = ?", cartID, codeID).
		Delete(&models.CartModifierCode{}).Error
}
