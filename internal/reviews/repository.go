package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/catalog-backend/pkg/db/models"
)

// Repository persists product reviews.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one review. Missing rows return nil.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductReview, error) {
	var review models.ProductReview
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByProductAndEmail loads the review a given email left on a product.
// Missing rows return nil.
func (r *Repository) FindByProductAndEmail(ctx context.Context, productID uuid.UUID, email string) (*models.ProductReview, error) {
	var review models.ProductReview
	err := r.db.WithContext(ctx).
		First(&review, "product_id = ? AND email = ?", productID, email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListActiveByProduct returns the moderated reviews for a product, newest
// first.
func (r *Repository) ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductReview, error) {
	var reviews []models.ProductReview
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND active = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Create inserts a review row.
func (r *Repository) Create(ctx context.Context, review *models.ProductReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Update saves a review row.
func (r *Repository) Update(ctx context.Context, review *models.ProductReview) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// Delete removes a review by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductReview{}).Error
}
