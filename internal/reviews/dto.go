package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopworks/catalog-backend/pkg/db/models"
)

// ReviewDTO is the review payload.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReviewDTO maps a review row into its payload shape. The author email is
// deliberately not exposed.
func NewReviewDTO(review *models.ProductReview) *ReviewDTO {
	if review == nil {
		return nil
	}
	return &ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		Name:      review.Name,
		Rating:    review.Rating,
		Body:      review.Body,
		Active:    review.Active,
		CreatedAt: review.CreatedAt,
	}
}
