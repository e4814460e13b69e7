package reviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
)

type productChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service manages shopper reviews and their moderation state.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ReviewDTO, error)
	Approve(ctx context.Context, reviewID uuid.UUID) (*ReviewDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
	Delete(ctx context.Context, reviewID uuid.UUID) error
}

// CreateInput holds the payload to leave a review.
type CreateInput struct {
	ProductID uuid.UUID
	Name      string
	Email     string
	Rating    int
	Body      string
}

type service struct {
	repo     *Repository
	products productChecker
}

// NewService builds a review service backed by the provided stack.
func NewService(repo *Repository, products productChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product checker required")
	}
	return &service{repo: repo, products: products}, nil
}

// Create validates and stores a review. New reviews are inactive until
// approved.
func (s *service) Create(ctx context.Context, input CreateInput) (*ReviewDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Body = strings.TrimSpace(input.Body)
	if input.Name == "" || input.Email == "" || input.Body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and body are required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if existing, err := s.repo.FindByProductAndEmail(ctx, input.ProductID, input.Email); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing review")
	} else if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a review for this product already exists for this email")
	}

	review := &models.ProductReview{
		ID:        uuid.New(),
		ProductID: input.ProductID,
		Name:      input.Name,
		Email:     input.Email,
		Rating:    input.Rating,
		Body:      input.Body,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating review")
	}
	return NewReviewDTO(review), nil
}

// Approve makes a review publicly visible.
func (s *service) Approve(ctx context.Context, reviewID uuid.UUID) (*ReviewDTO, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading review")
	}
	if review == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	if review.Active {
		return NewReviewDTO(review), nil
	}
	review.Active = true
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approving review")
	}
	return NewReviewDTO(review), nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	reviews, err := s.repo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reviews")
	}
	out := make([]ReviewDTO, 0, len(reviews))
	for i := range reviews {
		out = append(out, *NewReviewDTO(&reviews[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, reviewID uuid.UUID) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading review")
	}
	if review == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting review")
	}
	return nil
}
