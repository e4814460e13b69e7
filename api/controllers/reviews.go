package controllers

import (
	"net/http"
	"strings"

	"github.com/shopworks/catalog-backend/api/responses"
	"github.com/shopworks/catalog-backend/api/validators"
	reviewsvc "github.com/shopworks/catalog-backend/internal/reviews"
	"github.com/shopworks/catalog-backend/pkg/logger"
)

// CreateReview stores a pending review for a product.
func CreateReview(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Create(r.Context(), reviewsvc.CreateInput{
			ProductID: productID,
			Name:      strings.TrimSpace(payload.Name),
			Email:     strings.TrimSpace(payload.Email),
			Rating:    payload.Rating,
			Body:      strings.TrimSpace(payload.Body),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

// ListProductReviews returns the approved reviews for a product.
func ListProductReviews(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reviews, err := svc.ListByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reviews)
	}
}

func ApproveReview(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, err := parseIDParam(r, "reviewID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Approve(r.Context(), reviewID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, review)
	}
}

func DeleteReview(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, err := parseIDParam(r, "reviewID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), reviewID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createReviewRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Body   string `json:"body" validate:"required"`
}
