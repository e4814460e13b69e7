package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopworks/catalog-backend/api/responses"
	"github.com/shopworks/catalog-backend/api/validators"
	cartsvc "github.com/shopworks/catalog-backend/internal/cart"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
	"github.com/shopworks/catalog-backend/pkg/logger"
)

// CreateCart opens a new empty cart.
func CreateCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, err := svc.CreateCart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, cart)
	}
}

func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := parseIDParam(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.GetCart(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// ReplaceCartItems swaps the full line set and reprices the cart.
func ReplaceCartItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := parseIDParam(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := payload.toInputs()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.ReplaceItems(r.Context(), cartID, items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// ApplyCartCode redeems a modifier code against the cart.
func ApplyCartCode(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := parseIDParam(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.ApplyCode(r.Context(), cartID, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

func RemoveCartCode(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := parseIDParam(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "code is required"))
			return
		}

		cart, err := svc.RemoveCode(r.Context(), cartID, code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// QuoteCart reprices the cart against the current catalog state.
func QuoteCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := parseIDParam(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Quote(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

type cartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type replaceItemsRequest struct {
	Items []cartItemRequest `json:"items" validate:"dive"`
}

func (r replaceItemsRequest) toInputs() ([]cartsvc.ItemInput, error) {
	items := make([]cartsvc.ItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		productID, err := uuid.Parse(strings.TrimSpace(item.ProductID))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		items = append(items, cartsvc.ItemInput{ProductID: productID, Quantity: item.Quantity})
	}
	return items, nil
}

type cartCodeRequest struct {
	Code string `json:"code" validate:"required"`
}
