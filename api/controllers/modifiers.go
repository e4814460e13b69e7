package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/api/responses"
	"github.com/shopworks/catalog-backend/api/validators"
	modifiersvc "github.com/shopworks/catalog-backend/internal/modifiers"
	"github.com/shopworks/catalog-backend/pkg/logger"
)

// CreateModifier handles price modifier creation.
func CreateModifier(svc modifiersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createModifierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modifier, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, modifier)
	}
}

func UpdateModifier(svc modifiersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifierID, err := parseIDParam(r, "modifierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateModifierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modifier, err := svc.Update(r.Context(), modifierID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, modifier)
	}
}

func DeleteModifier(svc modifiersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifierID, err := parseIDParam(r, "modifierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), modifierID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func GetModifier(svc modifiersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifierID, err := parseIDParam(r, "modifierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modifier, err := svc.Get(r.Context(), modifierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, modifier)
	}
}

func ListModifiers(svc modifiersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifiers, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, modifiers)
	}
}

// ListCartModifiers lists the modifiers evaluated at cart level.
func ListCartModifiers(svc modifiersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifiers, err := svc.ListCartModifiers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, modifiers)
	}
}

func AddModifierCondition(svc modifiersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifierID, err := parseIDParam(r, "modifierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload conditionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modifier, err := svc.AddCondition(r.Context(), modifierID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, modifier)
	}
}

func RemoveModifierCondition(svc modifiersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifierID, err := parseIDParam(r, "modifierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conditionID, err := parseIDParam(r, "conditionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveCondition(r.Context(), modifierID, conditionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func AddModifierCode(svc modifiersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifierID, err := parseIDParam(r, "modifierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload codeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modifier, err := svc.AddCode(r.Context(), modifierID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, modifier)
	}
}

func RemoveModifierCode(svc modifiersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifierID, err := parseIDParam(r, "modifierID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		codeID, err := parseIDParam(r, "codeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveCode(r.Context(), modifierID, codeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

type conditionRequest struct {
	Key string          `json:"key" validate:"required"`
	Arg decimal.Decimal `json:"arg"`
}

func (r conditionRequest) toInput() modifiersvc.ConditionInput {
	return modifiersvc.ConditionInput{
		Key: strings.TrimSpace(r.Key),
		Arg: r.Arg,
	}
}

type codeRequest struct {
	Code       string     `json:"code" validate:"required"`
	Active     *bool      `json:"active,omitempty"`
	ValidFrom  *time.Time `json:"valid_from,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

func (r codeRequest) toInput() modifiersvc.CodeInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return modifiersvc.CodeInput{
		Code:       strings.TrimSpace(r.Code),
		Active:     active,
		ValidFrom:  r.ValidFrom,
		ValidUntil: r.ValidUntil,
	}
}

type createModifierRequest struct {
	Name         string             `json:"name" validate:"required"`
	Code         string             `json:"code" validate:"required"`
	Kind         string             `json:"kind" validate:"required"`
	Active       *bool              `json:"active,omitempty"`
	Percent      *decimal.Decimal   `json:"percent,omitempty"`
	Amount       *decimal.Decimal   `json:"amount,omitempty"`
	RequiresCode bool               `json:"requires_code"`
	Conditions   []conditionRequest `json:"conditions,omitempty" validate:"omitempty,dive"`
	Codes        []codeRequest      `json:"codes,omitempty" validate:"omitempty,dive"`
}

func (r createModifierRequest) toInput() modifiersvc.CreateInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	conditions := make([]modifiersvc.ConditionInput, 0, len(r.Conditions))
	for _, cond := range r.Conditions {
		conditions = append(conditions, cond.toInput())
	}
	codes := make([]modifiersvc.CodeInput, 0, len(r.Codes))
	for _, code := range r.Codes {
		codes = append(codes, code.toInput())
	}

	return modifiersvc.CreateInput{
		Name:         strings.TrimSpace(r.Name),
		Code:         strings.TrimSpace(r.Code),
		Kind:         strings.TrimSpace(r.Kind),
		Active:       active,
		Percent:      r.Percent,
		Amount:       r.Amount,
		RequiresCode: r.RequiresCode,
		Conditions:   conditions,
		Codes:        codes,
	}
}

type updateModifierRequest struct {
	Name         *string          `json:"name,omitempty"`
	Active       *bool            `json:"active,omitempty"`
	Percent      *decimal.Decimal `json:"percent,omitempty"`
	ClearPercent bool             `json:"clear_percent,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	ClearAmount  bool             `json:"clear_amount,omitempty"`
	RequiresCode *bool            `json:"requires_code,omitempty"`
}

func (r updateModifierRequest) toInput() modifiersvc.UpdateInput {
	return modifiersvc.UpdateInput{
		Name:         r.Name,
		Active:       r.Active,
		Percent:      r.Percent,
		ClearPercent: r.ClearPercent,
		Amount:       r.Amount,
		ClearAmount:  r.ClearAmount,
		RequiresCode: r.RequiresCode,
	}
}
