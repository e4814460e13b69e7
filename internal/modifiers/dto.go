package modifier

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
)

// ConditionDTO is one predicate row on a modifier payload.
type ConditionDTO struct {
	ID  uuid.UUID       `json:"id"`
	Key string          `json:"key"`
	Arg decimal.Decimal `json:"arg"`
}

// CodeDTO is one redemption code row on a modifier payload.
type CodeDTO struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	Active     bool       `json:"active"`
	ValidFrom  *time.Time `json:"valid_from,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

// ModifierDTO is the full modifier payload.
type ModifierDTO struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Code         string           `json:"code"`
	Kind         string           `json:"kind"`
	Active       bool             `json:"active"`
	Percent      *decimal.Decimal `json:"percent,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	RequiresCode bool             `json:"requires_code"`
	Conditions   []ConditionDTO   `json:"conditions,omitempty"`
	Codes        []CodeDTO        `json:"codes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewModifierDTO maps a preloaded modifier into its payload shape.
func NewModifierDTO(m *models.Modifier) *ModifierDTO {
	if m == nil {
		return nil
	}
	dto := &ModifierDTO{
		ID:           m.ID,
		Name:         m.Name,
		Code:         m.Code,
		Kind:         m.Kind.String(),
		Active:       m.Active,
		RequiresCode: m.RequiresCode,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Percent.Valid {
		p := m.Percent.Decimal
		dto.Percent = &p
	}
	if m.Amount.Valid {
		a := m.Amount.Decimal
		dto.Amount = &a
	}
	for _, cond := range m.Conditions {
		dto.Conditions = append(dto.Conditions, ConditionDTO{ID: cond.ID, Key: cond.Key, Arg: cond.Arg})
	}
	for _, code := range m.Codes {
		dto.Codes = append(dto.Codes, CodeDTO{
			ID:         code.ID,
			Code:       code.Code,
			Active:     code.Active,
			ValidFrom:  code.ValidFrom,
			ValidUntil: code.ValidUntil,
		})
	}
	return dto
}
