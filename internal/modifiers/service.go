package modifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
)

// Service manages price modifiers, their conditions and redemption codes.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ModifierDTO, error)
	Update(ctx context.Context, modifierID uuid.UUID, input UpdateInput) (*ModifierDTO, error)
	Delete(ctx context.Context, modifierID uuid.UUID) error
	Get(ctx context.Context, modifierID uuid.UUID) (*ModifierDTO, error)
	List(ctx context.Context) ([]ModifierDTO, error)
	ListCartModifiers(ctx context.Context) ([]ModifierDTO, error)
	AddCondition(ctx context.Context, modifierID uuid.UUID, input ConditionInput) (*ModifierDTO, error)
	RemoveCondition(ctx context.Context, modifierID, conditionID uuid.UUID) error
	AddCode(ctx context.Context, modifierID uuid.UUID, input CodeInput) (*ModifierDTO, error)
	RemoveCode(ctx context.Context, modifierID, codeID uuid.UUID) error
}

// CreateInput holds the payload to create a modifier.
type CreateInput struct {
	Name         string
	Code         string
	Kind         string
	Active       bool
	Percent      *decimal.Decimal
	Amount       *decimal.Decimal
	RequiresCode bool
	Conditions   []ConditionInput
	Codes        []CodeInput
}

// UpdateInput holds optional mutations for a modifier.
type UpdateInput struct {
	Name         *string
	Active       *bool
	Percent      *decimal.Decimal
	ClearPercent bool
	Amount       *decimal.Decimal
	ClearAmount  bool
	RequiresCode *bool
}

// ConditionInput adds one predicate to a modifier.
type ConditionInput struct {
	Key string
	Arg decimal.Decimal
}

// CodeInput adds one redemption code to a modifier.
type CodeInput struct {
	Code       string
	Active     bool
	ValidFrom  *time.Time
	ValidUntil *time.Time
}

type service struct {
	repo *Repository
}

// NewService constructs a modifier service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("modifier repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ModifierDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.TrimSpace(input.Code)
	if input.Name == "" || input.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and code are required")
	}
	kind, err := enums.ParseModifierKind(input.Kind)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.Percent == nil && input.Amount == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a percent or amount is required")
	}

	if existing, err := s.repo.FindByCode(ctx, input.Code); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking code uniqueness")
	} else if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "modifier code already in use")
	}

	record := &models.Modifier{
		ID:           uuid.New(),
		Name:         input.Name,
		Code:         input.Code,
		Kind:         kind,
		Active:       input.Active,
		RequiresCode: input.RequiresCode,
	}
	if input.Percent != nil {
		record.Percent = decimal.NullDecimal{Decimal: *input.Percent, Valid: true}
	}
	if input.Amount != nil {
		record.Amount = decimal.NullDecimal{Decimal: *input.Amount, Valid: true}
	}
	for _, cond := range input.Conditions {
		built, err := buildCondition(cond)
		if err != nil {
			return nil, err
		}
		record.Conditions = append(record.Conditions, *built)
	}
	for _, code := range input.Codes {
		built, err := buildCode(code)
		if err != nil {
			return nil, err
		}
		record.Codes = append(record.Codes, *built)
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating modifier")
	}
	return s.Get(ctx, record.ID)
}

func (s *service) Update(ctx context.Context, modifierID uuid.UUID, input UpdateInput) (*ModifierDTO, error) {
	record, err := s.mustFind(ctx, modifierID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		record.Name = name
	}
	if input.Active != nil {
		record.Active = *input.Active
	}
	if input.ClearPercent {
		record.Percent = decimal.NullDecimal{}
	} else if input.Percent != nil {
		record.Percent = decimal.NullDecimal{Decimal: *input.Percent, Valid: true}
	}
	if input.ClearAmount {
		record.Amount = decimal.NullDecimal{}
	} else if input.Amount != nil {
		record.Amount = decimal.NullDecimal{Decimal: *input.Amount, Valid: true}
	}
	if input.RequiresCode != nil {
		record.RequiresCode = *input.RequiresCode
	}
	if !record.Percent.Valid && !record.Amount.Valid {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a percent or amount is required")
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating modifier")
	}
	return s.Get(ctx, modifierID)
}

func (s *service) Delete(ctx context.Context, modifierID uuid.UUID) error {
	if _, err := s.mustFind(ctx, modifierID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, modifierID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting modifier")
	}
	return nil
}

func (s *service) Get(ctx context.Context, modifierID uuid.UUID) (*ModifierDTO, error) {
	record, err := s.mustFind(ctx, modifierID)
	if err != nil {
		return nil, err
	}
	return NewModifierDTO(record), nil
}

func (s *service) List(ctx context.Context) ([]ModifierDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing modifiers")
	}
	return toDTOs(records), nil
}

func (s *service) ListCartModifiers(ctx context.Context) ([]ModifierDTO, error) {
	records, err := s.repo.ListCartModifiers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart modifiers")
	}
	return toDTOs(records), nil
}

func (s *service) AddCondition(ctx context.Context, modifierID uuid.UUID, input ConditionInput) (*ModifierDTO, error) {
	if _, err := s.mustFind(ctx, modifierID); err != nil {
		return nil, err
	}
	built, err := buildCondition(input)
	if err != nil {
		return nil, err
	}
	built.ModifierID = modifierID
	if err := s.repo.AddCondition(ctx, built); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding condition")
	}
	return s.Get(ctx, modifierID)
}

func (s *service) RemoveCondition(ctx context.Context, modifierID, conditionID uuid.UUID) error {
	if _, err := s.mustFind(ctx, modifierID); err != nil {
		return err
	}
	if err := s.repo.DeleteCondition(ctx, modifierID, conditionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing condition")
	}
	return nil
}

func (s *service) AddCode(ctx context.Context, modifierID uuid.UUID, input CodeInput) (*ModifierDTO, error) {
	if _, err := s.mustFind(ctx, modifierID); err != nil {
		return nil, err
	}
	built, err := buildCode(input)
	if err != nil {
		return nil, err
	}
	built.ModifierID = modifierID

	if existing, err := s.repo.FindRedemptionCode(ctx, built.Code); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking redemption code uniqueness")
	} else if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "redemption code already in use")
	}

	if err := s.repo.AddCode(ctx, built); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding code")
	}
	return s.Get(ctx, modifierID)
}

func (s *service) RemoveCode(ctx context.Context, modifierID, codeID uuid.UUID) error {
	if _, err := s.mustFind(ctx, modifierID); err != nil {
		return err
	}
	if err := s.repo.DeleteCode(ctx, modifierID, codeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing code")
	}
	return nil
}

func (s *service) mustFind(ctx context.Context, modifierID uuid.UUID) (*models.Modifier, error) {
	record, err := s.repo.FindByID(ctx, modifierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading modifier")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "modifier not found")
	}
	return record, nil
}

func buildCondition(input ConditionInput) (*models.ModifierCondition, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "condition key is required")
	}
	return &models.ModifierCondition{ID: uuid.New(), Key: key, Arg: input.Arg}, nil
}

func buildCode(input CodeInput) (*models.ModifierCode, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if input.ValidFrom != nil && input.ValidUntil != nil && !input.ValidFrom.Before(*input.ValidUntil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid_from must precede valid_until")
	}
	return &models.ModifierCode{
		ID:         uuid.New(),
		Code:       code,
		Active:     input.Active,
		ValidFrom:  input.ValidFrom,
		ValidUntil: input.ValidUntil,
	}, nil
}

func toDTOs(records []models.Modifier) []ModifierDTO {
	out := make([]ModifierDTO, 0, len(records))
	for i := range records {
		out = append(out, *NewModifierDTO(&records[i]))
	}
	return out
}
