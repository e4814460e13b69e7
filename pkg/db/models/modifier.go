package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/enums"
)

// Modifier adjusts a price by a percentage, a fixed amount, or both. The
// percentage applies first, then the fixed amount. Standard modifiers target
// line items; cart modifiers target the cart subtotal.
type Modifier struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string              `gorm:"column:name;not null"`
	Code             string              `gorm:"column:code;not null;uniqueIndex"`
	Kind             enums.ModifierKind  `gorm:"column:kind;not null;default:'discount'"`
	Active           bool                `gorm:"column:active;not null;default:true"`
	Percent          decimal.NullDecimal `gorm:"column:percent;type:numeric(6,2)"`
	Amount           decimal.NullDecimal `gorm:"column:amount;type:numeric(12,2)"`
	RequiresCode     bool                `gorm:"column:requires_code;not null;default:false"`
	Conditions       []ModifierCondition `gorm:"foreignKey:ModifierID;constraint:OnDelete:CASCADE"`
	Codes            []ModifierCode      `gorm:"foreignKey:ModifierID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Modifier) TableName() string { return "catalog_modifiers" }

// IsCartModifier reports whether the modifier targets cart subtotals rather
// than individual line items.
func (m *Modifier) IsCartModifier() bool {
	return m.Kind == enums.ModifierKindCart
}

// ModifierCondition is a single predicate gating a modifier. All conditions
// on a modifier must hold for it to apply.
type ModifierCondition struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ModifierID uuid.UUID           `gorm:"column:modifier_id;type:uuid;not null"`
	Key        string              `gorm:"column:key;not null"`
	Arg        decimal.Decimal     `gorm:"column:arg;type:numeric(14,4);not null"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (ModifierCondition) TableName() string { return "catalog_modifier_conditions" }

// ModifierCode is a redeemable code that unlocks a code-gated modifier
// within an optional validity window.
type ModifierCode struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ModifierID uuid.UUID  `gorm:"column:modifier_id;type:uuid;not null"`
	Code       string     `gorm:"column:code;not null;uniqueIndex"`
	Active     bool       `gorm:"column:active;not null;default:true"`
	ValidFrom  *time.Time `gorm:"column:valid_from"`
	ValidUntil *time.Time `gorm:"column:valid_until"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (ModifierCode) TableName() string { return "catalog_modifier_codes" }

// IsCurrentlyValid reports whether the code can be redeemed at the given
// instant. A nil bound leaves that side of the window open.
func (c *ModifierCode) IsCurrentlyValid(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && !now.Before(*c.ValidUntil) {
		return false
	}
	return true
}

// CartModifierCode records a code a shopper redeemed against a cart.
type CartModifierCode struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID     `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:uix_cart_code"`
	CodeID    uuid.UUID     `gorm:"column:code_id;type:uuid;not null;uniqueIndex:uix_cart_code"`
	Code      *ModifierCode `gorm:"foreignKey:CodeID"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
}

func (CartModifierCode) TableName() string { return "catalog_cart_modifier_codes" }
