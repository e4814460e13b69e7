package enums

import "fmt"

// ModifierKind determines where a price modifier may apply.
type ModifierKind string

const (
	// ModifierKindStandard applies to any eligible product or line item.
	ModifierKindStandard ModifierKind = "standard"
	// ModifierKindDiscount applies only to products flagged discountable.
	ModifierKindDiscount ModifierKind = "discount"
	// ModifierKindCart applies to the whole cart, never to a single line.
	ModifierKindCart ModifierKind = "cart_modifier"
)

var validModifierKinds = []ModifierKind{
	ModifierKindStandard,
	ModifierKindDiscount,
	ModifierKindCart,
}

// String implements fmt.Stringer.
func (k ModifierKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ModifierKind.
func (k ModifierKind) IsValid() bool {
	for _, candidate := range validModifierKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseModifierKind converts raw input into a ModifierKind.
func ParseModifierKind(value string) (ModifierKind, error) {
	for _, candidate := range validModifierKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid modifier kind %q", value)
}
