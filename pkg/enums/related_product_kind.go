package enums

import "fmt"

// RelatedProductKind classifies a product-to-product relation.
type RelatedProductKind string

const (
	RelatedProductKindUpSell    RelatedProductKind = "up_sell"
	RelatedProductKindCrossSell RelatedProductKind = "cross_sell"
)

var validRelatedProductKinds = []RelatedProductKind{
	RelatedProductKindUpSell,
	RelatedProductKindCrossSell,
}

// String implements fmt.Stringer.
func (k RelatedProductKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known RelatedProductKind.
func (k RelatedProductKind) IsValid() bool {
	for _, candidate := range validRelatedProductKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseRelatedProductKind converts raw input into a RelatedProductKind.
func ParseRelatedProductKind(value string) (RelatedProductKind, error) {
	for _, candidate := range validRelatedProductKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid related product kind %q", value)
}
