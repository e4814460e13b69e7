package enums

import "fmt"

// AttributeKind selects which typed value column an attribute value populates.
type AttributeKind string

const (
	AttributeKindInteger AttributeKind = "integer"
	AttributeKindBoolean AttributeKind = "boolean"
	AttributeKindFloat   AttributeKind = "float"
	AttributeKindDate    AttributeKind = "date"
	AttributeKindOption  AttributeKind = "option"
	AttributeKindFile    AttributeKind = "file"
	AttributeKindImage   AttributeKind = "image"
)

var validAttributeKinds = []AttributeKind{
	AttributeKindInteger,
	AttributeKindBoolean,
	AttributeKindFloat,
	AttributeKindDate,
	AttributeKindOption,
	AttributeKindFile,
	AttributeKindImage,
}

// String implements fmt.Stringer.
func (k AttributeKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known AttributeKind.
func (k AttributeKind) IsValid() bool {
	for _, candidate := range validAttributeKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// IsOption reports whether values of this kind reference an attribute option.
func (k AttributeKind) IsOption() bool {
	return k == AttributeKindOption
}

// IsFile reports whether values of this kind store an opaque path.
func (k AttributeKind) IsFile() bool {
	return k == AttributeKindFile || k == AttributeKindImage
}

// ParseAttributeKind converts raw input into an AttributeKind.
func ParseAttributeKind(value string) (AttributeKind, error) {
	for _, candidate := range validAttributeKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attribute kind %q", value)
}
