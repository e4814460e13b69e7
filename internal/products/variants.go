package product

import (
	"sort"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
)

// attrPair is one canonical (attribute slug, value string) assignment.
type attrPair struct {
	slug  string
	value string
}

// pairSet canonicalizes a product's attribute assignments. Values without a
// loaded attribute or with no value render as empty strings and are skipped.
func pairSet(p *models.Product) map[attrPair]struct{} {
	set := make(map[attrPair]struct{}, len(p.AttributeValues))
	for i := range p.AttributeValues {
		v := &p.AttributeValues[i]
		slug := v.Slug()
		value := v.Value()
		if slug == "" || value == "" {
			continue
		}
		set[attrPair{slug: slug, value: value}] = struct{}{}
	}
	return set
}

// MatchVariant returns the first variant whose attribute assignments equal
// the filter set exactly. Non-group products match nothing.
func MatchVariant(parent *models.Product, filters map[string]string) *models.Product {
	if parent == nil || !parent.IsGroup() {
		return nil
	}
	for i := range parent.Variants {
		set := pairSet(&parent.Variants[i])
		if len(set) != len(filters) {
			continue
		}
		if containsAll(set, filters) {
			return &parent.Variants[i]
		}
	}
	return nil
}

// FilterVariants returns the variants whose assignments are a superset of
// the filter set. No matches returns nil, not an empty slice.
func FilterVariants(parent *models.Product, filters map[string]string) []models.Product {
	if parent == nil || !parent.IsGroup() {
		return nil
	}
	var matched []models.Product
	for i := range parent.Variants {
		if containsAll(pairSet(&parent.Variants[i]), filters) {
			matched = append(matched, parent.Variants[i])
		}
	}
	return matched
}

func containsAll(set map[attrPair]struct{}, filters map[string]string) bool {
	for slug, value := range filters {
		if _, ok := set[attrPair{slug: slug, value: value}]; !ok {
			return false
		}
	}
	return true
}

// Variation summarizes one attribute axis across a product's variants.
type Variation struct {
	Name       string              `json:"name"`
	Slug       string              `json:"slug"`
	Kind       enums.AttributeKind `json:"kind"`
	IsNullable bool                `json:"is_nullable"`
	Values     []string            `json:"values"`
}

// Variations aggregates the attribute axes a shopper can pick between,
// keyed by attribute slug. An axis is nullable when at least one variant
// does not carry the attribute.
func Variations(parent *models.Product) map[string]Variation {
	if parent == nil || !parent.IsGroup() {
		return nil
	}

	type axis struct {
		variation Variation
		values    map[string]struct{}
		carriers  int
	}
	axes := map[string]*axis{}

	for i := range parent.Variants {
		seen := map[string]struct{}{}
		for j := range parent.Variants[i].AttributeValues {
			v := &parent.Variants[i].AttributeValues[j]
			slug := v.Slug()
			value := v.Value()
			if slug == "" || value == "" {
				continue
			}
			a, ok := axes[slug]
			if !ok {
				a = &axis{
					variation: Variation{
						Name: v.Attribute.Name,
						Slug: slug,
						Kind: v.Attribute.Kind,
					},
					values: map[string]struct{}{},
				}
				axes[slug] = a
			}
			a.values[value] = struct{}{}
			if _, dup := seen[slug]; !dup {
				seen[slug] = struct{}{}
				a.carriers++
			}
		}
	}

	out := make(map[string]Variation, len(axes))
	for slug, a := range axes {
		values := make([]string, 0, len(a.values))
		for value := range a.values {
			values = append(values, value)
		}
		sort.Strings(values)
		a.variation.Values = values
		a.variation.IsNullable = a.carriers < len(parent.Variants)
		out[slug] = a.variation
	}
	return out
}
