package pricing

import (
	"github.com/google/uuid"

	"github.com/shopworks/catalog-backend/pkg/db/models"
)

// TreeModifiers returns the active, non-cart modifiers attached to a
// categorization node and all of its ancestors, nearest node first.
func TreeModifiers(node models.CategorizationNode) []models.Modifier {
	var out []models.Modifier
	for _, m := range models.CollectModifiers(node) {
		if m.Active && !m.IsCartModifier() {
			out = append(out, m)
		}
	}
	return out
}

// ProductModifiers aggregates every line-level modifier that can touch a
// product: its own, then (for variants) the parent's full set, or (for
// top-level products) the sets of its categorization trees. Duplicates are
// removed by id; cart-kind modifiers are never included.
func ProductModifiers(p *models.Product) []models.Modifier {
	if p == nil {
		return nil
	}
	var out []models.Modifier
	seen := map[uuid.UUID]struct{}{}

	add := func(mods []models.Modifier) {
		for _, m := range mods {
			if !m.Active || m.IsCartModifier() {
				continue
			}
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			out = append(out, m)
		}
	}

	add(p.Modifiers)

	if p.IsVariant() {
		add(ProductModifiers(p.Parent))
		return out
	}

	if p.Category != nil {
		add(TreeModifiers(p.Category))
	}
	if p.Brand != nil {
		add(TreeModifiers(p.Brand))
	}
	if p.Manufacturer != nil {
		add(TreeModifiers(p.Manufacturer))
	}
	return out
}

// CartOnly filters a modifier set down to active cart-kind modifiers.
func CartOnly(mods []models.Modifier) []models.Modifier {
	var out []models.Modifier
	for _, m := range mods {
		if m.Active && m.IsCartModifier() {
			out = append(out, m)
		}
	}
	return out
}
