package categorization

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/catalog-backend/pkg/db/models"
)

// NodeKind selects which categorization tree an operation targets.
type NodeKind string

const (
	NodeKindCategory     NodeKind = "category"
	NodeKindBrand        NodeKind = "brand"
	NodeKindManufacturer NodeKind = "manufacturer"
)

// IsValid reports whether the kind names a known tree.
func (k NodeKind) IsValid() bool {
	switch k {
	case NodeKindCategory, NodeKindBrand, NodeKindManufacturer:
		return true
	}
	return false
}

// NodeDTO is the payload shape shared by all three trees.
type NodeDTO struct {
	ID          uuid.UUID  `json:"id"`
	Kind        NodeKind   `json:"kind"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	Active      bool       `json:"active"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ModifierSummaryDTO is the compact modifier row on node modifier listings.
type ModifierSummaryDTO struct {
	ID      uuid.UUID        `json:"id"`
	Name    string           `json:"name"`
	Code    string           `json:"code"`
	Kind    string           `json:"kind"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
}

// NodeModifiersDTO lists the aggregated modifiers reachable from a node.
type NodeModifiersDTO struct {
	NodeID    uuid.UUID            `json:"node_id"`
	Kind      NodeKind             `json:"kind"`
	Modifiers []ModifierSummaryDTO `json:"modifiers"`
}

func newCategoryDTO(node *models.Category) *NodeDTO {
	return &NodeDTO{
		ID:          node.ID,
		Kind:        NodeKindCategory,
		Name:        node.Name,
		Slug:        node.Slug,
		Description: node.Description,
		Active:      node.Active,
		ParentID:    node.ParentID,
		CreatedAt:   node.CreatedAt,
		UpdatedAt:   node.UpdatedAt,
	}
}

func newBrandDTO(node *models.Brand) *NodeDTO {
	return &NodeDTO{
		ID:          node.ID,
		Kind:        NodeKindBrand,
		Name:        node.Name,
		Slug:        node.Slug,
		Description: node.Description,
		Active:      node.Active,
		ParentID:    node.ParentID,
		CreatedAt:   node.CreatedAt,
		UpdatedAt:   node.UpdatedAt,
	}
}

func newManufacturerDTO(node *models.Manufacturer) *NodeDTO {
	return &NodeDTO{
		ID:          node.ID,
		Kind:        NodeKindManufacturer,
		Name:        node.Name,
		Slug:        node.Slug,
		Description: node.Description,
		Active:      node.Active,
		ParentID:    node.ParentID,
		CreatedAt:   node.CreatedAt,
		UpdatedAt:   node.UpdatedAt,
	}
}

func newModifierSummaries(mods []models.Modifier) []ModifierSummaryDTO {
	out := make([]ModifierSummaryDTO, 0, len(mods))
	for _, m := range mods {
		summary := ModifierSummaryDTO{
			ID:   m.ID,
			Name: m.Name,
			Code: m.Code,
			Kind: m.Kind.String(),
		}
		if m.Percent.Valid {
			p := m.Percent.Decimal
			summary.Percent = &p
		}
		if m.Amount.Valid {
			a := m.Amount.Decimal
			summary.Amount = &a
		}
		out = append(out, summary)
	}
	return out
}
