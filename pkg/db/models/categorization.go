package models

import (
	"time"

	"github.com/google/uuid"
)

// CategorizationNode is implemented by the tree-shaped classification models
// (categories, brands, manufacturers). Modifiers attached anywhere on a
// node's ancestor chain apply to the products classified under it.
type CategorizationNode interface {
	NodeID() uuid.UUID
	IsActive() bool
	OwnModifiers() []Modifier
	ParentNode() CategorizationNode
}

// CollectModifiers walks from node to the root of its tree and returns every
// attached modifier, nearest node first, with duplicates (by id) removed.
// Inactive nodes contribute nothing but do not stop the walk.
func CollectModifiers(node CategorizationNode) []Modifier {
	var out []Modifier
	seen := map[uuid.UUID]struct{}{}
	for node != nil {
		if node.IsActive() {
			for _, m := range node.OwnModifiers() {
				if _, ok := seen[m.ID]; ok {
					continue
				}
				seen[m.ID] = struct{}{}
				out = append(out, m)
			}
		}
		node = node.ParentNode()
	}
	return out
}

// Category classifies products into a tree.
type Category struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Slug        string     `gorm:"column:slug;not null;uniqueIndex"`
	Description *string    `gorm:"column:description"`
	Active      bool       `gorm:"column:active;not null;default:true"`
	ParentID    *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	Parent      *Category  `gorm:"foreignKey:ParentID"`
	Modifiers   []Modifier `gorm:"many2many:catalog_category_modifiers"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string { return "catalog_categories" }

func (c *Category) NodeID() uuid.UUID       { return c.ID }
func (c *Category) IsActive() bool          { return c.Active }
func (c *Category) OwnModifiers() []Modifier { return c.Modifiers }

// ParentNode returns the parent as an interface. The typed-nil guard matters:
// returning a nil *Category inside a non-nil interface would never terminate
// the ancestor walk.
func (c *Category) ParentNode() CategorizationNode {
	if c.Parent == nil {
		return nil
	}
	return c.Parent
}

// Brand classifies products by brand, optionally nested.
type Brand struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Slug        string     `gorm:"column:slug;not null;uniqueIndex"`
	Description *string    `gorm:"column:description"`
	Active      bool       `gorm:"column:active;not null;default:true"`
	ParentID    *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	Parent      *Brand     `gorm:"foreignKey:ParentID"`
	Modifiers   []Modifier `gorm:"many2many:catalog_brand_modifiers"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Brand) TableName() string { return "catalog_brands" }

func (b *Brand) NodeID() uuid.UUID        { return b.ID }
func (b *Brand) IsActive() bool           { return b.Active }
func (b *Brand) OwnModifiers() []Modifier { return b.Modifiers }

func (b *Brand) ParentNode() CategorizationNode {
	if b.Parent == nil {
		return nil
	}
	return b.Parent
}

// Manufacturer classifies products by maker, optionally nested.
type Manufacturer struct {
	ID          uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string        `gorm:"column:name;not null"`
	Slug        string        `gorm:"column:slug;not null;uniqueIndex"`
	Description *string       `gorm:"column:description"`
	Active      bool          `gorm:"column:active;not null;default:true"`
	ParentID    *uuid.UUID    `gorm:"column:parent_id;type:uuid"`
	Parent      *Manufacturer `gorm:"foreignKey:ParentID"`
	Modifiers   []Modifier    `gorm:"many2many:catalog_manufacturer_modifiers"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (Manufacturer) TableName() string { return "catalog_manufacturers" }

func (m *Manufacturer) NodeID() uuid.UUID        { return m.ID }
func (m *Manufacturer) IsActive() bool           { return m.Active }
func (m *Manufacturer) OwnModifiers() []Modifier { return m.Modifiers }

func (m *Manufacturer) ParentNode() CategorizationNode {
	if m.Parent == nil {
		return nil
	}
	return m.Parent
}
