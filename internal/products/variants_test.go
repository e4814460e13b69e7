package product

import (
	"testing"

	"github.com/google/uuid"

	"github.com/shopworks/catalog-backend/pkg/db/models"
	"github.com/shopworks/catalog-backend/pkg/enums"
)

func intAttr(slug string) *models.Attribute {
	return &models.Attribute{ID: uuid.New(), Name: slug, Slug: slug, Kind: enums.AttributeKindInteger}
}

func boolAttr(slug string) *models.Attribute {
	return &models.Attribute{ID: uuid.New(), Name: slug, Slug: slug, Kind: enums.AttributeKindBoolean}
}

func intValue(attr *models.Attribute, v int64) models.ProductAttributeValue {
	return models.ProductAttributeValue{
		AttributeID:  attr.ID,
		Attribute:    attr,
		ValueInteger: &v,
	}
}

func boolValue(attr *models.Attribute, v bool) models.ProductAttributeValue {
	return models.ProductAttributeValue{
		AttributeID:  attr.ID,
		Attribute:    attr,
		ValueBoolean: &v,
	}
}

// groupFixture builds "Prod 1" with two variants distinguished by volume
// and a shared organic flag.
func groupFixture() (*models.Product, *models.Attribute, *models.Attribute) {
	volume := intAttr("volume")
	organic := boolAttr("organic")

	parent := &models.Product{ID: uuid.New(), Name: "Prod 1", Slug: "prod-1"}
	parentID := parent.ID

	v1 := models.Product{
		ID:              uuid.New(),
		Name:            "Prod 1-1",
		Slug:            "prod-1-1",
		ParentID:        &parentID,
		AttributeValues: []models.ProductAttributeValue{intValue(volume, 10), boolValue(organic, true)},
	}
	v2 := models.Product{
		ID:              uuid.New(),
		Name:            "Prod 1-2",
		Slug:            "prod-1-2",
		ParentID:        &parentID,
		AttributeValues: []models.ProductAttributeValue{intValue(volume, 20), boolValue(organic, true)},
	}
	parent.Variants = []models.Product{v1, v2}
	return parent, volume, organic
}

func TestMatchVariant(t *testing.T) {
	parent, _, _ := groupFixture()

	t.Run("exactMatch", func(t *testing.T) {
		got := MatchVariant(parent, map[string]string{"volume": "10", "organic": "true"})
		if got == nil || got.Name != "Prod 1-1" {
			t.Fatalf("expected Prod 1-1, got %v", got)
		}
	})

	t.Run("subsetDoesNotMatch", func(t *testing.T) {
		// equality is set equality, not subset
		if got := MatchVariant(parent, map[string]string{"organic": "true"}); got != nil {
			t.Fatalf("partial filters must not match, got %s", got.Name)
		}
	})

	t.Run("wrongValue", func(t *testing.T) {
		if got := MatchVariant(parent, map[string]string{"volume": "15", "organic": "true"}); got != nil {
			t.Fatalf("expected no match, got %s", got.Name)
		}
	})

	t.Run("nonGroupProduct", func(t *testing.T) {
		leaf := &models.Product{ID: uuid.New()}
		if got := MatchVariant(leaf, nil); got != nil {
			t.Fatal("non-group product must not match")
		}
	})
}

func TestFilterVariants(t *testing.T) {
	parent, _, _ := groupFixture()

	t.Run("supersetFilter", func(t *testing.T) {
		got := FilterVariants(parent, map[string]string{"organic": "true"})
		if len(got) != 2 {
			t.Fatalf("expected both variants, got %d", len(got))
		}
	})

	t.Run("narrowedFilter", func(t *testing.T) {
		got := FilterVariants(parent, map[string]string{"volume": "20"})
		if len(got) != 1 || got[0].Name != "Prod 1-2" {
			t.Fatalf("expected Prod 1-2, got %v", got)
		}
	})

	t.Run("noMatchesReturnsNil", func(t *testing.T) {
		got := FilterVariants(parent, map[string]string{"volume": "99"})
		if got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})

	t.Run("emptyFilterMatchesAll", func(t *testing.T) {
		got := FilterVariants(parent, nil)
		if len(got) != 2 {
			t.Fatalf("expected all variants, got %d", len(got))
		}
	})
}

func TestVariations(t *testing.T) {
	parent, volume, _ := groupFixture()

	axes := Variations(parent)
	if len(axes) != 2 {
		t.Fatalf("expected 2 axes, got %d", len(axes))
	}

	vol, ok := axes["volume"]
	if !ok {
		t.Fatal("expected volume axis")
	}
	if vol.Kind != enums.AttributeKindInteger {
		t.Fatalf("unexpected kind %s", vol.Kind)
	}
	if len(vol.Values) != 2 || vol.Values[0] != "10" || vol.Values[1] != "20" {
		t.Fatalf("expected sorted values [10 20], got %v", vol.Values)
	}
	if vol.IsNullable {
		t.Fatal("volume carried by every variant must not be nullable")
	}

	t.Run("axisMissingOnSomeVariantIsNullable", func(t *testing.T) {
		bare := models.Product{ID: uuid.New(), ParentID: &parent.ID, AttributeValues: []models.ProductAttributeValue{
			intValue(volume, 30),
		}}
		parent.Variants = append(parent.Variants, bare)

		axes := Variations(parent)
		if !axes["organic"].IsNullable {
			t.Fatal("organic missing on one variant must be nullable")
		}
		if axes["volume"].IsNullable {
			t.Fatal("volume still carried everywhere must not be nullable")
		}
	})
}
