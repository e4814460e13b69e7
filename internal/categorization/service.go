package categorization

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shopworks/catalog-backend/internal/pricing"
	"github.com/shopworks/catalog-backend/pkg/db/models"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
)

// Service manages the category, brand and manufacturer trees and exposes
// their aggregated modifier sets.
type Service interface {
	CreateNode(ctx context.Context, kind NodeKind, input NodeInput) (*NodeDTO, error)
	UpdateNode(ctx context.Context, kind NodeKind, nodeID uuid.UUID, input NodeUpdateInput) (*NodeDTO, error)
	DeleteNode(ctx context.Context, kind NodeKind, nodeID uuid.UUID) error
	GetNode(ctx context.Context, kind NodeKind, nodeID uuid.UUID) (*NodeDTO, error)
	NodeModifiers(ctx context.Context, kind NodeKind, nodeID uuid.UUID) (*NodeModifiersDTO, error)
	ReplaceNodeModifiers(ctx context.Context, kind NodeKind, nodeID uuid.UUID, modifierIDs []uuid.UUID) (*NodeModifiersDTO, error)
}

// NodeInput holds the payload to create a tree node.
type NodeInput struct {
	Name        string
	Slug        string
	Description *string
	Active      bool
	ParentID    *uuid.UUID
}

// NodeUpdateInput holds optional mutations for a tree node.
type NodeUpdateInput struct {
	Name        *string
	Slug        *string
	Description *string
	Active      *bool
	ParentID    *uuid.UUID
	ClearParent bool
}

type service struct {
	repo *Repository
}

// NewService constructs a categorization service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categorization repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateNode(ctx context.Context, kind NodeKind, input NodeInput) (*NodeDTO, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown categorization kind")
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Name == "" || input.Slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and slug are required")
	}
	if input.ParentID != nil {
		if err := s.ensureNodeExists(ctx, kind, *input.ParentID); err != nil {
			return nil, err
		}
	}

	switch kind {
	case NodeKindCategory:
		node := &models.Category{
			ID:          uuid.New(),
			Name:        input.Name,
			Slug:        input.Slug,
			Description: input.Description,
			Active:      input.Active,
			ParentID:    input.ParentID,
		}
		if err := s.repo.CreateCategory(ctx, node); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
		}
		return newCategoryDTO(node), nil
	case NodeKindBrand:
		node := &models.Brand{
			ID:          uuid.New(),
			Name:        input.Name,
			Slug:        input.Slug,
			Description: input.Description,
			Active:      input.Active,
			ParentID:    input.ParentID,
		}
		if err := s.repo.CreateBrand(ctx, node); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating brand")
		}
		return newBrandDTO(node), nil
	default:
		node := &models.Manufacturer{
			ID:          uuid.New(),
			Name:        input.Name,
			Slug:        input.Slug,
			Description: input.Description,
			Active:      input.Active,
			ParentID:    input.ParentID,
		}
		if err := s.repo.CreateManufacturer(ctx, node); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating manufacturer")
		}
		return newManufacturerDTO(node), nil
	}
}

func (s *service) UpdateNode(ctx context.Context, kind NodeKind, nodeID uuid.UUID, input NodeUpdateInput) (*NodeDTO, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown categorization kind")
	}
	if input.ParentID != nil {
		if *input.ParentID == nodeID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "node cannot be its own parent")
		}
		if err := s.ensureNodeExists(ctx, kind, *input.ParentID); err != nil {
			return nil, err
		}
	}

	switch kind {
	case NodeKindCategory:
		node, err := s.repo.FindCategory(ctx, nodeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
		}
		if node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		applyNodeUpdate(&node.Name, &node.Slug, &node.Description, &node.Active, &node.ParentID, input)
		if err := s.repo.UpdateCategory(ctx, node); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating category")
		}
		return newCategoryDTO(node), nil
	case NodeKindBrand:
		node, err := s.repo.FindBrand(ctx, nodeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading brand")
		}
		if node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		applyNodeUpdate(&node.Name, &node.Slug, &node.Description, &node.Active, &node.ParentID, input)
		if err := s.repo.UpdateBrand(ctx, node); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating brand")
		}
		return newBrandDTO(node), nil
	default:
		node, err := s.repo.FindManufacturer(ctx, nodeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading manufacturer")
		}
		if node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "manufacturer not found")
		}
		applyNodeUpdate(&node.Name, &node.Slug, &node.Description, &node.Active, &node.ParentID, input)
		if err := s.repo.UpdateManufacturer(ctx, node); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating manufacturer")
		}
		return newManufacturerDTO(node), nil
	}
}

func (s *service) DeleteNode(ctx context.Context, kind NodeKind, nodeID uuid.UUID) error {
	if err := s.ensureNodeExists(ctx, kind, nodeID); err != nil {
		return err
	}
	var err error
	switch kind {
	case NodeKindCategory:
		err = s.repo.DeleteCategory(ctx, nodeID)
	case NodeKindBrand:
		err = s.repo.DeleteBrand(ctx, nodeID)
	case NodeKindManufacturer:
		err = s.repo.DeleteManufacturer(ctx, nodeID)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown categorization kind")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting node")
	}
	return nil
}

func (s *service) GetNode(ctx context.Context, kind NodeKind, nodeID uuid.UUID) (*NodeDTO, error) {
	switch kind {
	case NodeKindCategory:
		node, err := s.repo.FindCategory(ctx, nodeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
		}
		if node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return newCategoryDTO(node), nil
	case NodeKindBrand:
		node, err := s.repo.FindBrand(ctx, nodeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading brand")
		}
		if node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return newBrandDTO(node), nil
	case NodeKindManufacturer:
		node, err := s.repo.FindManufacturer(ctx, nodeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading manufacturer")
		}
		if node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "manufacturer not found")
		}
		return newManufacturerDTO(node), nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown categorization kind")
	}
}

// NodeModifiers loads the node with its ancestor chain and returns every
// line-level modifier reachable from it, nearest node first.
func (s *service) NodeModifiers(ctx context.Context, kind NodeKind, nodeID uuid.UUID) (*NodeModifiersDTO, error) {
	var (
		node models.CategorizationNode
		err  error
	)
	switch kind {
	case NodeKindCategory:
		var chain *models.Category
		chain, err = s.repo.LoadCategoryChain(ctx, nodeID)
		if chain != nil {
			node = chain
		}
	case NodeKindBrand:
		var chain *models.Brand
		chain, err = s.repo.LoadBrandChain(ctx, nodeID)
		if chain != nil {
			node = chain
		}
	case NodeKindManufacturer:
		var chain *models.Manufacturer
		chain, err = s.repo.LoadManufacturerChain(ctx, nodeID)
		if chain != nil {
			node = chain
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown categorization kind")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading node chain")
	}
	if node == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "node not found")
	}

	return &NodeModifiersDTO{
		NodeID:    nodeID,
		Kind:      kind,
		Modifiers: newModifierSummaries(pricing.TreeModifiers(node)),
	}, nil
}

// ReplaceNodeModifiers swaps the modifier set attached directly to a node
// and returns the refreshed aggregate, ancestors included.
func (s *service) ReplaceNodeModifiers(ctx context.Context, kind NodeKind, nodeID uuid.UUID, modifierIDs []uuid.UUID) (*NodeModifiersDTO, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown categorization kind")
	}
	mods, err := s.resolveModifiers(ctx, modifierIDs)
	if err != nil {
		return nil, err
	}

	switch kind {
	case NodeKindCategory:
		node, err := s.repo.FindCategory(ctx, nodeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
		}
		if node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		if err := s.repo.ReplaceCategoryModifiers(ctx, node, mods); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing category modifiers")
		}
	case NodeKindBrand:
		node, err := s.repo.FindBrand(ctx, nodeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading brand")
		}
		if node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		if err := s.repo.ReplaceBrandModifiers(ctx, node, mods); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing brand modifiers")
		}
	default:
		node, err := s.repo.FindManufacturer(ctx, nodeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading manufacturer")
		}
		if node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "manufacturer not found")
		}
		if err := s.repo.ReplaceManufacturerModifiers(ctx, node, mods); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing manufacturer modifiers")
		}
	}
	return s.NodeModifiers(ctx, kind, nodeID)
}

// resolveModifiers loads the referenced modifiers, rejecting the request when
// any id is unknown. An empty id list clears the attachment.
func (s *service) resolveModifiers(ctx context.Context, ids []uuid.UUID) ([]models.Modifier, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return []models.Modifier{}, nil
	}
	mods, err := s.repo.FindModifiersByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading modifiers")
	}
	if len(mods) != len(unique) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "one or more modifiers not found")
	}
	return mods, nil
}

func (s *service) ensureNodeExists(ctx context.Context, kind NodeKind, nodeID uuid.UUID) error {
	var (
		found bool
		err   error
	)
	switch kind {
	case NodeKindCategory:
		var node *models.Category
		node, err = s.repo.FindCategory(ctx, nodeID)
		found = node != nil
	case NodeKindBrand:
		var node *models.Brand
		node, err = s.repo.FindBrand(ctx, nodeID)
		found = node != nil
	case NodeKindManufacturer:
		var node *models.Manufacturer
		node, err = s.repo.FindManufacturer(ctx, nodeID)
		found = node != nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown categorization kind")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading node")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "node not found")
	}
	return nil
}

func applyNodeUpdate(name, slug *string, description **string, active *bool, parentID **uuid.UUID, input NodeUpdateInput) {
	if input.Name != nil {
		*name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		*slug = strings.TrimSpace(*input.Slug)
	}
	if input.Description != nil {
		*description = input.Description
	}
	if input.Active != nil {
		*active = *input.Active
	}
	if input.ClearParent {
		*parentID = nil
	} else if input.ParentID != nil {
		*parentID = input.ParentID
	}
}
