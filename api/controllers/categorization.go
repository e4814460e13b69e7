package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopworks/catalog-backend/api/responses"
	"github.com/shopworks/catalog-backend/api/validators"
	"github.com/shopworks/catalog-backend/internal/categorization"
	pkgerrors "github.com/shopworks/catalog-backend/pkg/errors"
	"github.com/shopworks/catalog-backend/pkg/logger"
)

func nodeKindParam(r *http.Request) (categorization.NodeKind, error) {
	kind := categorization.NodeKind(strings.TrimSpace(chi.URLParam(r, "kind")))
	if !kind.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown tree kind").
			WithDetails(map[string]any{"kind": string(kind)})
	}
	return kind, nil
}

// CreateNode handles node creation across all three categorization trees.
func CreateNode(svc categorization.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := nodeKindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createNodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		node, err := svc.CreateNode(r.Context(), kind, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, node)
	}
}

func UpdateNode(svc categorization.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := nodeKindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nodeID, err := parseIDParam(r, "nodeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateNodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		node, err := svc.UpdateNode(r.Context(), kind, nodeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, node)
	}
}

func DeleteNode(svc categorization.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := nodeKindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nodeID, err := parseIDParam(r, "nodeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteNode(r.Context(), kind, nodeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func GetNode(svc categorization.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := nodeKindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nodeID, err := parseIDParam(r, "nodeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		node, err := svc.GetNode(r.Context(), kind, nodeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, node)
	}
}

// GetNodeModifiers lists the modifiers a node inherits from its ancestry.
func GetNodeModifiers(svc categorization.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := nodeKindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nodeID, err := parseIDParam(r, "nodeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modifiers, err := svc.NodeModifiers(r.Context(), kind, nodeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, modifiers)
	}
}

// ReplaceNodeModifiers swaps the modifiers attached directly to a node.
func ReplaceNodeModifiers(svc categorization.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := nodeKindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nodeID, err := parseIDParam(r, "nodeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceModifiersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := payload.toIDs()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modifiers, err := svc.ReplaceNodeModifiers(r.Context(), kind, nodeID, ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, modifiers)
	}
}

// replaceModifiersRequest is shared by the node and product attachment
// endpoints. An empty list clears the attachment.
type replaceModifiersRequest struct {
	ModifierIDs []string `json:"modifier_ids" validate:"omitempty,dive,uuid"`
}

func (r replaceModifiersRequest) toIDs() ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(r.ModifierIDs))
	for _, raw := range r.ModifierIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid modifier id")
		}
		out = append(out, id)
	}
	return out, nil
}

type createNodeRequest struct {
	Name        string  `json:"name" validate:"required"`
	Slug        string  `json:"slug" validate:"required"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
}

func (r createNodeRequest) toInput() (categorization.NodeInput, error) {
	parentID, err := parseOptionalUUID(r.ParentID, "parent_id")
	if err != nil {
		return categorization.NodeInput{}, err
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return categorization.NodeInput{
		Name:        strings.TrimSpace(r.Name),
		Slug:        strings.TrimSpace(r.Slug),
		Description: r.Description,
		Active:      active,
		ParentID:    parentID,
	}, nil
}

type updateNodeRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	ClearParent bool    `json:"clear_parent,omitempty"`
}

func (r updateNodeRequest) toInput() (categorization.NodeUpdateInput, error) {
	parentID, err := parseOptionalUUID(r.ParentID, "parent_id")
	if err != nil {
		return categorization.NodeUpdateInput{}, err
	}
	return categorization.NodeUpdateInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Active:      r.Active,
		ParentID:    parentID,
		ClearParent: r.ClearParent,
	}, nil
}
