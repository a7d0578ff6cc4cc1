package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jvaldezcruz/assetdesk-backend/api/responses"
	"github.com/jvaldezcruz/assetdesk-backend/api/validators"
	"github.com/jvaldezcruz/assetdesk-backend/internal/capacity"
	"github.com/jvaldezcruz/assetdesk-backend/internal/catalog"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

type resourceCreateRequest struct {
	Name           string           `json:"name" validate:"required"`
	Type           string           `json:"type" validate:"required"`
	AllocationMode string           `json:"allocation_mode" validate:"required"`
	Quantity       *int             `json:"quantity"`
	CustodianID    *uuid.UUID       `json:"custodian_id"`
	Vendor         string           `json:"vendor"`
	PurchaseCost   *decimal.Decimal `json:"purchase_cost"`
	Notes          string           `json:"notes"`
}

type resourceUpdateRequest struct {
	Name           *string          `json:"name"`
	AllocationMode *string          `json:"allocation_mode"`
	Quantity       *int             `json:"quantity"`
	CustodianID    *uuid.UUID       `json:"custodian_id"`
	Vendor         *string          `json:"vendor"`
	PurchaseCost   *decimal.Decimal `json:"purchase_cost"`
	Notes          *string          `json:"notes"`
}

type resourceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type resourceResponse struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Type           enums.ResourceType   `json:"type"`
	AllocationMode enums.AllocationMode `json:"allocation_mode"`
	Quantity       int                  `json:"quantity"`
	Status         enums.ResourceStatus `json:"status"`
	CustodianID    *uuid.UUID           `json:"custodian_id,omitempty"`
	Vendor         string               `json:"vendor,omitempty"`
	PurchaseCost   decimal.Decimal      `json:"purchase_cost"`
	Notes          string               `json:"notes,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func resourceResponseFromModel(m *models.Resource) resourceResponse {
	return resourceResponse{
		ID:             m.ID,
		Name:           m.Name,
		Type:           m.Type,
		AllocationMode: m.AllocationMode,
		Quantity:       m.Quantity,
		Status:         m.Status,
		CustodianID:    m.CustodianID,
		Vendor:         m.Vendor,
		PurchaseCost:   m.PurchaseCost,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ResourceCreate adds a catalog entry.
func ResourceCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, actorRole, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload resourceCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, err := enums.ParseAllocationMode(strings.TrimSpace(payload.AllocationMode))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid allocation mode"))
			return
		}

		created, err := svc.Create(r.Context(), catalog.CreateInput{
			Name:           payload.Name,
			Type:           payload.Type,
			AllocationMode: mode,
			Quantity:       payload.Quantity,
			CustodianID:    payload.CustodianID,
			Vendor:         payload.Vendor,
			PurchaseCost:   payload.PurchaseCost,
			Notes:          payload.Notes,
			ActorID:        actorID,
			ActorRole:      actorRole,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resourceResponseFromModel(created))
	}
}

func ResourceGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "resourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resource, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resourceResponseFromModel(resource))
	}
}

// ResourceUpdate applies partial edits; quantity shrinks and allocation mode
// flips are re-validated against active usage downstream.
func ResourceUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, actorRole, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "resourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload resourceUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateInput{
			Name:         payload.Name,
			Quantity:     payload.Quantity,
			CustodianID:  payload.CustodianID,
			Vendor:       payload.Vendor,
			PurchaseCost: payload.PurchaseCost,
			Notes:        payload.Notes,
			ActorID:      actorID,
			ActorRole:    actorRole,
		}
		if payload.AllocationMode != nil {
			mode, err := enums.ParseAllocationMode(strings.TrimSpace(*payload.AllocationMode))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid allocation mode"))
				return
			}
			input.AllocationMode = &mode
		}

		updated, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resourceResponseFromModel(updated))
	}
}

// ResourceSetStatus moves a catalog entry between lifecycle states.
func ResourceSetStatus(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, actorRole, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "resourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload resourceStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseResourceStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
			return
		}

		updated, err := svc.SetStatus(r.Context(), id, status, actorID, actorRole)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resourceResponseFromModel(updated))
	}
}

// ResourceDelete removes a catalog entry that never saw an assignment.
func ResourceDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "resourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ResourceList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := listLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := catalog.ListParams{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			params.Type = &raw
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("allocation_mode")); raw != "" {
			mode, err := enums.ParseAllocationMode(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid allocation mode filter"))
				return
			}
			params.Mode = &mode
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseResourceStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			params.Status = &status
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]resourceResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, resourceResponseFromModel(&page.Items[i]))
		}
		responses.WriteSuccess(w, listResponse[resourceResponse]{Items: items, Cursor: page.Cursor})
	}
}

// ResourceAvailability reports the advisory capacity view for one resource.
func ResourceAvailability(svc capacity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "resourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Availability(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
