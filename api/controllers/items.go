package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/api/responses"
	"github.com/jvaldezcruz/assetdesk-backend/api/validators"
	"github.com/jvaldezcruz/assetdesk-backend/internal/items"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

type itemCreateRequest struct {
	SerialNumber *string `json:"serial_number"`
	Notes        string  `json:"notes"`
}

type itemResponse struct {
	ID           uuid.UUID        `json:"id"`
	ResourceID   uuid.UUID        `json:"resource_id"`
	Status       enums.ItemStatus `json:"status"`
	SerialNumber *string          `json:"serial_number,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func itemResponseFromModel(m *models.ResourceItem) itemResponse {
	return itemResponse{
		ID:           m.ID,
		ResourceID:   m.ResourceID,
		Status:       m.Status,
		SerialNumber: m.SerialNumber,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ItemCreate registers a trackable unit under an exclusive resource.
func ItemCreate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, actorRole, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resourceID, err := validators.ParseURLUUID(r, "resourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload itemCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), items.CreateInput{
			ResourceID:   resourceID,
			SerialNumber: payload.SerialNumber,
			Notes:        payload.Notes,
			ActorID:      actorID,
			ActorRole:    actorRole,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, itemResponseFromModel(created))
	}
}

func ItemGet(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemResponseFromModel(item))
	}
}

// ItemSetMaintenance takes an available unit out of circulation.
func ItemSetMaintenance(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, actorRole, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.SetMaintenance(r.Context(), id, actorID, actorRole)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemResponseFromModel(item))
	}
}

// ItemRestore brings a sidelined unit back to available.
func ItemRestore(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, actorRole, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Restore(r.Context(), id, actorID, actorRole)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemResponseFromModel(item))
	}
}

// ItemDelete removes an unassigned unit from the pool.
func ItemDelete(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "itemId")
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

// ItemListByResource lists a resource's units, optionally filtered by status.
func ItemListByResource(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resourceID, err := validators.ParseURLUUID(r, "resourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.ItemStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseItemStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			status = &parsed
		}

		rows, err := svc.ListByResource(r.Context(), resourceID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]itemResponse, 0, len(rows))
		for i := range rows {
			items = append(items, itemResponseFromModel(&rows[i]))
		}
		responses.WriteSuccess(w, listResponse[itemResponse]{Items: items})
	}
}
