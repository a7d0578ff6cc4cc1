package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/api/responses"
	"github.com/jvaldezcruz/assetdesk-backend/api/validators"
	"github.com/jvaldezcruz/assetdesk-backend/internal/audit"
	"github.com/jvaldezcruz/assetdesk-backend/internal/timeline"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

type auditEntryResponse struct {
	ID         uuid.UUID  `json:"id"`
	EntityType string     `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	Field      string     `json:"field"`
	OldValue   string     `json:"old_value,omitempty"`
	NewValue   string     `json:"new_value,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func auditEntryResponseFromModel(m *models.AuditLog) auditEntryResponse {
	return auditEntryResponse{
		ID:         m.ID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		ActorID:    m.ActorID,
		Field:      m.Field,
		OldValue:   m.OldValue,
		NewValue:   m.NewValue,
		CreatedAt:  m.CreatedAt,
	}
}

// AuditList exposes the change history, filterable by entity and actor.
func AuditList(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := listLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := audit.ListParams{
			EntityType: strings.TrimSpace(r.URL.Query().Get("entity_type")),
			Limit:      limit,
			Cursor:     r.URL.Query().Get("cursor"),
		}
		if params.EntityID, err = validators.ParseQueryUUID(r, "entity_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if params.ActorID, err = validators.ParseQueryUUID(r, "actor_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]auditEntryResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, auditEntryResponseFromModel(&page.Items[i]))
		}
		responses.WriteSuccess(w, listResponse[auditEntryResponse]{Items: items, Cursor: page.Cursor})
	}
}

type timelineEventResponse struct {
	ID          uuid.UUID       `json:"id"`
	ActorID     *uuid.UUID      `json:"actor_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func timelineEventResponseFromModel(m *models.TimelineEvent) timelineEventResponse {
	return timelineEventResponse{
		ID:          m.ID,
		ActorID:     m.ActorID,
		Title:       m.Title,
		Description: m.Description,
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
	}
}

// TimelineList exposes the portal activity feed.
func TimelineList(svc timeline.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := listLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := timeline.ListParams{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}
		if params.ActorID, err = validators.ParseQueryUUID(r, "actor_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]timelineEventResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, timelineEventResponseFromModel(&page.Items[i]))
		}
		responses.WriteSuccess(w, listResponse[timelineEventResponse]{Items: items, Cursor: page.Cursor})
	}
}
