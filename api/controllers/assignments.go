package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/api/responses"
	"github.com/jvaldezcruz/assetdesk-backend/api/validators"
	"github.com/jvaldezcruz/assetdesk-backend/internal/assignments"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

type assignmentCreateRequest struct {
	ResourceID uuid.UUID  `json:"resource_id" validate:"required"`
	EmployeeID uuid.UUID  `json:"employee_id" validate:"required"`
	ItemID     *uuid.UUID `json:"item_id"`
	Category   string     `json:"category"`
	Quantity   int        `json:"quantity"`
	Notes      string     `json:"notes"`
}

type assignmentTransitionRequest struct {
	ReturnedQuantity *int   `json:"returned_quantity"`
	Reason           string `json:"reason"`
	Notes            string `json:"notes"`
}

type assignmentRevokeRequest struct {
	Reason string `json:"reason" validate:"required"`
	Notes  string `json:"notes"`
}

type assignmentResponse struct {
	ID         uuid.UUID                `json:"id"`
	ResourceID uuid.UUID                `json:"resource_id"`
	EmployeeID uuid.UUID                `json:"employee_id"`
	ItemID     *uuid.UUID               `json:"item_id,omitempty"`
	Category   enums.AssignmentCategory `json:"category"`
	Status     enums.AssignmentStatus   `json:"status"`
	Quantity   int                      `json:"quantity"`
	Notes      string                   `json:"notes,omitempty"`
	AssignedAt time.Time                `json:"assigned_at"`
	ReturnedAt *time.Time               `json:"returned_at,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

func assignmentResponseFromModel(m *models.Assignment) assignmentResponse {
	return assignmentResponse{
		ID:         m.ID,
		ResourceID: m.ResourceID,
		EmployeeID: m.EmployeeID,
		ItemID:     m.ItemID,
		Category:   m.Category,
		Status:     m.Status,
		Quantity:   m.Quantity,
		Notes:      m.Notes,
		AssignedAt: m.AssignedAt,
		ReturnedAt: m.ReturnedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// AssignmentCreate runs the allocation engine for a direct grant.
func AssignmentCreate(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, actorRole, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignmentCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := assignments.CreateInput{
			ResourceID: payload.ResourceID,
			EmployeeID: payload.EmployeeID,
			ItemID:     payload.ItemID,
			Quantity:   payload.Quantity,
			Notes:      payload.Notes,
			ActorID:    actorID,
			ActorRole:  actorRole,
		}
		if raw := strings.TrimSpace(payload.Category); raw != "" {
			category, err := enums.ParseAssignmentCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
				return
			}
			input.RequestedCategory = &category
		}

		created, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, assignmentResponseFromModel(created))
	}
}

func AssignmentGet(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "assignmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignment, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignmentResponseFromModel(assignment))
	}
}

// AssignmentTransition handles return/lost/damaged. Partial returns split the
// grant into a closed row and a live remainder.
func AssignmentTransition(svc assignments.Service, status enums.AssignmentStatus, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, actorRole, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "assignmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignmentTransitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Transition(r.Context(), assignments.TransitionInput{
			AssignmentID:     id,
			NewStatus:        status,
			ReturnedQuantity: payload.ReturnedQuantity,
			Reason:           payload.Reason,
			Notes:            payload.Notes,
			ActorID:          actorID,
			ActorRole:        actorRole,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignmentResponseFromModel(updated))
	}
}

// AssignmentRevoke force-returns a grant with a recorded reason.
func AssignmentRevoke(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, actorRole, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "assignmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignmentRevokeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Revoke(r.Context(), assignments.TransitionInput{
			AssignmentID: id,
			Reason:       payload.Reason,
			Notes:        payload.Notes,
			ActorID:      actorID,
			ActorRole:    actorRole,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignmentResponseFromModel(updated))
	}
}

func AssignmentList(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := listLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := assignments.ListParams{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}
		if params.ResourceID, err = validators.ParseQueryUUID(r, "resource_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if params.EmployeeID, err = validators.ParseQueryUUID(r, "employee_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseAssignmentStatus(raw)
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

		items := make([]assignmentResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, assignmentResponseFromModel(&page.Items[i]))
		}
		responses.WriteSuccess(w, listResponse[assignmentResponse]{Items: items, Cursor: page.Cursor})
	}
}
