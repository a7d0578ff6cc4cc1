package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/api/responses"
	"github.com/jvaldezcruz/assetdesk-backend/api/validators"
	"github.com/jvaldezcruz/assetdesk-backend/internal/employees"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

type employeeCreateRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department"`
	Title      string `json:"title"`
	Role       string `json:"role"`
}

type employeeUpdateRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Title      *string `json:"title"`
	Role       *string `json:"role"`
}

type employeeResponse struct {
	ID         uuid.UUID            `json:"id"`
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	Department string               `json:"department,omitempty"`
	Title      string               `json:"title,omitempty"`
	Role       enums.EmployeeRole   `json:"role"`
	Status     enums.EmployeeStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func employeeResponseFromModel(m *models.Employee) employeeResponse {
	return employeeResponse{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Department: m.Department,
		Title:      m.Title,
		Role:       m.Role,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// EmployeeCreate registers a new directory entry.
func EmployeeCreate(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload employeeCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := employees.CreateInput{
			Name:       payload.Name,
			Email:      payload.Email,
			Department: payload.Department,
			Title:      payload.Title,
			ActorID:    actorID,
		}
		if raw := strings.TrimSpace(payload.Role); raw != "" {
			role, err := enums.ParseEmployeeRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role"))
				return
			}
			input.Role = role
		}

		created, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, employeeResponseFromModel(created))
	}
}

func EmployeeGet(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employee, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employeeResponseFromModel(employee))
	}
}

// EmployeeUpdate applies partial field updates to a directory entry.
func EmployeeUpdate(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload employeeUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := employees.UpdateInput{
			Name:       payload.Name,
			Department: payload.Department,
			Title:      payload.Title,
			ActorID:    actorID,
		}
		if payload.Role != nil {
			role, err := enums.ParseEmployeeRole(strings.TrimSpace(*payload.Role))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role"))
				return
			}
			input.Role = &role
		}

		updated, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employeeResponseFromModel(updated))
	}
}

// EmployeeDeactivate retires a directory entry. Blocked while the employee
// still holds active assignments.
func EmployeeDeactivate(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employee, err := svc.Deactivate(r.Context(), id, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employeeResponseFromModel(employee))
	}
}

func EmployeeList(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := listLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := employees.ListParams{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseEmployeeStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			params.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err := enums.ParseEmployeeRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter"))
				return
			}
			params.Role = &role
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]employeeResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, employeeResponseFromModel(&page.Items[i]))
		}
		responses.WriteSuccess(w, listResponse[employeeResponse]{Items: items, Cursor: page.Cursor})
	}
}
