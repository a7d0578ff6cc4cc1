package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/api/responses"
	"github.com/jvaldezcruz/assetdesk-backend/api/validators"
	"github.com/jvaldezcruz/assetdesk-backend/internal/approvals"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

type approvalRequestRequest struct {
	ResourceID    uuid.UUID `json:"resource_id" validate:"required"`
	Category      string    `json:"category"`
	Justification string    `json:"justification"`
}

type approvalDecisionRequest struct {
	Note   string     `json:"note"`
	ItemID *uuid.UUID `json:"item_id"`
}

type approvalResponse struct {
	ID                uuid.UUID                 `json:"id"`
	EmployeeID        uuid.UUID                 `json:"employee_id"`
	ResourceID        uuid.UUID                 `json:"resource_id"`
	RequestedCategory *enums.AssignmentCategory `json:"requested_category,omitempty"`
	Justification     string                    `json:"justification,omitempty"`
	Status            enums.ApprovalStatus      `json:"status"`
	DecidedBy         *uuid.UUID                `json:"decided_by,omitempty"`
	DecidedAt         *time.Time                `json:"decided_at,omitempty"`
	DecisionNote      string                    `json:"decision_note,omitempty"`
	AssignmentID      *uuid.UUID                `json:"assignment_id,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

func approvalResponseFromModel(m *models.ApprovalRequest) approvalResponse {
	return approvalResponse{
		ID:                m.ID,
		EmployeeID:        m.EmployeeID,
		ResourceID:        m.ResourceID,
		RequestedCategory: m.RequestedCategory,
		Justification:     m.Justification,
		Status:            m.Status,
		DecidedBy:         m.DecidedBy,
		DecidedAt:         m.DecidedAt,
		DecisionNote:      m.DecisionNote,
		AssignmentID:      m.AssignmentID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// ApprovalRequestCreate files an ask for a resource on behalf of the caller.
func ApprovalRequestCreate(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload approvalRequestRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := approvals.RequestInput{
			EmployeeID:    *actorID,
			ResourceID:    payload.ResourceID,
			Justification: payload.Justification,
		}
		if raw := strings.TrimSpace(payload.Category); raw != "" {
			category, err := enums.ParseAssignmentCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
				return
			}
			input.RequestedCategory = &category
		}

		created, err := svc.Request(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, approvalResponseFromModel(created))
	}
}

func ApprovalGet(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		request, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, approvalResponseFromModel(request))
	}
}

// ApprovalApprove grants the request through the allocation engine. An engine
// rejection surfaces to the caller and leaves the request pending.
func ApprovalApprove(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return approvalDecision(logg, func(ctx context.Context, input approvals.DecisionInput) (*models.ApprovalRequest, error) {
		return svc.Approve(ctx, input)
	})
}

// ApprovalReject closes the request without touching inventory.
func ApprovalReject(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return approvalDecision(logg, func(ctx context.Context, input approvals.DecisionInput) (*models.ApprovalRequest, error) {
		return svc.Reject(ctx, input)
	})
}

func approvalDecision(logg *logger.Logger, decide func(ctx context.Context, input approvals.DecisionInput) (*models.ApprovalRequest, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, actorRole, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload approvalDecisionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decided, err := decide(r.Context(), approvals.DecisionInput{
			RequestID: id,
			DecidedBy: *actorID,
			ActorRole: actorRole,
			Note:      payload.Note,
			ItemID:    payload.ItemID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, approvalResponseFromModel(decided))
	}
}

// ApprovalCancel withdraws the caller's own pending request.
func ApprovalCancel(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cancelled, err := svc.Cancel(r.Context(), id, *actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, approvalResponseFromModel(cancelled))
	}
}

func ApprovalList(svc approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := listLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := approvals.ListParams{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}
		if params.EmployeeID, err = validators.ParseQueryUUID(r, "employee_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if params.ResourceID, err = validators.ParseQueryUUID(r, "resource_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseApprovalStatus(raw)
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

		items := make([]approvalResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, approvalResponseFromModel(&page.Items[i]))
		}
		responses.WriteSuccess(w, listResponse[approvalResponse]{Items: items, Cursor: page.Cursor})
	}
}
