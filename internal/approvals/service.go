package approvals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/internal/assignments"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/outbox"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/outbox/payloads"
	pkgpagination "github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
)

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type assignmentCreator interface {
	Create(ctx context.Context, input assignments.CreateInput) (*models.Assignment, error)
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// RequestInput captures an employee's ask for a resource.
type RequestInput struct {
	EmployeeID        uuid.UUID
	ResourceID        uuid.UUID
	RequestedCategory *enums.AssignmentCategory
	Justification     string
}

// DecisionInput captures an admin decision on a pending request.
type DecisionInput struct {
	RequestID uuid.UUID
	DecidedBy uuid.UUID
	ActorRole enums.EmployeeRole
	Note      string
	// ItemID selects the unit to hand out when approving under an
	// exclusive resource.
	ItemID *uuid.UUID
}

// ListParams filters the approval listing.
type ListParams struct {
	Status     *enums.ApprovalStatus
	EmployeeID *uuid.UUID
	ResourceID *uuid.UUID
	Limit      int
	Cursor     string
}

// ListResult is one page of approval requests plus the next cursor.
type ListResult struct {
	Items  []models.ApprovalRequest
	Cursor string
}

// Service runs the request/decide workflow in front of the allocation engine.
type Service interface {
	Request(ctx context.Context, input RequestInput) (*models.ApprovalRequest, error)
	Approve(ctx context.Context, input DecisionInput) (*models.ApprovalRequest, error)
	Reject(ctx context.Context, input DecisionInput) (*models.ApprovalRequest, error)
	Cancel(ctx context.Context, requestID, employeeID uuid.UUID) (*models.ApprovalRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ApprovalRequest, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	tx       transactor
	repo     *Repository
	assigner assignmentCreator
	events   outboxEmitter
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the approval workflow service.
func NewService(tx transactor, repo *Repository, assigner assignmentCreator, events outboxEmitter, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if repo == nil {
		return nil, fmt.Errorf("approval repository required")
	}
	if assigner == nil {
		return nil, fmt.Errorf("assignment creator required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:       tx,
		repo:     repo,
		assigner: assigner,
		events:   events,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Request(ctx context.Context, input RequestInput) (*models.ApprovalRequest, error) {
	if input.EmployeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee_id is required")
	}
	if input.ResourceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource_id is required")
	}
	if input.RequestedCategory != nil && !input.RequestedCategory.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid assignment category")
	}

	request := &models.ApprovalRequest{
		ID:                uuid.New(),
		EmployeeID:        input.EmployeeID,
		ResourceID:        input.ResourceID,
		RequestedCategory: input.RequestedCategory,
		Justification:     strings.TrimSpace(input.Justification),
		Status:            enums.ApprovalStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pending, err := repo.HasPending(ctx, input.EmployeeID, input.ResourceID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending request")
		}
		if pending {
			return pkgerrors.New(pkgerrors.CodeConflict, "a pending request already exists for this resource")
		}
		if err := repo.Create(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create approval request")
		}
		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventApprovalRequested,
			AggregateType: enums.AggregateApprovalRequest,
			AggregateID:   request.ID,
			Actor:         &outbox.ActorRef{EmployeeID: input.EmployeeID, Role: enums.EmployeeRoleEmployee.String()},
			Data: payloads.ApprovalRequestedEvent{
				RequestID:  request.ID,
				EmployeeID: request.EmployeeID,
				ResourceID: request.ResourceID,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue approval event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Approve runs the allocation engine for the requester and, when the grant
// lands, stamps the decision and links the assignment. An engine rejection
// surfaces to the caller and leaves the request pending.
func (s *service) Approve(ctx context.Context, input DecisionInput) (*models.ApprovalRequest, error) {
	request, err := s.pendingRequest(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assigner.Create(ctx, assignments.CreateInput{
		ResourceID:        request.ResourceID,
		EmployeeID:        request.EmployeeID,
		ItemID:            input.ItemID,
		RequestedCategory: request.RequestedCategory,
		Notes:             decisionNote("approved", input.Note),
		ActorID:           &input.DecidedBy,
		ActorRole:         input.ActorRole,
	})
	if err != nil {
		return nil, err
	}

	return s.finalize(ctx, request, enums.ApprovalStatusApproved, input, &assignment.ID)
}

func (s *service) Reject(ctx context.Context, input DecisionInput) (*models.ApprovalRequest, error) {
	request, err := s.pendingRequest(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, request, enums.ApprovalStatusRejected, input, nil)
}

// Cancel withdraws a pending request. Only the requester may cancel.
func (s *service) Cancel(ctx context.Context, requestID, employeeID uuid.UUID) (*models.ApprovalRequest, error) {
	request, err := s.pendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.EmployeeID != employeeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the requester may cancel")
	}
	return s.finalize(ctx, request, enums.ApprovalStatusCancelled, DecisionInput{
		RequestID: requestID,
		DecidedBy: employeeID,
		ActorRole: enums.EmployeeRoleEmployee,
	}, nil)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ApprovalRequest, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup request")
	}
	if request == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "approval request not found")
	}
	return request, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		status:     params.Status,
		employeeID: params.EmployeeID,
		resourceID: params.ResourceID,
		limit:      pkgpagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approval requests")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit-1].CreatedAt,
			ID:        rows[limit-1].ID,
		})
	}
	return &ListResult{Items: rows, Cursor: nextCursor}, nil
}

func (s *service) pendingRequest(ctx context.Context, id uuid.UUID) (*models.ApprovalRequest, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != enums.ApprovalStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request already decided").WithDetails(map[string]any{
			"status": request.Status.String(),
		})
	}
	return request, nil
}

func (s *service) finalize(ctx context.Context, request *models.ApprovalRequest, status enums.ApprovalStatus, input DecisionInput, assignmentID *uuid.UUID) (*models.ApprovalRequest, error) {
	now := s.now()
	request.Status = status
	request.DecidedBy = &input.DecidedBy
	request.DecidedAt = &now
	request.DecisionNote = strings.TrimSpace(input.Note)
	request.AssignmentID = assignmentID

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update approval request")
		}
		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventApprovalDecided,
			AggregateType: enums.AggregateApprovalRequest,
			AggregateID:   request.ID,
			Actor:         &outbox.ActorRef{EmployeeID: input.DecidedBy, Role: input.ActorRole.String()},
			Data: payloads.ApprovalDecidedEvent{
				RequestID:    request.ID,
				EmployeeID:   request.EmployeeID,
				ResourceID:   request.ResourceID,
				Status:       request.Status,
				DecidedBy:    input.DecidedBy,
				AssignmentID: assignmentID,
				DecidedAt:    now,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue decision event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func decisionNote(verb, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return verb + " via request workflow"
	}
	return verb + " via request workflow: " + note
}
