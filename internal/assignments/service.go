package assignments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/internal/allocation"
	dbpkg "github.com/jvaldezcruz/assetdesk-backend/pkg/db"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/metrics"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/outbox"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/outbox/payloads"
	pkgpagination "github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/types"
)

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type auditSink interface {
	RecordTx(ctx context.Context, tx *gorm.DB, entries ...models.AuditLog) error
}

type timelineSink interface {
	RecordTx(ctx context.Context, tx *gorm.DB, event models.TimelineEvent) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// CreateInput is the inbound shape for a new assignment.
type CreateInput struct {
	ResourceID        uuid.UUID
	EmployeeID        uuid.UUID
	ItemID            *uuid.UUID
	RequestedCategory *enums.AssignmentCategory
	Quantity          int
	Notes             string
	ActorID           *uuid.UUID
	ActorRole         enums.EmployeeRole
}

// TransitionInput is the inbound shape for return/lost/damaged/revoke.
type TransitionInput struct {
	AssignmentID     uuid.UUID
	NewStatus        enums.AssignmentStatus
	ReturnedQuantity *int
	Reason           string
	Notes            string
	ActorID          *uuid.UUID
	ActorRole        enums.EmployeeRole

	// revoked distinguishes an admin revocation from a voluntary return; only
	// Revoke sets it.
	revoked bool
}

// ListParams filters the assignment listing.
type ListParams struct {
	ResourceID *uuid.UUID
	EmployeeID *uuid.UUID
	Status     *enums.AssignmentStatus
	Limit      int
	Cursor     string
}

// ListResult is one page of assignments plus the next cursor.
type ListResult struct {
	Items  []models.Assignment
	Cursor string
}

// Service exposes assignment creation, transition, and listing semantics.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Assignment, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Assignment, error)
	Revoke(ctx context.Context, input TransitionInput) (*models.Assignment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	tx       transactor
	repo     *Repository
	audit    auditSink
	timeline timelineSink
	events   outboxEmitter
	metrics  *metrics.EngineMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the assignment lifecycle manager.
func NewService(tx transactor, repo *Repository, audit auditSink, timeline timelineSink, events outboxEmitter, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if repo == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit sink required")
	}
	if timeline == nil {
		return nil, fmt.Errorf("timeline sink required")
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
		audit:    audit,
		timeline: timeline,
		events:   events,
		metrics:  engineMetrics,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Assignment, error) {
	if input.ResourceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource_id is required")
	}
	if input.EmployeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee_id is required")
	}
	if input.RequestedCategory != nil && !input.RequestedCategory.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid assignment category")
	}

	started := s.now()
	created, err := s.createOnce(ctx, input)
	if err != nil && dbpkg.IsSerializationFailure(err) {
		// Expected under write contention; one bounded retry, then surface.
		s.logg.Warn(s.logg.WithResourceID(ctx, input.ResourceID.String()), "assignment create conflicted, retrying once")
		created, err = s.createOnce(ctx, input)
	}
	if err != nil {
		if rej, ok := allocation.AsRejection(err); ok {
			s.metrics.IncRejected(string(rej.Code))
		}
		return nil, err
	}

	s.metrics.ObserveDecision(created.Category.String(), s.now().Sub(started))
	s.metrics.IncGranted(created.Category.String())
	return created, nil
}

func (s *service) createOnce(ctx context.Context, input CreateInput) (*models.Assignment, error) {
	var created *models.Assignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		snap, err := s.loadSnapshot(ctx, repo, input)
		if err != nil {
			return err
		}
		decision, rej := allocation.Decide(allocation.Request{
			ResourceID:        input.ResourceID,
			EmployeeID:        input.EmployeeID,
			ItemID:            input.ItemID,
			RequestedCategory: input.RequestedCategory,
			Quantity:          input.Quantity,
		}, snap)
		if rej != nil {
			return rejectionError(rej)
		}

		// ID is assigned up front because the outbox payload needs it
		// before the row round-trips.
		assignment := &models.Assignment{
			ID:         uuid.New(),
			ResourceID: input.ResourceID,
			EmployeeID: input.EmployeeID,
			Category:   decision.Category,
			Status:     enums.AssignmentStatusActive,
			Quantity:   decision.Quantity,
			Notes:      strings.TrimSpace(input.Notes),
			AssignedAt: s.now(),
		}

		if snap.AllocationMode == enums.AllocationModeExclusive {
			claimed, err := repo.ClaimItem(ctx, *input.ItemID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim item")
			}
			if !claimed {
				return rejectionError(allocation.Reject(allocation.CodeItemAlreadyAssigned, "item already has an active assignment"))
			}
			assignment.ItemID = input.ItemID
		}

		if err := repo.Create(ctx, assignment); err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_assignments_active_item") {
				return rejectionError(allocation.Reject(allocation.CodeItemAlreadyAssigned, "item already has an active assignment"))
			}
			if dbpkg.IsUniqueViolation(err, "ux_assignments_active_resource_employee") {
				return rejectionError(allocation.Reject(allocation.CodeAlreadyAssigned, "employee already holds an active assignment on this resource"))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert assignment")
		}

		// Re-read inside the transaction so two concurrent grants cannot
		// both land under a bounded capacity.
		if assignment.ItemID == nil {
			if rej := s.recheckCapacity(ctx, repo, snap, assignment); rej != nil {
				return rejectionError(rej)
			}
		}

		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAssignmentCreated,
			AggregateType: enums.AggregateAssignment,
			AggregateID:   assignment.ID,
			Actor:         actorRef(input.ActorID, input.ActorRole),
			Data: payloads.AssignmentCreatedEvent{
				AssignmentID: assignment.ID,
				ResourceID:   assignment.ResourceID,
				EmployeeID:   assignment.EmployeeID,
				ItemID:       assignment.ItemID,
				Category:     assignment.Category,
				Quantity:     assignment.Quantity,
				AssignedAt:   assignment.AssignedAt,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue assignment event")
		}

		s.recordCreateTrail(ctx, tx, input, assignment)

		created = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) loadSnapshot(ctx context.Context, repo *Repository, input CreateInput) (allocation.Snapshot, error) {
	snap := allocation.Snapshot{}

	// The row lock serializes the validation re-read and the insert against
	// concurrent grants on the same resource.
	resource, err := repo.FindResourceForUpdate(ctx, input.ResourceID)
	if err != nil {
		return snap, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup resource")
	}
	if resource == nil {
		return snap, nil
	}
	snap.ResourceFound = true
	snap.ResourceStatus = resource.Status
	snap.AllocationMode = resource.AllocationMode
	snap.TypeName = resource.Type.String()
	snap.Capacity = types.CapacityFromQuantity(resource.Quantity)

	exists, err := repo.EmployeeExists(ctx, input.EmployeeID)
	if err != nil {
		return snap, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup employee")
	}
	snap.EmployeeFound = exists

	snap.ActiveUnits, err = repo.SumActiveUnits(ctx, input.ResourceID)
	if err != nil {
		return snap, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum active units")
	}
	snap.EmployeeActive, err = repo.EmployeeHasActive(ctx, input.ResourceID, input.EmployeeID)
	if err != nil {
		return snap, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check duplicate holder")
	}
	snap.AvailableItems, err = repo.CountAvailableItems(ctx, input.ResourceID)
	if err != nil {
		return snap, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count available items")
	}
	snap.HasItemBackedActive, err = repo.HasItemBackedActive(ctx, input.ResourceID)
	if err != nil {
		return snap, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check item-backed usage")
	}
	snap.HasQuantityActive = snap.ActiveUnits > 0

	if input.ItemID != nil {
		item, err := repo.FindItem(ctx, input.ResourceID, *input.ItemID)
		if err != nil {
			return snap, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup item")
		}
		if item != nil {
			busy, err := repo.ItemHasActiveAssignment(ctx, item.ID)
			if err != nil {
				return snap, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check item assignment")
			}
			snap.Item = &allocation.ItemState{
				ID:                  item.ID,
				Status:              item.Status,
				HasActiveAssignment: busy,
			}
		}
	}
	return snap, nil
}

func (s *service) recheckCapacity(ctx context.Context, repo *Repository, snap allocation.Snapshot, assignment *models.Assignment) *allocation.Rejection {
	limit, bounded := snap.Capacity.Limit()
	if !bounded {
		return nil
	}
	used, err := repo.SumActiveUnits(ctx, assignment.ResourceID)
	if err != nil {
		// Treated as capacity failure so the transaction rolls back.
		return allocation.RejectWithDetails(allocation.CodeCapacityReached, "capacity re-check failed", map[string]any{
			"cause": err.Error(),
		})
	}
	if used > limit {
		return allocation.RejectWithDetails(allocation.CodeCapacityReached, "resource capacity reached", map[string]any{
			"current_assignments": used - assignment.Quantity,
			"max_capacity":        limit,
		})
	}
	return nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Assignment, error) {
	if input.AssignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment_id is required")
	}
	if !input.NewStatus.IsValid() || input.NewStatus == enums.AssignmentStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}

	updated, err := s.transitionOnce(ctx, input)
	if err != nil && dbpkg.IsSerializationFailure(err) {
		s.logg.Warn(ctx, "assignment transition conflicted, retrying once")
		updated, err = s.transitionOnce(ctx, input)
	}
	if err != nil {
		if rej, ok := allocation.AsRejection(err); ok {
			s.metrics.IncRejected(string(rej.Code))
		}
		return nil, err
	}
	s.metrics.IncTransition(input.NewStatus.String())
	return updated, nil
}

// Revoke is an administrator-forced return with a mandatory reason.
func (s *service) Revoke(ctx context.Context, input TransitionInput) (*models.Assignment, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "revoke requires a reason")
	}
	input.NewStatus = enums.AssignmentStatusReturned
	input.Notes = joinNotes(input.Notes, "revoked: "+strings.TrimSpace(input.Reason))
	input.revoked = true
	return s.Transition(ctx, input)
}

func (s *service) transitionOnce(ctx context.Context, input TransitionInput) (*models.Assignment, error) {
	var updated *models.Assignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		assignment, err := repo.FindAssignment(ctx, input.AssignmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup assignment")
		}
		if assignment == nil {
			return rejectionError(allocation.Reject(allocation.CodeAssignmentNotFound, "assignment does not exist"))
		}
		if rej := allocation.ValidateTransition(assignment.Status, input.NewStatus); rej != nil {
			return rejectionError(rej)
		}

		// Hold the resource row before touching quantity accounting so the
		// split cannot interleave with a concurrent grant's capacity check.
		if _, err := repo.FindResourceForUpdate(ctx, assignment.ResourceID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock resource")
		}

		if input.ReturnedQuantity != nil && *input.ReturnedQuantity != assignment.Quantity {
			updated, err = s.partialReturn(ctx, tx, repo, assignment, input)
			return err
		}

		updated, err = s.fullTransition(ctx, tx, repo, assignment, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) fullTransition(ctx context.Context, tx *gorm.DB, repo *Repository, assignment *models.Assignment, input TransitionInput) (*models.Assignment, error) {
	oldStatus := assignment.Status
	now := s.now()

	assignment.Status = input.NewStatus
	if oldStatus == enums.AssignmentStatusActive {
		assignment.ReturnedAt = &now
	}
	if note := strings.TrimSpace(input.Notes); note != "" {
		assignment.Notes = joinNotes(assignment.Notes, note)
	}
	if reason := strings.TrimSpace(input.Reason); reason != "" && !strings.Contains(assignment.Notes, reason) {
		assignment.Notes = joinNotes(assignment.Notes, reason)
	}
	if err := repo.Save(ctx, assignment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignment")
	}

	if assignment.ItemID != nil {
		if itemStatus, ok := allocation.MirrorItemStatus(input.NewStatus); ok {
			if err := repo.SetItemStatus(ctx, *assignment.ItemID, itemStatus); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mirror item status")
			}
		}
	}

	if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     transitionEventType(input),
		AggregateType: enums.AggregateAssignment,
		AggregateID:   assignment.ID,
		Actor:         actorRef(input.ActorID, input.ActorRole),
		Data: payloads.AssignmentClosedEvent{
			AssignmentID: assignment.ID,
			ResourceID:   assignment.ResourceID,
			EmployeeID:   assignment.EmployeeID,
			ItemID:       assignment.ItemID,
			Status:       assignment.Status,
			Quantity:     assignment.Quantity,
			ClosedAt:     now,
		},
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue transition event")
	}

	s.recordTransitionTrail(ctx, tx, input, assignment, oldStatus)
	return assignment, nil
}

func (s *service) partialReturn(ctx context.Context, tx *gorm.DB, repo *Repository, assignment *models.Assignment, input TransitionInput) (*models.Assignment, error) {
	if input.NewStatus != enums.AssignmentStatusReturned {
		return nil, rejectionError(allocation.Reject(allocation.CodeInvalidQuantity, "partial quantities only apply to returns"))
	}
	if assignment.ItemID != nil {
		return nil, rejectionError(allocation.Reject(allocation.CodeInvalidQuantity, "item-backed assignments return as a whole"))
	}
	returned := *input.ReturnedQuantity
	if returned <= 0 || returned >= assignment.Quantity {
		return nil, rejectionError(allocation.RejectWithDetails(allocation.CodeInvalidQuantity, "returned quantity out of range", map[string]any{
			"active_quantity":   assignment.Quantity,
			"returned_quantity": returned,
		}))
	}

	now := s.now()
	assignment.Quantity -= returned
	if err := repo.Save(ctx, assignment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reduce assignment quantity")
	}

	split := &models.Assignment{
		ID:         uuid.New(),
		ResourceID: assignment.ResourceID,
		EmployeeID: assignment.EmployeeID,
		Category:   assignment.Category,
		Status:     enums.AssignmentStatusReturned,
		Quantity:   returned,
		Notes:      joinNotes(strings.TrimSpace(input.Notes), strings.TrimSpace(input.Reason)),
		AssignedAt: assignment.AssignedAt,
		ReturnedAt: &now,
	}
	if err := repo.Create(ctx, split); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert split assignment")
	}

	if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventAssignmentSplit,
		AggregateType: enums.AggregateAssignment,
		AggregateID:   assignment.ID,
		Actor:         actorRef(input.ActorID, input.ActorRole),
		Data: payloads.AssignmentSplitEvent{
			OriginalAssignmentID: assignment.ID,
			ReturnedAssignmentID: split.ID,
			ResourceID:           assignment.ResourceID,
			EmployeeID:           assignment.EmployeeID,
			ReturnedQuantity:     returned,
			RemainingQuantity:    assignment.Quantity,
		},
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue split event")
	}

	s.recordSplitTrail(ctx, tx, input, assignment, split)
	return assignment, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id is required")
	}
	assignment, err := s.repo.FindAssignment(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup assignment")
	}
	if assignment == nil {
		return nil, rejectionError(allocation.Reject(allocation.CodeAssignmentNotFound, "assignment does not exist"))
	}
	return assignment, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		resourceID: params.ResourceID,
		employeeID: params.EmployeeID,
		status:     params.Status,
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		// Encode the last returned row; the next page resumes strictly after it.
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit-1].CreatedAt,
			ID:        rows[limit-1].ID,
		})
	}
	return &ListResult{Items: rows, Cursor: nextCursor}, nil
}

// recordCreateTrail writes audit and timeline entries; failures are warned
// and swallowed because observability records never block the grant itself.
func (s *service) recordCreateTrail(ctx context.Context, tx *gorm.DB, input CreateInput, assignment *models.Assignment) {
	entries := []models.AuditLog{{
		EntityType: "assignment",
		EntityID:   assignment.ID,
		ActorID:    input.ActorID,
		Field:      "status",
		NewValue:   assignment.Status.String(),
	}}
	if assignment.ItemID != nil {
		entries = append(entries, models.AuditLog{
			EntityType: "resource_item",
			EntityID:   *assignment.ItemID,
			ActorID:    input.ActorID,
			Field:      "status",
			OldValue:   enums.ItemStatusAvailable.String(),
			NewValue:   enums.ItemStatusAssigned.String(),
		})
	}
	if err := s.audit.RecordTx(ctx, tx, entries...); err != nil {
		s.logg.Warn(ctx, "audit record failed for assignment create: "+err.Error())
	}

	if err := s.timeline.RecordTx(ctx, tx, models.TimelineEvent{
		ActorID:     input.ActorID,
		Title:       "Resource assigned",
		Description: fmt.Sprintf("assignment %s created (%s, qty %d)", assignment.ID, assignment.Category, assignment.Quantity),
		Metadata:    timelineMetadata(assignment),
	}); err != nil {
		s.logg.Warn(ctx, "timeline record failed for assignment create: "+err.Error())
	}
}

func (s *service) recordTransitionTrail(ctx context.Context, tx *gorm.DB, input TransitionInput, assignment *models.Assignment, oldStatus enums.AssignmentStatus) {
	if err := s.audit.RecordTx(ctx, tx, models.AuditLog{
		EntityType: "assignment",
		EntityID:   assignment.ID,
		ActorID:    input.ActorID,
		Field:      "status",
		OldValue:   oldStatus.String(),
		NewValue:   assignment.Status.String(),
	}); err != nil {
		s.logg.Warn(ctx, "audit record failed for assignment transition: "+err.Error())
	}

	if err := s.timeline.RecordTx(ctx, tx, models.TimelineEvent{
		ActorID:     input.ActorID,
		Title:       "Assignment " + assignment.Status.String(),
		Description: fmt.Sprintf("assignment %s moved %s -> %s", assignment.ID, oldStatus, assignment.Status),
		Metadata:    timelineMetadata(assignment),
	}); err != nil {
		s.logg.Warn(ctx, "timeline record failed for assignment transition: "+err.Error())
	}
}

func (s *service) recordSplitTrail(ctx context.Context, tx *gorm.DB, input TransitionInput, remaining, split *models.Assignment) {
	if err := s.audit.RecordTx(ctx, tx, models.AuditLog{
		EntityType: "assignment",
		EntityID:   remaining.ID,
		ActorID:    input.ActorID,
		Field:      "quantity",
		OldValue:   fmt.Sprintf("%d", remaining.Quantity+split.Quantity),
		NewValue:   fmt.Sprintf("%d", remaining.Quantity),
	}); err != nil {
		s.logg.Warn(ctx, "audit record failed for partial return: "+err.Error())
	}

	if err := s.timeline.RecordTx(ctx, tx, models.TimelineEvent{
		ActorID:     input.ActorID,
		Title:       "Partial return",
		Description: fmt.Sprintf("assignment %s returned %d of %d units", remaining.ID, split.Quantity, remaining.Quantity+split.Quantity),
		Metadata:    timelineMetadata(remaining),
	}); err != nil {
		s.logg.Warn(ctx, "timeline record failed for partial return: "+err.Error())
	}
}

func transitionEventType(input TransitionInput) enums.OutboxEventType {
	if input.revoked {
		return enums.EventAssignmentRevoked
	}
	switch input.NewStatus {
	case enums.AssignmentStatusLost:
		return enums.EventAssignmentLost
	case enums.AssignmentStatusDamaged:
		return enums.EventAssignmentDamaged
	default:
		return enums.EventAssignmentReturned
	}
}

func actorRef(actorID *uuid.UUID, role enums.EmployeeRole) *outbox.ActorRef {
	if actorID == nil {
		return nil
	}
	return &outbox.ActorRef{EmployeeID: *actorID, Role: role.String()}
}

func timelineMetadata(assignment *models.Assignment) json.RawMessage {
	meta := map[string]any{
		"assignment_id": assignment.ID.String(),
		"resource_id":   assignment.ResourceID.String(),
		"employee_id":   assignment.EmployeeID.String(),
		"status":        assignment.Status.String(),
		"quantity":      assignment.Quantity,
	}
	if assignment.ItemID != nil {
		meta["item_id"] = assignment.ItemID.String()
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return raw
}

func joinNotes(existing, addition string) string {
	existing = strings.TrimSpace(existing)
	addition = strings.TrimSpace(addition)
	switch {
	case existing == "":
		return addition
	case addition == "":
		return existing
	default:
		return existing + "; " + addition
	}
}

func rejectionError(rej *allocation.Rejection) error {
	var code pkgerrors.Code
	switch rej.Code {
	case allocation.CodeResourceNotFound, allocation.CodeEmployeeNotFound, allocation.CodeAssignmentNotFound:
		code = pkgerrors.CodeNotFound
	case allocation.CodeInvalidQuantity:
		code = pkgerrors.CodeValidation
	case allocation.CodeInvalidStatusTransition:
		code = pkgerrors.CodeStateConflict
	default:
		code = pkgerrors.CodeConflict
	}
	details := map[string]any{"reason": string(rej.Code)}
	for k, v := range rej.Details {
		details[k] = v
	}
	return pkgerrors.Wrap(code, rej, rej.Message).WithDetails(details)
}
