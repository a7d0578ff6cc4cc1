package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/internal/allocation"
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

type auditSink interface {
	RecordTx(ctx context.Context, tx *gorm.DB, entries ...models.AuditLog) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// CreateInput captures a new catalog entry.
type CreateInput struct {
	Name           string
	Type           string
	AllocationMode enums.AllocationMode
	Quantity       *int
	CustodianID    *uuid.UUID
	Vendor         string
	PurchaseCost   *decimal.Decimal
	Notes          string
	ActorID        *uuid.UUID
	ActorRole      enums.EmployeeRole
}

// UpdateInput captures the mutable resource fields. Quantity edits are
// re-checked against active usage; allocation mode flips are blocked while
// any assignment is active.
type UpdateInput struct {
	Name           *string
	AllocationMode *enums.AllocationMode
	Quantity       *int
	CustodianID    *uuid.UUID
	Vendor         *string
	PurchaseCost   *decimal.Decimal
	Notes          *string
	ActorID        *uuid.UUID
	ActorRole      enums.EmployeeRole
}

// ListParams filters the catalog listing.
type ListParams struct {
	Type   *string
	Mode   *enums.AllocationMode
	Status *enums.ResourceStatus
	Limit  int
	Cursor string
}

// ListResult is one page of resources plus the next cursor.
type ListResult struct {
	Items  []models.Resource
	Cursor string
}

// Service exposes resource catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Resource, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Resource, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Resource, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.ResourceStatus, actorID *uuid.UUID, actorRole enums.EmployeeRole) (*models.Resource, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	tx     transactor
	repo   *Repository
	audit  auditSink
	events outboxEmitter
	logg   *logger.Logger
}

// NewService builds the resource catalog service.
func NewService(tx transactor, repo *Repository, audit auditSink, events outboxEmitter, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit sink required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{tx: tx, repo: repo, audit: audit, events: events, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Resource, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	typeName := strings.TrimSpace(input.Type)
	if typeName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type is required")
	}
	if !input.AllocationMode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid allocation mode")
	}

	quantity := -1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity != -1 && quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive or -1 for unlimited")
	}
	if input.AllocationMode == enums.AllocationModeExclusive && input.Quantity != nil {
		// Exclusive capacity is implied by the item count.
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exclusive resources do not carry a quantity cap")
	}

	resource := &models.Resource{
		ID:             uuid.New(),
		Name:           name,
		Type:           enums.ResourceType(typeName),
		AllocationMode: input.AllocationMode,
		Quantity:       quantity,
		Status:         enums.ResourceStatusActive,
		CustodianID:    input.CustodianID,
		Vendor:         strings.TrimSpace(input.Vendor),
		Notes:          strings.TrimSpace(input.Notes),
	}
	if input.PurchaseCost != nil {
		if input.PurchaseCost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase cost cannot be negative")
		}
		resource.PurchaseCost = *input.PurchaseCost
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, resource); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create resource")
		}
		if err := s.emitChange(ctx, tx, enums.EventResourceCreated, resource, input.ActorID, input.ActorRole); err != nil {
			return err
		}
		s.recordAudit(ctx, tx, models.AuditLog{
			EntityType: "resource",
			EntityID:   resource.ID,
			ActorID:    input.ActorID,
			Field:      "status",
			NewValue:   resource.Status.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource id is required")
	}
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup resource")
	}
	if resource == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
	}
	return resource, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Resource, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource id is required")
	}

	var updated *models.Resource
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		resource, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup resource")
		}
		if resource == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
		}

		var entries []models.AuditLog
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
			}
			entries = append(entries, auditChange(resource.ID, input.ActorID, "name", resource.Name, name))
			resource.Name = name
		}
		if input.AllocationMode != nil && *input.AllocationMode != resource.AllocationMode {
			if !input.AllocationMode.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid allocation mode")
			}
			active, err := repo.CountActiveAssignments(ctx, resource.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active assignments")
			}
			if active > 0 {
				rej := allocation.Reject(allocation.CodeMixedAllocation, "cannot change allocation mode while assignments are active")
				return pkgerrors.Wrap(pkgerrors.CodeConflict, rej, rej.Message)
			}
			entries = append(entries, auditChange(resource.ID, input.ActorID, "allocation_mode", resource.AllocationMode.String(), input.AllocationMode.String()))
			resource.AllocationMode = *input.AllocationMode
		}
		if input.Quantity != nil && *input.Quantity != resource.Quantity {
			quantity := *input.Quantity
			if quantity != -1 && quantity <= 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive or -1 for unlimited")
			}
			if quantity != -1 {
				used, err := repo.SumActiveUnits(ctx, resource.ID)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum active units")
				}
				if used > quantity {
					return pkgerrors.New(pkgerrors.CodeConflict, "quantity cannot drop below active usage").WithDetails(map[string]any{
						"active_units": used,
						"requested":    quantity,
					})
				}
			}
			entries = append(entries, auditChange(resource.ID, input.ActorID, "quantity", fmt.Sprintf("%d", resource.Quantity), fmt.Sprintf("%d", quantity)))
			resource.Quantity = quantity
		}
		if input.CustodianID != nil {
			resource.CustodianID = input.CustodianID
		}
		if input.Vendor != nil {
			resource.Vendor = strings.TrimSpace(*input.Vendor)
		}
		if input.PurchaseCost != nil {
			if input.PurchaseCost.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "purchase cost cannot be negative")
			}
			resource.PurchaseCost = *input.PurchaseCost
		}
		if input.Notes != nil {
			resource.Notes = strings.TrimSpace(*input.Notes)
		}

		if err := repo.Update(ctx, resource); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update resource")
		}
		if err := s.emitChange(ctx, tx, enums.EventResourceUpdated, resource, input.ActorID, input.ActorRole); err != nil {
			return err
		}
		s.recordAudit(ctx, tx, entries...)
		updated = resource
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetStatus moves a resource out of (or back into) circulation. Leaving the
// active state is blocked while assignments are still open.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.ResourceStatus, actorID *uuid.UUID, actorRole enums.EmployeeRole) (*models.Resource, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid resource status")
	}

	var updated *models.Resource
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		resource, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup resource")
		}
		if resource == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
		}
		if resource.Status == status {
			updated = resource
			return nil
		}

		if resource.Status == enums.ResourceStatusActive {
			active, err := repo.CountActiveAssignments(ctx, resource.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active assignments")
			}
			if active > 0 {
				return pkgerrors.New(pkgerrors.CodeConflict, "resource still has active assignments").WithDetails(map[string]any{
					"active_assignments": active,
				})
			}
		}

		old := resource.Status
		resource.Status = status
		if err := repo.Update(ctx, resource); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update resource status")
		}

		eventType := enums.EventResourceUpdated
		if old == enums.ResourceStatusActive {
			eventType = enums.EventResourceRetired
		}
		if err := s.emitChange(ctx, tx, eventType, resource, actorID, actorRole); err != nil {
			return err
		}
		s.recordAudit(ctx, tx, auditChange(resource.ID, actorID, "status", old.String(), status.String()))
		updated = resource
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a catalog entry that has never been assigned. Entries with
// assignment history are retired instead so the trail stays intact.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "resource id is required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		resource, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup resource")
		}
		if resource == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
		}
		count, err := repo.CountAssignments(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count assignments")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "resource has assignment history; retire it instead")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete resource")
		}
		return nil
	})
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		typeName: params.Type,
		mode:     params.Mode,
		status:   params.Status,
		limit:    pkgpagination.LimitWithBuffer(params.Limit),
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list resources")
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

func (s *service) emitChange(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, resource *models.Resource, actorID *uuid.UUID, actorRole enums.EmployeeRole) error {
	var actor *outbox.ActorRef
	if actorID != nil {
		actor = &outbox.ActorRef{EmployeeID: *actorID, Role: actorRole.String()}
	}
	err := s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateResource,
		AggregateID:   resource.ID,
		Actor:         actor,
		Data: payloads.ResourceChangedEvent{
			ResourceID:     resource.ID,
			Name:           resource.Name,
			Type:           resource.Type,
			AllocationMode: resource.AllocationMode,
			Status:         resource.Status,
		},
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue resource event")
	}
	return nil
}

func (s *service) recordAudit(ctx context.Context, tx *gorm.DB, entries ...models.AuditLog) {
	if len(entries) == 0 {
		return
	}
	if err := s.audit.RecordTx(ctx, tx, entries...); err != nil {
		s.logg.Warn(ctx, "audit record failed for resource change: "+err.Error())
	}
}

func auditChange(entityID uuid.UUID, actorID *uuid.UUID, field, oldValue, newValue string) models.AuditLog {
	return models.AuditLog{
		EntityType: "resource",
		EntityID:   entityID,
		ActorID:    actorID,
		Field:      field,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
}
