package items

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/jvaldezcruz/assetdesk-backend/pkg/db"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/outbox"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/outbox/payloads"
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

// CreateInput registers a new trackable unit under an exclusive resource.
type CreateInput struct {
	ResourceID   uuid.UUID
	SerialNumber *string
	Notes        string
	ActorID      *uuid.UUID
	ActorRole    enums.EmployeeRole
}

// Service exposes trackable item operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.ResourceItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ResourceItem, error)
	SetMaintenance(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, actorRole enums.EmployeeRole) (*models.ResourceItem, error)
	Restore(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, actorRole enums.EmployeeRole) (*models.ResourceItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByResource(ctx context.Context, resourceID uuid.UUID, status *enums.ItemStatus) ([]models.ResourceItem, error)
}

type service struct {
	tx     transactor
	repo   *Repository
	audit  auditSink
	events outboxEmitter
	logg   *logger.Logger
}

// NewService builds the trackable item service.
func NewService(tx transactor, repo *Repository, audit auditSink, events outboxEmitter, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
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

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ResourceItem, error) {
	if input.ResourceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource_id is required")
	}
	var serial *string
	if input.SerialNumber != nil {
		trimmed := strings.TrimSpace(*input.SerialNumber)
		if trimmed != "" {
			serial = &trimmed
		}
	}

	item := &models.ResourceItem{
		ID:           uuid.New(),
		ResourceID:   input.ResourceID,
		Status:       enums.ItemStatusAvailable,
		SerialNumber: serial,
		Notes:        strings.TrimSpace(input.Notes),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		resource, err := repo.FindResource(ctx, input.ResourceID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup resource")
		}
		if resource == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
		}
		if resource.AllocationMode != enums.AllocationModeExclusive {
			return pkgerrors.New(pkgerrors.CodeConflict, "items only exist under exclusive resources")
		}

		if err := repo.Create(ctx, item); err != nil {
			if dbpkg.IsUniqueViolation(err, "serial_number") || dbpkg.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "serial number already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
		}

		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventItemCreated,
			AggregateType: enums.AggregateResourceItem,
			AggregateID:   item.ID,
			Actor:         actorRef(input.ActorID, input.ActorRole),
			Data: payloads.ItemStatusChangedEvent{
				ItemID:     item.ID,
				ResourceID: item.ResourceID,
				NewStatus:  item.Status,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue item event")
		}
		s.recordAudit(ctx, tx, models.AuditLog{
			EntityType: "resource_item",
			EntityID:   item.ID,
			ActorID:    input.ActorID,
			Field:      "status",
			NewValue:   item.Status.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ResourceItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup item")
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return item, nil
}

// SetMaintenance pulls an available item out of circulation.
func (s *service) SetMaintenance(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, actorRole enums.EmployeeRole) (*models.ResourceItem, error) {
	return s.setStatus(ctx, id, enums.ItemStatusMaintenance, []enums.ItemStatus{enums.ItemStatusAvailable}, actorID, actorRole)
}

// Restore returns a maintenance, lost, or damaged item to the available pool.
func (s *service) Restore(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, actorRole enums.EmployeeRole) (*models.ResourceItem, error) {
	from := []enums.ItemStatus{enums.ItemStatusMaintenance, enums.ItemStatusLost, enums.ItemStatusDamaged}
	return s.setStatus(ctx, id, enums.ItemStatusAvailable, from, actorID, actorRole)
}

func (s *service) setStatus(ctx context.Context, id uuid.UUID, to enums.ItemStatus, allowedFrom []enums.ItemStatus, actorID *uuid.UUID, actorRole enums.EmployeeRole) (*models.ResourceItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	var updated *models.ResourceItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup item")
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		allowed := false
		for _, status := range allowedFrom {
			if item.Status == status {
				allowed = true
				break
			}
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "item cannot move from "+item.Status.String()+" to "+to.String()).WithDetails(map[string]any{
				"from": item.Status.String(),
				"to":   to.String(),
			})
		}

		old := item.Status
		item.Status = to
		if err := repo.Update(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item status")
		}

		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventItemStatusChanged,
			AggregateType: enums.AggregateResourceItem,
			AggregateID:   item.ID,
			Actor:         actorRef(actorID, actorRole),
			Data: payloads.ItemStatusChangedEvent{
				ItemID:     item.ID,
				ResourceID: item.ResourceID,
				OldStatus:  old,
				NewStatus:  item.Status,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue item event")
		}
		s.recordAudit(ctx, tx, models.AuditLog{
			EntityType: "resource_item",
			EntityID:   item.ID,
			ActorID:    actorID,
			Field:      "status",
			OldValue:   old.String(),
			NewValue:   item.Status.String(),
		})
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an item that has no active assignment.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup item")
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		busy, err := repo.HasActiveAssignment(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active assignment")
		}
		if busy || item.Status == enums.ItemStatusAssigned {
			return pkgerrors.New(pkgerrors.CodeConflict, "item has an active assignment")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
		}
		return nil
	})
}

func (s *service) ListByResource(ctx context.Context, resourceID uuid.UUID, status *enums.ItemStatus) ([]models.ResourceItem, error) {
	if resourceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource id is required")
	}
	rows, err := s.repo.ListByResource(ctx, resourceID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return rows, nil
}

func (s *service) recordAudit(ctx context.Context, tx *gorm.DB, entries ...models.AuditLog) {
	if err := s.audit.RecordTx(ctx, tx, entries...); err != nil {
		s.logg.Warn(ctx, "audit record failed for item change: "+err.Error())
	}
}

func actorRef(actorID *uuid.UUID, role enums.EmployeeRole) *outbox.ActorRef {
	if actorID == nil {
		return nil
	}
	return &outbox.ActorRef{EmployeeID: *actorID, Role: role.String()}
}
