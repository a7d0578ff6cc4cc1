package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	pkgpagination "github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
)

// ListParams filters the audit listing.
type ListParams struct {
	EntityType string
	EntityID   *uuid.UUID
	ActorID    *uuid.UUID
	Limit      int
	Cursor     string
}

// ListResult is one page of audit entries plus the next cursor.
type ListResult struct {
	Items  []models.AuditLog
	Cursor string
}

// Service records field-level change history. Callers treat Record failures
// as non-fatal; the write path never blocks on audit.
type Service interface {
	Record(ctx context.Context, entries ...models.AuditLog) error
	RecordTx(ctx context.Context, tx *gorm.DB, entries ...models.AuditLog) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, entries ...models.AuditLog) error {
	return s.RecordTx(ctx, nil, entries...)
}

func (s *service) RecordTx(ctx context.Context, tx *gorm.DB, entries ...models.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		if entries[i].EntityType == "" || entries[i].EntityID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "audit entry requires entity type and id")
		}
		if entries[i].ID == uuid.Nil {
			entries[i].ID = uuid.New()
		}
	}
	if err := s.repo.InsertTx(ctx, tx, entries); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert audit entries")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		entityType: params.EntityType,
		entityID:   params.EntityID,
		actorID:    params.ActorID,
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
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
