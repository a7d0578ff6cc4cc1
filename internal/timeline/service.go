package timeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	pkgpagination "github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
)

// ListParams filters the timeline listing.
type ListParams struct {
	ActorID *uuid.UUID
	Limit   int
	Cursor  string
}

// ListResult is one page of timeline events plus the next cursor.
type ListResult struct {
	Items  []models.TimelineEvent
	Cursor string
}

// Service records portal activity entries. Record failures are non-fatal to
// the write paths that feed it.
type Service interface {
	Record(ctx context.Context, event models.TimelineEvent) error
	RecordTx(ctx context.Context, tx *gorm.DB, event models.TimelineEvent) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("timeline repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, event models.TimelineEvent) error {
	return s.RecordTx(ctx, nil, event)
}

func (s *service) RecordTx(ctx context.Context, tx *gorm.DB, event models.TimelineEvent) error {
	if strings.TrimSpace(event.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "timeline event requires a title")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if err := s.repo.InsertTx(ctx, tx, &event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert timeline event")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		actorID: params.ActorID,
		limit:   pkgpagination.LimitWithBuffer(params.Limit),
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list timeline events")
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
