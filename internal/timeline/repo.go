package timeline

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
)

// Repository persists and queries portal timeline entries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, event *models.TimelineEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// InsertTx writes the event on the caller's transaction handle.
func (r *Repository) InsertTx(ctx context.Context, tx *gorm.DB, event *models.TimelineEvent) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(event).Error
}

type listQuery struct {
	actorID *uuid.UUID
	cursor  *pagination.Cursor
	limit   int
}

func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.TimelineEvent, error) {
	query := r.db.WithContext(ctx).Model(&models.TimelineEvent{})

	if opts.actorID != nil {
		query = query.Where("actor_id = ?", *opts.actorID)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.TimelineEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
