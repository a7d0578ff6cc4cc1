package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
)

// Repository persists and queries field-level audit entries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) insert(ctx context.Context, db *gorm.DB, entries []models.AuditLog) error {
	return db.WithContext(ctx).Create(&entries).Error
}

func (r *Repository) Insert(ctx context.Context, entries []models.AuditLog) error {
	return r.insert(ctx, r.db, entries)
}

// InsertTx writes entries on the caller's transaction handle.
func (r *Repository) InsertTx(ctx context.Context, tx *gorm.DB, entries []models.AuditLog) error {
	if tx == nil {
		tx = r.db
	}
	return r.insert(ctx, tx, entries)
}

type listQuery struct {
	entityType string
	entityID   *uuid.UUID
	actorID    *uuid.UUID
	cursor     *pagination.Cursor
	limit      int
}

func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.AuditLog, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if opts.entityType != "" {
		query = query.Where("entity_type = ?", opts.entityType)
	}
	if opts.entityID != nil {
		query = query.Where("entity_id = ?", *opts.entityID)
	}
	if opts.actorID != nil {
		query = query.Where("actor_id = ?", *opts.actorID)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.AuditLog
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
