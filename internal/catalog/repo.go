package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
)

// Repository exposes resource catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository clone bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	var row models.Resource
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Update(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Save(resource).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Resource{}, "id = ?", id).Error
}

// CountActiveAssignments covers both item-backed and quantity rows.
func (r *Repository) CountActiveAssignments(ctx context.Context, resourceID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("resource_id = ? AND status = ?", resourceID, enums.AssignmentStatusActive).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) CountAssignments(ctx context.Context, resourceID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("resource_id = ?", resourceID).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) SumActiveUnits(ctx context.Context, resourceID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("resource_id = ? AND status = ? AND item_id IS NULL", resourceID, enums.AssignmentStatusActive).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

type listQuery struct {
	typeName *string
	mode     *enums.AllocationMode
	status   *enums.ResourceStatus
	cursor   *pagination.Cursor
	limit    int
}

func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Resource, error) {
	query := r.db.WithContext(ctx).Model(&models.Resource{})

	if opts.typeName != nil {
		query = query.Where("type = ?", *opts.typeName)
	}
	if opts.mode != nil {
		query = query.Where("allocation_mode = ?", *opts.mode)
	}
	if opts.status != nil {
		query = query.Where("status = ?", *opts.status)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Resource
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
