package approvals

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
)

// Repository exposes approval request persistence operations.
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

func (r *Repository) Create(ctx context.Context, request *models.ApprovalRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ApprovalRequest, error) {
	var row models.ApprovalRequest
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// HasPending reports whether an undecided request already exists for the
// (employee, resource) pair.
func (r *Repository) HasPending(ctx context.Context, employeeID, resourceID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ApprovalRequest{}).
		Where("employee_id = ? AND resource_id = ? AND status = ?", employeeID, resourceID, enums.ApprovalStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Update(ctx context.Context, request *models.ApprovalRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

type listQuery struct {
	status     *enums.ApprovalStatus
	employeeID *uuid.UUID
	resourceID *uuid.UUID
	cursor     *pagination.Cursor
	limit      int
}

func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.ApprovalRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.ApprovalRequest{})

	if opts.status != nil {
		query = query.Where("status = ?", *opts.status)
	}
	if opts.employeeID != nil {
		query = query.Where("employee_id = ?", *opts.employeeID)
	}
	if opts.resourceID != nil {
		query = query.Where("resource_id = ?", *opts.resourceID)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.ApprovalRequest
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
