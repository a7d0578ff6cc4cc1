package employees

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
)

// Repository exposes employee persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var row models.Employee
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var row models.Employee
	err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Update(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// HasActiveAssignments reports whether the employee still holds anything.
func (r *Repository) HasActiveAssignments(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("employee_id = ? AND status = ?", employeeID, enums.AssignmentStatusActive).
		Count(&count).Error
	return count > 0, err
}

type listQuery struct {
	status *enums.EmployeeStatus
	role   *enums.EmployeeRole
	cursor *pagination.Cursor
	limit  int
}

func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Employee, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})

	if opts.status != nil {
		query = query.Where("status = ?", *opts.status)
	}
	if opts.role != nil {
		query = query.Where("role = ?", *opts.role)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Employee
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
