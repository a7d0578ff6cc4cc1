package assignments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
)

// Repository exposes assignment persistence operations. All state-reading
// helpers take the receiver's handle, so WithTx rebinds the whole repository
// to a transaction for the validate-and-commit path.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an assignment repository tied to the provided GORM DB.
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

// FindResourceForUpdate loads the resource row with FOR UPDATE so the
// capacity re-read and the subsequent write serialize against concurrent
// writers on the same resource. Two grants on a bounded SHARED resource
// otherwise commit under READ COMMITTED without seeing each other's row.
// SQLite allows one writer at a time and rejects the clause, so the lock
// applies on Postgres only.
func (r *Repository) FindResourceForUpdate(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	query := r.db.WithContext(ctx)
	if exprs := resourceLockClauses(r.db.Dialector.Name()); len(exprs) > 0 {
		query = query.Clauses(exprs...)
	}
	var row models.Resource
	err := query.First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func resourceLockClauses(dialector string) []clause.Expression {
	if dialector == "postgres" {
		return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
	}
	return nil
}

func (r *Repository) EmployeeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) FindItem(ctx context.Context, resourceID, itemID uuid.UUID) (*models.ResourceItem, error) {
	var row models.ResourceItem
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND resource_id = ?", itemID, resourceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var row models.Assignment
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CountAvailableItems(ctx context.Context, resourceID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ResourceItem{}).
		Where("resource_id = ? AND status = ?", resourceID, enums.ItemStatusAvailable).
		Count(&count).Error
	return int(count), err
}

// SumActiveUnits totals quantities across active non-item assignments. Seat
// grants carry quantity 1, so the sum doubles as the active seat count.
func (r *Repository) SumActiveUnits(ctx context.Context, resourceID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("resource_id = ? AND status = ? AND item_id IS NULL", resourceID, enums.AssignmentStatusActive).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *Repository) EmployeeHasActive(ctx context.Context, resourceID, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("resource_id = ? AND employee_id = ? AND status = ? AND item_id IS NULL",
			resourceID, employeeID, enums.AssignmentStatusActive).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) HasItemBackedActive(ctx context.Context, resourceID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("resource_id = ? AND status = ? AND item_id IS NOT NULL", resourceID, enums.AssignmentStatusActive).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) HasQuantityActive(ctx context.Context, resourceID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("resource_id = ? AND status = ? AND item_id IS NULL", resourceID, enums.AssignmentStatusActive).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) ItemHasActiveAssignment(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("item_id = ? AND status = ?", itemID, enums.AssignmentStatusActive).
		Count(&count).Error
	return count > 0, err
}

// ClaimItem flips an available item to assigned with a guarded update; a
// false return means a concurrent writer got there first or the item left
// the available state.
func (r *Repository) ClaimItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.ResourceItem{}).
		Where("id = ? AND status = ?", itemID, enums.ItemStatusAvailable).
		Update("status", enums.ItemStatusAssigned)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) SetItemStatus(ctx context.Context, itemID uuid.UUID, status enums.ItemStatus) error {
	return r.db.WithContext(ctx).Model(&models.ResourceItem{}).
		Where("id = ?", itemID).
		Update("status", status).Error
}

func (r *Repository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *Repository) Save(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

type listQuery struct {
	resourceID *uuid.UUID
	employeeID *uuid.UUID
	status     *enums.AssignmentStatus
	cursor     *pagination.Cursor
	limit      int
}

// List returns assignments filtered by resource/employee/status using cursor
// pagination.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Assignment, error) {
	query := r.db.WithContext(ctx).Model(&models.Assignment{})

	if opts.resourceID != nil {
		query = query.Where("resource_id = ?", *opts.resourceID)
	}
	if opts.employeeID != nil {
		query = query.Where("employee_id = ?", *opts.employeeID)
	}
	if opts.status != nil {
		query = query.Where("status = ?", *opts.status)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Assignment
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
