package items

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

// Repository exposes trackable item persistence operations.
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

func (r *Repository) Create(ctx context.Context, item *models.ResourceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ResourceItem, error) {
	var row models.ResourceItem
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindResource(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
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

func (r *Repository) Update(ctx context.Context, item *models.ResourceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ResourceItem{}, "id = ?", id).Error
}

func (r *Repository) HasActiveAssignment(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("item_id = ? AND status = ?", itemID, enums.AssignmentStatusActive).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) ListByResource(ctx context.Context, resourceID uuid.UUID, status *enums.ItemStatus) ([]models.ResourceItem, error) {
	query := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("created_at ASC").Order("id ASC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.ResourceItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
