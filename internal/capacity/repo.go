package capacity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

// Repository reads resource, item, and assignment rows for availability views.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
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

// CountItemsByStatus groups a resource's items by status in one query.
func (r *Repository) CountItemsByStatus(ctx context.Context, resourceID uuid.UUID) (map[enums.ItemStatus]int, error) {
	type bucket struct {
		Status enums.ItemStatus
		Count  int
	}
	var rows []bucket
	err := r.db.WithContext(ctx).Model(&models.ResourceItem{}).
		Select("status, COUNT(*) AS count").
		Where("resource_id = ?", resourceID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[enums.ItemStatus]int, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *Repository) SumActiveUnits(ctx context.Context, resourceID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("resource_id = ? AND status = ? AND item_id IS NULL", resourceID, enums.AssignmentStatusActive).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}
