package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

// ResourceItem is a single trackable unit under an exclusive resource, e.g.
// one laptop or one license key. Items carry no meaning without their
// resource.
type ResourceItem struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ResourceID   uuid.UUID        `gorm:"column:resource_id;type:uuid;not null;index"`
	Status       enums.ItemStatus `gorm:"column:status;type:item_status;not null;default:'available'"`
	SerialNumber *string          `gorm:"column:serial_number;unique"`
	Notes        string           `gorm:"column:notes"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
