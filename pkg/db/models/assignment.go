package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

// Assignment links one employee to one resource, optionally pinning a
// specific item. Quantity stays 1 for item-backed and seat assignments and
// only exceeds 1 for quantity-tracked pooled grants; partial returns split
// the row, so summing quantities per original grant is stable.
type Assignment struct {
	ID         uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	ResourceID uuid.UUID                `gorm:"column:resource_id;type:uuid;not null;index"`
	EmployeeID uuid.UUID                `gorm:"column:employee_id;type:uuid;not null;index"`
	ItemID     *uuid.UUID               `gorm:"column:item_id;type:uuid"`
	Category   enums.AssignmentCategory `gorm:"column:category;type:assignment_category;not null"`
	Status     enums.AssignmentStatus   `gorm:"column:status;type:assignment_status;not null;default:'active'"`
	Quantity   int                      `gorm:"column:quantity;not null;default:1"`
	Notes      string                   `gorm:"column:notes"`
	AssignedAt time.Time                `gorm:"column:assigned_at;not null"`
	ReturnedAt *time.Time               `gorm:"column:returned_at"`
	CreatedAt  time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
