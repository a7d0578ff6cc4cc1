package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

// Resource is a catalog entry representing a class of asset. For exclusive
// resources capacity is implied by the item count; for shared resources the
// quantity column caps concurrent assignments (-1 means unlimited).
type Resource struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name           string               `gorm:"column:name;not null"`
	Type           enums.ResourceType   `gorm:"column:type;not null"`
	AllocationMode enums.AllocationMode `gorm:"column:allocation_mode;type:allocation_mode;not null"`
	Quantity       int                  `gorm:"column:quantity;not null;default:-1"`
	Status         enums.ResourceStatus `gorm:"column:status;type:resource_status;not null;default:'active'"`
	CustodianID    *uuid.UUID           `gorm:"column:custodian_id;type:uuid"`
	Vendor         string               `gorm:"column:vendor"`
	PurchaseCost   decimal.Decimal      `gorm:"column:purchase_cost;type:numeric(12,2);not null;default:0"`
	Notes          string               `gorm:"column:notes"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
