package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only field-level change record.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	EntityType string     `gorm:"column:entity_type;not null;index:idx_audit_logs_entity"`
	EntityID   uuid.UUID  `gorm:"column:entity_id;type:uuid;not null;index:idx_audit_logs_entity"`
	ActorID    *uuid.UUID `gorm:"column:actor_id;type:uuid"`
	Field      string     `gorm:"column:field;not null"`
	OldValue   string     `gorm:"column:old_value"`
	NewValue   string     `gorm:"column:new_value"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
