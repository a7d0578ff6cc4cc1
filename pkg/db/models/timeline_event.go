package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TimelineEvent is a human-readable activity entry shown on the portal
// timeline. Metadata carries structured context for downstream consumers.
type TimelineEvent struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ActorID     *uuid.UUID      `gorm:"column:actor_id;type:uuid"`
	Title       string          `gorm:"column:title;not null"`
	Description string          `gorm:"column:description"`
	Metadata    json.RawMessage `gorm:"column:metadata;type:jsonb"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime;index"`
}
