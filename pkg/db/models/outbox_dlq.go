package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxDLQ parks events the publisher gave up on after exhausting retries.
type OutboxDLQ struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OutboxEventID uuid.UUID       `gorm:"column:outbox_event_id;type:uuid;not null;unique"`
	EventType     string          `gorm:"column:event_type;not null"`
	AggregateType string          `gorm:"column:aggregate_type;not null"`
	AggregateID   uuid.UUID       `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload       json.RawMessage `gorm:"column:payload;type:jsonb;not null"`
	ErrorReason   string          `gorm:"column:error_reason;not null"`
	AttemptCount  int             `gorm:"column:attempt_count;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
