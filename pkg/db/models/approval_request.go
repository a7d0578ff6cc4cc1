package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

// ApprovalRequest is an employee's ask for a resource, pending an admin
// decision. Approval drives assignment creation through the engine.
type ApprovalRequest struct {
	ID                uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID        uuid.UUID                 `gorm:"column:employee_id;type:uuid;not null;index"`
	ResourceID        uuid.UUID                 `gorm:"column:resource_id;type:uuid;not null;index"`
	RequestedCategory *enums.AssignmentCategory `gorm:"column:requested_category;type:assignment_category"`
	Justification     string                    `gorm:"column:justification"`
	Status            enums.ApprovalStatus      `gorm:"column:status;type:approval_status;not null;default:'pending'"`
	DecidedBy         *uuid.UUID                `gorm:"column:decided_by;type:uuid"`
	DecidedAt         *time.Time                `gorm:"column:decided_at"`
	DecisionNote      string                    `gorm:"column:decision_note"`
	AssignmentID      *uuid.UUID                `gorm:"column:assignment_id;type:uuid"`
	CreatedAt         time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
