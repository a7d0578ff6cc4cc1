package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

// AssignmentCreatedEvent signals a new allocation grant.
type AssignmentCreatedEvent struct {
	AssignmentID uuid.UUID                `json:"assignment_id"`
	ResourceID   uuid.UUID                `json:"resource_id"`
	EmployeeID   uuid.UUID                `json:"employee_id"`
	ItemID       *uuid.UUID               `json:"item_id,omitempty"`
	Category     enums.AssignmentCategory `json:"category"`
	Quantity     int                      `json:"quantity"`
	AssignedAt   time.Time                `json:"assigned_at"`
}

// AssignmentClosedEvent is emitted for return, lost, damaged and revoke
// transitions.
type AssignmentClosedEvent struct {
	AssignmentID uuid.UUID              `json:"assignment_id"`
	ResourceID   uuid.UUID              `json:"resource_id"`
	EmployeeID   uuid.UUID              `json:"employee_id"`
	ItemID       *uuid.UUID             `json:"item_id,omitempty"`
	Status       enums.AssignmentStatus `json:"status"`
	Quantity     int                    `json:"quantity"`
	ClosedAt     time.Time              `json:"closed_at"`
}

// AssignmentSplitEvent reports that a partial return split a quantity grant.
type AssignmentSplitEvent struct {
	OriginalAssignmentID uuid.UUID `json:"original_assignment_id"`
	ReturnedAssignmentID uuid.UUID `json:"returned_assignment_id"`
	ResourceID           uuid.UUID `json:"resource_id"`
	EmployeeID           uuid.UUID `json:"employee_id"`
	ReturnedQuantity     int       `json:"returned_quantity"`
	RemainingQuantity    int       `json:"remaining_quantity"`
}

// ResourceChangedEvent covers create, update and retire on catalog entries.
type ResourceChangedEvent struct {
	ResourceID     uuid.UUID            `json:"resource_id"`
	Name           string               `json:"name"`
	Type           enums.ResourceType   `json:"type"`
	AllocationMode enums.AllocationMode `json:"allocation_mode"`
	Status         enums.ResourceStatus `json:"status"`
}

// ItemStatusChangedEvent tracks trackable unit lifecycle moves.
type ItemStatusChangedEvent struct {
	ItemID     uuid.UUID        `json:"item_id"`
	ResourceID uuid.UUID        `json:"resource_id"`
	OldStatus  enums.ItemStatus `json:"old_status"`
	NewStatus  enums.ItemStatus `json:"new_status"`
}

// ApprovalRequestedEvent notifies admins of a pending request.
type ApprovalRequestedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	ResourceID uuid.UUID `json:"resource_id"`
}

// ApprovalDecidedEvent reports an admin decision on a request.
type ApprovalDecidedEvent struct {
	RequestID    uuid.UUID            `json:"request_id"`
	EmployeeID   uuid.UUID            `json:"employee_id"`
	ResourceID   uuid.UUID            `json:"resource_id"`
	Status       enums.ApprovalStatus `json:"status"`
	DecidedBy    uuid.UUID            `json:"decided_by"`
	AssignmentID *uuid.UUID           `json:"assignment_id,omitempty"`
	DecidedAt    time.Time            `json:"decided_at"`
}
