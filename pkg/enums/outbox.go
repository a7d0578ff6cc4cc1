package enums

import (
	"fmt"
	"strings"
)

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateAssignment      OutboxAggregateType = "assignment"
	AggregateResource        OutboxAggregateType = "resource"
	AggregateResourceItem    OutboxAggregateType = "resource_item"
	AggregateEmployee        OutboxAggregateType = "employee"
	AggregateApprovalRequest OutboxAggregateType = "approval_request"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateAssignment,
	AggregateResource,
	AggregateResourceItem,
	AggregateEmployee,
	AggregateApprovalRequest,
}

// String implements fmt.Stringer.
func (a OutboxAggregateType) String() string {
	return string(a)
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventAssignmentCreated  OutboxEventType = "assignment_created"
	EventAssignmentReturned OutboxEventType = "assignment_returned"
	EventAssignmentLost     OutboxEventType = "assignment_lost"
	EventAssignmentDamaged  OutboxEventType = "assignment_damaged"
	EventAssignmentRevoked  OutboxEventType = "assignment_revoked"
	EventAssignmentSplit    OutboxEventType = "assignment_split"
	EventResourceCreated    OutboxEventType = "resource_created"
	EventResourceUpdated    OutboxEventType = "resource_updated"
	EventResourceRetired    OutboxEventType = "resource_retired"
	EventItemCreated        OutboxEventType = "item_created"
	EventItemStatusChanged  OutboxEventType = "item_status_changed"
	EventApprovalRequested  OutboxEventType = "approval_requested"
	EventApprovalDecided    OutboxEventType = "approval_decided"
)

var validOutboxEventTypes = []OutboxEventType{
	EventAssignmentCreated,
	EventAssignmentReturned,
	EventAssignmentLost,
	EventAssignmentDamaged,
	EventAssignmentRevoked,
	EventAssignmentSplit,
	EventResourceCreated,
	EventResourceUpdated,
	EventResourceRetired,
	EventItemCreated,
	EventItemStatusChanged,
	EventApprovalRequested,
	EventApprovalDecided,
}

// String implements fmt.Stringer.
func (e OutboxEventType) String() string {
	return string(e)
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
