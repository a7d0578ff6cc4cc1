package enums

import (
	"fmt"
	"strings"
)

// AssignmentStatus tracks the grant lifecycle. Transitions are monotonic:
// active moves to returned, lost, or damaged; damaged may still be returned
// after repair. Returned and lost are terminal.
type AssignmentStatus string

const (
	AssignmentStatusActive   AssignmentStatus = "active"
	AssignmentStatusReturned AssignmentStatus = "returned"
	AssignmentStatusLost     AssignmentStatus = "lost"
	AssignmentStatusDamaged  AssignmentStatus = "damaged"
)

var validAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusActive,
	AssignmentStatusReturned,
	AssignmentStatusLost,
	AssignmentStatusDamaged,
}

// String implements fmt.Stringer.
func (a AssignmentStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is known.
func (a AssignmentStatus) IsValid() bool {
	for _, candidate := range validAssignmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (a AssignmentStatus) IsTerminal() bool {
	return a == AssignmentStatusReturned || a == AssignmentStatusLost
}

// ParseAssignmentStatus converts raw input into an AssignmentStatus.
func ParseAssignmentStatus(value string) (AssignmentStatus, error) {
	for _, candidate := range validAssignmentStatuses {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment status %q", value)
}
