package enums

import (
	"fmt"
	"strings"
)

// ResourceStatus tracks the lifecycle of the catalog entry itself, not of
// any single assignment on it.
type ResourceStatus string

const (
	ResourceStatusActive   ResourceStatus = "active"
	ResourceStatusReturned ResourceStatus = "returned"
	ResourceStatusLost     ResourceStatus = "lost"
	ResourceStatusDamaged  ResourceStatus = "damaged"
)

var validResourceStatuses = []ResourceStatus{
	ResourceStatusActive,
	ResourceStatusReturned,
	ResourceStatusLost,
	ResourceStatusDamaged,
}

// String implements fmt.Stringer.
func (r ResourceStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r ResourceStatus) IsValid() bool {
	for _, candidate := range validResourceStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseResourceStatus converts raw input into a ResourceStatus.
func ParseResourceStatus(value string) (ResourceStatus, error) {
	for _, candidate := range validResourceStatuses {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resource status %q", value)
}
