package enums

import (
	"fmt"
	"strings"
)

// AllocationMode declares how a resource hands out capacity: exclusive
// resources are consumed one tracked item per assignment, shared resources
// admit many concurrent assignments bounded by an optional quantity cap.
type AllocationMode string

const (
	AllocationModeExclusive AllocationMode = "exclusive"
	AllocationModeShared    AllocationMode = "shared"
)

var validAllocationModes = []AllocationMode{
	AllocationModeExclusive,
	AllocationModeShared,
}

// String implements fmt.Stringer.
func (a AllocationMode) String() string {
	return string(a)
}

// IsValid reports whether the value is known.
func (a AllocationMode) IsValid() bool {
	for _, candidate := range validAllocationModes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAllocationMode converts raw input into an AllocationMode.
func ParseAllocationMode(value string) (AllocationMode, error) {
	for _, candidate := range validAllocationModes {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid allocation mode %q", value)
}
