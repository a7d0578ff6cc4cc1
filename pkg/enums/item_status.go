package enums

import (
	"fmt"
	"strings"
)

// ItemStatus tracks a single trackable unit under an exclusive resource.
type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "available"
	ItemStatusAssigned    ItemStatus = "assigned"
	ItemStatusMaintenance ItemStatus = "maintenance"
	ItemStatusLost        ItemStatus = "lost"
	ItemStatusDamaged     ItemStatus = "damaged"
)

var validItemStatuses = []ItemStatus{
	ItemStatusAvailable,
	ItemStatusAssigned,
	ItemStatusMaintenance,
	ItemStatusLost,
	ItemStatusDamaged,
}

// String implements fmt.Stringer.
func (i ItemStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is known.
func (i ItemStatus) IsValid() bool {
	for _, candidate := range validItemStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemStatus converts raw input into an ItemStatus.
func ParseItemStatus(value string) (ItemStatus, error) {
	for _, candidate := range validItemStatuses {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item status %q", value)
}
