package enums

import (
	"fmt"
	"strings"
)

// AssignmentCategory labels how an assignment consumes its resource:
// individual (one item or seat per employee), pooled (license pool seats
// without per-user item tracking), or shared (simultaneous multi-access).
type AssignmentCategory string

const (
	AssignmentCategoryIndividual AssignmentCategory = "individual"
	AssignmentCategoryPooled     AssignmentCategory = "pooled"
	AssignmentCategoryShared     AssignmentCategory = "shared"
)

var validAssignmentCategories = []AssignmentCategory{
	AssignmentCategoryIndividual,
	AssignmentCategoryPooled,
	AssignmentCategoryShared,
}

// String implements fmt.Stringer.
func (a AssignmentCategory) String() string {
	return string(a)
}

// IsValid reports whether the value is known.
func (a AssignmentCategory) IsValid() bool {
	for _, candidate := range validAssignmentCategories {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssignmentCategory converts raw input into an AssignmentCategory.
func ParseAssignmentCategory(value string) (AssignmentCategory, error) {
	for _, candidate := range validAssignmentCategories {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment category %q", value)
}
