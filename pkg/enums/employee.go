package enums

import (
	"fmt"
	"strings"
)

// EmployeeRole is the portal role carried in access tokens. Authorization
// policy beyond the admin gate is the caller's concern.
type EmployeeRole string

const (
	EmployeeRoleEmployee EmployeeRole = "employee"
	EmployeeRoleManager  EmployeeRole = "manager"
	EmployeeRoleAdmin    EmployeeRole = "admin"
)

var validEmployeeRoles = []EmployeeRole{
	EmployeeRoleEmployee,
	EmployeeRoleManager,
	EmployeeRoleAdmin,
}

// String implements fmt.Stringer.
func (e EmployeeRole) String() string {
	return string(e)
}

// IsValid reports whether the value is known.
func (e EmployeeRole) IsValid() bool {
	for _, candidate := range validEmployeeRoles {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEmployeeRole converts raw input into an EmployeeRole.
func ParseEmployeeRole(value string) (EmployeeRole, error) {
	for _, candidate := range validEmployeeRoles {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid employee role %q", value)
}

// EmployeeStatus marks whether an employee record is active in the portal.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
)

var validEmployeeStatuses = []EmployeeStatus{
	EmployeeStatusActive,
	EmployeeStatusInactive,
}

// String implements fmt.Stringer.
func (e EmployeeStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is known.
func (e EmployeeStatus) IsValid() bool {
	for _, candidate := range validEmployeeStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEmployeeStatus converts raw input into an EmployeeStatus.
func ParseEmployeeStatus(value string) (EmployeeStatus, error) {
	for _, candidate := range validEmployeeStatuses {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid employee status %q", value)
}
