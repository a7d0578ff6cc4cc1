package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

// Employee is a person tracked by the portal. Authentication lives with the
// external identity provider; this row only carries directory data.
type Employee struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name       string               `gorm:"column:name;not null"`
	Email      string               `gorm:"column:email;not null;unique"`
	Department string               `gorm:"column:department"`
	Title      string               `gorm:"column:title"`
	Role       enums.EmployeeRole   `gorm:"column:role;type:employee_role;not null;default:'employee'"`
	Status     enums.EmployeeStatus `gorm:"column:status;type:employee_status;not null;default:'active'"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
