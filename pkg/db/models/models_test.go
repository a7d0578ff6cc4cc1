package models

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Every model must AutoMigrate cleanly on sqlite, which the service test
// harnesses rely on. Postgres-only column defaults in gorm tags would break
// this; id defaults live in the SQL migrations instead.
func TestModelsAutoMigrateOnSQLite(t *testing.T) {
	t.Parallel()
	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = conn.AutoMigrate(
		&Employee{},
		&Resource{},
		&ResourceItem{},
		&Assignment{},
		&ApprovalRequest{},
		&AuditLog{},
		&TimelineEvent{},
		&OutboxEvent{},
		&OutboxDLQ{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	employee := Employee{ID: uuid.New(), Name: "Dana Smith", Email: "dana@example.com"}
	if err := conn.Create(&employee).Error; err != nil {
		t.Fatalf("insert employee: %v", err)
	}

	var got Employee
	if err := conn.First(&got, "id = ?", employee.ID).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.ID != employee.ID {
		t.Fatalf("id = %s, want %s", got.ID, employee.ID)
	}
}
