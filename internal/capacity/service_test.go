package capacity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:capacity_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Resource{}, &models.ResourceItem{}, &models.Assignment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedResource(t *testing.T, db *gorm.DB, mode enums.AllocationMode, quantity int) uuid.UUID {
	t.Helper()
	res := models.Resource{
		ID:             uuid.New(),
		Name:           "Capacity Test",
		Type:           enums.ResourceTypeCloud,
		AllocationMode: mode,
		Quantity:       quantity,
		Status:         enums.ResourceStatusActive,
	}
	if err := db.Create(&res).Error; err != nil {
		t.Fatalf("seed resource: %v", err)
	}
	return res.ID
}

func seedItem(t *testing.T, db *gorm.DB, resourceID uuid.UUID, status enums.ItemStatus) {
	t.Helper()
	item := models.ResourceItem{ID: uuid.New(), ResourceID: resourceID, Status: status}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
}

func seedActiveGrant(t *testing.T, db *gorm.DB, resourceID uuid.UUID, quantity int) {
	t.Helper()
	row := models.Assignment{
		ID:         uuid.New(),
		ResourceID: resourceID,
		EmployeeID: uuid.New(),
		Category:   enums.AssignmentCategoryShared,
		Status:     enums.AssignmentStatusActive,
		Quantity:   quantity,
		AssignedAt: time.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
}

func TestAvailabilityItemBacked(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	resource := seedResource(t, db, enums.AllocationModeExclusive, -1)
	seedItem(t, db, resource, enums.ItemStatusAvailable)
	seedItem(t, db, resource, enums.ItemStatusAvailable)
	seedItem(t, db, resource, enums.ItemStatusAssigned)
	seedItem(t, db, resource, enums.ItemStatusMaintenance)
	seedItem(t, db, resource, enums.ItemStatusLost)

	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	view, err := svc.Availability(context.Background(), resource)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if view.Units != nil || view.Items == nil {
		t.Fatalf("expected item view, got %+v", view)
	}
	got := *view.Items
	want := ItemCounts{Total: 5, Available: 2, Assigned: 1, Maintenance: 1, Lost: 1}
	if got != want {
		t.Fatalf("item counts = %+v, want %+v", got, want)
	}
}

func TestAvailabilityBoundedUnits(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	resource := seedResource(t, db, enums.AllocationModeShared, 10)
	seedActiveGrant(t, db, resource, 1)
	seedActiveGrant(t, db, resource, 3)

	svc, _ := NewService(NewRepository(db))
	view, err := svc.Availability(context.Background(), resource)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	units := view.Units
	if units == nil || view.Items != nil {
		t.Fatalf("expected unit view, got %+v", view)
	}
	if units.Capacity == nil || *units.Capacity != 10 {
		t.Fatalf("capacity = %v, want 10", units.Capacity)
	}
	if units.Used != 4 {
		t.Fatalf("used = %d, want 4", units.Used)
	}
	if units.Available == nil || *units.Available != 6 {
		t.Fatalf("available = %v, want 6", units.Available)
	}
}

func TestAvailabilityOversubscribedFloorsAtZero(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	resource := seedResource(t, db, enums.AllocationModeShared, 2)
	seedActiveGrant(t, db, resource, 5)

	svc, _ := NewService(NewRepository(db))
	view, err := svc.Availability(context.Background(), resource)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if view.Units.Available == nil || *view.Units.Available != 0 {
		t.Fatalf("available = %v, want 0", view.Units.Available)
	}
}

func TestAvailabilityUnlimited(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	resource := seedResource(t, db, enums.AllocationModeShared, -1)
	seedActiveGrant(t, db, resource, 7)

	svc, _ := NewService(NewRepository(db))
	view, err := svc.Availability(context.Background(), resource)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if view.Units.Capacity != nil || view.Units.Available != nil {
		t.Fatalf("unlimited view should have nil capacity/available, got %+v", view.Units)
	}
	if view.Units.Used != 7 {
		t.Fatalf("used = %d, want 7", view.Units.Used)
	}
}

func TestAvailabilityResourceNotFound(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc, _ := NewService(NewRepository(db))
	_, err := svc.Availability(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
