package items

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/outbox"
)

type gormTransactor struct {
	db *gorm.DB
}

func (g *gormTransactor) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

type stubAudit struct{}

func (stubAudit) RecordTx(_ context.Context, _ *gorm.DB, _ ...models.AuditLog) error {
	return nil
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T) (Service, *gorm.DB, *stubOutbox) {
	t.Helper()
	dsn := "file:items_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Resource{}, &models.ResourceItem{}, &models.Assignment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	events := &stubOutbox{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(&gormTransactor{db: conn}, NewRepository(conn), stubAudit{}, events, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn, events
}

func seedResource(t *testing.T, db *gorm.DB, mode enums.AllocationMode) uuid.UUID {
	t.Helper()
	res := models.Resource{
		ID:             uuid.New(),
		Name:           "Item Test",
		Type:           enums.ResourceTypePhysical,
		AllocationMode: mode,
		Quantity:       -1,
		Status:         enums.ResourceStatusActive,
	}
	if err := db.Create(&res).Error; err != nil {
		t.Fatalf("seed resource: %v", err)
	}
	return res.ID
}

func TestCreateUnderExclusiveResource(t *testing.T) {
	t.Parallel()
	svc, db, events := newTestService(t)
	ctx := context.Background()
	resource := seedResource(t, db, enums.AllocationModeExclusive)

	serial := "SN-001"
	item, err := svc.Create(ctx, CreateInput{ResourceID: resource, SerialNumber: &serial})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Status != enums.ItemStatusAvailable {
		t.Fatalf("status = %s, want available", item.Status)
	}
	if item.SerialNumber == nil || *item.SerialNumber != "SN-001" {
		t.Fatalf("serial = %v", item.SerialNumber)
	}
	if len(events.events) != 1 || events.events[0].EventType != enums.EventItemCreated {
		t.Fatalf("expected item_created event, got %+v", events.events)
	}
}

func TestCreateRejectedUnderSharedResource(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	resource := seedResource(t, db, enums.AllocationModeShared)

	_, err := svc.Create(context.Background(), CreateInput{ResourceID: resource})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateDuplicateSerial(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	resource := seedResource(t, db, enums.AllocationModeExclusive)

	serial := "SN-DUP"
	if _, err := svc.Create(ctx, CreateInput{ResourceID: resource, SerialNumber: &serial}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, CreateInput{ResourceID: resource, SerialNumber: &serial})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMaintenanceRoundTrip(t *testing.T) {
	t.Parallel()
	svc, db, events := newTestService(t)
	ctx := context.Background()
	resource := seedResource(t, db, enums.AllocationModeExclusive)

	item, err := svc.Create(ctx, CreateInput{ResourceID: resource})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	down, err := svc.SetMaintenance(ctx, item.ID, nil, "")
	if err != nil {
		t.Fatalf("maintenance: %v", err)
	}
	if down.Status != enums.ItemStatusMaintenance {
		t.Fatalf("status = %s, want maintenance", down.Status)
	}

	// An item already out of circulation cannot go down again.
	if _, err := svc.SetMaintenance(ctx, item.ID, nil, ""); err == nil {
		t.Fatal("expected state conflict")
	}

	back, err := svc.Restore(ctx, item.ID, nil, "")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if back.Status != enums.ItemStatusAvailable {
		t.Fatalf("status = %s, want available", back.Status)
	}

	last := events.events[len(events.events)-1]
	if last.EventType != enums.EventItemStatusChanged {
		t.Fatalf("event type = %s, want item_status_changed", last.EventType)
	}
}

func TestMaintenanceBlockedWhileAssigned(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	resource := seedResource(t, db, enums.AllocationModeExclusive)

	item, err := svc.Create(ctx, CreateInput{ResourceID: resource})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Model(&models.ResourceItem{}).Where("id = ?", item.ID).Update("status", enums.ItemStatusAssigned).Error; err != nil {
		t.Fatalf("assign item: %v", err)
	}

	_, err = svc.SetMaintenance(ctx, item.ID, nil, "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDeleteOnlyWhenUnassigned(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	resource := seedResource(t, db, enums.AllocationModeExclusive)

	item, err := svc.Create(ctx, CreateInput{ResourceID: resource})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	grant := models.Assignment{
		ID:         uuid.New(),
		ResourceID: resource,
		EmployeeID: uuid.New(),
		ItemID:     &item.ID,
		Category:   enums.AssignmentCategoryIndividual,
		Status:     enums.AssignmentStatusActive,
		Quantity:   1,
		AssignedAt: time.Now(),
	}
	if err := db.Create(&grant).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}

	if err := svc.Delete(ctx, item.ID); err == nil {
		t.Fatal("expected conflict while assigned")
	}

	if err := db.Model(&models.Assignment{}).Where("id = ?", grant.ID).Update("status", enums.AssignmentStatusReturned).Error; err != nil {
		t.Fatalf("close assignment: %v", err)
	}
	if err := db.Model(&models.ResourceItem{}).Where("id = ?", item.ID).Update("status", enums.ItemStatusAvailable).Error; err != nil {
		t.Fatalf("free item: %v", err)
	}
	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, item.ID); err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestListByResourceFiltersStatus(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	resource := seedResource(t, db, enums.AllocationModeExclusive)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, CreateInput{ResourceID: resource}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	broken, err := svc.Create(ctx, CreateInput{ResourceID: resource})
	if err != nil {
		t.Fatalf("create broken: %v", err)
	}
	if _, err := svc.SetMaintenance(ctx, broken.ID, nil, ""); err != nil {
		t.Fatalf("maintenance: %v", err)
	}

	all, err := svc.ListByResource(ctx, resource, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 items, got %d", len(all))
	}

	available := enums.ItemStatusAvailable
	free, err := svc.ListByResource(ctx, resource, &available)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(free) != 3 {
		t.Fatalf("expected 3 available, got %d", len(free))
	}
}
