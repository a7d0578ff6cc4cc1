package catalog

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

type stubAudit struct {
	entries []models.AuditLog
}

func (s *stubAudit) RecordTx(_ context.Context, _ *gorm.DB, entries ...models.AuditLog) error {
	s.entries = append(s.entries, entries...)
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
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Resource{}, &models.Assignment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	events := &stubOutbox{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(&gormTransactor{db: conn}, NewRepository(conn), &stubAudit{}, events, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn, events
}

func seedActiveAssignment(t *testing.T, db *gorm.DB, resourceID uuid.UUID, quantity int) uuid.UUID {
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
	return row.ID
}

func TestCreateDefaultsAndEvent(t *testing.T) {
	t.Parallel()
	svc, _, events := newTestService(t)
	ctx := context.Background()

	cost := decimal.NewFromFloat(1299.99)
	resource, err := svc.Create(ctx, CreateInput{
		Name:           "  Figma Org  ",
		Type:           "software",
		AllocationMode: enums.AllocationModeShared,
		Vendor:         "Figma",
		PurchaseCost:   &cost,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resource.Name != "Figma Org" || resource.Quantity != -1 {
		t.Fatalf("unexpected resource: %+v", resource)
	}
	if resource.Status != enums.ResourceStatusActive {
		t.Fatalf("status = %s, want active", resource.Status)
	}
	if len(events.events) != 1 || events.events[0].EventType != enums.EventResourceCreated {
		t.Fatalf("expected resource_created event, got %+v", events.events)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	zero := 0
	five := 5

	cases := []CreateInput{
		{Type: "cloud", AllocationMode: enums.AllocationModeShared},
		{Name: "No Type", AllocationMode: enums.AllocationModeShared},
		{Name: "Bad Mode", Type: "cloud", AllocationMode: enums.AllocationMode("BOTH")},
		{Name: "Zero Qty", Type: "cloud", AllocationMode: enums.AllocationModeShared, Quantity: &zero},
		{Name: "Exclusive Qty", Type: "physical", AllocationMode: enums.AllocationModeExclusive, Quantity: &five},
	}
	for i, input := range cases {
		if _, err := svc.Create(ctx, input); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestUpdateQuantityRecheckedAgainstUsage(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	ten := 10
	resource, err := svc.Create(ctx, CreateInput{
		Name:           "Confluence",
		Type:           "cloud",
		AllocationMode: enums.AllocationModeShared,
		Quantity:       &ten,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	seedActiveAssignment(t, db, resource.ID, 4)
	seedActiveAssignment(t, db, resource.ID, 3)

	five := 5
	if _, err := svc.Update(ctx, resource.ID, UpdateInput{Quantity: &five}); err == nil {
		t.Fatal("expected conflict shrinking below usage")
	}

	eight := 8
	updated, err := svc.Update(ctx, resource.ID, UpdateInput{Quantity: &eight})
	if err != nil {
		t.Fatalf("shrink to 8: %v", err)
	}
	if updated.Quantity != 8 {
		t.Fatalf("quantity = %d, want 8", updated.Quantity)
	}

	unlimited := -1
	if _, err := svc.Update(ctx, resource.ID, UpdateInput{Quantity: &unlimited}); err != nil {
		t.Fatalf("lift cap: %v", err)
	}
}

func TestUpdateModeBlockedWhileActive(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	resource, err := svc.Create(ctx, CreateInput{
		Name:           "Test Bench",
		Type:           "equipment",
		AllocationMode: enums.AllocationModeExclusive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	seedActiveAssignment(t, db, resource.ID, 1)

	shared := enums.AllocationModeShared
	_, err = svc.Update(ctx, resource.ID, UpdateInput{AllocationMode: &shared})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSetStatusRetire(t *testing.T) {
	t.Parallel()
	svc, db, events := newTestService(t)
	ctx := context.Background()

	resource, err := svc.Create(ctx, CreateInput{
		Name:           "Old Laptop",
		Type:           "physical",
		AllocationMode: enums.AllocationModeExclusive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	grant := seedActiveAssignment(t, db, resource.ID, 1)
	if _, err := svc.SetStatus(ctx, resource.ID, enums.ResourceStatusReturned, nil, ""); err == nil {
		t.Fatal("expected conflict while assignment active")
	}

	if err := db.Model(&models.Assignment{}).Where("id = ?", grant).Update("status", enums.AssignmentStatusReturned).Error; err != nil {
		t.Fatalf("close assignment: %v", err)
	}
	retired, err := svc.SetStatus(ctx, resource.ID, enums.ResourceStatusReturned, nil, "")
	if err != nil {
		t.Fatalf("retire: %v", err)
	}
	if retired.Status != enums.ResourceStatusReturned {
		t.Fatalf("status = %s, want returned", retired.Status)
	}
	last := events.events[len(events.events)-1]
	if last.EventType != enums.EventResourceRetired {
		t.Fatalf("event type = %s, want resource_retired", last.EventType)
	}

	// Same status twice is a no-op.
	if _, err := svc.SetStatus(ctx, resource.ID, enums.ResourceStatusReturned, nil, ""); err != nil {
		t.Fatalf("idempotent retire: %v", err)
	}
}

func TestDeleteOnlyWithoutHistory(t *testing.T) {
	t.Parallel()
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	resource, err := svc.Create(ctx, CreateInput{
		Name:           "Typo Entry",
		Type:           "cloud",
		AllocationMode: enums.AllocationModeShared,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	grant := seedActiveAssignment(t, db, resource.ID, 1)
	if err := svc.Delete(ctx, resource.ID); err == nil {
		t.Fatal("expected conflict with history")
	}

	// Even closed history keeps the entry undeletable.
	if err := db.Model(&models.Assignment{}).Where("id = ?", grant).Update("status", enums.AssignmentStatusReturned).Error; err != nil {
		t.Fatalf("close assignment: %v", err)
	}
	if err := svc.Delete(ctx, resource.ID); err == nil {
		t.Fatal("expected conflict with closed history")
	}

	clean, err := svc.Create(ctx, CreateInput{
		Name:           "Fresh Entry",
		Type:           "cloud",
		AllocationMode: enums.AllocationModeShared,
	})
	if err != nil {
		t.Fatalf("create clean: %v", err)
	}
	if err := svc.Delete(ctx, clean.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, clean.ID); err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestListFilters(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, CreateInput{Name: "Cloud", Type: "cloud", AllocationMode: enums.AllocationModeShared}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Laptop", Type: "physical", AllocationMode: enums.AllocationModeExclusive}); err != nil {
		t.Fatalf("create laptop: %v", err)
	}

	cloudType := "cloud"
	page, err := svc.List(ctx, ListParams{Type: &cloudType, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 cloud resources, got %d", len(page.Items))
	}

	exclusive := enums.AllocationModeExclusive
	modePage, err := svc.List(ctx, ListParams{Mode: &exclusive, Limit: 10})
	if err != nil {
		t.Fatalf("list by mode: %v", err)
	}
	if len(modePage.Items) != 1 {
		t.Fatalf("expected 1 exclusive resource, got %d", len(modePage.Items))
	}
}
