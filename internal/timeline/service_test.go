package timeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:timeline_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.TimelineEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestRecordAndList(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	actor := uuid.New()

	meta, _ := json.Marshal(map[string]string{"resource_id": uuid.NewString()})
	for i := 0; i < 3; i++ {
		if err := svc.Record(ctx, models.TimelineEvent{
			ActorID:     &actor,
			Title:       "Resource assigned",
			Description: "assignment created",
			Metadata:    meta,
		}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if err := svc.Record(ctx, models.TimelineEvent{Title: "System event"}); err != nil {
		t.Fatalf("record anonymous: %v", err)
	}

	all, err := svc.List(ctx, ListParams{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all.Items) != 4 {
		t.Fatalf("expected 4 events, got %d", len(all.Items))
	}

	mine, err := svc.List(ctx, ListParams{ActorID: &actor, Limit: 10})
	if err != nil {
		t.Fatalf("list by actor: %v", err)
	}
	if len(mine.Items) != 3 {
		t.Fatalf("expected 3 actor events, got %d", len(mine.Items))
	}
	if len(mine.Items[0].Metadata) == 0 {
		t.Fatal("expected metadata to round-trip")
	}
}

func TestRecordRequiresTitle(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc, _ := NewService(NewRepository(db))

	err := svc.Record(context.Background(), models.TimelineEvent{Description: "no title"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc, _ := NewService(NewRepository(db))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := svc.Record(ctx, models.TimelineEvent{Title: "Event"}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	first, err := svc.List(ctx, ListParams{Limit: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Items) != 3 || first.Cursor == "" {
		t.Fatalf("expected 3 items and a cursor, got %d %q", len(first.Items), first.Cursor)
	}

	rest, err := svc.List(ctx, ListParams{Limit: 3, Cursor: first.Cursor})
	if err != nil {
		t.Fatalf("list next: %v", err)
	}
	if len(rest.Items) != 2 || rest.Cursor != "" {
		t.Fatalf("expected final page of 2, got %d %q", len(rest.Items), rest.Cursor)
	}
}
