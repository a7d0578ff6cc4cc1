package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/config"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

type stubRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (s *stubRepo) FetchUnpublished(limit int) ([]models.OutboxEvent, error) {
	if limit < len(s.events) {
		return s.events[:limit], nil
	}
	return s.events, nil
}

func (s *stubRepo) MarkPublished(id uuid.UUID) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubRepo) MarkFailed(id uuid.UUID, _ error) error {
	s.failed = append(s.failed, id)
	return nil
}

type stubDLQ struct {
	entries []models.OutboxDLQ
}

func (s *stubDLQ) Insert(_ context.Context, entry models.OutboxDLQ) error {
	s.entries = append(s.entries, entry)
	return nil
}

type stubPublisher struct {
	err        error
	messages   [][]byte
	attributes []map[string]string
}

func (s *stubPublisher) Publish(_ context.Context, data []byte, attributes map[string]string) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, data)
	s.attributes = append(s.attributes, attributes)
	return nil
}

type stubDedup struct {
	seen    map[uuid.UUID]bool
	deleted []uuid.UUID
}

func (s *stubDedup) CheckAndMarkProcessed(_ context.Context, _ string, eventID uuid.UUID) (bool, error) {
	if s.seen == nil {
		s.seen = map[uuid.UUID]bool{}
	}
	if s.seen[eventID] {
		return true, nil
	}
	s.seen[eventID] = true
	return false, nil
}

func (s *stubDedup) Delete(_ context.Context, _ string, eventID uuid.UUID) error {
	delete(s.seen, eventID)
	s.deleted = append(s.deleted, eventID)
	return nil
}

func newTestService(t *testing.T, repo *stubRepo, dlq *stubDLQ, pub *stubPublisher) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Outbox.BatchSize = 10
	cfg.Outbox.MaxAttempts = 3
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		Repository: repo,
		DLQ:        dlq,
		Publisher:  pub,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func makeEvent(t *testing.T, attempts int) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"hello": "world"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventAssignmentCreated,
		AggregateType: enums.AggregateAssignment,
		AggregateID:   uuid.New(),
		Payload:       payload,
		AttemptCount:  attempts,
	}
}

func TestDrainPublishesAndMarks(t *testing.T) {
	t.Parallel()
	repo := &stubRepo{events: []models.OutboxEvent{makeEvent(t, 0), makeEvent(t, 1)}}
	dlq := &stubDLQ{}
	pub := &stubPublisher{}
	svc := newTestService(t, repo, dlq, pub)

	if err := svc.drainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(pub.messages) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.messages))
	}
	if len(repo.published) != 2 {
		t.Fatalf("marked %d published, want 2", len(repo.published))
	}
	if len(dlq.entries) != 0 {
		t.Fatalf("unexpected dlq entries: %d", len(dlq.entries))
	}
	if pub.attributes[0]["event_type"] != enums.EventAssignmentCreated.String() {
		t.Fatalf("attributes = %v", pub.attributes[0])
	}
}

func TestDrainMarksFailureAndRetries(t *testing.T) {
	t.Parallel()
	event := makeEvent(t, 0)
	repo := &stubRepo{events: []models.OutboxEvent{event}}
	dlq := &stubDLQ{}
	pub := &stubPublisher{err: errors.New("broker unavailable")}
	svc := newTestService(t, repo, dlq, pub)

	if err := svc.drainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(repo.failed) != 1 || repo.failed[0] != event.ID {
		t.Fatalf("failed marks = %v, want [%s]", repo.failed, event.ID)
	}
	if len(repo.published) != 0 {
		t.Fatalf("nothing should publish, got %v", repo.published)
	}
	if len(dlq.entries) != 0 {
		t.Fatal("failure below the attempt budget must not park")
	}
}

func TestDrainParksExhaustedEvent(t *testing.T) {
	t.Parallel()
	lastErr := "broker unavailable"
	event := makeEvent(t, 3)
	event.LastError = &lastErr
	repo := &stubRepo{events: []models.OutboxEvent{event}}
	dlq := &stubDLQ{}
	pub := &stubPublisher{}
	svc := newTestService(t, repo, dlq, pub)

	if err := svc.drainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(pub.messages) != 0 {
		t.Fatal("exhausted event must not publish")
	}
	if len(dlq.entries) != 1 {
		t.Fatalf("dlq entries = %d, want 1", len(dlq.entries))
	}
	entry := dlq.entries[0]
	if entry.OutboxEventID != event.ID || entry.ErrorReason != lastErr || entry.AttemptCount != 3 {
		t.Fatalf("unexpected dlq entry: %+v", entry)
	}
	// Parked events leave the poll loop.
	if len(repo.published) != 1 || repo.published[0] != event.ID {
		t.Fatalf("parked event not retired: %v", repo.published)
	}
}

func TestDrainSkipsEventAlreadyMarkedProcessed(t *testing.T) {
	t.Parallel()
	event := makeEvent(t, 1)
	repo := &stubRepo{events: []models.OutboxEvent{event}}
	pub := &stubPublisher{}
	svc := newTestService(t, repo, &stubDLQ{}, pub)

	dedup := &stubDedup{seen: map[uuid.UUID]bool{event.ID: true}}
	svc.dedup = dedup

	if err := svc.drainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(pub.messages) != 0 {
		t.Fatal("already-processed event must not publish again")
	}
	if len(repo.published) != 1 || repo.published[0] != event.ID {
		t.Fatalf("row not retired: %v", repo.published)
	}
}

func TestDrainClearsDedupMarkerOnPublishFailure(t *testing.T) {
	t.Parallel()
	event := makeEvent(t, 0)
	repo := &stubRepo{events: []models.OutboxEvent{event}}
	pub := &stubPublisher{err: errors.New("broker unavailable")}
	svc := newTestService(t, repo, &stubDLQ{}, pub)

	dedup := &stubDedup{}
	svc.dedup = dedup

	if err := svc.drainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(dedup.deleted) != 1 || dedup.deleted[0] != event.ID {
		t.Fatalf("marker not cleared: %v", dedup.deleted)
	}
	if dedup.seen[event.ID] {
		t.Fatal("event must be retryable after a failed publish")
	}
}

func TestDrainStopsOnCancelledContext(t *testing.T) {
	t.Parallel()
	repo := &stubRepo{events: []models.OutboxEvent{makeEvent(t, 0)}}
	svc := newTestService(t, repo, &stubDLQ{}, &stubPublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.drainOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
