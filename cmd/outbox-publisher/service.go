package main

import (
	"context"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/config"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/metrics"
)

const (
	defaultBatchSize      = 50
	defaultPollMs         = 500
	defaultMaxAttempts    = 10
	defaultPublishTimeout = 15 * time.Second
)

type outboxRepository interface {
	FetchUnpublished(limit int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type dlqSink interface {
	Insert(ctx context.Context, entry models.OutboxDLQ) error
}

type publisher interface {
	Publish(ctx context.Context, data []byte, attributes map[string]string) error
}

type dedupGuard interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// dedupConsumer scopes the publish-once markers in redis.
const dedupConsumer = "outbox-publisher"

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Repository outboxRepository
	DLQ        dlqSink
	Publisher  publisher
	Dedup      dedupGuard
	Metrics    *metrics.EngineMetrics
}

// Service drains the outbox table into the activity topic. Events that keep
// failing past the attempt budget move to the DLQ table and stop retrying.
type Service struct {
	cfg          *config.Config
	logg         *logger.Logger
	repo         outboxRepository
	dlq          dlqSink
	pub          publisher
	dedup        dedupGuard
	metrics      *metrics.EngineMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.DLQ == nil {
		return nil, errors.New("dlq repository is required")
	}
	if params.Publisher == nil {
		return nil, errors.New("publisher is required")
	}

	batch := params.Config.Outbox.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	pollMs := params.Config.Outbox.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		cfg:          params.Config,
		logg:         params.Logger,
		repo:         params.Repository,
		dlq:          params.DLQ,
		pub:          params.Publisher,
		dedup:        params.Dedup,
		metrics:      params.Metrics,
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
	}, nil
}

// Run polls until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.drainOnce(ctx); err != nil {
				s.logg.Error(ctx, "outbox drain failed", err)
			}
		}
	}
}

func (s *Service) drainOnce(ctx context.Context) error {
	events, err := s.repo.FetchUnpublished(s.batchSize)
	if err != nil {
		return err
	}

	for i := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.handleEvent(ctx, events[i])
	}
	return nil
}

func (s *Service) handleEvent(ctx context.Context, event models.OutboxEvent) {
	evtCtx := s.logg.WithFields(ctx, map[string]any{
		"event_id":       event.ID.String(),
		"event_type":     event.EventType.String(),
		"aggregate_type": event.AggregateType.String(),
		"aggregate_id":   event.AggregateID.String(),
		"attempt":        event.AttemptCount,
	})

	if event.AttemptCount >= s.maxAttempts {
		s.parkEvent(evtCtx, event)
		return
	}

	if s.dedup != nil {
		seen, err := s.dedup.CheckAndMarkProcessed(ctx, dedupConsumer, event.ID)
		if err != nil {
			// Guard unavailable: fall through and publish. Delivery stays
			// at-least-once either way.
			s.logg.Warn(s.logg.WithFields(evtCtx, map[string]any{"dedup_error": err.Error()}), "outbox dedup check failed")
		} else if seen {
			// Published on an earlier poll but MarkPublished failed; retire the
			// row without sending the event again.
			if err := s.repo.MarkPublished(event.ID); err != nil {
				s.logg.Error(evtCtx, "mark outbox event published", err)
				return
			}
			s.metrics.IncOutboxPublished()
			s.logg.Info(evtCtx, "outbox event already published, row retired")
			return
		}
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	err := s.pub.Publish(publishCtx, event.Payload, map[string]string{
		"event_id":       event.ID.String(),
		"event_type":     event.EventType.String(),
		"aggregate_type": event.AggregateType.String(),
		"aggregate_id":   event.AggregateID.String(),
	})
	if err != nil {
		if s.dedup != nil {
			// Clear the processed marker so the retry actually publishes.
			if delErr := s.dedup.Delete(ctx, dedupConsumer, event.ID); delErr != nil {
				s.logg.Error(evtCtx, "clear outbox dedup marker", delErr)
			}
		}
		s.metrics.IncOutboxFailed()
		s.logg.Error(evtCtx, "outbox publish failed", err)
		if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
			s.logg.Error(evtCtx, "mark outbox event failed", markErr)
		}
		return
	}

	if err := s.repo.MarkPublished(event.ID); err != nil {
		// The processed marker keeps the next poll from sending a duplicate;
		// only the row update retries. Without a guard, downstream consumers
		// must dedupe on event_id.
		s.logg.Error(evtCtx, "mark outbox event published", err)
		return
	}
	s.metrics.IncOutboxPublished()
	s.logg.Info(evtCtx, "outbox event published")
}

// parkEvent moves an exhausted event to the DLQ and retires it from the poll
// loop.
func (s *Service) parkEvent(ctx context.Context, event models.OutboxEvent) {
	reason := "attempt budget exhausted"
	if event.LastError != nil && *event.LastError != "" {
		reason = *event.LastError
	}

	err := s.dlq.Insert(ctx, models.OutboxDLQ{
		ID:            uuid.New(),
		OutboxEventID: event.ID,
		EventType:     event.EventType.String(),
		AggregateType: event.AggregateType.String(),
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		ErrorReason:   reason,
		AttemptCount:  event.AttemptCount,
	})
	if err != nil {
		s.logg.Error(ctx, "park outbox event in dlq", err)
		return
	}
	if err := s.repo.MarkPublished(event.ID); err != nil {
		s.logg.Error(ctx, "retire parked outbox event", err)
		return
	}
	s.metrics.IncOutboxFailed()
	s.logg.Warn(ctx, "outbox event parked in dlq")
}

type gcpPublisher struct {
	pub *gcppubsub.Publisher
}

func newGCPPublisher(pub *gcppubsub.Publisher) *gcpPublisher {
	return &gcpPublisher{pub: pub}
}

func (g *gcpPublisher) Publish(ctx context.Context, data []byte, attributes map[string]string) error {
	if g.pub == nil {
		return errors.New("publisher unavailable")
	}
	result := g.pub.Publish(ctx, &gcppubsub.Message{Data: data, Attributes: attributes})
	_, err := result.Get(ctx)
	return err
}
