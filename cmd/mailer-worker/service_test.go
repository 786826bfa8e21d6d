package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/quadworks/storefront/pkg/config"
	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
	"github.com/quadworks/storefront/pkg/logger"
	"github.com/quadworks/storefront/pkg/mailer"
	"github.com/quadworks/storefront/pkg/metrics"
)

type stubOutbox struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    map[uuid.UUID]string
}

func newStubOutbox(events ...models.OutboxEvent) *stubOutbox {
	return &stubOutbox{events: events, failed: map[uuid.UUID]string{}}
}

func (s *stubOutbox) FetchUnpublished(ctx context.Context, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	events := s.events
	s.events = nil
	return events, nil
}

func (s *stubOutbox) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubOutbox) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	s.failed[id] = cause
	return nil
}

type stubComposer struct {
	messages []mailer.Message
	err      error
}

func (s stubComposer) Compose(event *models.OutboxEvent) ([]mailer.Message, error) {
	return s.messages, s.err
}

type stubSender struct {
	failures int
	calls    int
}

func (s *stubSender) Send(ctx context.Context, msg mailer.Message) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("smtp unavailable")
	}
	return nil
}

func testService(t *testing.T, outboxSrc outboxSource, composer messageComposer, sender mailer.Sender) (*Service, *metrics.Mailer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Outbox = config.OutboxConfig{BatchSize: 10, PollIntervalMS: 10, MaxAttempts: 5}

	workerMetrics := metrics.NewMailer()
	service, err := NewService(ServiceParams{
		Config:   cfg,
		Logger:   logger.New(logger.Options{ServiceName: "mailer-test", Level: zerolog.Disabled, Output: io.Discard}),
		Outbox:   outboxSrc,
		Composer: composer,
		Sender:   sender,
		Metrics:  workerMetrics,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service, workerMetrics
}

func orderCreatedEvent() models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.OutboxEventOrderCreated,
		AggregateType: enums.OutboxAggregateOrder,
		AggregateID:   uuid.New(),
	}
}

func TestDrainOncePublishesAfterSend(t *testing.T) {
	event := orderCreatedEvent()
	outboxSrc := newStubOutbox(event)
	sender := &stubSender{}
	composer := stubComposer{messages: []mailer.Message{
		{To: []string{"ana@example.com"}, Subject: "Order confirmed"},
		{To: []string{"ops@example.com"}, Subject: "New order"},
	}}

	service, workerMetrics := testService(t, outboxSrc, composer, sender)
	processed, err := service.DrainOnce(context.Background())
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if processed != 1 {
		t.Fatalf("expected 1 processed, got %d", processed)
	}
	if len(outboxSrc.published) != 1 || outboxSrc.published[0] != event.ID {
		t.Fatalf("expected event published, got %v", outboxSrc.published)
	}
	if sender.calls != 2 {
		t.Fatalf("expected 2 sends, got %d", sender.calls)
	}
	if got := testutil.ToFloat64(workerMetrics.EmailsSent); got != 2 {
		t.Fatalf("expected 2 emails counted, got %v", got)
	}
}

func TestDrainOnceRetriesTransientSendFailure(t *testing.T) {
	event := orderCreatedEvent()
	outboxSrc := newStubOutbox(event)
	sender := &stubSender{failures: 2}
	composer := stubComposer{messages: []mailer.Message{{To: []string{"ana@example.com"}}}}

	service, _ := testService(t, outboxSrc, composer, sender)
	if _, err := service.DrainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(outboxSrc.published) != 1 {
		t.Fatalf("expected publish after retries, got failed=%v", outboxSrc.failed)
	}
	if sender.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", sender.calls)
	}
}

func TestDrainOnceMarksFailedWhenRetriesExhausted(t *testing.T) {
	event := orderCreatedEvent()
	outboxSrc := newStubOutbox(event)
	sender := &stubSender{failures: 100}
	composer := stubComposer{messages: []mailer.Message{{To: []string{"ana@example.com"}}}}

	service, workerMetrics := testService(t, outboxSrc, composer, sender)
	if _, err := service.DrainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(outboxSrc.published) != 0 {
		t.Fatalf("expected no publish, got %v", outboxSrc.published)
	}
	if _, ok := outboxSrc.failed[event.ID]; !ok {
		t.Fatalf("expected event marked failed")
	}
	if got := testutil.ToFloat64(workerMetrics.EmailsFailed); got != 1 {
		t.Fatalf("expected 1 failed email counted, got %v", got)
	}
}

func TestDrainOnceMarksFailedOnComposeError(t *testing.T) {
	event := orderCreatedEvent()
	outboxSrc := newStubOutbox(event)
	sender := &stubSender{}
	composer := stubComposer{err: errors.New("unknown event type")}

	service, workerMetrics := testService(t, outboxSrc, composer, sender)
	if _, err := service.DrainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if cause := outboxSrc.failed[event.ID]; cause == "" {
		t.Fatalf("expected failure cause recorded")
	}
	if sender.calls != 0 {
		t.Fatalf("expected no send on compose error, got %d", sender.calls)
	}
	if got := testutil.ToFloat64(workerMetrics.EventsProcessed.WithLabelValues("order.created", "failed")); got != 1 {
		t.Fatalf("expected failed outcome counted, got %v", got)
	}
}
