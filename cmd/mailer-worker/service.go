package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/quadworks/storefront/pkg/config"
	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/logger"
	"github.com/quadworks/storefront/pkg/mailer"
	"github.com/quadworks/storefront/pkg/metrics"
)

const (
	defaultBatchSize   = 50
	defaultPollMs      = 500
	defaultMaxAttempts = 10
	sendRetries        = 3
	retryBaseDelay     = 200 * time.Millisecond
)

type outboxSource interface {
	FetchUnpublished(ctx context.Context, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string) error
}

type messageComposer interface {
	Compose(event *models.OutboxEvent) ([]mailer.Message, error)
}

// ServiceParams bundles the worker's dependencies.
type ServiceParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Outbox   outboxSource
	Composer messageComposer
	Sender   mailer.Sender
	Metrics  *metrics.Mailer
	Now      func() time.Time
}

// Service drains the outbox into outbound email. One row is processed
// at a time; a row is only marked published after every message it
// expands to has been sent.
type Service struct {
	logg         *logger.Logger
	outbox       outboxSource
	composer     messageComposer
	sender       mailer.Sender
	metrics      *metrics.Mailer
	now          func() time.Time
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
	if params.Outbox == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Composer == nil {
		return nil, errors.New("composer is required")
	}
	if params.Sender == nil {
		return nil, errors.New("mail sender is required")
	}
	if params.Metrics == nil {
		return nil, errors.New("metrics are required")
	}

	now := params.Now
	if now == nil {
		now = time.Now
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
		logg:         params.Logger,
		outbox:       params.Outbox,
		composer:     params.Composer,
		sender:       params.Sender,
		metrics:      params.Metrics,
		now:          now,
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
	}, nil
}

// Run polls until the context is cancelled. A full batch triggers an
// immediate re-poll so a backlog drains without waiting out the ticker.
func (s *Service) Run(ctx context.Context) error {
	for {
		processed, err := s.DrainOnce(ctx)
		if err != nil {
			s.logg.Error(ctx, "outbox drain failed", err)
		}
		if processed >= s.batchSize {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// DrainOnce fetches one batch and processes each row independently; a
// failing row is recorded and does not block the rest of the batch.
func (s *Service) DrainOnce(ctx context.Context) (int, error) {
	events, err := s.outbox.FetchUnpublished(ctx, s.batchSize, s.maxAttempts)
	if err != nil {
		return 0, err
	}

	for i := range events {
		event := &events[i]
		evCtx := s.logg.WithFields(ctx, map[string]any{
			"event_id":   event.ID.String(),
			"event_type": event.EventType.String(),
		})

		if err := s.process(ctx, event); err != nil {
			s.metrics.EventsProcessed.WithLabelValues(event.EventType.String(), "failed").Inc()
			s.logg.Error(evCtx, "event delivery failed", err)
			if markErr := s.outbox.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				s.logg.Error(evCtx, "failed to record delivery failure", markErr)
			}
			continue
		}

		s.metrics.EventsProcessed.WithLabelValues(event.EventType.String(), "published").Inc()
		if err := s.outbox.MarkPublished(ctx, event.ID, s.now()); err != nil {
			s.logg.Error(evCtx, "failed to mark event published", err)
		}
	}
	return len(events), nil
}

func (s *Service) process(ctx context.Context, event *models.OutboxEvent) error {
	messages, err := s.composer.Compose(event)
	if err != nil {
		return err
	}

	var sendErr error
	for _, msg := range messages {
		if err := s.sendWithRetry(ctx, msg); err != nil {
			s.metrics.EmailsFailed.Inc()
			sendErr = multierr.Append(sendErr, err)
			continue
		}
		s.metrics.EmailsSent.Inc()
	}
	return sendErr
}

func (s *Service) sendWithRetry(ctx context.Context, msg mailer.Message) error {
	backoff := retry.WithMaxRetries(sendRetries, retry.NewExponential(retryBaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.sender.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
