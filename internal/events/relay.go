package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/visitor-console/internal/persistence"
)

// Default relay settings.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultBatchSize    = 50
	DefaultMaxAttempts  = 5

	markTimeout = 5 * time.Second
)

// RelayConfig tunes the outbox relay.
type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

func (c RelayConfig) withDefaults() RelayConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}

// Observer is notified about each delivery outcome.
type Observer interface {
	OutboxDelivered(topic string)
	OutboxFailed(topic string, final bool)
}

// Relay moves outbox messages to the producer.
type Relay struct {
	outbox   persistence.OutboxRepository
	producer Producer
	config   RelayConfig
	now      func() time.Time
	logger   *slog.Logger
	observer Observer
}

// RelayOption customises a Relay.
type RelayOption func(*Relay)

// WithObserver attaches delivery metrics.
func WithObserver(o Observer) RelayOption {
	return func(r *Relay) { r.observer = o }
}

// WithRelayClock overrides the clock used for processed timestamps.
func WithRelayClock(now func() time.Time) RelayOption {
	return func(r *Relay) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRelay builds a relay over the outbox repository.
func NewRelay(outbox persistence.OutboxRepository, producer Producer, cfg RelayConfig, logger *slog.Logger, opts ...RelayOption) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Relay{
		outbox:   outbox,
		producer: producer,
		config:   cfg.withDefaults(),
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.With("component", "outbox_relay"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls the outbox until ctx is cancelled. It always returns nil on
// cancellation so it can sit in an errgroup next to the HTTP server.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.outbox == nil || r.producer == nil {
		return fmt.Errorf("outbox relay is not configured")
	}
	if err := r.Requeue(ctx); err != nil {
		return err
	}
	r.logger.Info("outbox relay started",
		"poll_interval", r.config.PollInterval.String(),
		"batch_size", r.config.BatchSize,
	)

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopping")
			return nil
		case <-ticker.C:
			if _, err := r.ProcessBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error("outbox batch failed", "error", err)
			}
		}
	}
}

// Requeue hands messages claimed by a previous run back to the queue.
func (r *Relay) Requeue(ctx context.Context) error {
	requeued, err := r.outbox.RequeueOutbox(ctx)
	if err != nil {
		return fmt.Errorf("requeue outbox: %w", err)
	}
	if requeued > 0 {
		r.logger.Warn("requeued interrupted outbox messages", "count", requeued)
	}
	return nil
}

// ProcessBatch claims one batch and publishes it. It returns the number of
// messages delivered.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := r.outbox.ClaimOutbox(ctx, r.config.BatchSize, r.config.MaxAttempts)
	if err != nil {
		return 0, fmt.Errorf("claim outbox: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}
	r.logger.Debug("outbox batch claimed", "count", len(messages))

	delivered := 0
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			// Requeue what is left so the next run picks it up.
			r.release(msg, "relay stopped")
			continue
		}
		if err := r.deliver(ctx, msg); err != nil {
			r.logger.Warn("outbox delivery failed", "id", msg.ID, "topic", msg.Topic, "error", err)
			continue
		}
		delivered++
	}
	return delivered, ctx.Err()
}

func (r *Relay) deliver(ctx context.Context, msg persistence.OutboxMessage) error {
	sendErr := r.producer.SendMessage(ctx, msg.Topic, []byte(msg.Key), msg.Payload)

	// Marks outlive ctx so a stopping relay never leaves a message PROCESSING.
	markCtx, cancel := context.WithTimeout(context.Background(), markTimeout)
	defer cancel()

	if sendErr == nil {
		if err := r.outbox.MarkOutboxDone(markCtx, msg.ID, r.now()); err != nil {
			return fmt.Errorf("mark outbox %d done: %w", msg.ID, err)
		}
		if r.observer != nil {
			r.observer.OutboxDelivered(msg.Topic)
		}
		return nil
	}

	if ctx.Err() != nil {
		r.release(msg, "relay stopped during send")
		return sendErr
	}

	attempts := msg.Attempts + 1
	final := attempts >= r.config.MaxAttempts
	if final {
		r.logger.Error("outbox message parked", "id", msg.ID, "attempts", attempts, "error", sendErr)
	}
	if err := r.outbox.MarkOutboxFailed(markCtx, msg.ID, attempts, sendErr.Error(), final); err != nil {
		return fmt.Errorf("mark outbox %d failed: %w (send error: %v)", msg.ID, err, sendErr)
	}
	if r.observer != nil {
		r.observer.OutboxFailed(msg.Topic, final)
	}
	return sendErr
}

// release puts a claimed message back to PENDING without spending an attempt.
func (r *Relay) release(msg persistence.OutboxMessage, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), markTimeout)
	defer cancel()
	if err := r.outbox.MarkOutboxFailed(ctx, msg.ID, msg.Attempts, reason, false); err != nil {
		r.logger.Error("outbox release failed", "id", msg.ID, "error", err)
	}
}
