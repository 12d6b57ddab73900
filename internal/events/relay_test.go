package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/visitor-console/internal/persistence"
	"github.com/example/visitor-console/internal/persistence/memory"
	"github.com/example/visitor-console/internal/testfixtures"
)

type recordingProducer struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
}

func (p *recordingProducer) SendMessage(_ context.Context, topic string, key, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failFor[string(key)]; err != nil {
		return err
	}
	p.sent = append(p.sent, topic+"/"+string(key))
	return nil
}

func (p *recordingProducer) Close() error { return nil }

type countingObserver struct {
	delivered int
	failed    int
	parked    int
}

func (o *countingObserver) OutboxDelivered(string) { o.delivered++ }

func (o *countingObserver) OutboxFailed(_ string, final bool) {
	o.failed++
	if final {
		o.parked++
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedVisitorLogs(t *testing.T, store *memory.Storage, ids ...string) {
	t.Helper()
	for _, id := range ids {
		err := store.PutVisitorLog(context.Background(), persistence.VisitorLog{
			ID:     id,
			Name:   "Visitor " + id,
			TimeIn: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
}

func TestRelayProcessBatchDeliversAndMarksDone(t *testing.T) {
	store := memory.New(memory.WithOutboxTopic("console.logs"))
	seedVisitorLogs(t, store, "qr-1", "qr-2")

	producer := &recordingProducer{}
	observer := &countingObserver{}
	processedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	relay := NewRelay(store, producer, RelayConfig{BatchSize: 10}, quietLogger(),
		WithObserver(observer),
		WithRelayClock(func() time.Time { return processedAt }),
	)

	delivered, err := relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
	assert.Equal(t, []string{"console.logs/qr-1", "console.logs/qr-2"}, producer.sent)
	assert.Equal(t, 2, observer.delivered)

	for _, msg := range store.Outbox() {
		assert.Equal(t, persistence.OutboxDone, msg.Status)
		require.NotNil(t, msg.ProcessedAt)
		assert.True(t, msg.ProcessedAt.Equal(processedAt))
	}

	delivered, err = relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
}

func TestRelayRequeuesThenParksFailingMessage(t *testing.T) {
	store := memory.New(memory.WithOutboxTopic("console.logs"))
	seedVisitorLogs(t, store, "qr-bad", "qr-good")

	producer := &recordingProducer{failFor: map[string]error{"qr-bad": errors.New("broker down")}}
	observer := &countingObserver{}
	relay := NewRelay(store, producer, RelayConfig{BatchSize: 10, MaxAttempts: 2}, quietLogger(), WithObserver(observer))

	delivered, err := relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	outbox := store.Outbox()
	require.Len(t, outbox, 2)
	assert.Equal(t, persistence.OutboxPending, outbox[0].Status)
	assert.Equal(t, 1, outbox[0].Attempts)
	require.NotNil(t, outbox[0].LastError)
	assert.Contains(t, *outbox[0].LastError, "broker down")

	_, err = relay.ProcessBatch(context.Background())
	require.NoError(t, err)

	outbox = store.Outbox()
	assert.Equal(t, persistence.OutboxFailed, outbox[0].Status)
	assert.Equal(t, 2, outbox[0].Attempts)
	assert.Equal(t, 2, observer.failed)
	assert.Equal(t, 1, observer.parked)

	delivered, err = relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
}

// stoppingProducer cancels the relay context while a send is in flight.
type stoppingProducer struct {
	cancel context.CancelFunc
}

func (p *stoppingProducer) SendMessage(ctx context.Context, _ string, _, _ []byte) error {
	p.cancel()
	<-ctx.Done()
	return ctx.Err()
}

func (p *stoppingProducer) Close() error { return nil }

func TestRelayReleasesMessageInterruptedMidSend(t *testing.T) {
	for _, h := range testfixtures.Harnesses(t) {
		t.Run(h.Name, func(t *testing.T) {
			entry := testfixtures.NewVisitorLogFixture(testfixtures.WithVisitorID("qr-stop")).Persistence()
			require.NoError(t, h.VisitorLogs.PutVisitorLog(context.Background(), entry))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			observer := &countingObserver{}
			stopping := NewRelay(h.Outbox, &stoppingProducer{cancel: cancel}, RelayConfig{BatchSize: 10}, quietLogger(), WithObserver(observer))

			delivered, err := stopping.ProcessBatch(ctx)
			assert.ErrorIs(t, err, context.Canceled)
			assert.Zero(t, delivered)
			assert.Zero(t, observer.failed, "an interrupted send is not a failed attempt")

			producer := &recordingProducer{}
			next := NewRelay(h.Outbox, producer, RelayConfig{BatchSize: 10}, quietLogger())
			delivered, err = next.ProcessBatch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, delivered)
			assert.Equal(t, []string{testfixtures.OutboxTopic + "/qr-stop"}, producer.sent)
		})
	}
}

func TestRelayRequeueRecoversStrandedClaims(t *testing.T) {
	for _, h := range testfixtures.Harnesses(t) {
		t.Run(h.Name, func(t *testing.T) {
			entry := testfixtures.NewVisitorLogFixture(testfixtures.WithVisitorID("qr-crash")).Persistence()
			require.NoError(t, h.VisitorLogs.PutVisitorLog(context.Background(), entry))

			// a claim whose relay died before marking it
			claimed, err := h.Outbox.ClaimOutbox(context.Background(), 10, 5)
			require.NoError(t, err)
			require.Len(t, claimed, 1)

			producer := &recordingProducer{}
			relay := NewRelay(h.Outbox, producer, RelayConfig{BatchSize: 10}, quietLogger())
			delivered, err := relay.ProcessBatch(context.Background())
			require.NoError(t, err)
			assert.Zero(t, delivered)

			require.NoError(t, relay.Requeue(context.Background()))
			delivered, err = relay.ProcessBatch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, delivered)
			assert.Equal(t, []string{testfixtures.OutboxTopic + "/qr-crash"}, producer.sent)
		})
	}
}

func TestRelayRunStopsOnCancel(t *testing.T) {
	store := memory.New(memory.WithOutboxTopic("console.logs"))
	seedVisitorLogs(t, store, "qr-1")

	producer := &recordingProducer{}
	relay := NewRelay(store, producer, RelayConfig{PollInterval: 5 * time.Millisecond}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool {
		outbox := store.Outbox()
		return len(outbox) == 1 && outbox[0].Status == persistence.OutboxDone
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestRelayRunRequiresDependencies(t *testing.T) {
	var relay *Relay
	assert.Error(t, relay.Run(context.Background()))
}

func TestLogProducerHonoursCancelledContext(t *testing.T) {
	producer := NewLogProducer(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := producer.SendMessage(ctx, "topic", []byte("k"), []byte("v"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, producer.SendMessage(context.Background(), "topic", []byte("k"), []byte("v")))
	assert.NoError(t, producer.Close())
}

func TestNewKafkaProducerRequiresBroker(t *testing.T) {
	_, err := NewKafkaProducer(KafkaConfig{Brokers: []string{" ", ""}})
	assert.Error(t, err)

	producer, err := NewKafkaProducer(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	assert.NoError(t, producer.Close())
}
