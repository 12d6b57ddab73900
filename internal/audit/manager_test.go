package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memorySink struct {
	mu      sync.Mutex
	batches [][]Entry
	err     error
}

func (s *memorySink) Write(_ context.Context, batch []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]Entry(nil), batch...))
	return s.err
}

func (s *memorySink) entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Entry
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func (s *memorySink) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManagerFlushesFullBatch(t *testing.T) {
	sink := &memorySink{}
	m := NewManager(sink, Config{Workers: 1, BatchSize: 3, FlushInterval: time.Hour}, discardLogger())
	m.Start()
	defer m.Shutdown(context.Background())

	for i := 0; i < 3; i++ {
		m.Record(Entry{Action: "vehicle.create", StatusCode: 201})
	}

	require.Eventually(t, func() bool { return sink.batchCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, sink.entries(), 3)
}

func TestManagerFlushesOnInterval(t *testing.T) {
	sink := &memorySink{}
	m := NewManager(sink, Config{Workers: 1, BatchSize: 100, FlushInterval: 10 * time.Millisecond}, discardLogger())
	m.Start()
	defer m.Shutdown(context.Background())

	m.Record(Entry{Action: "user.delete", StatusCode: 200})

	require.Eventually(t, func() bool { return len(sink.entries()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestManagerShutdownDrainsQueue(t *testing.T) {
	sink := &memorySink{}
	m := NewManager(sink, Config{Workers: 2, BatchSize: 50, FlushInterval: time.Hour}, discardLogger())
	m.Start()

	for i := 0; i < 7; i++ {
		m.Record(Entry{Action: "pass.redeem", StatusCode: 200})
	}
	m.Shutdown(context.Background())

	assert.Len(t, sink.entries(), 7)
	assert.Zero(t, m.DirectWrites())
}

func TestManagerWritesDirectAfterShutdown(t *testing.T) {
	sink := &memorySink{}
	m := NewManager(sink, Config{}, discardLogger())
	m.Start()
	m.Shutdown(context.Background())

	m.Record(Entry{Action: "session.revoke", StatusCode: 204})

	assert.Len(t, sink.entries(), 1)
	assert.Equal(t, int64(1), m.DirectWrites())
}

func TestManagerRunStopsWithContext(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	m := NewManager(sink, Config{Workers: 1, BatchSize: 10, FlushInterval: time.Hour}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	m.Record(Entry{Action: "vehicle.archive", StatusCode: 200})
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}
	assert.Len(t, sink.entries(), 1)
}

func TestZapSinkWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewZapSinkFromLogger(zap.New(core))

	err := sink.Write(context.Background(), []Entry{
		{Action: "vehicle.create", Method: "POST", Path: "/api/vehicles", StatusCode: 201, UserID: "admin-1", Role: "ADMIN", Target: "veh-1"},
		{Action: "user.create", Method: "POST", Path: "/api/users", StatusCode: 403, UserID: "guard-1", Role: "GUARD"},
	})
	require.NoError(t, err)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "veh-1", entries[0].ContextMap()["target"])
	assert.Equal(t, "audit", entries[0].ContextMap()["stream"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(403), entries[1].ContextMap()["status_code"])
}

func TestNewZapSinkEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	sink := NewZapSink(&buf)

	require.NoError(t, sink.Write(context.Background(), []Entry{{Action: "pass.issue", StatusCode: 200}}))
	require.NoError(t, sink.Sync())

	line := strings.TrimSpace(buf.String())
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "pass.issue", decoded["action"])
	assert.Equal(t, "audit", decoded["msg"])
}
