package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Config sizes the manager.
type Config struct {
	Workers       int
	BatchSize     int
	FlushInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 20
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = time.Second
	}
	return c
}

// Manager batches entries and hands them to the sink. Record never blocks
// the request path: when the buffer is full or the manager is stopped, the
// entry is written straight to the sink.
type Manager struct {
	sink   Sink
	cfg    Config
	logger *slog.Logger

	input   chan Entry
	batches chan []Entry
	stop    chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup

	// mu keeps Record from queueing after the aggregator drained.
	mu      sync.RWMutex
	stopped bool

	direct atomic.Int64
}

// NewManager creates a manager. Call Start (or Run) before recording.
func NewManager(sink Sink, cfg Config, logger *slog.Logger) *Manager {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sink:    sink,
		cfg:     cfg,
		logger:  logger.With("component", "audit"),
		input:   make(chan Entry, cfg.Workers*cfg.BatchSize*2),
		batches: make(chan []Entry, cfg.Workers*2),
		stop:    make(chan struct{}),
	}
}

// Start launches the aggregator and the workers.
func (m *Manager) Start() {
	m.startOnce.Do(func() {
		m.wg.Add(1)
		go m.aggregate()
		for i := 0; i < m.cfg.Workers; i++ {
			m.wg.Add(1)
			go m.work(i)
		}
	})
}

// Run starts the manager, waits for ctx and then drains.
func (m *Manager) Run(ctx context.Context) error {
	m.Start()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.Shutdown(shutdownCtx)
	return nil
}

// Record queues an entry.
func (m *Manager) Record(entry Entry) {
	m.mu.RLock()
	queued := false
	if !m.stopped {
		select {
		case m.input <- entry:
			queued = true
		default:
		}
	}
	m.mu.RUnlock()

	if !queued {
		m.writeDirect(entry)
	}
}

// Shutdown flushes queued entries and waits for the workers or ctx.
func (m *Manager) Shutdown(ctx context.Context) {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		m.stopped = true
		close(m.stop)
		m.mu.Unlock()

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("audit manager stopped", "direct_writes", m.direct.Load())
		case <-ctx.Done():
			m.logger.Warn("audit manager shutdown interrupted")
		}
	})
}

// DirectWrites counts entries that bypassed batching.
func (m *Manager) DirectWrites() int64 {
	return m.direct.Load()
}

func (m *Manager) aggregate() {
	defer m.wg.Done()

	var (
		batch  []Entry
		timer  *time.Timer
		timerC <-chan time.Time
	)
	flush := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
		if len(batch) == 0 {
			return
		}
		m.batches <- batch
		batch = nil
	}
	defer close(m.batches)

	for {
		select {
		case entry := <-m.input:
			batch = append(batch, entry)
			if len(batch) >= m.cfg.BatchSize {
				flush()
			} else if timer == nil {
				timer = time.NewTimer(m.cfg.FlushInterval)
				timerC = timer.C
			}
		case <-timerC:
			timer, timerC = nil, nil
			flush()
		case <-m.stop:
			for {
				select {
				case entry := <-m.input:
					batch = append(batch, entry)
					if len(batch) >= m.cfg.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (m *Manager) work(id int) {
	defer m.wg.Done()
	for batch := range m.batches {
		if err := m.sink.Write(context.Background(), batch); err != nil {
			m.logger.Error("audit batch write failed", "worker", id, "size", len(batch), "error", err)
		}
	}
}

func (m *Manager) writeDirect(entry Entry) {
	m.direct.Add(1)
	if err := m.sink.Write(context.Background(), []Entry{entry}); err != nil {
		m.logger.Error("audit direct write failed", "action", entry.Action, "error", err)
	}
}
