package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskflow/backend/internal/infrastructure/buffer"
)

// Monitor probes the task store, the session store and the local buffer on an
// interval and caches the last observed status. The buffer processor consults
// TaskStoreUp to decide between direct writes and buffered ones.
type Monitor struct {
	taskStore    *pgxpool.Pool
	sessionStore *redislib.Client
	buffer       *buffer.Store

	mu       sync.RWMutex
	status   Status
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(taskStore *pgxpool.Pool, sessionStore *redislib.Client, buf *buffer.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		taskStore:    taskStore,
		sessionStore: sessionStore,
		buffer:       buf,
		interval:     interval,
		stopCh:       make(chan struct{}),
		logger:       logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

// TaskStoreUp reports whether the primary task store answered the last probe.
// Session store health is deliberately not part of this answer: task writes
// can proceed while Redis is down.
func (m *Monitor) TaskStoreUp() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.TaskStore
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	bufferOK, pending := m.checkBuffer()
	status := Status{
		TaskStore:    m.checkTaskStore(),
		SessionStore: m.checkSessionStore(),
		Buffer:       bufferOK,
		PendingOps:   pending,
		CheckedAt:    time.Now(),
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	if prev.TaskStore && !status.TaskStore {
		m.logger.Warn("task store went offline, mutations will buffer")
	}
	if !prev.TaskStore && status.TaskStore {
		m.logger.Info("task store back online", zap.Int("pending_ops", pending))
	}
}

func (m *Monitor) checkTaskStore() bool {
	if m.taskStore == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.taskStore.Ping(ctx) == nil
}

func (m *Monitor) checkSessionStore() bool {
	if m.sessionStore == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.sessionStore.Ping(ctx).Err() == nil
}

func (m *Monitor) checkBuffer() (bool, int) {
	if m.buffer == nil {
		return false, 0
	}
	size, err := m.buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
