package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/sirupsen/logrus"

	"shopcart-api/internal/repository/listdoc"
)

// Manager hands out one Synchronizer per signed-in actor, binding lazily on
// first use and releasing on sign-out.
type Manager struct {
	store  listdoc.Repository
	logger *logrus.Logger
	delay  time.Duration

	mu     stdsync.Mutex
	active map[string]*Synchronizer
}

func NewManager(store listdoc.Repository, delay time.Duration, logger *logrus.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		delay:  delay,
		active: make(map[string]*Synchronizer),
	}
}

// ForUser returns the actor's synchronizer, binding a fresh one on first
// use. Binding performs the initial document reads under ctx.
func (m *Manager) ForUser(ctx context.Context, userID string) *Synchronizer {
	m.mu.Lock()
	s, ok := m.active[userID]
	if !ok {
		s = New(m.store, m.delay, m.logger)
		m.active[userID] = s
	}
	m.mu.Unlock()

	if !ok {
		s.Bind(ctx, userID)
	}
	return s
}

// Release flushes and unbinds the actor's synchronizer, dropping it from
// the active set. Called when the actor signs out.
func (m *Manager) Release(ctx context.Context, userID string) {
	m.mu.Lock()
	s, ok := m.active[userID]
	delete(m.active, userID)
	m.mu.Unlock()
	if !ok {
		return
	}
	if err := s.Flush(ctx); err != nil {
		m.logger.WithError(err).WithField("user", userID).Warn("flush on release failed")
	}
	s.Unbind()
}

// FlushAll synchronously flushes every active synchronizer. The shutdown
// path calls it so pending debounced writes are not lost to process exit.
func (m *Manager) FlushAll(ctx context.Context) {
	m.mu.Lock()
	snapshot := make([]*Synchronizer, 0, len(m.active))
	for _, s := range m.active {
		snapshot = append(snapshot, s)
	}
	m.mu.Unlock()

	for _, s := range snapshot {
		userID := s.UserID()
		if err := s.Flush(ctx); err != nil {
			m.logger.WithError(err).WithField("user", userID).Warn("flush on shutdown failed")
		}
	}
}
