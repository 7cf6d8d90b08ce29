package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Workspace is the per-browser state: one controller per entity.
type Workspace struct {
	ID         string
	Classrooms *ClassroomService
	Schools    *SchoolService

	lastSeen time.Time
}

// WorkspaceFactory builds the controllers of a new session.
type WorkspaceFactory func(sessionID string) *Workspace

type sessionObserver interface {
	SetActiveSessions(n int)
}

// SessionManagerConfig controls workspace expiry.
type SessionManagerConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// SessionManager owns the workspaces keyed by session id.
type SessionManager struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	factory    WorkspaceFactory
	idleTTL    time.Duration
	interval   time.Duration
	observer   sessionObserver
	logger     *zap.Logger
	now        func() time.Time
}

// NewSessionManager constructs a manager. observer may be nil.
func NewSessionManager(factory WorkspaceFactory, cfg SessionManagerConfig, observer sessionObserver, logger *zap.Logger) *SessionManager {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		workspaces: make(map[string]*Workspace),
		factory:    factory,
		idleTTL:    cfg.IdleTTL,
		interval:   cfg.SweepInterval,
		observer:   observer,
		logger:     logger,
		now:        time.Now,
	}
}

// Acquire returns the workspace for id, creating one under a fresh id when id
// is empty or unknown. created reports whether a new session was started.
func (m *SessionManager) Acquire(id string) (ws *Workspace, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ws, ok := m.workspaces[id]; ok && id != "" {
		ws.lastSeen = m.now()
		return ws, false
	}

	newID := uuid.NewString()
	ws = m.factory(newID)
	ws.ID = newID
	ws.lastSeen = m.now()
	m.workspaces[newID] = ws
	m.report()
	m.logger.Debug("workspace created", zap.String("session_id", newID))
	return ws, true
}

// Len returns the number of live workspaces.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// Sweep drops workspaces idle longer than the TTL and returns how many.
func (m *SessionManager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTTL)
	removed := 0
	for id, ws := range m.workspaces {
		if ws.lastSeen.Before(cutoff) {
			delete(m.workspaces, id)
			removed++
		}
	}
	if removed > 0 {
		m.report()
		m.logger.Info("expired idle workspaces", zap.Int("count", removed))
	}
	return removed
}

// Start sweeps periodically until ctx is done.
func (m *SessionManager) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

func (m *SessionManager) report() {
	if m.observer != nil {
		m.observer.SetActiveSessions(len(m.workspaces))
	}
}
