package view

import (
	"sync"

	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/monitor"
)

// Store keeps one Session and one MonitorSession per user id.
type Store struct {
	mu         sync.Mutex
	deps       Deps
	controller *lifecycle.Controller
	monitor    *monitor.Monitor
	sessions   map[string]*Session
	monitors   map[string]*MonitorSession
}

// NewStore returns an empty Store. All sessions share one lifecycle
// controller built from deps.
func NewStore(deps Deps, m *monitor.Monitor) *Store {
	return &Store{
		deps:       deps,
		controller: lifecycle.NewController(deps.Backend, deps.Publisher),
		monitor:    m,
		sessions:   make(map[string]*Session),
		monitors:   make(map[string]*MonitorSession),
	}
}

// Session returns the sourcing session of userID, creating it on first use.
func (st *Store) Session(userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		s = NewSession(st.deps, st.controller)
		st.sessions[userID] = s
	}
	return s
}

// Monitor returns the monitor session of userID, creating it on first use.
func (st *Store) Monitor(userID string) *MonitorSession {
	st.mu.Lock()
	defer st.mu.Unlock()
	m, ok := st.monitors[userID]
	if !ok {
		m = NewMonitorSession(st.monitor)
		st.monitors[userID] = m
	}
	return m
}

// InvalidateCandidate drops the cached outreach history of candidateID in
// every session. It is called when another process reports a status change.
func (st *Store) InvalidateCandidate(candidateID int64) {
	st.mu.Lock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.Unlock()
	for _, s := range sessions {
		s.InvalidateHistory(candidateID)
	}
}

// Len returns the number of sourcing sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
