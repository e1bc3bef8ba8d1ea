package view

import (
	"context"
	"sync"

	"hiring/sourcing-service/internal/detailcache"
	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/monitor"
)

// MonitorSession is one user's monitor page: the activity filter, the
// contributor list, the expanded row and its cached activity history.
type MonitorSession struct {
	mu sync.Mutex

	monitor    *monitor.Monitor
	window     string
	candidates []model.MonitorCandidate
	expanded   string
	scanning   bool
	lastScan   *model.ScanResult
	notice     *Notice

	activities *detailcache.Cache[string, model.ActivityRecord]
}

// NewMonitorSession returns a session showing all contributors.
func NewMonitorSession(m *monitor.Monitor) *MonitorSession {
	return &MonitorSession{
		monitor:    m,
		activities: detailcache.New("activity_history", m.Activities),
	}
}

// SetWindow changes the activity filter and reloads the list. On failure the
// previous filter and list are kept.
func (s *MonitorSession) SetWindow(ctx context.Context, window string) ([]model.MonitorCandidate, error) {
	if _, err := monitor.ParseWindow(window); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.monitor.Candidates(ctx, window)
	if err != nil {
		s.notice = errorNotice("Failed to load monitored candidates")
		return nil, err
	}
	s.window = window
	s.candidates = list
	return append(make([]model.MonitorCandidate, 0, len(list)), list...), nil
}

func (s *MonitorSession) Window() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// Expand marks username as the expanded row and returns its activity
// history through the cache.
func (s *MonitorSession) Expand(ctx context.Context, username string) ([]model.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded = username
	records, err := s.activities.Get(ctx, username)
	if err != nil {
		s.notice = errorNotice("Failed to load activity history")
		return nil, err
	}
	return records, nil
}

func (s *MonitorSession) Collapse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded = ""
}

func (s *MonitorSession) Expanded() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded
}

// Scan runs a monitor scan. Success and failure both leave a notice; a
// timeout is reported distinctly from a failed request. After a successful
// scan the activity cache is reset and the list reloaded.
func (s *MonitorSession) Scan(ctx context.Context) (model.ScanResult, error) {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		return model.ScanResult{}, ErrBusy
	}
	s.scanning = true
	s.mu.Unlock()

	res, err := s.monitor.Scan(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanning = false
	if err != nil {
		s.lastScan = nil
		s.notice = errorNotice(monitor.UserMessage(err))
		return model.ScanResult{}, err
	}
	s.lastScan = &res
	s.notice = infoNotice(monitor.Summary(res))
	s.activities.Reset()
	if list, lerr := s.monitor.Candidates(ctx, s.window); lerr == nil {
		s.candidates = list
	}
	return res, nil
}

func (s *MonitorSession) Notice() (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice == nil {
		return Notice{}, false
	}
	return *s.notice, true
}

func (s *MonitorSession) DismissNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = nil
}
