// Package monitor runs organisation scans and lists the external contributors
// they found. Scans can take minutes, so each one is bounded by a client-side
// deadline.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hiring/sourcing-service/internal/backend"
	"hiring/sourcing-service/internal/metrics"
	"hiring/sourcing-service/internal/model"
)

// DefaultScanTimeout bounds a scan when no timeout is configured.
const DefaultScanTimeout = 5 * time.Minute

var (
	// ErrScanTimedOut means the deadline passed before the backend answered.
	ErrScanTimedOut = errors.New("scan timed out")
	// ErrScanFailed covers every other scan failure.
	ErrScanFailed = errors.New("scan failed")
	// ErrInvalidWindow is returned for an unknown activity filter.
	ErrInvalidWindow = errors.New("invalid activity window")
)

// Activity filters accepted by the backend. The empty window means "all".
const (
	WindowAll     = ""
	WindowWeek    = "1w"
	WindowMonth   = "1m"
	WindowQuarter = "3m"
)

// ParseWindow validates an activity filter value.
func ParseWindow(s string) (string, error) {
	switch s {
	case WindowAll, WindowWeek, WindowMonth, WindowQuarter:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
}

// Backend is the slice of the backend client the monitor uses.
type Backend interface {
	Scan(ctx context.Context) (model.ScanResult, error)
	ListMonitorCandidates(ctx context.Context, activityWithin string) ([]model.MonitorCandidate, error)
	ListActivityHistory(ctx context.Context, username string) ([]model.ActivityRecord, error)
}

// Monitor wraps the backend's scan and monitor endpoints.
type Monitor struct {
	backend Backend
	timeout time.Duration
}

// New returns a Monitor. A zero timeout uses DefaultScanTimeout.
func New(b Backend, timeout time.Duration) *Monitor {
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	return &Monitor{backend: b, timeout: timeout}
}

// Scan triggers a scan and waits at most the configured timeout. Abandoning
// the request is the only cancellation; nothing else is sent to the backend.
func (m *Monitor) Scan(ctx context.Context) (model.ScanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	res, err := m.backend.Scan(ctx)
	if err == nil {
		metrics.Scans.WithLabelValues("ok").Inc()
		slog.Info("monitor scan complete",
			"repos", res.ReposScanned, "externalUsers", res.ExternalUsersFound, "profiles", res.ProfilesAnalyzed)
		return res, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		metrics.Scans.WithLabelValues("timeout").Inc()
		return model.ScanResult{}, fmt.Errorf("%w after %s", ErrScanTimedOut, m.timeout)
	}
	metrics.Scans.WithLabelValues("error").Inc()
	return model.ScanResult{}, fmt.Errorf("%w: %w", ErrScanFailed, err)
}

// Candidates lists monitored contributors active within window.
func (m *Monitor) Candidates(ctx context.Context, window string) ([]model.MonitorCandidate, error) {
	if _, err := ParseWindow(window); err != nil {
		return nil, err
	}
	return m.backend.ListMonitorCandidates(ctx, window)
}

// Activities loads the activity history of one contributor.
func (m *Monitor) Activities(ctx context.Context, username string) ([]model.ActivityRecord, error) {
	return m.backend.ListActivityHistory(ctx, username)
}

// UserMessage renders a scan error for display. A backend-provided detail is
// shown as is.
func UserMessage(err error) string {
	if errors.Is(err, ErrScanTimedOut) {
		return "Scan timed out"
	}
	var he *backend.HTTPError
	if errors.As(err, &he) && he.Detail != "" {
		msg := he.Detail
		if strings.Contains(msg, "GITHUB_TOKEN") {
			msg += " (add GITHUB_TOKEN to the backend environment to enable GitHub scanning)"
		}
		return msg
	}
	return "Scan failed — check network connection"
}

// Summary describes a successful scan.
func Summary(r model.ScanResult) string {
	return fmt.Sprintf("Scanned %d repos, found %d external users, analyzed %d profiles",
		r.ReposScanned, r.ExternalUsersFound, r.ProfilesAnalyzed)
}
