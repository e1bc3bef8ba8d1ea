package monitor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring/sourcing-service/internal/backend"
	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/monitor"
)

type fakeBackend struct {
	scanDelay time.Duration
	scanErr   error
	window    string
}

func (f *fakeBackend) Scan(ctx context.Context) (model.ScanResult, error) {
	select {
	case <-time.After(f.scanDelay):
	case <-ctx.Done():
		return model.ScanResult{}, ctx.Err()
	}
	if f.scanErr != nil {
		return model.ScanResult{}, f.scanErr
	}
	return model.ScanResult{ReposScanned: 12, ExternalUsersFound: 5, ProfilesAnalyzed: 5}, nil
}

func (f *fakeBackend) ListMonitorCandidates(_ context.Context, window string) ([]model.MonitorCandidate, error) {
	f.window = window
	return []model.MonitorCandidate{{Username: "octocat"}}, nil
}

func (f *fakeBackend) ListActivityHistory(_ context.Context, username string) ([]model.ActivityRecord, error) {
	return []model.ActivityRecord{{Type: "pr", Repo: "org/" + username}}, nil
}

func TestScan_Success(t *testing.T) {
	m := monitor.New(&fakeBackend{}, time.Second)
	res, err := m.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Scanned 12 repos, found 5 external users, analyzed 5 profiles", monitor.Summary(res))
}

func TestScan_TimeoutIsDistinct(t *testing.T) {
	m := monitor.New(&fakeBackend{scanDelay: time.Second}, 20*time.Millisecond)
	_, err := m.Scan(context.Background())
	require.ErrorIs(t, err, monitor.ErrScanTimedOut)
	assert.NotErrorIs(t, err, monitor.ErrScanFailed)
	assert.Equal(t, "Scan timed out", monitor.UserMessage(err))
}

func TestScan_NetworkFailure(t *testing.T) {
	m := monitor.New(&fakeBackend{scanErr: errors.New("dial tcp: connection refused")}, time.Second)
	_, err := m.Scan(context.Background())
	require.ErrorIs(t, err, monitor.ErrScanFailed)
	assert.NotErrorIs(t, err, monitor.ErrScanTimedOut)
	assert.Equal(t, "Scan failed — check network connection", monitor.UserMessage(err))
}

func TestScan_BackendDetailShown(t *testing.T) {
	m := monitor.New(&fakeBackend{scanErr: &backend.HTTPError{Status: 400, Detail: "GITHUB_TOKEN not configured"}}, time.Second)
	_, err := m.Scan(context.Background())
	require.ErrorIs(t, err, monitor.ErrScanFailed)
	assert.Contains(t, monitor.UserMessage(err), "GITHUB_TOKEN not configured")
	assert.Contains(t, monitor.UserMessage(err), "enable GitHub scanning")
}

func TestNew_DefaultTimeout(t *testing.T) {
	// a zero timeout must not expire immediately
	m := monitor.New(&fakeBackend{scanDelay: 10 * time.Millisecond}, 0)
	_, err := m.Scan(context.Background())
	assert.NoError(t, err)
}

func TestCandidates_ValidatesWindow(t *testing.T) {
	f := &fakeBackend{}
	m := monitor.New(f, time.Second)

	for _, w := range []string{"", "1w", "1m", "3m"} {
		_, err := m.Candidates(context.Background(), w)
		require.NoError(t, err)
		assert.Equal(t, w, f.window)
	}
	_, err := m.Candidates(context.Background(), "2y")
	assert.ErrorIs(t, err, monitor.ErrInvalidWindow)
}
