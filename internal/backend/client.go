// Package backend is the HTTP client for the recruiting backend. Every
// persistence, scoring and external-search concern lives behind it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/metrics"
	"hiring/sourcing-service/internal/model"
)

const defaultTimeout = 30 * time.Second

// HTTPError is returned for any non-2xx backend response.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}

// Client talks JSON to the recruiting backend. Requests other than Scan are
// bounded by the client's timeout; Scan relies on the caller's context.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewClient constructs a Client for baseURL. A zero timeout uses 30s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Search runs one backend search. An empty keyword asks the backend to use
// its default query set.
func (c *Client) Search(ctx context.Context, keyword string) (model.SearchResult, error) {
	body := map[string]string{}
	if keyword != "" {
		body["keywords"] = keyword
	}
	var resp searchResponse
	if err := c.do(ctx, "search", http.MethodPost, "/api/linkedin/search", body, &resp, true); err != nil {
		return model.SearchResult{}, err
	}
	return model.SearchResult{
		TotalFound:   resp.TotalFound,
		TotalSaved:   resp.TotalSaved,
		SearchMethod: resp.SearchMethod,
	}, nil
}

// ListCandidates returns sourced candidates, optionally filtered by status.
func (c *Client) ListCandidates(ctx context.Context, status lifecycle.Status, limit int) ([]model.Candidate, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", string(status))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/linkedin/candidates"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var rows []candidateWire
	if err := c.do(ctx, "list_candidates", http.MethodGet, path, nil, &rows, true); err != nil {
		return nil, err
	}
	out := make([]model.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// SetStatus writes a lifecycle transition. When u carries a message the
// backend also records an outreach history entry.
func (c *Client) SetStatus(ctx context.Context, candidateID int64, u lifecycle.StatusUpdate) error {
	path := fmt.Sprintf("/api/linkedin/candidates/%d/outreach", candidateID)
	return c.do(ctx, "set_status", http.MethodPost, path, u, nil, true)
}

// ListOutreachHistory returns the messages sent to a candidate, newest first.
func (c *Client) ListOutreachHistory(ctx context.Context, candidateID int64) ([]model.OutreachHistoryEntry, error) {
	path := fmt.Sprintf("/api/linkedin/candidates/%d/outreach-history", candidateID)
	var rows []historyWire
	if err := c.do(ctx, "outreach_history", http.MethodGet, path, nil, &rows, true); err != nil {
		return nil, err
	}
	entries := make([]model.OutreachHistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toModel(candidateID))
	}
	sortNewestFirst(entries)
	return entries, nil
}

// ListActivityHistory returns the recorded public activity of a monitored
// GitHub user.
func (c *Client) ListActivityHistory(ctx context.Context, username string) ([]model.ActivityRecord, error) {
	path := "/api/monitor/candidates/" + url.PathEscape(username) + "/activities"
	var records []model.ActivityRecord
	if err := c.do(ctx, "activity_history", http.MethodGet, path, nil, &records, true); err != nil {
		return nil, err
	}
	return records, nil
}

// ListTemplates returns the configured outreach templates.
func (c *Client) ListTemplates(ctx context.Context) ([]model.OutreachTemplate, error) {
	var rows []templateWire
	if err := c.do(ctx, "list_templates", http.MethodGet, "/api/linkedin/templates", nil, &rows, true); err != nil {
		return nil, err
	}
	out := make([]model.OutreachTemplate, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// Bridge asks the backend to look up LinkedIn profiles for GitHub candidates.
func (c *Client) Bridge(ctx context.Context) (model.BridgeResult, error) {
	var res model.BridgeResult
	if err := c.do(ctx, "bridge", http.MethodPost, "/api/linkedin/bridge", nil, &res, true); err != nil {
		return model.BridgeResult{}, err
	}
	return res, nil
}

// ListMonitorCandidates returns monitored contributors, optionally limited to
// those active within "1w", "1m" or "3m".
func (c *Client) ListMonitorCandidates(ctx context.Context, activityWithin string) ([]model.MonitorCandidate, error) {
	path := "/api/monitor/candidates"
	if activityWithin != "" {
		path += "?" + url.Values{"activity_within": {activityWithin}}.Encode()
	}
	var rows []model.MonitorCandidate
	if err := c.do(ctx, "monitor_candidates", http.MethodGet, path, nil, &rows, true); err != nil {
		return nil, err
	}
	return rows, nil
}

// Scan triggers a monitor scan. It is not bounded by the client timeout;
// callers set their own deadline on ctx.
func (c *Client) Scan(ctx context.Context) (model.ScanResult, error) {
	var res model.ScanResult
	if err := c.do(ctx, "scan", http.MethodPost, "/api/monitor/scan", nil, &res, false); err != nil {
		return model.ScanResult{}, err
	}
	return res, nil
}

// do sends one request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, in, out any, bounded bool) error {
	if bounded {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()
	defer func() {
		metrics.BackendRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: http %s: %w", op, method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode, Detail: errorDetail(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: json unmarshal: %w", op, err)
	}
	return nil
}

// errorDetail extracts {"detail": "..."} or {"error": "..."} when present.
func errorDetail(raw []byte) string {
	var e struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &e); err == nil {
		if s, ok := e.Detail.(string); ok && s != "" {
			return s
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
