// Package search drives keyword searches against the backend. A batch issues
// one backend search per keyword, strictly in order, and reports only the
// aggregate.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hiring/sourcing-service/internal/metrics"
	"hiring/sourcing-service/internal/model"
)

// Searcher runs one backend search. An empty keyword selects the backend's
// default query set.
type Searcher interface {
	Search(ctx context.Context, keyword string) (model.SearchResult, error)
}

// Refresher reloads whatever candidate list the caller displays.
type Refresher func(ctx context.Context)

// Notifier is told about every finished run.
type Notifier interface {
	PublishSearchCompleted(ctx context.Context, r Report) error
}

// KeywordError tags a backend failure with the keyword that caused it.
type KeywordError struct {
	Keyword string
	Err     error
}

func (e *KeywordError) Error() string {
	if e.Keyword == "" {
		return fmt.Sprintf("search (default query set): %v", e.Err)
	}
	return fmt.Sprintf("search %q: %v", e.Keyword, e.Err)
}

func (e *KeywordError) Unwrap() error { return e.Err }

// Report describes one finished run. Failed lists the keywords whose search
// did not succeed; it is for logs and the run ledger, never for display.
type Report struct {
	ID         string             `json:"id"`
	Mode       string             `json:"mode"`
	Keywords   []string           `json:"keywords"`
	Result     model.SearchResult `json:"result"`
	Failed     []string           `json:"failed,omitempty"`
	StartedAt  time.Time          `json:"startedAt"`
	FinishedAt time.Time          `json:"finishedAt"`
}

const (
	ModeSingle = "single"
	ModeBatch  = "batch"
)

// Orchestrator runs single and batch searches. It holds no candidate state.
type Orchestrator struct {
	searcher Searcher
	refresh  Refresher
	notifier Notifier
	now      func() time.Time
}

// New returns an Orchestrator. refresh and notifier may be nil.
func New(searcher Searcher, refresh Refresher, notifier Notifier) *Orchestrator {
	return &Orchestrator{searcher: searcher, refresh: refresh, notifier: notifier, now: time.Now}
}

// RunSingle issues one search. On failure the error is a *KeywordError and
// no refresh happens.
func (o *Orchestrator) RunSingle(ctx context.Context, keyword string) (model.SearchResult, error) {
	rep := Report{ID: uuid.NewString(), Mode: ModeSingle, Keywords: []string{keyword}, StartedAt: o.now()}
	defer observe(ModeSingle, rep.StartedAt)

	res, err := o.searcher.Search(ctx, keyword)
	if err != nil {
		metrics.KeywordSearches.WithLabelValues("error").Inc()
		return model.SearchResult{}, &KeywordError{Keyword: keyword, Err: err}
	}
	metrics.KeywordSearches.WithLabelValues("ok").Inc()

	res.KeywordsSearched = 1
	rep.Result = res
	rep.FinishedAt = o.now()
	o.finish(ctx, rep)
	return res, nil
}

// RunBatch searches each keyword in order and returns the aggregate.
// KeywordsSearched is always len(keywords), whatever failed.
func (o *Orchestrator) RunBatch(ctx context.Context, keywords []string) model.SearchResult {
	return o.RunBatchReport(ctx, keywords).Result
}

// RunBatchReport is RunBatch with the per-run detail kept. A failing keyword
// contributes nothing and the loop moves on; once ctx is done the remaining
// keywords are counted as failed without being issued.
func (o *Orchestrator) RunBatchReport(ctx context.Context, keywords []string) Report {
	rep := Report{
		ID:        uuid.NewString(),
		Mode:      ModeBatch,
		Keywords:  append([]string(nil), keywords...),
		StartedAt: o.now(),
	}
	defer observe(ModeBatch, rep.StartedAt)

	var agg model.SearchResult
	for _, kw := range keywords {
		if err := ctx.Err(); err != nil {
			rep.Failed = append(rep.Failed, kw)
			continue
		}
		res, err := o.searcher.Search(ctx, kw)
		if err != nil {
			metrics.KeywordSearches.WithLabelValues("error").Inc()
			slog.Warn("keyword search failed; continuing", "runId", rep.ID, "keyword", kw, "err", err)
			rep.Failed = append(rep.Failed, kw)
			continue
		}
		metrics.KeywordSearches.WithLabelValues("ok").Inc()
		agg.TotalFound += res.TotalFound
		agg.TotalSaved += res.TotalSaved
		if res.SearchMethod != "" {
			agg.SearchMethod = res.SearchMethod
		}
	}
	agg.KeywordsSearched = len(keywords)

	rep.Result = agg
	rep.FinishedAt = o.now()
	slog.Info("search batch complete",
		"runId", rep.ID, "keywords", len(keywords), "failed", len(rep.Failed),
		"found", agg.TotalFound, "saved", agg.TotalSaved)
	o.finish(ctx, rep)
	return rep
}

func (o *Orchestrator) finish(ctx context.Context, rep Report) {
	if o.refresh != nil {
		o.refresh(ctx)
	}
	if o.notifier != nil {
		if err := o.notifier.PublishSearchCompleted(ctx, rep); err != nil {
			slog.Warn("publish search completed failed", "runId", rep.ID, "err", err)
		}
	}
}

func observe(mode string, start time.Time) {
	metrics.SearchRunDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}
