package savedsearch

import (
	"context"
	"fmt"
	"log/slog"

	"hiring/sourcing-service/internal/search"
)

// BatchRunner is the orchestrator entry point the Runner uses.
type BatchRunner interface {
	RunBatchReport(ctx context.Context, keywords []string) search.Report
}

// Store is the repository surface the Runner needs.
type Store interface {
	ListActive(ctx context.Context) ([]SavedSearch, error)
	RecordRun(ctx context.Context, savedSearchID string, rep search.Report) error
}

// Runner executes saved searches through the sequential orchestrator.
type Runner struct {
	store Store
	orch  BatchRunner
}

func NewRunner(store Store, orch BatchRunner) *Runner {
	return &Runner{store: store, orch: orch}
}

// Run executes one saved search and records the run. A ledger write failure
// is returned but the search itself has already happened.
func (r *Runner) Run(ctx context.Context, s SavedSearch) (search.Report, error) {
	slog.Info("[saved-search] run started", "id", s.ID, "user", s.UserID, "keywords", len(s.Keywords))
	rep := r.orch.RunBatchReport(ctx, s.Keywords)
	if err := r.store.RecordRun(ctx, s.ID, rep); err != nil {
		return rep, fmt.Errorf("record run %s: %w", rep.ID, err)
	}
	slog.Info("[saved-search] run done", "id", s.ID, "runId", rep.ID,
		"found", rep.Result.TotalFound, "saved", rep.Result.TotalSaved, "failed", len(rep.Failed))
	return rep, nil
}

// RunAll executes every active saved search in turn. One search failing to
// record does not stop the others.
func (r *Runner) RunAll(ctx context.Context) error {
	searches, err := r.store.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("load active saved searches: %w", err)
	}
	if len(searches) == 0 {
		slog.Info("[saved-search] no active saved searches")
		return nil
	}
	for _, s := range searches {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := r.Run(ctx, s); err != nil {
			slog.Error("[saved-search] run failed; continuing", "id", s.ID, "err", err)
		}
	}
	return nil
}
