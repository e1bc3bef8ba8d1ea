// Package savedsearch stores named keyword sets that are re-run on a
// schedule, and the ledger of their runs.
package savedsearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hiring/sourcing-service/internal/search"
)

var (
	// ErrNotFound is returned when no saved search matches the id and owner.
	ErrNotFound = errors.New("saved search not found")
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// SavedSearch is a named keyword set owned by one user.
type SavedSearch struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Keywords  []string  `json:"keywords"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// DB is satisfied by *pgxpool.Pool and by pgxmock pools.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS saved_searches (
	id         UUID PRIMARY KEY,
	user_id    TEXT        NOT NULL,
	name       TEXT        NOT NULL,
	keywords   TEXT[]      NOT NULL,
	is_active  BOOLEAN     NOT NULL DEFAULT true,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS search_runs (
	id                UUID PRIMARY KEY,
	saved_search_id   UUID        REFERENCES saved_searches(id) ON DELETE CASCADE,
	keywords_searched INT         NOT NULL,
	total_found       INT         NOT NULL,
	total_saved       INT         NOT NULL,
	search_method     TEXT        NOT NULL,
	failed_keywords   TEXT[]      NOT NULL,
	started_at        TIMESTAMPTZ NOT NULL,
	finished_at       TIMESTAMPTZ NOT NULL
);`

// Repository is the Postgres store for saved searches.
type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the tables when they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, user_id, name, keywords, is_active, created_at FROM saved_searches`

// ListActive returns every active saved search, oldest first.
func (r *Repository) ListActive(ctx context.Context) ([]SavedSearch, error) {
	rows, err := r.db.Query(ctx, selectColumns+` WHERE is_active = true ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query saved_searches: %w", err)
	}
	return collect(rows)
}

// ListByUser returns the saved searches owned by userID, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]SavedSearch, error) {
	rows, err := r.db.Query(ctx, selectColumns+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query saved_searches: %w", err)
	}
	return collect(rows)
}

// Get returns one saved search owned by userID.
func (r *Repository) Get(ctx context.Context, userID, id string) (SavedSearch, error) {
	var s SavedSearch
	err := r.db.QueryRow(ctx, selectColumns+` WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&s.ID, &s.UserID, &s.Name, &s.Keywords, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SavedSearch{}, ErrNotFound
	}
	if err != nil {
		return SavedSearch{}, fmt.Errorf("get saved search: %w", err)
	}
	return s, nil
}

func collect(rows pgx.Rows) ([]SavedSearch, error) {
	defer rows.Close()
	out := make([]SavedSearch, 0)
	for rows.Next() {
		var s SavedSearch
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Keywords, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved search: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create stores a new active saved search. Keywords are trimmed and
// de-duplicated the same way the active keyword set is.
func (r *Repository) Create(ctx context.Context, userID, name string, keywords []string) (SavedSearch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedSearch{}, &ValidationError{Msg: "name must not be empty"}
	}
	kws := search.NewKeywordSet(keywords...).List()
	if len(kws) == 0 {
		return SavedSearch{}, &ValidationError{Msg: "at least one keyword is required"}
	}

	s := SavedSearch{ID: uuid.NewString(), UserID: userID, Name: name, Keywords: kws, IsActive: true}
	err := r.db.QueryRow(ctx,
		`INSERT INTO saved_searches (id, user_id, name, keywords, is_active)
		 VALUES ($1, $2, $3, $4, true)
		 RETURNING created_at`,
		s.ID, s.UserID, s.Name, s.Keywords,
	).Scan(&s.CreatedAt)
	if err != nil {
		return SavedSearch{}, fmt.Errorf("insert saved search: %w", err)
	}
	return s, nil
}

// SetActive turns scheduling of a saved search on or off.
func (r *Repository) SetActive(ctx context.Context, userID, id string, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE saved_searches SET is_active = $1 WHERE id = $2 AND user_id = $3`,
		active, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update saved search: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a saved search and its run ledger.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saved_searches WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete saved search: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordRun appends one finished run to the ledger.
func (r *Repository) RecordRun(ctx context.Context, savedSearchID string, rep search.Report) error {
	failed := rep.Failed
	if failed == nil {
		failed = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO search_runs (id, saved_search_id, keywords_searched, total_found, total_saved,
		                          search_method, failed_keywords, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rep.ID, savedSearchID, rep.Result.KeywordsSearched, rep.Result.TotalFound, rep.Result.TotalSaved,
		rep.Result.SearchMethod, failed, rep.StartedAt, rep.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert search run: %w", err)
	}
	return nil
}
