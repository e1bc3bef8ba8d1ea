// Package view holds the per-user state of the sourcing and monitor pages and
// composes the search, lifecycle, outreach and cache packages behind it.
//
// A Session is one user's sourcing page. Its methods are serialised by a
// mutex, which stands in for the single UI thread: state changes only in
// response to a completed backend call or a user action. Failures become a
// dismissible Notice and never replace state that was already shown.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"hiring/sourcing-service/internal/detailcache"
	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/outreach"
	"hiring/sourcing-service/internal/search"
)

// DefaultLimit is the candidate list size requested from the backend.
const DefaultLimit = 100

var (
	// ErrCandidateNotFound means the id is not in the current list.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrBusy is returned when a search or scan is already running.
	ErrBusy = errors.New("an operation is already running")
	// ErrNoDialog is returned by dialog operations when no dialog is open.
	ErrNoDialog = errors.New("outreach dialog is not open")
)

// Backend is the slice of the backend client the sourcing page uses.
type Backend interface {
	search.Searcher
	lifecycle.StatusWriter
	ListCandidates(ctx context.Context, status lifecycle.Status, limit int) ([]model.Candidate, error)
	ListOutreachHistory(ctx context.Context, candidateID int64) ([]model.OutreachHistoryEntry, error)
	ListTemplates(ctx context.Context) ([]model.OutreachTemplate, error)
	Bridge(ctx context.Context) (model.BridgeResult, error)
}

// Deps are shared by every session of a Store.
type Deps struct {
	Backend   Backend
	Publisher lifecycle.Publisher
	Notifier  search.Notifier
	Catalog   search.Catalog
	Sender    outreach.Sender
	Language  string
	Limit     int
}

// Session is one user's sourcing page.
type Session struct {
	mu sync.Mutex

	backend    Backend
	controller *lifecycle.Controller
	orch       *search.Orchestrator
	catalog    search.Catalog
	sender     outreach.Sender
	limit      int

	keywords   *search.KeywordSet
	filter     lifecycle.Status
	candidates []model.Candidate
	loaded     bool
	lastResult *model.SearchResult
	searching  bool
	expanded   int64
	language   string
	dialog     *dialog
	notice     *Notice

	history *detailcache.Cache[int64, model.OutreachHistoryEntry]
}

// NewSession returns a session seeded with the catalogue's active keywords.
// The candidate list is loaded on first use.
func NewSession(deps Deps, controller *lifecycle.Controller) *Session {
	limit := deps.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	lang := deps.Language
	if !outreach.IsLanguage(lang) {
		lang = outreach.LangEN
	}
	s := &Session{
		backend:    deps.Backend,
		controller: controller,
		catalog:    deps.Catalog,
		sender:     deps.Sender,
		limit:      limit,
		keywords:   search.NewKeywordSet(deps.Catalog.Active...),
		language:   lang,
		history:    detailcache.New("outreach_history", deps.Backend.ListOutreachHistory),
	}
	s.orch = search.New(deps.Backend, s.refreshAfterSearch, deps.Notifier)
	return s
}

// ── Keywords ─────────────────────────────────────────────────────────────────

// AddKeyword adds kw to the active set. Blank and duplicate keywords are
// ignored and reported as false.
func (s *Session) AddKeyword(kw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keywords.Add(kw)
}

func (s *Session) RemoveKeyword(kw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keywords.Remove(kw)
}

func (s *Session) Keywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keywords.List()
}

// CatalogSuggestions lists catalogue keywords that are not active yet.
func (s *Session) CatalogSuggestions() []search.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Suggestions(s.keywords)
}

// ── Candidate list ───────────────────────────────────────────────────────────

// Refresh reloads the candidate list for the current filter. On failure the
// previous list is kept.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	list, err := s.backend.ListCandidates(ctx, s.filter, s.limit)
	if err != nil {
		slog.Error("list candidates failed", "filter", s.filter, "err", err)
		s.notice = errorNotice("Failed to load candidates")
		return fmt.Errorf("refresh: %w", err)
	}
	s.candidates = list
	s.loaded = true
	return nil
}

func (s *Session) refreshAfterSearch(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.refreshLocked(ctx)
}

// SetFilter changes the status filter, then invalidates and refetches the
// list. An empty status means all.
func (s *Session) SetFilter(ctx context.Context, status lifecycle.Status) error {
	if status != "" {
		if _, err := lifecycle.ParseStatus(string(status)); err != nil {
			return &lifecycle.ValidationError{Msg: err.Error()}
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = status
	s.candidates = nil
	s.loaded = false
	return s.refreshLocked(ctx)
}

func (s *Session) Filter() lifecycle.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Candidates returns the current list, loading it on first use.
func (s *Session) Candidates(ctx context.Context) ([]model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		if err := s.refreshLocked(ctx); err != nil {
			return nil, err
		}
	}
	return append(make([]model.Candidate, 0, len(s.candidates)), s.candidates...), nil
}

func (s *Session) candidateLocked(id int64) (model.Candidate, error) {
	for _, c := range s.candidates {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Candidate{}, fmt.Errorf("%w: %d", ErrCandidateNotFound, id)
}

// ── Search ───────────────────────────────────────────────────────────────────

// SearchOne runs a single search. An empty keyword uses the backend's default
// query set.
func (s *Session) SearchOne(ctx context.Context, keyword string) (model.SearchResult, error) {
	if err := s.beginSearch(); err != nil {
		return model.SearchResult{}, err
	}
	res, err := s.orch.RunSingle(ctx, keyword)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.searching = false
	if err != nil {
		slog.Warn("search failed", "err", err)
		s.lastResult = nil
		s.notice = errorNotice("Search failed")
		return model.SearchResult{}, err
	}
	s.lastResult = &res
	return res, nil
}

// SearchAll runs every active keyword in order. With no active keyword it
// does nothing and returns a zero result.
func (s *Session) SearchAll(ctx context.Context) (model.SearchResult, error) {
	if err := s.beginSearch(); err != nil {
		return model.SearchResult{}, err
	}
	s.mu.Lock()
	keywords := s.keywords.List()
	s.mu.Unlock()

	var res model.SearchResult
	if len(keywords) > 0 {
		res = s.orch.RunBatch(ctx, keywords)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.searching = false
	if len(keywords) > 0 {
		s.lastResult = &res
	}
	return res, nil
}

func (s *Session) beginSearch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searching {
		return ErrBusy
	}
	s.searching = true
	s.lastResult = nil
	return nil
}

// LastResult returns the summary of the most recent search, if any.
func (s *Session) LastResult() (model.SearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return model.SearchResult{}, false
	}
	return *s.lastResult, true
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

// ActionSet is what a candidate row offers.
type ActionSet struct {
	Status   lifecycle.Status   `json:"status"`
	Actions  []lifecycle.Action `json:"actions"`
	Disabled []lifecycle.Action `json:"disabled"`
}

// Actions returns the actions offered for candidate id.
func (s *Session) Actions(id int64) (ActionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.candidateLocked(id)
	if err != nil {
		return ActionSet{}, err
	}
	disabled := lifecycle.DisabledAffordances(c.Status)
	if disabled == nil {
		disabled = []lifecycle.Action{}
	}
	return ActionSet{Status: c.Status, Actions: lifecycle.Actions(c.Status), Disabled: disabled}, nil
}

// Apply performs a row action. prepare_outreach is accepted only from
// discovered and opens the outreach dialog; send_message goes through Send;
// every other action is a plain status write followed by a list refresh.
func (s *Session) Apply(ctx context.Context, id int64, action lifecycle.Action) (lifecycle.Status, error) {
	switch action {
	case lifecycle.ActionPrepareOutreach:
		if _, err := s.PrepareOutreach(ctx, id); err != nil {
			return "", err
		}
		return lifecycle.StatusOutreach, nil
	case lifecycle.ActionSendMessage:
		return "", &lifecycle.ValidationError{Msg: "send_message requires the outreach dialog"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.candidateLocked(id)
	if err != nil {
		return "", err
	}
	return s.applyLocked(ctx, c, action, lifecycle.Outreach{})
}

func (s *Session) applyLocked(ctx context.Context, c model.Candidate, action lifecycle.Action, o lifecycle.Outreach) (lifecycle.Status, error) {
	to, err := s.controller.Apply(ctx, c.ID, c.Status, action, o)
	if err != nil {
		var ve *lifecycle.ValidationError
		if !errors.Is(err, lifecycle.ErrActionNotAllowed) && !errors.Is(err, lifecycle.ErrActionDisabled) && !errors.As(err, &ve) {
			s.notice = errorNotice("Failed to update status")
		}
		return c.Status, err
	}
	if s.dialog != nil && s.dialog.candidateID == c.ID && to != lifecycle.StatusOutreach {
		s.dialog = nil
	}
	_ = s.refreshLocked(ctx)
	return to, nil
}

// ── Detail rows ──────────────────────────────────────────────────────────────

// Expand marks id as the expanded row and returns its outreach history,
// newest first. Re-expanding a row uses the cached history.
func (s *Session) Expand(ctx context.Context, id int64) ([]model.OutreachHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded = id
	entries, err := s.history.Get(ctx, id)
	if err != nil {
		s.notice = errorNotice("Failed to load outreach history")
		return nil, err
	}
	return entries, nil
}

// Collapse closes the expanded row. The cached history stays.
func (s *Session) Collapse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded = 0
}

// Expanded returns the expanded candidate id, or 0.
func (s *Session) Expanded() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded
}

// InvalidateHistory drops the cached history of one candidate.
func (s *Session) InvalidateHistory(id int64) { s.history.Invalidate(id) }

// ── Bridge ───────────────────────────────────────────────────────────────────

// Bridge runs the GitHub to LinkedIn reconciliation and reloads the list.
func (s *Session) Bridge(ctx context.Context) (model.BridgeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.backend.Bridge(ctx)
	if err != nil {
		slog.Error("bridge failed", "err", err)
		s.notice = errorNotice("Bridge failed")
		return model.BridgeResult{}, err
	}
	s.notice = infoNotice(BridgeSummary(res))
	_ = s.refreshLocked(ctx)
	return res, nil
}

// BridgeSummary describes a bridge run.
func BridgeSummary(r model.BridgeResult) string {
	return fmt.Sprintf("Bridge complete: %d profiles found from %d GitHub users", r.LinkedInProfilesFound, r.CandidatesChecked)
}

// ── Notices ──────────────────────────────────────────────────────────────────

// Notice returns the current notice, if any.
func (s *Session) Notice() (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice == nil {
		return Notice{}, false
	}
	return *s.notice, true
}

func (s *Session) DismissNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = nil
}
