// Package viewtest provides an in-memory view.Backend for transport tests.
package viewtest

import (
	"context"
	"sync"

	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/model"
)

// Backend is an in-memory candidate store. Setting an Err field makes the
// matching call fail.
type Backend struct {
	mu         sync.Mutex
	candidates []model.Candidate
	history    map[int64][]model.OutreachHistoryEntry

	Results   map[string]model.SearchResult
	Templates []model.OutreachTemplate
	Updates   []lifecycle.StatusUpdate
	Searched  []string

	SearchErr error
	ListErr   error
	StatusErr error
	BridgeErr error
}

// NewBackend returns a Backend holding candidates.
func NewBackend(candidates ...model.Candidate) *Backend {
	return &Backend{
		candidates: candidates,
		history:    make(map[int64][]model.OutreachHistoryEntry),
		Results:    make(map[string]model.SearchResult),
	}
}

func (b *Backend) Search(_ context.Context, keyword string) (model.SearchResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Searched = append(b.Searched, keyword)
	if b.SearchErr != nil {
		return model.SearchResult{}, b.SearchErr
	}
	return b.Results[keyword], nil
}

func (b *Backend) ListCandidates(_ context.Context, status lifecycle.Status, limit int) ([]model.Candidate, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ListErr != nil {
		return nil, b.ListErr
	}
	out := make([]model.Candidate, 0)
	for _, c := range b.candidates {
		if status != "" && c.Status != status {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, c)
	}
	return out, nil
}

func (b *Backend) SetStatus(_ context.Context, id int64, u lifecycle.StatusUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.StatusErr != nil {
		return b.StatusErr
	}
	b.Updates = append(b.Updates, u)
	for i := range b.candidates {
		if b.candidates[i].ID == id {
			b.candidates[i].Status = u.Status
		}
	}
	if u.Message != "" {
		entry := model.OutreachHistoryEntry{CandidateID: id, TemplateID: u.TemplateID, Message: u.Message, Channel: u.Channel}
		b.history[id] = append([]model.OutreachHistoryEntry{entry}, b.history[id]...)
	}
	return nil
}

func (b *Backend) ListOutreachHistory(_ context.Context, id int64) ([]model.OutreachHistoryEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append(make([]model.OutreachHistoryEntry, 0), b.history[id]...), nil
}

func (b *Backend) ListTemplates(context.Context) ([]model.OutreachTemplate, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Templates, nil
}

func (b *Backend) Bridge(context.Context) (model.BridgeResult, error) {
	if b.BridgeErr != nil {
		return model.BridgeResult{}, b.BridgeErr
	}
	return model.BridgeResult{CandidatesChecked: 4, LinkedInProfilesFound: 2}, nil
}

// Status returns the stored status of candidate id.
func (b *Backend) Status(id int64) lifecycle.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.candidates {
		if c.ID == id {
			return c.Status
		}
	}
	return ""
}
