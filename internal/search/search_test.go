package search_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/search"
)

type fakeSearcher struct {
	results map[string]model.SearchResult
	fail    map[string]bool
	calls   []string
	onCall  func(kw string)
}

func (f *fakeSearcher) Search(_ context.Context, kw string) (model.SearchResult, error) {
	f.calls = append(f.calls, kw)
	if f.onCall != nil {
		f.onCall(kw)
	}
	if f.fail[kw] {
		return model.SearchResult{}, errors.New("connection refused")
	}
	return f.results[kw], nil
}

type recordingNotifier struct{ reports []search.Report }

func (n *recordingNotifier) PublishSearchCompleted(_ context.Context, r search.Report) error {
	n.reports = append(n.reports, r)
	return nil
}

func TestRunBatch_AggregatesInOrder(t *testing.T) {
	f := &fakeSearcher{results: map[string]model.SearchResult{
		"ethereum solidity developer": {TotalFound: 3, TotalSaved: 1, SearchMethod: "api"},
		"tokamak network":             {TotalFound: 2, TotalSaved: 1, SearchMethod: "api"},
	}}
	refreshed := 0
	o := search.New(f, func(context.Context) { refreshed++ }, nil)

	got := o.RunBatch(context.Background(), []string{"ethereum solidity developer", "tokamak network"})

	assert.Equal(t, model.SearchResult{TotalFound: 5, TotalSaved: 2, SearchMethod: "api", KeywordsSearched: 2}, got)
	assert.Equal(t, []string{"ethereum solidity developer", "tokamak network"}, f.calls)
	assert.Equal(t, 1, refreshed)
}

func TestRunBatch_FailedKeywordStillCounted(t *testing.T) {
	f := &fakeSearcher{
		results: map[string]model.SearchResult{
			"a": {TotalFound: 4, TotalSaved: 2, SearchMethod: "brave"},
			"c": {TotalFound: 1, TotalSaved: 0, SearchMethod: "duckduckgo_fallback"},
		},
		fail: map[string]bool{"b": true},
	}
	n := &recordingNotifier{}
	o := search.New(f, nil, n)

	got := o.RunBatch(context.Background(), []string{"a", "b", "c"})

	assert.Equal(t, 5, got.TotalFound)
	assert.Equal(t, 2, got.TotalSaved)
	assert.Equal(t, "duckduckgo_fallback", got.SearchMethod)
	assert.Equal(t, 3, got.KeywordsSearched)
	assert.Equal(t, []string{"a", "b", "c"}, f.calls)

	require.Len(t, n.reports, 1)
	assert.Equal(t, []string{"b"}, n.reports[0].Failed)
	assert.Equal(t, search.ModeBatch, n.reports[0].Mode)
	assert.NotEmpty(t, n.reports[0].ID)
}

func TestRunBatch_AllFail(t *testing.T) {
	f := &fakeSearcher{fail: map[string]bool{"a": true, "b": true, "c": true}}
	o := search.New(f, nil, nil)

	got := o.RunBatch(context.Background(), []string{"a", "b", "c"})
	assert.Equal(t, model.SearchResult{KeywordsSearched: 3}, got)
}

func TestRunBatch_EmptyMethodDoesNotOverwrite(t *testing.T) {
	f := &fakeSearcher{results: map[string]model.SearchResult{
		"a": {SearchMethod: "brave"},
		"b": {},
	}}
	got := search.New(f, nil, nil).RunBatch(context.Background(), []string{"a", "b"})
	assert.Equal(t, "brave", got.SearchMethod)
}

func TestRunBatch_CancelStopsIssuingButKeepsCount(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &fakeSearcher{
		results: map[string]model.SearchResult{"a": {TotalFound: 1}},
		onCall:  func(string) { cancel() },
	}
	rep := search.New(f, nil, nil).RunBatchReport(ctx, []string{"a", "b", "c"})

	assert.Equal(t, []string{"a"}, f.calls)
	assert.Equal(t, 3, rep.Result.KeywordsSearched)
	assert.Equal(t, 1, rep.Result.TotalFound)
	assert.Equal(t, []string{"b", "c"}, rep.Failed)
}

func TestRunSingle(t *testing.T) {
	f := &fakeSearcher{results: map[string]model.SearchResult{"": {TotalFound: 9, TotalSaved: 4, SearchMethod: "brave"}}}
	refreshed := 0
	o := search.New(f, func(context.Context) { refreshed++ }, nil)

	got, err := o.RunSingle(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, got.KeywordsSearched)
	assert.Equal(t, 9, got.TotalFound)
	assert.Equal(t, 1, refreshed)
}

func TestRunSingle_FailureIsTagged(t *testing.T) {
	f := &fakeSearcher{fail: map[string]bool{"zk": true}}
	refreshed := 0
	o := search.New(f, func(context.Context) { refreshed++ }, nil)

	_, err := o.RunSingle(context.Background(), "zk")
	var ke *search.KeywordError
	require.True(t, errors.As(err, &ke))
	assert.Equal(t, "zk", ke.Keyword)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Zero(t, refreshed)
}

func TestKeywordSet(t *testing.T) {
	s := search.NewKeywordSet("a", " a ", "", "b")
	assert.Equal(t, []string{"a", "b"}, s.List())

	assert.False(t, s.Add("   "))
	assert.False(t, s.Add("b"))
	assert.True(t, s.Add("B"))
	assert.True(t, s.Add("  c  "))
	assert.Equal(t, []string{"a", "b", "B", "c"}, s.List())

	assert.True(t, s.Remove("b"))
	assert.False(t, s.Remove("b"))
	assert.Equal(t, 3, s.Len())

	assert.NotNil(t, search.NewKeywordSet().List())
}

func TestDefaultCatalog(t *testing.T) {
	c := search.DefaultCatalog()
	require.Len(t, c.Categories, 5)
	assert.Equal(t, "Core Blockchain", c.Categories[0].Name)
	assert.Len(t, c.Active, 7)
	assert.Contains(t, c.Active, "tokamak network")
}

func TestCatalogSuggestionsSkipActive(t *testing.T) {
	c := search.DefaultCatalog()
	active := search.NewKeywordSet(c.Active...)

	for _, s := range c.Suggestions(active) {
		assert.False(t, active.Contains(s.Keyword), s.Keyword)
	}
	all := c.Suggestions(nil)
	assert.Len(t, c.Suggestions(active), len(all)-len(c.Active))
	assert.Equal(t, search.Suggestion{Category: "Core Blockchain", Keyword: "ethereum solidity developer"}, all[0])
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - name: Rust\n    keywords: [rust engineer]\nactive: [rust engineer]\n"), 0o600))

	c, err := search.LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []search.Category{{Name: "Rust", Keywords: []string{"rust engineer"}}}, c.Categories)

	_, err = search.LoadCatalog(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = search.ParseCatalog([]byte("categories:\n  - keywords: [x]\n"))
	assert.Error(t, err)

	def, err := search.LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, def.Categories, 5)
}
