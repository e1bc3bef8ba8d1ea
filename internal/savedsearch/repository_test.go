package savedsearch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/savedsearch"
	"hiring/sourcing-service/internal/search"
)

var columns = []string{"id", "user_id", "name", "keywords", "is_active", "created_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestListActive(t *testing.T) {
	mock := newMock(t)
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM saved_searches WHERE is_active = true`).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("s1", "u1", "rollups", []string{"zk rollup", "optimism"}, true, created))

	got, err := savedsearch.NewRepository(mock).ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"zk rollup", "optimism"}, got[0].Keywords)
	assert.Equal(t, created, got[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser_EmptyIsNonNil(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE user_id = \$1`).WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(columns))

	got, err := savedsearch.NewRepository(mock).ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGet_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE id = \$1 AND user_id = \$2`).WithArgs("s9", "u1").
		WillReturnRows(pgxmock.NewRows(columns))

	_, err := savedsearch.NewRepository(mock).Get(context.Background(), "u1", "s9")
	assert.ErrorIs(t, err, savedsearch.ErrNotFound)
}

func TestCreate_NormalizesKeywords(t *testing.T) {
	mock := newMock(t)
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO saved_searches`).
		WithArgs(pgxmock.AnyArg(), "u1", "defi", []string{"solidity", "uniswap"}).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	s, err := savedsearch.NewRepository(mock).Create(context.Background(), "u1", " defi ",
		[]string{" solidity", "", "uniswap", "solidity"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.True(t, s.IsActive)
	assert.Equal(t, created, s.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Validation(t *testing.T) {
	repo := savedsearch.NewRepository(newMock(t))
	var verr *savedsearch.ValidationError

	_, err := repo.Create(context.Background(), "u1", "  ", []string{"go"})
	assert.ErrorAs(t, err, &verr)

	_, err = repo.Create(context.Background(), "u1", "empty", []string{" ", ""})
	assert.ErrorAs(t, err, &verr)
}

func TestSetActive_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE saved_searches SET is_active`).WithArgs(false, "s1", "u2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := savedsearch.NewRepository(mock).SetActive(context.Background(), "u2", "s1", false)
	assert.ErrorIs(t, err, savedsearch.ErrNotFound)
}

func TestDelete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM saved_searches`).WithArgs("s1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, savedsearch.NewRepository(mock).Delete(context.Background(), "u1", "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRun_NilFailedStoredAsEmpty(t *testing.T) {
	mock := newMock(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rep := search.Report{
		ID:         "r1",
		Result:     model.SearchResult{KeywordsSearched: 2, TotalFound: 7, TotalSaved: 3, SearchMethod: "api"},
		StartedAt:  start,
		FinishedAt: start.Add(time.Minute),
	}
	mock.ExpectExec(`INSERT INTO search_runs`).
		WithArgs("r1", "s1", 2, 7, 3, "api", []string{}, start, start.Add(time.Minute)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, savedsearch.NewRepository(mock).RecordRun(context.Background(), "s1", rep))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_WrapsError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS saved_searches`).WillReturnError(errors.New("permission denied"))

	err := savedsearch.NewRepository(mock).EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure schema")
}
