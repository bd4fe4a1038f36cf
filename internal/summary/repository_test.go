package summary

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := storage.Open(context.Background(), config.StorageConfig{Driver: config.StorageDriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db.DB, db.Driver)
}

func TestSQLRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	got, err := repo.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Nil(t, got)

	created := time.UnixMilli(1_700_000_000_000).UTC()
	stored, err := repo.Create(ctx, &Summary{ID: "id-1", VideoID: "v1", Summary: "s", KeyPoints: []string{"a", "b"}, CreatedAt: created})
	require.NoError(t, err)
	assert.Equal(t, &Summary{ID: "id-1", VideoID: "v1", Summary: "s", KeyPoints: []string{"a", "b"}, CreatedAt: created}, stored)

	// a second row for the same video keeps the first
	again, err := repo.Create(ctx, &Summary{ID: "id-2", VideoID: "v1", Summary: "other", CreatedAt: created})
	require.NoError(t, err)
	assert.Equal(t, "id-1", again.ID)
	assert.Equal(t, "s", again.Summary)

	empty, err := repo.Create(ctx, &Summary{ID: "id-3", VideoID: "v2", Summary: "x", CreatedAt: created})
	require.NoError(t, err)
	assert.Equal(t, []string{}, empty.KeyPoints)
}

func TestSQLRepository_PostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLRepository(db, config.StorageDriverPostgres)
	created := time.UnixMilli(42).UTC()

	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3, $4, $5) ON CONFLICT(video_id) DO NOTHING")).
		WithArgs("id-1", "v1", "s", `["k"]`, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM video_summaries WHERE video_id = $1")).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "video_id", "summary", "key_points", "created_at"}).
			AddRow("id-1", "v1", "s", `["k"]`, int64(42)))

	got, err := repo.Create(context.Background(), &Summary{ID: "id-1", VideoID: "v1", Summary: "s", KeyPoints: []string{"k"}, CreatedAt: created})
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, got.KeyPoints)
	assert.Equal(t, created, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_CorruptKeyPoints(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "video_id", "summary", "key_points", "created_at"}).
			AddRow("id-1", "v1", "s", `not json`, int64(1)))

	_, err = NewSQLRepository(db, config.StorageDriverSQLite).Get(context.Background(), "v1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode key points")
}
