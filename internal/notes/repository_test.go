package notes

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

func TestSQLRepository_NoteUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	got, err := repo.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Nil(t, got)

	t1 := time.UnixMilli(1_700_000_000_000).UTC()
	first, err := repo.Upsert(ctx, &Note{VideoID: "v1", VideoTitle: "Go talk", Content: "first", CreatedAt: t1, UpdatedAt: t1})
	require.NoError(t, err)
	assert.Equal(t, &Note{VideoID: "v1", VideoTitle: "Go talk", Content: "first", CreatedAt: t1, UpdatedAt: t1}, first)

	// updating keeps created_at and, with no title given, the stored title
	t2 := t1.Add(time.Hour)
	second, err := repo.Upsert(ctx, &Note{VideoID: "v1", Content: "second", CreatedAt: t2, UpdatedAt: t2})
	require.NoError(t, err)
	assert.Equal(t, &Note{VideoID: "v1", VideoTitle: "Go talk", Content: "second", CreatedAt: t1, UpdatedAt: t2}, second)

	_, err = repo.Upsert(ctx, &Note{VideoID: "v2", VideoTitle: "Other", Content: "x", CreatedAt: t1, UpdatedAt: t1})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "v1", list[0].VideoID)
	assert.Equal(t, "v2", list[1].VideoID)
}

func TestSQLRepository_Timestamps(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)
	at := time.UnixMilli(1_700_000_000_000).UTC()

	require.NoError(t, repo.AddTimestamp(ctx, &Timestamp{ID: "t2", VideoID: "v1", Seconds: 90, Note: "later", CreatedAt: at}))
	require.NoError(t, repo.AddTimestamp(ctx, &Timestamp{ID: "t1", VideoID: "v1", Seconds: 10, Note: "intro", CreatedAt: at}))
	require.NoError(t, repo.AddTimestamp(ctx, &Timestamp{ID: "t3", VideoID: "v2", Seconds: 5, Note: "elsewhere", CreatedAt: at}))

	list, err := repo.ListTimestamps(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, []Timestamp{
		{ID: "t1", VideoID: "v1", Seconds: 10, Note: "intro", CreatedAt: at},
		{ID: "t2", VideoID: "v1", Seconds: 90, Note: "later", CreatedAt: at},
	}, list)

	require.NoError(t, repo.DeleteTimestamp(ctx, "v1", "t1"))
	assert.ErrorIs(t, repo.DeleteTimestamp(ctx, "v1", "t1"), ErrNotFound)
	// the id must belong to the video
	assert.ErrorIs(t, repo.DeleteTimestamp(ctx, "v1", "t3"), ErrNotFound)

	empty, err := repo.ListTimestamps(ctx, "none")
	require.NoError(t, err)
	assert.Equal(t, []Timestamp{}, empty)
}

func TestSQLRepository_History(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)
	t1 := time.UnixMilli(1_000).UTC()
	t2 := time.UnixMilli(2_000).UTC()

	require.NoError(t, repo.RecordWatch(ctx, &HistoryEntry{VideoID: "v1", VideoTitle: "A", LastWatchedAt: t1}))
	require.NoError(t, repo.RecordWatch(ctx, &HistoryEntry{VideoID: "v2", VideoTitle: "B", LastWatchedAt: t1}))
	require.NoError(t, repo.RecordWatch(ctx, &HistoryEntry{VideoID: "v1", VideoTitle: "A2", ProgressPercentage: 40, LastWatchedAt: t2}))

	list, err := repo.History(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []HistoryEntry{
		{VideoID: "v1", VideoTitle: "A2", ProgressPercentage: 40, LastWatchedAt: t2},
		{VideoID: "v2", VideoTitle: "B", LastWatchedAt: t1},
	}, list)

	limited, err := repo.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLRepository_PostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLRepository(db, config.StorageDriverPostgres)
	at := time.UnixMilli(42).UTC()

	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3, $4, $5) ON CONFLICT(video_id) DO UPDATE")).
		WithArgs("v1", "T", "c", int64(42), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM video_notes WHERE video_id = $1")).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"video_id", "video_title", "content", "created_at", "updated_at"}).
			AddRow("v1", "T", "c", int64(42), int64(42)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM video_timestamps WHERE video_id = $1 AND id = $2")).
		WithArgs("v1", "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Upsert(context.Background(), &Note{VideoID: "v1", VideoTitle: "T", Content: "c", CreatedAt: at, UpdatedAt: at})
	require.NoError(t, err)
	assert.Equal(t, at, n.UpdatedAt)
	require.NoError(t, repo.DeleteTimestamp(context.Background(), "v1", "t1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
