package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/storage"
)

// Repository stores notes, timestamps and watch history
type Repository interface {
	// Get returns nil when the video has no note
	Get(ctx context.Context, videoID string) (*Note, error)
	// Upsert creates or replaces the note of n.VideoID. An empty title keeps
	// the stored one.
	Upsert(ctx context.Context, n *Note) (*Note, error)
	// List returns all notes, most recently updated first
	List(ctx context.Context) ([]Note, error)
	ListTimestamps(ctx context.Context, videoID string) ([]Timestamp, error)
	AddTimestamp(ctx context.Context, ts *Timestamp) error
	DeleteTimestamp(ctx context.Context, videoID, id string) error
	RecordWatch(ctx context.Context, e *HistoryEntry) error
	History(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// SQLRepository keeps notes in the video_notes, video_timestamps and
// watch_history tables
type SQLRepository struct {
	db      *sql.DB
	dialect config.StorageDriver
}

func NewSQLRepository(db *sql.DB, dialect config.StorageDriver) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) bind(query string) string {
	return storage.Rebind(r.dialect, query)
}

func (r *SQLRepository) Get(ctx context.Context, videoID string) (*Note, error) {
	row := r.db.QueryRowContext(ctx,
		r.bind("SELECT video_id, video_title, content, created_at, updated_at FROM video_notes WHERE video_id = ?"),
		videoID)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, n *Note) (*Note, error) {
	_, err := r.db.ExecContext(ctx, r.bind(`INSERT INTO video_notes (video_id, video_title, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(video_id) DO UPDATE SET
    content = excluded.content,
    updated_at = excluded.updated_at,
    video_title = CASE WHEN excluded.video_title <> '' THEN excluded.video_title ELSE video_notes.video_title END`),
		n.VideoID, n.VideoTitle, n.Content, n.CreatedAt.UnixMilli(), n.UpdatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("upsert note: %w", err)
	}
	return r.Get(ctx, n.VideoID)
}

func (r *SQLRepository) List(ctx context.Context) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT video_id, video_title, content, created_at, updated_at FROM video_notes ORDER BY updated_at DESC, video_id")
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	out := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (r *SQLRepository) ListTimestamps(ctx context.Context, videoID string) ([]Timestamp, error) {
	rows, err := r.db.QueryContext(ctx,
		r.bind(`SELECT id, video_id, timestamp_seconds, note, created_at FROM video_timestamps
WHERE video_id = ? ORDER BY timestamp_seconds, created_at`),
		videoID)
	if err != nil {
		return nil, fmt.Errorf("query timestamps: %w", err)
	}
	defer rows.Close()

	out := []Timestamp{}
	for rows.Next() {
		var (
			ts        Timestamp
			createdAt int64
		)
		if err := rows.Scan(&ts.ID, &ts.VideoID, &ts.Seconds, &ts.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan timestamp: %w", err)
		}
		ts.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (r *SQLRepository) AddTimestamp(ctx context.Context, ts *Timestamp) error {
	_, err := r.db.ExecContext(ctx,
		r.bind("INSERT INTO video_timestamps (id, video_id, timestamp_seconds, note, created_at) VALUES (?, ?, ?, ?, ?)"),
		ts.ID, ts.VideoID, ts.Seconds, ts.Note, ts.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert timestamp: %w", err)
	}
	return nil
}

func (r *SQLRepository) DeleteTimestamp(ctx context.Context, videoID, id string) error {
	res, err := r.db.ExecContext(ctx,
		r.bind("DELETE FROM video_timestamps WHERE video_id = ? AND id = ?"), videoID, id)
	if err != nil {
		return fmt.Errorf("delete timestamp: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("timestamp %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLRepository) RecordWatch(ctx context.Context, e *HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, r.bind(`INSERT INTO watch_history (video_id, video_title, video_thumbnail, progress_percentage, last_watched_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(video_id) DO UPDATE SET
    video_title = excluded.video_title,
    video_thumbnail = excluded.video_thumbnail,
    progress_percentage = excluded.progress_percentage,
    last_watched_at = excluded.last_watched_at`),
		e.VideoID, e.VideoTitle, e.VideoThumbnail, e.ProgressPercentage, e.LastWatchedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record watch: %w", err)
	}
	return nil
}

func (r *SQLRepository) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		r.bind(`SELECT video_id, video_title, video_thumbnail, progress_percentage, last_watched_at
FROM watch_history ORDER BY last_watched_at DESC, video_id LIMIT ?`),
		limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := []HistoryEntry{}
	for rows.Next() {
		var (
			e         HistoryEntry
			watchedAt int64
		)
		if err := rows.Scan(&e.VideoID, &e.VideoTitle, &e.VideoThumbnail, &e.ProgressPercentage, &watchedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.LastWatchedAt = time.UnixMilli(watchedAt).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*Note, error) {
	var (
		n                    Note
		createdAt, updatedAt int64
	)
	if err := s.Scan(&n.VideoID, &n.VideoTitle, &n.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	n.CreatedAt = time.UnixMilli(createdAt).UTC()
	n.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &n, nil
}
