package summary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/storage"
)

// Repository stores summaries keyed by video
type Repository interface {
	// Get returns nil when the video has no summary yet
	Get(ctx context.Context, videoID string) (*Summary, error)
	// Create stores s. If another summary for the video already exists that
	// one is returned instead.
	Create(ctx context.Context, s *Summary) (*Summary, error)
}

// SQLRepository keeps summaries in the video_summaries table
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

func (r *SQLRepository) Get(ctx context.Context, videoID string) (*Summary, error) {
	row := r.db.QueryRowContext(ctx,
		r.bind("SELECT id, video_id, summary, key_points, created_at FROM video_summaries WHERE video_id = ?"),
		videoID)

	var (
		s         Summary
		keyPoints string
		createdAt int64
	)
	if err := row.Scan(&s.ID, &s.VideoID, &s.Summary, &keyPoints, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query summary: %w", err)
	}
	if err := json.Unmarshal([]byte(keyPoints), &s.KeyPoints); err != nil {
		return nil, fmt.Errorf("decode key points: %w", err)
	}
	if s.KeyPoints == nil {
		s.KeyPoints = []string{}
	}
	s.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &s, nil
}

func (r *SQLRepository) Create(ctx context.Context, s *Summary) (*Summary, error) {
	keyPoints := s.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	encoded, err := json.Marshal(keyPoints)
	if err != nil {
		return nil, fmt.Errorf("encode key points: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		r.bind(`INSERT INTO video_summaries (id, video_id, summary, key_points, created_at)
VALUES (?, ?, ?, ?, ?) ON CONFLICT(video_id) DO NOTHING`),
		s.ID, s.VideoID, s.Summary, string(encoded), s.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert summary: %w", err)
	}
	return r.Get(ctx, s.VideoID)
}
