package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 20

// Service validates note input and stores it through a Repository
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get returns the note of videoID, or nil if there is none
func (s *Service) Get(ctx context.Context, videoID string) (*Note, error) {
	videoID, err := requireVideo(videoID)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, videoID)
}

// Save replaces the note of videoID with content
func (s *Service) Save(ctx context.Context, videoID, title, content string) (*Note, error) {
	videoID, err := requireVideo(videoID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: note content is required", ErrInvalidArgument)
	}

	now := s.now()
	n, err := s.repo.Upsert(ctx, &Note{
		VideoID:    videoID,
		VideoTitle: strings.TrimSpace(title),
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		logger.Error("Failed to save note", zap.String("video_id", videoID), zap.Error(err))
		return nil, err
	}
	logger.Debug("Note saved", zap.String("video_id", videoID), zap.Int("length", len(content)))
	return n, nil
}

func (s *Service) List(ctx context.Context) ([]Note, error) {
	return s.repo.List(ctx)
}

// Timestamps lists the timestamped notes of videoID in playback order
func (s *Service) Timestamps(ctx context.Context, videoID string) ([]Timestamp, error) {
	videoID, err := requireVideo(videoID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListTimestamps(ctx, videoID)
}

// AddTimestamp pins note to the given second of videoID
func (s *Service) AddTimestamp(ctx context.Context, videoID string, seconds int, note string) (*Timestamp, error) {
	videoID, err := requireVideo(videoID)
	if err != nil {
		return nil, err
	}
	if seconds < 0 {
		return nil, fmt.Errorf("%w: timestamp must not be negative", ErrInvalidArgument)
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, fmt.Errorf("%w: timestamp note is required", ErrInvalidArgument)
	}

	ts := &Timestamp{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		Seconds:   seconds,
		Note:      note,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.AddTimestamp(ctx, ts); err != nil {
		logger.Error("Failed to add timestamp", zap.String("video_id", videoID), zap.Error(err))
		return nil, err
	}
	return ts, nil
}

func (s *Service) DeleteTimestamp(ctx context.Context, videoID, id string) error {
	videoID, err := requireVideo(videoID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: timestamp id is required", ErrInvalidArgument)
	}
	return s.repo.DeleteTimestamp(ctx, videoID, id)
}

// RecordWatch marks videoID as watched now. Progress is clamped to 0..100.
func (s *Service) RecordWatch(ctx context.Context, e HistoryEntry) error {
	videoID, err := requireVideo(e.VideoID)
	if err != nil {
		return err
	}
	e.VideoID = videoID
	e.ProgressPercentage = min(max(e.ProgressPercentage, 0), 100)
	e.LastWatchedAt = s.now()
	return s.repo.RecordWatch(ctx, &e)
}

// History returns recently watched videos, newest first
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.History(ctx, limit)
}

func requireVideo(videoID string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return "", fmt.Errorf("%w: video id is required", ErrInvalidArgument)
	}
	return videoID, nil
}
