package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service returns cached summaries and generates missing ones
type Service struct {
	repo   Repository
	gen    Generator
	now    func() time.Time
	flight singleflight.Group
}

func NewService(repo Repository, gen Generator) *Service {
	return &Service{repo: repo, gen: gen, now: time.Now}
}

// Summarize returns the summary for videoID, generating and storing it on
// first use. Concurrent calls for the same video share one generation.
func (s *Service) Summarize(ctx context.Context, videoID, title, description string) (*Summary, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id is required", ErrInvalidArgument)
	}

	ch := s.flight.DoChan(videoID, func() (interface{}, error) {
		return s.summarize(context.WithoutCancel(ctx), videoID, title, description)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Summary), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cached returns the stored summary without generating one
func (s *Service) Cached(ctx context.Context, videoID string) (*Summary, error) {
	return s.repo.Get(ctx, videoID)
}

func (s *Service) summarize(ctx context.Context, videoID, title, description string) (*Summary, error) {
	existing, err := s.repo.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Debug("Summary cache hit", zap.String("video_id", videoID))
		return existing, nil
	}

	content, err := s.gen.Generate(ctx, title, description)
	if err != nil {
		logger.Warn("Summary generation failed", zap.String("video_id", videoID), zap.Error(err))
		return nil, err
	}

	stored, err := s.repo.Create(ctx, &Summary{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		Summary:   content.Summary,
		KeyPoints: content.KeyPoints,
		CreatedAt: s.now(),
	})
	if err != nil {
		logger.Error("Failed to store summary", zap.String("video_id", videoID), zap.Error(err))
		return nil, err
	}
	logger.Info("Summary generated", zap.String("video_id", videoID), zap.Int("key_points", len(stored.KeyPoints)))
	return stored, nil
}
