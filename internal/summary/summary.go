// Package summary produces and caches AI summaries of videos.
package summary

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRateLimited     = errors.New("rate limit exceeded, try again in a moment")
	ErrCreditsDepleted = errors.New("AI credits depleted")
)

// GatewayError is a non-2xx answer from the LLM gateway other than 402 and 429
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("AI request failed: status %d", e.StatusCode)
}

// Summary is a stored summary of one video
type Summary struct {
	ID        string    `json:"id" yaml:"id"`
	VideoID   string    `json:"video_id" yaml:"video_id"`
	Summary   string    `json:"summary" yaml:"summary"`
	KeyPoints []string  `json:"key_points" yaml:"key_points"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Content is what the model returns for a video
type Content struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
}
