// Package notes keeps personal study notes, timestamped notes and the watch
// history for videos.
package notes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// Note is the free-form note kept for one video
type Note struct {
	VideoID    string    `json:"video_id" yaml:"video_id"`
	VideoTitle string    `json:"video_title" yaml:"video_title"`
	Content    string    `json:"content" yaml:"content"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

// Timestamp is a note pinned to a position in a video
type Timestamp struct {
	ID        string    `json:"id" yaml:"id"`
	VideoID   string    `json:"video_id" yaml:"video_id"`
	Seconds   int       `json:"timestamp_seconds" yaml:"timestamp_seconds"`
	Note      string    `json:"note" yaml:"note"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Position renders Seconds as h:mm:ss or m:ss
func (t Timestamp) Position() string {
	return FormatTimestamp(t.Seconds)
}

// HistoryEntry records the last time a video was opened
type HistoryEntry struct {
	VideoID            string    `json:"video_id" yaml:"video_id"`
	VideoTitle         string    `json:"video_title" yaml:"video_title"`
	VideoThumbnail     string    `json:"video_thumbnail" yaml:"video_thumbnail"`
	ProgressPercentage int       `json:"progress_percentage" yaml:"progress_percentage"`
	LastWatchedAt      time.Time `json:"last_watched_at" yaml:"last_watched_at"`
}

// FormatTimestamp turns 3723 into 1:02:03 and 75 into 1:15
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseTimestamp accepts plain seconds ("75"), m:ss ("1:15") or h:mm:ss
// ("1:02:03"). Minutes and seconds after the first field must be below 60.
func ParseTimestamp(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if s == "" || len(parts) > 3 {
		return 0, fmt.Errorf("%w: invalid timestamp %q", ErrInvalidArgument, s)
	}

	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (i > 0 && (n >= 60 || len(p) != 2)) {
			return 0, fmt.Errorf("%w: invalid timestamp %q", ErrInvalidArgument, s)
		}
		total = total*60 + n
	}
	return total, nil
}
