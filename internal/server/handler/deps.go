package handler

import (
	"context"

	"github.com/brizzai/tubenotes/internal/auth/models"
	"github.com/brizzai/tubenotes/internal/notes"
	"github.com/brizzai/tubenotes/internal/summary"
	"github.com/brizzai/tubenotes/internal/youtube"
)

// YouTube is the Data API surface served over HTTP and MCP
type YouTube interface {
	Search(ctx context.Context, p youtube.SearchParams) ([]youtube.Video, error)
	RelatedVideos(ctx context.Context, videoID string, maxResults int) ([]youtube.Video, error)
	Comments(ctx context.Context, videoID string, maxResults int, order string) ([]youtube.Comment, error)
	ChannelInfo(ctx context.Context, channelID string) (*youtube.Channel, error)
	ChannelSections(ctx context.Context, channelID string) ([]youtube.ChannelSection, error)
	Playlists(ctx context.Context, channelID string, maxResults int) ([]youtube.Playlist, error)
	PlaylistInfo(ctx context.Context, playlistID string) (*youtube.Playlist, error)
	PlaylistItems(ctx context.Context, playlistID string, maxResults int) ([]youtube.PlaylistItem, error)
	UserActivities(ctx context.Context, maxResults int) ([]youtube.Activity, error)
	UserSubscriptions(ctx context.Context, maxResults int) ([]youtube.Subscription, error)
	Languages(ctx context.Context) ([]youtube.Language, error)
	Regions(ctx context.Context) ([]youtube.Region, error)
	GuideCategories(ctx context.Context, regionCode string) ([]youtube.GuideCategory, error)
}

// Summarizer produces cached video summaries
type Summarizer interface {
	Summarize(ctx context.Context, videoID, title, description string) (*summary.Summary, error)
}

// Session reports the stored credential's state
type Session interface {
	Status(ctx context.Context) models.AuthStatus
}

// Notebook keeps personal notes, timestamps and watch history
type Notebook interface {
	Get(ctx context.Context, videoID string) (*notes.Note, error)
	Save(ctx context.Context, videoID, title, content string) (*notes.Note, error)
	List(ctx context.Context) ([]notes.Note, error)
	Timestamps(ctx context.Context, videoID string) ([]notes.Timestamp, error)
	AddTimestamp(ctx context.Context, videoID string, seconds int, note string) (*notes.Timestamp, error)
	DeleteTimestamp(ctx context.Context, videoID, id string) error
	RecordWatch(ctx context.Context, e notes.HistoryEntry) error
	History(ctx context.Context, limit int) ([]notes.HistoryEntry, error)
}
