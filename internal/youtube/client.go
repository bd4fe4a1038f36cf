package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/brizzai/tubenotes/internal/requester"
	"go.uber.org/zap"
)

const (
	defaultMaxResults        = 20
	defaultRelatedMaxResults = 10
	defaultRegion            = "US"
)

// Client talks to the YouTube Data API. Public data is fetched with the API
// key; user-scoped endpoints go through the user auth manager.
type Client struct {
	api  *requester.HTTPRequester
	user requester.AuthManager
}

// NewClient creates a Data API client. user may be nil when only public
// endpoints are needed.
func NewClient(cfg *config.YouTubeConfig, user requester.AuthManager) *Client {
	if user == nil {
		user = requester.NoAuth{}
	}
	return &Client{
		api: requester.NewHTTPRequester(requester.Options{
			BaseURL:           cfg.BaseURL,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			Auth:              requester.NewAPIKeyAuth(cfg.APIKey),
		}),
		user: user,
	}
}

func (c *Client) ChannelInfo(ctx context.Context, channelID string) (*Channel, error) {
	if err := required("channel id", channelID); err != nil {
		return nil, err
	}
	items, err := list[Channel](ctx, c, "channels", requester.Get("/channels", url.Values{
		"part": {"snippet,statistics,brandingSettings"},
		"id":   {channelID},
	}))
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

func (c *Client) ChannelSections(ctx context.Context, channelID string) ([]ChannelSection, error) {
	if err := required("channel id", channelID); err != nil {
		return nil, err
	}
	return list[ChannelSection](ctx, c, "channel sections", requester.Get("/channelSections", url.Values{
		"part":      {"snippet,contentDetails"},
		"channelId": {channelID},
	}))
}

func (c *Client) Playlists(ctx context.Context, channelID string, maxResults int) ([]Playlist, error) {
	if err := required("channel id", channelID); err != nil {
		return nil, err
	}
	return list[Playlist](ctx, c, "playlists", requester.Get("/playlists", url.Values{
		"part":       {"snippet,contentDetails,status"},
		"channelId":  {channelID},
		"maxResults": {limit(maxResults, defaultMaxResults)},
	}))
}

func (c *Client) PlaylistInfo(ctx context.Context, playlistID string) (*Playlist, error) {
	if err := required("playlist id", playlistID); err != nil {
		return nil, err
	}
	items, err := list[Playlist](ctx, c, "playlist info", requester.Get("/playlists", url.Values{
		"part": {"snippet,contentDetails,status"},
		"id":   {playlistID},
	}))
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

func (c *Client) PlaylistItems(ctx context.Context, playlistID string, maxResults int) ([]PlaylistItem, error) {
	if err := required("playlist id", playlistID); err != nil {
		return nil, err
	}
	return list[PlaylistItem](ctx, c, "playlist items", requester.Get("/playlistItems", url.Values{
		"part":       {"snippet,contentDetails"},
		"playlistId": {playlistID},
		"maxResults": {limit(maxResults, defaultMaxResults)},
	}))
}

func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	return list[Language](ctx, c, "languages", requester.Get("/i18nLanguages", url.Values{"part": {"snippet"}}))
}

func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	return list[Region](ctx, c, "regions", requester.Get("/i18nRegions", url.Values{"part": {"snippet"}}))
}

func (c *Client) GuideCategories(ctx context.Context, regionCode string) ([]GuideCategory, error) {
	if regionCode == "" {
		regionCode = defaultRegion
	}
	return list[GuideCategory](ctx, c, "guide categories", requester.Get("/guideCategories", url.Values{
		"part":       {"snippet"},
		"regionCode": {regionCode},
	}))
}

// Search finds videos and merges in their duration and view count
func (c *Client) Search(ctx context.Context, p SearchParams) ([]Video, error) {
	if err := required("search query", strings.TrimSpace(p.Query)); err != nil {
		return nil, err
	}
	order := p.Order
	if order == "" {
		order = "relevance"
	}
	query := url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"q":          {p.Query},
		"maxResults": {limit(p.MaxResults, defaultMaxResults)},
		"order":      {order},
	}
	if p.Duration != "" {
		query.Set("videoDuration", p.Duration)
	}
	results, err := list[searchResult](ctx, c, "search", requester.Get("/search", query))
	if err != nil {
		return nil, err
	}
	return c.withDetails(ctx, results)
}

// RelatedVideos lists videos related to videoID, merged like Search
func (c *Client) RelatedVideos(ctx context.Context, videoID string, maxResults int) ([]Video, error) {
	if err := required("video id", videoID); err != nil {
		return nil, err
	}
	results, err := list[searchResult](ctx, c, "related videos", requester.Get("/search", url.Values{
		"part":             {"snippet"},
		"relatedToVideoId": {videoID},
		"type":             {"video"},
		"maxResults":       {limit(maxResults, defaultRelatedMaxResults)},
	}))
	if err != nil {
		return nil, err
	}
	return c.withDetails(ctx, results)
}

// Comments returns the top-level comment threads of a video
func (c *Client) Comments(ctx context.Context, videoID string, maxResults int, order string) ([]Comment, error) {
	if err := required("video id", videoID); err != nil {
		return nil, err
	}
	if order == "" {
		order = "time"
	}
	threads, err := list[commentThread](ctx, c, "comments", requester.Get("/commentThreads", url.Values{
		"part":       {"snippet"},
		"videoId":    {videoID},
		"maxResults": {limit(maxResults, defaultMaxResults)},
		"order":      {order},
	}))
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: %s", ErrCommentsUnavailable, apiErr.Message)
		}
		return nil, err
	}

	comments := make([]Comment, 0, len(threads))
	for _, t := range threads {
		top := t.Snippet.TopLevelComment
		comments = append(comments, Comment{
			ID:                    top.ID,
			AuthorDisplayName:     top.Snippet.AuthorDisplayName,
			AuthorProfileImageURL: top.Snippet.AuthorProfileImageURL,
			TextDisplay:           top.Snippet.TextDisplay,
			LikeCount:             top.Snippet.LikeCount,
			PublishedAt:           top.Snippet.PublishedAt,
			TotalReplyCount:       t.Snippet.TotalReplyCount,
		})
	}
	return comments, nil
}

// UserActivities lists the signed-in user's home feed
func (c *Client) UserActivities(ctx context.Context, maxResults int) ([]Activity, error) {
	call := requester.Get("/activities", url.Values{
		"part":       {"snippet,contentDetails"},
		"home":       {"true"},
		"maxResults": {limit(maxResults, defaultMaxResults)},
	}).WithAuth(c.user)
	return list[Activity](ctx, c, "user activities", call)
}

// UserSubscriptions lists the signed-in user's subscriptions
func (c *Client) UserSubscriptions(ctx context.Context, maxResults int) ([]Subscription, error) {
	call := requester.Get("/subscriptions", url.Values{
		"part":            {"snippet,contentDetails"},
		"mySubscriptions": {"true"},
		"maxResults":      {limit(maxResults, defaultMaxResults)},
	}).WithAuth(c.user)
	return list[Subscription](ctx, c, "user subscriptions", call)
}

func (c *Client) withDetails(ctx context.Context, results []searchResult) ([]Video, error) {
	videos := make([]Video, 0, len(results))
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.ID.VideoID == "" {
			continue
		}
		ids = append(ids, r.ID.VideoID)
		videos = append(videos, Video{
			ID:           r.ID.VideoID,
			Title:        r.Snippet.Title,
			Description:  r.Snippet.Description,
			Thumbnail:    r.Snippet.Thumbnails.Best(),
			ChannelTitle: r.Snippet.ChannelTitle,
			PublishedAt:  r.Snippet.PublishedAt,
		})
	}
	if len(ids) == 0 {
		return videos, nil
	}

	details, err := list[videoDetails](ctx, c, "video details", requester.Get("/videos", url.Values{
		"part": {"contentDetails,statistics"},
		"id":   {strings.Join(ids, ",")},
	}))
	if err != nil {
		// results are still useful without durations
		logger.Warn("Failed to fetch video details", zap.Error(err))
		return videos, nil
	}
	byID := make(map[string]videoDetails, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}
	for i := range videos {
		if d, ok := byID[videos[i].ID]; ok {
			videos[i].Duration = d.ContentDetails.Duration
			videos[i].ViewCount = d.Statistics.ViewCount
		}
	}
	return videos, nil
}

func list[T any](ctx context.Context, c *Client, op string, call *requester.Call) ([]T, error) {
	resp, err := c.api.Execute(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("youtube %s: %w", op, err)
	}
	if !resp.OK() {
		return nil, newAPIError(op, resp.StatusCode, resp.Body)
	}
	var out listResponse[T]
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("youtube %s: %w", op, err)
	}
	if out.Items == nil {
		out.Items = []T{}
	}
	return out.Items, nil
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	return nil
}

func limit(n, def int) string {
	if n <= 0 {
		n = def
	}
	return strconv.Itoa(n)
}
