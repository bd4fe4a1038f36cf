package tool

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/auth/models"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/notes"
	"github.com/brizzai/tubenotes/internal/storage"
	"github.com/brizzai/tubenotes/internal/summary"
	"github.com/brizzai/tubenotes/internal/youtube"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubYouTube struct {
	err    error
	params youtube.SearchParams
	id     string
	max    int
}

func (s *stubYouTube) Search(_ context.Context, p youtube.SearchParams) ([]youtube.Video, error) {
	s.params = p
	return []youtube.Video{{ID: "v1"}}, s.err
}
func (s *stubYouTube) RelatedVideos(_ context.Context, id string, max int) ([]youtube.Video, error) {
	s.id, s.max = id, max
	return nil, s.err
}
func (s *stubYouTube) Comments(_ context.Context, id string, max int, _ string) ([]youtube.Comment, error) {
	s.id, s.max = id, max
	return []youtube.Comment{{ID: "c1", TextDisplay: "nice"}}, s.err
}
func (s *stubYouTube) ChannelInfo(_ context.Context, id string) (*youtube.Channel, error) {
	s.id = id
	return nil, s.err
}
func (s *stubYouTube) ChannelSections(context.Context, string) ([]youtube.ChannelSection, error) {
	return nil, s.err
}
func (s *stubYouTube) Playlists(context.Context, string, int) ([]youtube.Playlist, error) {
	return nil, s.err
}
func (s *stubYouTube) PlaylistInfo(context.Context, string) (*youtube.Playlist, error) {
	return nil, s.err
}
func (s *stubYouTube) PlaylistItems(context.Context, string, int) ([]youtube.PlaylistItem, error) {
	return nil, s.err
}
func (s *stubYouTube) UserActivities(_ context.Context, max int) ([]youtube.Activity, error) {
	s.max = max
	return nil, s.err
}
func (s *stubYouTube) UserSubscriptions(_ context.Context, max int) ([]youtube.Subscription, error) {
	s.max = max
	return nil, s.err
}
func (s *stubYouTube) Languages(context.Context) ([]youtube.Language, error) { return nil, s.err }
func (s *stubYouTube) Regions(context.Context) ([]youtube.Region, error)     { return nil, s.err }
func (s *stubYouTube) GuideCategories(context.Context, string) ([]youtube.GuideCategory, error) {
	return nil, s.err
}

type stubSummarizer struct{ err error }

func (s stubSummarizer) Summarize(_ context.Context, videoID, _, _ string) (*summary.Summary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &summary.Summary{VideoID: videoID, Summary: "S"}, nil
}

type stubSession struct{ status models.AuthStatus }

func (s stubSession) Status(context.Context) models.AuthStatus { return s.status }

func newNotebook(t *testing.T) *notes.Service {
	t.Helper()
	db, err := storage.Open(context.Background(), config.StorageConfig{Driver: config.StorageDriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return notes.NewService(notes.NewSQLRepository(db.DB, db.Driver))
}

func call(t *testing.T, h *Handler, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	for _, e := range h.tools() {
		if e.tool.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		res, err := h.CreateHandler(name, e.fn)(context.Background(), req)
		require.NoError(t, err)
		return res
	}
	t.Fatalf("tool %s not registered", name)
	return nil
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestTools_Registered(t *testing.T) {
	h := NewHandler(&stubYouTube{}, stubSummarizer{}, nil, stubSession{}, "http://localhost:8080/auth/login")
	var names []string
	for _, e := range h.tools() {
		names = append(names, e.tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"youtube_search", "youtube_comments", "youtube_related", "video_summary",
		"channel_info", "my_activities", "my_subscriptions", "auth_status",
		"video_notes_get", "video_notes_save", "video_timestamp_add", "video_timestamps_list",
		"notes_list", "watch_history",
	}, names)
}

func TestTools_ArgumentsAreCoerced(t *testing.T) {
	yt := &stubYouTube{}
	h := NewHandler(yt, stubSummarizer{}, nil, stubSession{}, "")

	res := call(t, h, "youtube_search", map[string]interface{}{"query": "go", "max_results": float64(5), "duration": "long"})
	assert.False(t, res.IsError)
	assert.Equal(t, youtube.SearchParams{Query: "go", MaxResults: 5, Duration: "long"}, yt.params)
	assert.Contains(t, text(t, res), `"id": "v1"`)

	res = call(t, h, "youtube_comments", map[string]interface{}{"video_id": "abc", "max_results": "7"})
	assert.False(t, res.IsError)
	assert.Equal(t, "abc", yt.id)
	assert.Equal(t, 7, yt.max)
	assert.Contains(t, text(t, res), "nice")

	res = call(t, h, "video_summary", map[string]interface{}{"video_id": "abc"})
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"summary": "S"`)
}

func TestTools_AuthenticationRequired(t *testing.T) {
	yt := &stubYouTube{err: fmt.Errorf("youtube user activities: %w", auth.ErrAuthenticationRequired)}
	h := NewHandler(yt, stubSummarizer{}, nil, stubSession{}, "http://localhost:8080/auth/login")

	for _, name := range []string{"my_activities", "my_subscriptions"} {
		res := call(t, h, name, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "http://localhost:8080/auth/login")
	}
}

func TestTools_AuthenticationRequiredWithoutLoginRoute(t *testing.T) {
	yt := &stubYouTube{err: auth.ErrAuthenticationRequired}
	h := NewHandler(yt, stubSummarizer{}, nil, stubSession{}, "")

	res := call(t, h, "my_subscriptions", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "run `tubenotes login`")
	assert.NotContains(t, text(t, res), "open ")

	res = call(t, h, "auth_status", nil)
	assert.JSONEq(t, `{"authenticated":false,"login_command":"tubenotes login"}`, text(t, res))
}

func TestTools_Errors(t *testing.T) {
	h := NewHandler(&stubYouTube{err: youtube.ErrCommentsUnavailable}, stubSummarizer{err: summary.ErrRateLimited}, nil, stubSession{}, "")

	res := call(t, h, "youtube_comments", map[string]interface{}{"video_id": "abc"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "comments_unavailable")

	res = call(t, h, "video_summary", map[string]interface{}{"video_id": "abc"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "rate_limited")

	h = NewHandler(&stubYouTube{}, stubSummarizer{}, nil, stubSession{}, "")
	res = call(t, h, "channel_info", map[string]interface{}{"channel_id": "UC0"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "not found")
}

func TestTools_AuthStatus(t *testing.T) {
	h := NewHandler(&stubYouTube{}, stubSummarizer{}, nil, stubSession{}, "http://localhost:8080/auth/login")
	res := call(t, h, "auth_status", nil)
	assert.JSONEq(t, `{"authenticated":false,"login_url":"http://localhost:8080/auth/login"}`, text(t, res))

	h = NewHandler(&stubYouTube{}, stubSummarizer{}, nil, stubSession{status: models.AuthStatus{Authenticated: true}}, "")
	res = call(t, h, "auth_status", nil)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"authenticated": true`)
}

func TestTools_Notes(t *testing.T) {
	h := NewHandler(&stubYouTube{}, stubSummarizer{}, newNotebook(t), stubSession{}, "")

	res := call(t, h, "video_notes_get", map[string]interface{}{"video_id": "v1"})
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"video_id":"v1","note":null,"timestamps":[]}`, text(t, res))

	res = call(t, h, "video_notes_save", map[string]interface{}{"video_id": "v1", "title": "Go talk", "content": "goroutines"})
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"content": "goroutines"`)

	res = call(t, h, "video_timestamp_add", map[string]interface{}{"video_id": "v1", "time": "1:02:03", "note": "channels"})
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"timestamp_seconds": 3723`)

	// a numeric position is read as seconds
	res = call(t, h, "video_timestamp_add", map[string]interface{}{"video_id": "v1", "time": float64(30), "note": "intro"})
	assert.False(t, res.IsError)

	res = call(t, h, "video_timestamps_list", map[string]interface{}{"video_id": "v1"})
	assert.False(t, res.IsError)
	out := text(t, res)
	assert.Less(t, strings.Index(out, "intro"), strings.Index(out, "channels"))

	res = call(t, h, "notes_list", nil)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"video_title": "Go talk"`)

	res = call(t, h, "watch_history", map[string]interface{}{"limit": float64(5)})
	assert.False(t, res.IsError)
	assert.Equal(t, "[]", text(t, res))
}

func TestTools_NotesInvalidInput(t *testing.T) {
	h := NewHandler(&stubYouTube{}, stubSummarizer{}, newNotebook(t), stubSession{}, "")

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"empty content", "video_notes_save", map[string]interface{}{"video_id": "v1", "content": " "}},
		{"bad position", "video_timestamp_add", map[string]interface{}{"video_id": "v1", "time": "1:75", "note": "x"}},
		{"missing video", "video_timestamps_list", map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, h, tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text(t, res), "invalid_request")
		})
	}
}
