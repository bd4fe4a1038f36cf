package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/requester"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	ok    bool
}

func (s staticTokens) ValidAccessToken(context.Context) (string, bool) { return s.token, s.ok }

func newTestClient(t *testing.T, handler http.HandlerFunc, user requester.AuthManager) (*Client, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return NewClient(&config.YouTubeConfig{BaseURL: server.URL, APIKey: "yt-key"}, user), &hits
}

func write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestSearch_MergesDetails(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "yt-key", q.Get("key"))
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "golang", q.Get("q"))
			assert.Equal(t, "video", q.Get("type"))
			assert.Equal(t, "20", q.Get("maxResults"))
			assert.Equal(t, "relevance", q.Get("order"))
			assert.Equal(t, "short", q.Get("videoDuration"))
			write(w, http.StatusOK, `{"items":[
				{"id":{"videoId":"v1"},"snippet":{"title":"One","channelTitle":"C","publishedAt":"2024-01-01T00:00:00Z","thumbnails":{"medium":{"url":"m1"}}}},
				{"id":{"videoId":"v2"},"snippet":{"title":"Two","thumbnails":{"default":{"url":"d2"}}}}
			]}`)
		case "/videos":
			assert.Equal(t, "v1,v2", q.Get("id"))
			assert.Equal(t, "contentDetails,statistics", q.Get("part"))
			write(w, http.StatusOK, `{"items":[{"id":"v1","contentDetails":{"duration":"PT4M5S"},"statistics":{"viewCount":"1500"}}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}, nil)

	videos, err := client.Search(context.Background(), SearchParams{Query: "golang", Duration: "short"})
	require.NoError(t, err)

	want := []Video{
		{ID: "v1", Title: "One", Thumbnail: "m1", ChannelTitle: "C", PublishedAt: "2024-01-01T00:00:00Z", Duration: "PT4M5S", ViewCount: "1500"},
		{ID: "v2", Title: "Two", Thumbnail: "d2"},
	}
	if diff := cmp.Diff(want, videos); diff != "" {
		t.Errorf("videos mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestSearch_DetailsFailureKeepsResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/videos" {
			write(w, http.StatusInternalServerError, `{}`)
			return
		}
		write(w, http.StatusOK, `{"items":[{"id":{"videoId":"v1"},"snippet":{"title":"One"}}]}`)
	}, nil)

	videos, err := client.Search(context.Background(), SearchParams{Query: "x"})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Empty(t, videos[0].Duration)
}

func TestValidation_NoRequest(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, `{"items":[]}`)
	}, nil)
	ctx := context.Background()

	_, err := client.Search(ctx, SearchParams{Query: "   "})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = client.Comments(ctx, "", 0, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = client.RelatedVideos(ctx, "", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = client.ChannelInfo(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = client.PlaylistItems(ctx, "", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestComments(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		want    []Comment
	}{
		{
			name:   "flattened",
			status: http.StatusOK,
			body: `{"items":[{"snippet":{"totalReplyCount":2,"topLevelComment":{"id":"c1","snippet":{
				"authorDisplayName":"Ann","authorProfileImageUrl":"p","textDisplay":"hi","likeCount":5,"publishedAt":"t"}}}}]}`,
			want: []Comment{{ID: "c1", AuthorDisplayName: "Ann", AuthorProfileImageURL: "p", TextDisplay: "hi", LikeCount: 5, PublishedAt: "t", TotalReplyCount: 2}},
		},
		{
			name:   "no items",
			status: http.StatusOK,
			body:   `{}`,
			want:   []Comment{},
		},
		{
			name:    "disabled",
			status:  http.StatusForbidden,
			body:    `{"error":{"message":"commentsDisabled"}}`,
			wantErr: ErrCommentsUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/commentThreads", r.URL.Path)
				assert.Equal(t, "time", r.URL.Query().Get("order"))
				assert.Equal(t, "abc", r.URL.Query().Get("videoId"))
				write(w, tt.status, tt.body)
			}, nil)

			got, err := client.Comments(context.Background(), "abc", 0, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusBadRequest, `{"error":{"code":400,"message":"Invalid channel"}}`)
	}, nil)

	_, err := client.ChannelSections(context.Background(), "UC1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid channel", apiErr.Message)
	assert.Contains(t, err.Error(), "channel sections")
}

func TestChannelAndPlaylistInfo(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/channels":
			assert.Equal(t, "snippet,statistics,brandingSettings", r.URL.Query().Get("part"))
			write(w, http.StatusOK, `{"items":[{"id":"UC1","snippet":{"title":"Chan"},"statistics":{"subscriberCount":"1200"}}]}`)
		case "/playlists":
			write(w, http.StatusOK, `{"items":[]}`)
		}
	}, nil)
	ctx := context.Background()

	ch, err := client.ChannelInfo(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, "Chan", ch.Snippet.Title)
	assert.Equal(t, "1200", ch.Statistics.SubscriberCount)

	pl, err := client.PlaylistInfo(ctx, "PL1")
	require.NoError(t, err)
	assert.Nil(t, pl)
}

func TestPublicListings(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/guideCategories":
			assert.Equal(t, "US", r.URL.Query().Get("regionCode"))
			write(w, http.StatusOK, `{"items":[{"id":"g1","snippet":{"title":"Music"}}]}`)
		case "/i18nLanguages":
			write(w, http.StatusOK, `{"items":[{"id":"en","snippet":{"hl":"en","name":"English"}}]}`)
		case "/i18nRegions":
			write(w, http.StatusOK, `{"items":[{"id":"US","snippet":{"gl":"US","name":"United States"}}]}`)
		case "/playlistItems":
			assert.Equal(t, "5", r.URL.Query().Get("maxResults"))
			write(w, http.StatusOK, `{"items":[{"id":"i1","snippet":{"position":0,"resourceId":{"kind":"youtube#video","videoId":"v1"}}}]}`)
		}
	}, nil)
	ctx := context.Background()

	cats, err := client.GuideCategories(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Music", cats[0].Snippet.Title)

	langs, err := client.Languages(ctx)
	require.NoError(t, err)
	assert.Equal(t, "English", langs[0].Snippet.Name)

	regions, err := client.Regions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "US", regions[0].Snippet.GL)

	items, err := client.PlaylistItems(ctx, "PL1", 5)
	require.NoError(t, err)
	assert.Equal(t, "v1", items[0].Snippet.ResourceID.VideoID)
}

func TestUserEndpoints(t *testing.T) {
	t.Run("sends bearer token", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer A1", r.Header.Get("Authorization"))
			assert.Empty(t, r.URL.Query().Get("key"))
			switch r.URL.Path {
			case "/activities":
				assert.Equal(t, "true", r.URL.Query().Get("home"))
				write(w, http.StatusOK, `{"items":[{"id":"a1","snippet":{"type":"upload"},"contentDetails":{"upload":{"videoId":"v9"}}}]}`)
			case "/subscriptions":
				assert.Equal(t, "true", r.URL.Query().Get("mySubscriptions"))
				write(w, http.StatusOK, `{"items":[{"id":"s1","snippet":{"title":"Chan","resourceId":{"kind":"youtube#channel","channelId":"UC1"}}}]}`)
			}
		}, requester.NewBearerAuth(staticTokens{token: "A1", ok: true}))
		ctx := context.Background()

		acts, err := client.UserActivities(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "v9", acts[0].VideoID())

		subs, err := client.UserSubscriptions(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "UC1", subs[0].Snippet.ResourceID.ChannelID)
	})

	t.Run("no token means no request", func(t *testing.T) {
		client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			write(w, http.StatusOK, `{"items":[]}`)
		}, requester.NewBearerAuth(staticTokens{}))

		_, err := client.UserActivities(context.Background(), 0)
		assert.ErrorIs(t, err, auth.ErrAuthenticationRequired)
		_, err = client.UserSubscriptions(context.Background(), 0)
		assert.ErrorIs(t, err, auth.ErrAuthenticationRequired)
		assert.Equal(t, int32(0), atomic.LoadInt32(hits))
	})
}
