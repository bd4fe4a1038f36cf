package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/brizzai/tubenotes/internal/utils"
	"github.com/brizzai/tubenotes/internal/youtube"
	"github.com/spf13/cast"
)

// API serves the YouTube and summary endpoints
type API struct {
	yt      YouTube
	summary Summarizer
}

// NewAPI creates a new API handler
func NewAPI(yt YouTube, summary Summarizer) *API {
	return &API{yt: yt, summary: summary}
}

// RegisterRoutes registers the API routes on mux
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", a.handleSearch)
	mux.HandleFunc("GET /api/videos/{id}/comments", a.handleComments)
	mux.HandleFunc("GET /api/videos/{id}/related", a.handleRelated)
	mux.HandleFunc("POST /api/videos/{id}/summary", a.handleSummary)
	mux.HandleFunc("GET /api/channels/{id}", a.handleChannel)
	mux.HandleFunc("GET /api/channels/{id}/sections", a.handleSections)
	mux.HandleFunc("GET /api/channels/{id}/playlists", a.handlePlaylists)
	mux.HandleFunc("GET /api/playlists/{id}", a.handlePlaylist)
	mux.HandleFunc("GET /api/playlists/{id}/items", a.handlePlaylistItems)
	mux.HandleFunc("GET /api/me/activities", a.handleActivities)
	mux.HandleFunc("GET /api/me/subscriptions", a.handleSubscriptions)
	mux.HandleFunc("GET /api/i18n/languages", a.handleLanguages)
	mux.HandleFunc("GET /api/i18n/regions", a.handleRegions)
	mux.HandleFunc("GET /api/guide-categories", a.handleGuideCategories)
}

func maxResults(r *http.Request) int {
	return cast.ToInt(r.URL.Query().Get("max_results"))
}

func respond[T any](w http.ResponseWriter, r *http.Request, v T, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, v)
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	videos, err := a.yt.Search(r.Context(), youtube.SearchParams{
		Query:      q.Get("q"),
		MaxResults: maxResults(r),
		Duration:   q.Get("duration"),
		Order:      q.Get("order"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]interface{}{"videos": videos})
}

func (a *API) handleComments(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")
	comments, err := a.yt.Comments(r.Context(), videoID, maxResults(r), r.URL.Query().Get("order"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]interface{}{
		"comments":      comments,
		"totalComments": len(comments),
		"videoId":       videoID,
	})
}

func (a *API) handleRelated(w http.ResponseWriter, r *http.Request) {
	videos, err := a.yt.RelatedVideos(r.Context(), r.PathValue("id"), maxResults(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]interface{}{"videos": videos})
}

type summaryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.WriteError(w, "invalid_request", "body must be JSON with title and description", http.StatusBadRequest)
		return
	}
	s, err := a.summary.Summarize(r.Context(), r.PathValue("id"), req.Title, req.Description)
	respond(w, r, s, err)
}

func (a *API) handleChannel(w http.ResponseWriter, r *http.Request) {
	ch, err := a.yt.ChannelInfo(r.Context(), r.PathValue("id"))
	if err == nil && ch == nil {
		utils.WriteError(w, "not_found", "channel not found", http.StatusNotFound)
		return
	}
	respond(w, r, ch, err)
}

func (a *API) handleSections(w http.ResponseWriter, r *http.Request) {
	sections, err := a.yt.ChannelSections(r.Context(), r.PathValue("id"))
	respond(w, r, sections, err)
}

func (a *API) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := a.yt.Playlists(r.Context(), r.PathValue("id"), maxResults(r))
	respond(w, r, playlists, err)
}

func (a *API) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	pl, err := a.yt.PlaylistInfo(r.Context(), r.PathValue("id"))
	if err == nil && pl == nil {
		utils.WriteError(w, "not_found", "playlist not found", http.StatusNotFound)
		return
	}
	respond(w, r, pl, err)
}

func (a *API) handlePlaylistItems(w http.ResponseWriter, r *http.Request) {
	items, err := a.yt.PlaylistItems(r.Context(), r.PathValue("id"), maxResults(r))
	respond(w, r, items, err)
}

func (a *API) handleActivities(w http.ResponseWriter, r *http.Request) {
	acts, err := a.yt.UserActivities(r.Context(), maxResults(r))
	respond(w, r, acts, err)
}

func (a *API) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := a.yt.UserSubscriptions(r.Context(), maxResults(r))
	respond(w, r, subs, err)
}

func (a *API) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := a.yt.Languages(r.Context())
	respond(w, r, langs, err)
}

func (a *API) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := a.yt.Regions(r.Context())
	respond(w, r, regions, err)
}

func (a *API) handleGuideCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := a.yt.GuideCategories(r.Context(), r.URL.Query().Get("region"))
	respond(w, r, cats, err)
}
