package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brizzai/tubenotes/internal/notes"
	"github.com/brizzai/tubenotes/internal/utils"
	"github.com/spf13/cast"
)

// NotesAPI serves personal notes, timestamps and watch history
type NotesAPI struct {
	notebook Notebook
}

func NewNotesAPI(notebook Notebook) *NotesAPI {
	return &NotesAPI{notebook: notebook}
}

// RegisterRoutes registers the notes routes on mux
func (a *NotesAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/notes", a.handleList)
	mux.HandleFunc("GET /api/videos/{id}/notes", a.handleGet)
	mux.HandleFunc("PUT /api/videos/{id}/notes", a.handleSave)
	mux.HandleFunc("GET /api/videos/{id}/timestamps", a.handleTimestamps)
	mux.HandleFunc("POST /api/videos/{id}/timestamps", a.handleAddTimestamp)
	mux.HandleFunc("DELETE /api/videos/{id}/timestamps/{tsid}", a.handleDeleteTimestamp)
	mux.HandleFunc("PUT /api/videos/{id}/watch", a.handleWatch)
	mux.HandleFunc("GET /api/history", a.handleHistory)
}

// decodeBody reports a 400 and returns false when the body is not valid JSON
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.WriteError(w, "invalid_request", "body must be a JSON object", http.StatusBadRequest)
		return false
	}
	return true
}

func (a *NotesAPI) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := a.notebook.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]interface{}{"notes": list})
}

func (a *NotesAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	n, err := a.notebook.Get(r.Context(), r.PathValue("id"))
	if err == nil && n == nil {
		utils.WriteError(w, "not_found", "no note for this video", http.StatusNotFound)
		return
	}
	respond(w, r, n, err)
}

type saveNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (a *NotesAPI) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := a.notebook.Save(r.Context(), r.PathValue("id"), req.Title, req.Content)
	respond(w, r, n, err)
}

func (a *NotesAPI) handleTimestamps(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")
	list, err := a.notebook.Timestamps(r.Context(), videoID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]interface{}{"timestamps": list, "videoId": videoID})
}

// addTimestampRequest takes either Seconds or a Time such as "1:02:03"
type addTimestampRequest struct {
	Seconds *int   `json:"seconds"`
	Time    string `json:"time"`
	Note    string `json:"note"`
}

func (r addTimestampRequest) position() (int, error) {
	switch {
	case r.Time != "":
		return notes.ParseTimestamp(r.Time)
	case r.Seconds != nil:
		return *r.Seconds, nil
	default:
		return 0, fmt.Errorf("%w: seconds or time is required", notes.ErrInvalidArgument)
	}
}

func (a *NotesAPI) handleAddTimestamp(w http.ResponseWriter, r *http.Request) {
	var req addTimestampRequest
	if !decodeBody(w, r, &req) {
		return
	}
	seconds, err := req.position()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	ts, err := a.notebook.AddTimestamp(r.Context(), r.PathValue("id"), seconds, req.Note)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONStatus(w, http.StatusCreated, ts)
}

func (a *NotesAPI) handleDeleteTimestamp(w http.ResponseWriter, r *http.Request) {
	if err := a.notebook.DeleteTimestamp(r.Context(), r.PathValue("id"), r.PathValue("tsid")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type watchRequest struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Progress  int    `json:"progress"`
}

func (a *NotesAPI) handleWatch(w http.ResponseWriter, r *http.Request) {
	var req watchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := a.notebook.RecordWatch(r.Context(), notes.HistoryEntry{
		VideoID:            r.PathValue("id"),
		VideoTitle:         req.Title,
		VideoThumbnail:     req.Thumbnail,
		ProgressPercentage: req.Progress,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *NotesAPI) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := a.notebook.History(r.Context(), cast.ToInt(r.URL.Query().Get("limit")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, map[string]interface{}{"history": history})
}
