// Package tool provides the MCP tools exposed by the tubenotes server.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/brizzai/tubenotes/internal/notes"
	"github.com/brizzai/tubenotes/internal/server/handler"
	"github.com/brizzai/tubenotes/internal/youtube"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// LoginCommand signs in from a terminal when no HTTP login route is served
const LoginCommand = "tubenotes login"

type toolFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Handler manages tool registration and execution.
type Handler struct {
	yt       handler.YouTube
	summary  handler.Summarizer
	notebook handler.Notebook
	session  handler.Session
	loginURL string
}

// NewHandler creates a new tool handler. loginURL is shown to the user when a
// tool needs a Google sign-in; when empty, LoginCommand is suggested instead.
func NewHandler(yt handler.YouTube, summary handler.Summarizer, notebook handler.Notebook, session handler.Session, loginURL string) *Handler {
	return &Handler{yt: yt, summary: summary, notebook: notebook, session: session, loginURL: loginURL}
}

// signInHint tells the user how to sign in with Google
func (h *Handler) signInHint() string {
	if h.loginURL == "" {
		return fmt.Sprintf("Authentication required: run `%s` in a terminal to sign in with Google, then retry.", LoginCommand)
	}
	return fmt.Sprintf("Authentication required: open %s to sign in with Google, then retry.", h.loginURL)
}

// Register adds every tool to s
func (h *Handler) Register(s *mcpserver.MCPServer) {
	for _, t := range h.tools() {
		logger.Debug("Adding tool", zap.String("name", t.tool.Name))
		s.AddTool(t.tool, h.CreateHandler(t.tool.Name, t.fn))
	}
}

type entry struct {
	tool mcp.Tool
	fn   toolFunc
}

func (h *Handler) tools() []entry {
	return []entry{
		{
			tool: mcp.NewTool("youtube_search",
				mcp.WithDescription("Search YouTube videos. Results include duration and view count."),
				mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
				mcp.WithNumber("max_results", mcp.Description("Maximum number of videos, default 20")),
				mcp.WithString("duration", mcp.Description("Video length filter"), mcp.Enum("short", "medium", "long")),
				mcp.WithString("order", mcp.Description("Sort order, default relevance"), mcp.Enum("relevance", "date", "viewCount", "rating")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return h.yt.Search(ctx, youtube.SearchParams{
					Query:      cast.ToString(args["query"]),
					MaxResults: cast.ToInt(args["max_results"]),
					Duration:   cast.ToString(args["duration"]),
					Order:      cast.ToString(args["order"]),
				})
			},
		},
		{
			tool: mcp.NewTool("youtube_comments",
				mcp.WithDescription("List top-level comments of a video"),
				mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID")),
				mcp.WithNumber("max_results", mcp.Description("Maximum number of comments, default 20")),
				mcp.WithString("order", mcp.Description("time or relevance, default time"), mcp.Enum("time", "relevance")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return h.yt.Comments(ctx, cast.ToString(args["video_id"]), cast.ToInt(args["max_results"]), cast.ToString(args["order"]))
			},
		},
		{
			tool: mcp.NewTool("youtube_related",
				mcp.WithDescription("List videos related to a video"),
				mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID")),
				mcp.WithNumber("max_results", mcp.Description("Maximum number of videos, default 10")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return h.yt.RelatedVideos(ctx, cast.ToString(args["video_id"]), cast.ToInt(args["max_results"]))
			},
		},
		{
			tool: mcp.NewTool("video_summary",
				mcp.WithDescription("Summarize a video with key learning points. Summaries are cached per video."),
				mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID")),
				mcp.WithString("title", mcp.Description("Video title")),
				mcp.WithString("description", mcp.Description("Video description")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return h.summary.Summarize(ctx, cast.ToString(args["video_id"]), cast.ToString(args["title"]), cast.ToString(args["description"]))
			},
		},
		{
			tool: mcp.NewTool("channel_info",
				mcp.WithDescription("Get channel details and statistics"),
				mcp.WithString("channel_id", mcp.Required(), mcp.Description("YouTube channel ID")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				ch, err := h.yt.ChannelInfo(ctx, cast.ToString(args["channel_id"]))
				if err == nil && ch == nil {
					return nil, fmt.Errorf("channel %q not found", cast.ToString(args["channel_id"]))
				}
				return ch, err
			},
		},
		{
			tool: mcp.NewTool("my_activities",
				mcp.WithDescription("List recent activity from the signed-in user's home feed"),
				mcp.WithNumber("max_results", mcp.Description("Maximum number of activities, default 20")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return h.yt.UserActivities(ctx, cast.ToInt(args["max_results"]))
			},
		},
		{
			tool: mcp.NewTool("my_subscriptions",
				mcp.WithDescription("List the signed-in user's channel subscriptions"),
				mcp.WithNumber("max_results", mcp.Description("Maximum number of subscriptions, default 20")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return h.yt.UserSubscriptions(ctx, cast.ToInt(args["max_results"]))
			},
		},
		{
			tool: mcp.NewTool("auth_status",
				mcp.WithDescription("Report whether a Google account is signed in"),
			),
			fn: func(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
				status := h.session.Status(ctx)
				if !status.Authenticated {
					if h.loginURL == "" {
						return map[string]interface{}{"authenticated": false, "login_command": LoginCommand}, nil
					}
					return map[string]interface{}{"authenticated": false, "login_url": h.loginURL}, nil
				}
				return status, nil
			},
		},
		{
			tool: mcp.NewTool("video_notes_get",
				mcp.WithDescription("Get the personal note and timestamped notes of a video"),
				mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				videoID := cast.ToString(args["video_id"])
				note, err := h.notebook.Get(ctx, videoID)
				if err != nil {
					return nil, err
				}
				stamps, err := h.notebook.Timestamps(ctx, videoID)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"video_id": videoID, "note": note, "timestamps": stamps}, nil
			},
		},
		{
			tool: mcp.NewTool("video_notes_save",
				mcp.WithDescription("Replace the personal note of a video"),
				mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID")),
				mcp.WithString("content", mcp.Required(), mcp.Description("Note text")),
				mcp.WithString("title", mcp.Description("Video title, kept if omitted")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return h.notebook.Save(ctx, cast.ToString(args["video_id"]), cast.ToString(args["title"]), cast.ToString(args["content"]))
			},
		},
		{
			tool: mcp.NewTool("video_timestamp_add",
				mcp.WithDescription("Pin a note to a position in a video"),
				mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID")),
				mcp.WithString("time", mcp.Required(), mcp.Description("Position as seconds, m:ss or h:mm:ss")),
				mcp.WithString("note", mcp.Required(), mcp.Description("Note text")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				seconds, err := notes.ParseTimestamp(cast.ToString(args["time"]))
				if err != nil {
					return nil, err
				}
				return h.notebook.AddTimestamp(ctx, cast.ToString(args["video_id"]), seconds, cast.ToString(args["note"]))
			},
		},
		{
			tool: mcp.NewTool("video_timestamps_list",
				mcp.WithDescription("List the timestamped notes of a video in playback order"),
				mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return h.notebook.Timestamps(ctx, cast.ToString(args["video_id"]))
			},
		},
		{
			tool: mcp.NewTool("notes_list",
				mcp.WithDescription("List all personal video notes, most recently updated first"),
			),
			fn: func(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
				return h.notebook.List(ctx)
			},
		},
		{
			tool: mcp.NewTool("watch_history",
				mcp.WithDescription("List recently watched videos, newest first"),
				mcp.WithNumber("limit", mcp.Description("Maximum number of entries, default 20")),
			),
			fn: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
				return h.notebook.History(ctx, cast.ToInt(args["limit"]))
			},
		},
	}
}

// CreateHandler wraps fn so its result is returned as JSON text and its
// failures as tool errors.
func (h *Handler) CreateHandler(name string, fn toolFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := fn(ctx, request.GetArguments())
		if err != nil {
			if errors.Is(err, auth.ErrAuthenticationRequired) {
				return mcp.NewToolResultError(h.signInHint()), nil
			}
			_, code := handler.Classify(err)
			logger.Warn("Tool call failed", zap.String("tool", name), zap.String("code", code), zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", code, err)), nil
		}

		body, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode result for tool %s: %w", name, err)
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
