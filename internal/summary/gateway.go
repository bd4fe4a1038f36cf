package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/requester"
)

const (
	DefaultModel = "google/gemini-2.5-flash"

	systemPrompt = "You are a helpful assistant that summarizes educational video content. Always respond with valid JSON only."
	userPrompt   = `Analyze this YouTube video and provide:
1. A concise summary (2-3 sentences)
2. 3-5 key learning points

Video Title: %s
Description: %s

Format your response as JSON with this structure:
{
  "summary": "your summary here",
  "keyPoints": ["point 1", "point 2", "point 3"]
}`
)

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Generator produces summary content for a video
type Generator interface {
	Generate(ctx context.Context, title, description string) (*Content, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Gateway calls an OpenAI-compatible chat completions endpoint
type Gateway struct {
	api   *requester.HTTPRequester
	model string
}

// NewGateway creates a Gateway from the summary config
func NewGateway(cfg *config.SummaryConfig) *Gateway {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Gateway{
		api: requester.NewHTTPRequester(requester.Options{
			BaseURL: cfg.GatewayURL,
			Timeout: cfg.Timeout,
			Auth:    &requester.StaticBearerAuth{Token: cfg.APIKey},
		}),
		model: model,
	}
}

func (g *Gateway) Generate(ctx context.Context, title, description string) (*Content, error) {
	resp, err := g.api.Execute(ctx, requester.Post("/chat/completions", chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPrompt, title, description)},
		},
	}))
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return nil, ErrCreditsDepleted
	case !resp.OK():
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var out chatResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("AI response has no choices")
	}
	return ParseContent(out.Choices[0].Message.Content), nil
}

// ParseContent extracts the JSON object from a model reply. A reply that is
// not valid JSON, or whose summary is empty, becomes the summary itself with
// no key points.
func ParseContent(raw string) *Content {
	candidate := raw
	if m := jsonObject.FindString(raw); m != "" {
		candidate = m
	}
	var c Content
	if err := json.Unmarshal([]byte(candidate), &c); err != nil || strings.TrimSpace(c.Summary) == "" {
		return &Content{Summary: raw, KeyPoints: []string{}}
	}
	if c.KeyPoints == nil {
		c.KeyPoints = []string{}
	}
	return &c
}
