package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/sakakuai/askbot/config"
	"github.com/sakakuai/askbot/pkg/api"
)

const apiURL = "https://generativelanguage.googleapis.com"

// ErrTimeout reports that the completion deadline was exhausted before an
// answer was available. Every other failure mode is a plain error.
var ErrTimeout = errors.New("completion timed out")

type Endpoint struct {
	Model           string
	MaxOutputTokens int

	apiGenerator api.Generator
}

func New(cfg config.GeminiConfigs) *Endpoint {
	return &Endpoint{
		Model:           cfg.Model,
		MaxOutputTokens: cfg.MaxOutputTokens,
		apiGenerator:    api.NewGenerator(),
	}
}

// Ask generates an answer for the prompt, bounded by the ctx deadline. It
// performs exactly one attempt; retry policy belongs to the caller.
//
// The key travels in a header, never in the URL: request URLs end up in
// transport error logs.
func (e *Endpoint) Ask(ctx context.Context, apiKey, prompt string) (string, error) {
	resp, err := e.apiGenerator.New(apiURL, "/v1beta/models/%s:generateContent", e.Model).
		Header("x-goog-api-key", apiKey).
		Body(api.JSON{
			"contents": api.Array{
				{"parts": api.Array{{"text": prompt}}},
			},
			"generationConfig": api.JSON{
				"maxOutputTokens": e.MaxOutputTokens,
			},
		}).
		POST(ctx)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", err
	}

	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", errors.New("invalid response")
	}

	candidates, err := body.GetArray("candidates")
	if err != nil {
		return "", err
	}

	if len(candidates) == 0 {
		return "", errors.New("empty completion")
	}

	parts, err := candidates[0].GetArray("content.parts")
	if err != nil {
		return "", err
	}

	if len(parts) == 0 {
		return "", errors.New("empty completion")
	}

	text, err := parts[0].GetString("text")
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty completion")
	}

	return text, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
