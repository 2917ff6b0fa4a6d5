package gemini

import "context"

type IEndpoint interface {
	Ask(ctx context.Context, apiKey, prompt string) (string, error)
}
