package testutil

import (
	"context"

	"github.com/sakakuai/askbot/config"
	"github.com/sakakuai/askbot/pkg/logger"
	"github.com/sakakuai/askbot/pkg/xcontext"
)

func Configs() config.Configs {
	return config.Configs{
		Env:      "test",
		LogLevel: "SILENCE",
		Discord: config.DiscordConfigs{
			ApplicationID:       "app-1",
			PublicKeySecretName: "discord_public_key",
			BotTokenSecretName:  "discord_bot_token",
			MaxQuestionLength:   250,
			MaxContentLength:    1800,
		},
		Gemini: config.GeminiConfigs{
			APIKeySecretName:     "gemini_api_key",
			Model:                "gemini-1.5-flash",
			MaxOutputTokens:      1024,
			CompletionTimeoutSec: 1,
		},
	}
}

// NewMockContext builds a context carrying the same ambient values the
// router would install, minus the request and writer.
func NewMockContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, Configs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithOutcome(ctx)
	return ctx
}
