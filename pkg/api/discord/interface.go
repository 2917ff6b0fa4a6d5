package discord

import "context"

type IEndpoint interface {
	CreateFollowupMessage(ctx context.Context, applicationID, interactionToken, content string, ephemeral bool) error
	RegisterCommands(ctx context.Context, applicationID, botToken string) error
}
