package testutil

import (
	"context"
	"fmt"
)

type MockSecretStore struct {
	GetFunc func(ctx context.Context, name string) (string, error)

	// Secrets serves lookups when GetFunc is nil.
	Secrets map[string]string
}

func (s *MockSecretStore) Get(ctx context.Context, name string) (string, error) {
	if s.GetFunc != nil {
		return s.GetFunc(ctx, name)
	}

	if value, ok := s.Secrets[name]; ok {
		return value, nil
	}

	return "", fmt.Errorf("cannot get secret %s: not found", name)
}

type MockGeminiEndpoint struct {
	AskFunc func(ctx context.Context, apiKey, prompt string) (string, error)
}

func (e *MockGeminiEndpoint) Ask(ctx context.Context, apiKey, prompt string) (string, error) {
	if e.AskFunc != nil {
		return e.AskFunc(ctx, apiKey, prompt)
	}

	panic("not implemented")
}

// FollowupCall records one delivery through the mock Discord endpoint.
type FollowupCall struct {
	ApplicationID    string
	InteractionToken string
	Content          string
	Ephemeral        bool
}

type MockDiscordEndpoint struct {
	CreateFollowupMessageFunc func(ctx context.Context, applicationID, interactionToken, content string, ephemeral bool) error
	RegisterCommandsFunc      func(ctx context.Context, applicationID, botToken string) error

	// Followups records every CreateFollowupMessage call when
	// CreateFollowupMessageFunc is nil.
	Followups chan FollowupCall
}

func NewMockDiscordEndpoint() *MockDiscordEndpoint {
	return &MockDiscordEndpoint{Followups: make(chan FollowupCall, 16)}
}

func (e *MockDiscordEndpoint) CreateFollowupMessage(
	ctx context.Context, applicationID, interactionToken, content string, ephemeral bool,
) error {
	if e.CreateFollowupMessageFunc != nil {
		return e.CreateFollowupMessageFunc(ctx, applicationID, interactionToken, content, ephemeral)
	}

	e.Followups <- FollowupCall{
		ApplicationID:    applicationID,
		InteractionToken: interactionToken,
		Content:          content,
		Ephemeral:        ephemeral,
	}
	return nil
}

func (e *MockDiscordEndpoint) RegisterCommands(ctx context.Context, applicationID, botToken string) error {
	if e.RegisterCommandsFunc != nil {
		return e.RegisterCommandsFunc(ctx, applicationID, botToken)
	}

	return nil
}
