package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sakakuai/askbot/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

const registerTimeout = 30 * time.Second

// registerCommands upserts the ask and help application commands. This is a
// one-time operation run out of band from request handling.
func (s *srv) registerCommands(ct *cli.Context) error {
	if err := s.loadConfig(ct); err != nil {
		return err
	}
	s.loadLogger()
	s.loadEndpoint()
	s.loadSecrets()

	applicationID := s.configs.Discord.ApplicationID
	if applicationID == "" {
		return errors.New("discord application id is not configured")
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithHTTPClient(ctx, &http.Client{})

	ctx, cancel := context.WithTimeout(ctx, registerTimeout)
	defer cancel()

	botToken, err := s.secretStore.Get(ctx, s.configs.Discord.BotTokenSecretName)
	if err != nil {
		return err
	}

	if err := s.discordEndpoint.RegisterCommands(ctx, applicationID, botToken); err != nil {
		return err
	}

	s.logger.Infof("Registered application commands for %s", applicationID)
	return nil
}
