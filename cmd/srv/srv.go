package main

import (
	"net/http"

	"github.com/sakakuai/askbot/config"
	"github.com/sakakuai/askbot/internal/domain"
	"github.com/sakakuai/askbot/pkg/logger"
	"github.com/sakakuai/askbot/pkg/router"
	"github.com/sakakuai/askbot/pkg/secrets"
	"github.com/urfave/cli/v2"

	discordapi "github.com/sakakuai/askbot/pkg/api/discord"
	"github.com/sakakuai/askbot/pkg/api/gemini"
)

type srv struct {
	configs *config.Configs
	logger  logger.Logger

	secretStore     secrets.Store
	geminiEndpoint  gemini.IEndpoint
	discordEndpoint discordapi.IEndpoint

	webhookDomain domain.WebhookDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(ct *cli.Context) error {
	configs, err := config.Load(ct.String("config"))
	if err != nil {
		return err
	}

	s.configs = &configs
	return nil
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.LevelFromString(s.configs.LogLevel))
}

func (s *srv) loadEndpoint() {
	s.geminiEndpoint = gemini.New(s.configs.Gemini)
	s.discordEndpoint = discordapi.New()
}

func (s *srv) loadSecrets() {
	store := secrets.NewSecretsManagerStore(s.configs.Secrets)
	s.secretStore = secrets.NewCachedStore(store, s.configs.Secrets.CacheTTL())
}

func (s *srv) loadDomains() {
	s.webhookDomain = domain.NewWebhookDomain(s.secretStore, s.geminiEndpoint, s.discordEndpoint)
}
