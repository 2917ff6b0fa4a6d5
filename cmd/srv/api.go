package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sakakuai/askbot/internal/middleware"
	"github.com/sakakuai/askbot/pkg/router"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 30 * time.Second

type healthRequest struct{}

type healthResponse struct {
	Success bool `json:"success"`
}

func (s *srv) startApi(ct *cli.Context) error {
	if err := s.loadConfig(ct); err != nil {
		return err
	}
	s.loadLogger()
	s.loadEndpoint()
	s.loadSecrets()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting server on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		s.logger.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Errorf("Cannot shut the server down cleanly: %v", err)
	}

	// Acknowledged interactions still owe their one follow-up; the process
	// must not exit before the in-flight deferred tasks finish.
	if err := s.webhookDomain.WaitFollowups(ctx); err != nil {
		s.logger.Errorf("Gave up waiting for in-flight follow-ups: %v", err)
	}

	s.logger.Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(*s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	router.RawPOST(s.router, "/webhook/discordInteract", s.webhookDomain.PostDiscordInteract)
	router.GET(s.router, "/healthz", func(ctx context.Context, req *healthRequest) (*healthResponse, error) {
		return &healthResponse{Success: true}, nil
	})
}
