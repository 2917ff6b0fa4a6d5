package domain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sakakuai/askbot/pkg/discord"
	"github.com/sakakuai/askbot/pkg/errorx"
	"github.com/sakakuai/askbot/pkg/secrets"
	"github.com/sakakuai/askbot/pkg/xcontext"

	discordapi "github.com/sakakuai/askbot/pkg/api/discord"
	"github.com/sakakuai/askbot/pkg/api/gemini"
)

const timeoutContent = "The answer took too long to generate. Please try again."
const failureContent = "Sorry, something went wrong. Please try again shortly."

// deliveryTimeout bounds the follow-up POST itself, separately from the
// completion deadline the gateway call already consumed.
const deliveryTimeout = 15 * time.Second

type WebhookDomain interface {
	PostDiscordInteract(ctx context.Context) (*discord.InteractionResponse, error)

	// WaitFollowups blocks until every in-flight deferred follow-up has
	// finished, or ctx is done. The server calls it during shutdown so no
	// acknowledged interaction is left without its one follow-up.
	WaitFollowups(ctx context.Context) error
}

type webhookDomain struct {
	secretStore     secrets.Store
	geminiEndpoint  gemini.IEndpoint
	discordEndpoint discordapi.IEndpoint

	followups sync.WaitGroup
}

func NewWebhookDomain(
	secretStore secrets.Store,
	geminiEndpoint gemini.IEndpoint,
	discordEndpoint discordapi.IEndpoint,
) WebhookDomain {
	return &webhookDomain{
		secretStore:     secretStore,
		geminiEndpoint:  geminiEndpoint,
		discordEndpoint: discordEndpoint,
	}
}

func (d *webhookDomain) PostDiscordInteract(ctx context.Context) (*discord.InteractionResponse, error) {
	req := xcontext.HTTPRequest(ctx)
	cfg := xcontext.Configs(ctx)

	signature := req.Header.Get("X-Signature-Ed25519")
	timestamp := req.Header.Get("X-Signature-Timestamp")
	if signature == "" || timestamp == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Missing signature headers")
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot read the webhook body: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Cannot read the request body")
	}

	publicKey, err := d.secretStore.Get(ctx, cfg.Discord.PublicKeySecretName)
	if err != nil {
		// An unreachable key is answered exactly like a forged signature, so
		// the response does not reveal whether the infrastructure or the
		// signature is at fault.
		xcontext.Logger(ctx).Errorf("Cannot get the verification key: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid request signature")
	}

	if !discord.Verify(publicKey, signature, timestamp, body) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid request signature")
	}

	var interaction discord.Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot parse the interaction: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Cannot parse the interaction")
	}

	response, task := routeInteraction(&interaction, cfg.Discord.MaxQuestionLength)
	if task != nil {
		// The follow-up sequence starts only after the acknowledgement has
		// been written; even an instantly failing task cannot overtake it.
		userID := interaction.UserID()
		xcontext.Defer(ctx, func() {
			d.startFollowup(ctx, task, userID)
		})
	}

	return response, nil
}

// startFollowup launches the background completion sequence. The
// acknowledgement returns before this work finishes, so the task runs on a
// context detached from the request, carrying over only the ambient values.
func (d *webhookDomain) startFollowup(ctx context.Context, task *deferredTask, userID string) {
	taskCtx := context.Background()
	taskCtx = xcontext.WithConfigs(taskCtx, xcontext.Configs(ctx))
	taskCtx = xcontext.WithLogger(taskCtx, xcontext.Logger(ctx))
	taskCtx = xcontext.WithHTTPClient(taskCtx, xcontext.HTTPClient(ctx))

	taskID := uuid.NewString()
	xcontext.Logger(ctx).Infof("Deferred task %s started (user=%s)", taskID, userID)

	d.followups.Add(1)
	go func() {
		defer d.followups.Done()
		defer func() {
			if v := recover(); v != nil {
				xcontext.Logger(taskCtx).Errorf("Recovered from a panic in task %s: %v", taskID, v)
			}
		}()

		d.runFollowup(taskCtx, task, taskID)
	}()
}

// runFollowup ends in exactly one follow-up delivery attempt: the sanitized
// answer on success, a fixed message on timeout or upstream failure. A
// failed delivery is logged and swallowed; retrying could re-answer after
// the interaction token expired.
func (d *webhookDomain) runFollowup(ctx context.Context, task *deferredTask, taskID string) {
	content := d.generateAnswer(ctx, task, taskID)

	deliveryCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	err := d.discordEndpoint.CreateFollowupMessage(
		deliveryCtx, task.applicationID, task.interactionToken, content, task.ephemeral,
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot deliver the follow-up of task %s: %v", taskID, err)
		return
	}

	xcontext.Logger(ctx).Infof("Deferred task %s delivered", taskID)
}

// generateAnswer always returns deliverable content; every failure of the
// completion phase maps to one of the fixed user-facing messages.
func (d *webhookDomain) generateAnswer(ctx context.Context, task *deferredTask, taskID string) (content string) {
	defer func() {
		if v := recover(); v != nil {
			xcontext.Logger(ctx).Errorf("Recovered from a panic while answering task %s: %v", taskID, v)
			content = failureContent
		}
	}()

	cfg := xcontext.Configs(ctx)

	apiKey, err := d.secretStore.Get(ctx, cfg.Gemini.APIKeySecretName)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the completion credential for task %s: %v", taskID, err)
		return failureContent
	}

	completionCtx, cancel := context.WithTimeout(ctx, cfg.Gemini.CompletionTimeout())
	defer cancel()

	answer, err := d.geminiEndpoint.Ask(completionCtx, apiKey, task.question)
	if err != nil {
		if errors.Is(err, gemini.ErrTimeout) {
			xcontext.Logger(ctx).Warnf("Completion of task %s timed out", taskID)
			return timeoutContent
		}

		xcontext.Logger(ctx).Errorf("Completion of task %s failed: %v", taskID, err)
		return failureContent
	}

	return discord.Sanitize(answer, cfg.Discord.MaxContentLength)
}

func (d *webhookDomain) WaitFollowups(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.followups.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
