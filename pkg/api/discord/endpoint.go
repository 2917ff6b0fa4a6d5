package discord

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/sakakuai/askbot/pkg/api"
)

const apiURL = "https://discord.com/api/v10"
const userAgent = "DiscordBot (https://github.com/sakakuai/askbot, 1.0)"

// ephemeralMessageFlag is the wire value of the ephemeral message flag.
const ephemeralMessageFlag = 1 << 6

const (
	followupResource = "followup"
	commandResource  = "register_command"
)

type Endpoint struct {
	apiGenerator      api.Generator
	rateLimitResource *xsync.MapOf[string, *xsync.MapOf[string, time.Time]]
}

func New() *Endpoint {
	return &Endpoint{
		apiGenerator:      api.NewGenerator(),
		rateLimitResource: xsync.NewMapOf[*xsync.MapOf[string, time.Time]](),
	}
}

// CreateFollowupMessage delivers the deferred answer tied to an interaction
// token. The token permits one follow-up within a platform-enforced window;
// a rejected delivery (expired token included) is returned as an error, the
// call is never retried here.
func (e *Endpoint) CreateFollowupMessage(
	ctx context.Context, applicationID, interactionToken, content string, ephemeral bool,
) error {
	if err := e.checkLimitingResource(followupResource, applicationID); err != nil {
		return err
	}

	body := api.JSON{
		"content":          content,
		"allowed_mentions": api.JSON{"parse": []string{}},
	}
	if ephemeral {
		body["flags"] = ephemeralMessageFlag
	}

	resp, err := e.apiGenerator.New(apiURL, "/webhooks/%s/%s", applicationID, interactionToken).
		Header("User-Agent", userAgent).
		Body(body).
		POST(ctx)
	if err != nil {
		return err
	}

	if err := e.checkTooManyRequest(resp, followupResource, applicationID); err != nil {
		return err
	}

	if resp.Code < 200 || resp.Code >= 300 {
		return fmt.Errorf("follow-up rejected with status %d", resp.Code)
	}

	return nil
}

// RegisterCommands bulk-overwrites the global application commands with the
// ask and help commands. This runs out of band from request handling.
func (e *Endpoint) RegisterCommands(ctx context.Context, applicationID, botToken string) error {
	if err := e.checkLimitingResource(commandResource, applicationID); err != nil {
		return err
	}

	commands := api.Array{
		{
			"name":        "ask",
			"description": "Ask a question and get a generated answer",
			"options": api.Array{
				{
					"type":        commandOptionString,
					"name":        "question",
					"description": "The question to ask (up to 250 characters)",
					"required":    true,
					"max_length":  250,
				},
				{
					"type":        commandOptionBoolean,
					"name":        "private",
					"description": "Answer only to you",
					"required":    false,
				},
			},
		},
		{
			"name":        "help",
			"description": "Show how to use the bot",
		},
	}

	resp, err := e.apiGenerator.New(apiURL, "/applications/%s/commands", applicationID).
		Header("User-Agent", userAgent).
		Body(commands).
		PUT(ctx, api.OAuth2("Bot", botToken))
	if err != nil {
		return err
	}

	if err := e.checkTooManyRequest(resp, commandResource, applicationID); err != nil {
		return err
	}

	if resp.Code < 200 || resp.Code >= 300 {
		return fmt.Errorf("command registration rejected with status %d", resp.Code)
	}

	return nil
}

// Application command option types.
const (
	commandOptionString  = 3
	commandOptionBoolean = 5
)

func (e *Endpoint) checkLimitingResource(resource, identifier string) error {
	identifiers, ok := e.rateLimitResource.Load(resource)
	if !ok {
		return nil
	}

	resetAt, ok := identifiers.Load(identifier)
	if !ok {
		return nil
	}

	if time.Now().Before(resetAt) {
		return wrapRateLimit(resetAt.Unix())
	}

	identifiers.Delete(identifier)
	return nil
}

func (e *Endpoint) checkTooManyRequest(resp *api.Response, resource, identifier string) error {
	if resp.Code != http.StatusTooManyRequests {
		return nil
	}

	reset := resp.Header.Get("X-RateLimit-Reset")
	resetAt, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		// No usable reset hint; treat as limited for a short, fixed window.
		resetAt = time.Now().Add(time.Second).Unix()
	}

	identifiers, _ := e.rateLimitResource.LoadOrStore(resource, xsync.NewMapOf[time.Time]())
	identifiers.Store(identifier, time.Unix(resetAt, 0))

	return wrapRateLimit(resetAt)
}
