package xcontext

import (
	"context"
	"net/http"

	"github.com/sakakuai/askbot/config"
	"github.com/sakakuai/askbot/pkg/logger"
)

type (
	httpRequestKey struct{}
	httpWriterKey  struct{}
	configsKey     struct{}
	loggerKey      struct{}
	httpClientKey  struct{}
)

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

// HTTPRequest returns the inbound request carried by the Context, or nil if
// the Context was not created by the router.
func HTTPRequest(ctx context.Context) *http.Request {
	if r, ok := ctx.Value(httpRequestKey{}).(*http.Request); ok {
		return r
	}

	return nil
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	if w, ok := ctx.Value(httpWriterKey{}).(http.ResponseWriter); ok {
		return w
	}

	return nil
}

func WithConfigs(ctx context.Context, configs config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, configs)
}

func Configs(ctx context.Context) config.Configs {
	if configs, ok := ctx.Value(configsKey{}).(config.Configs); ok {
		return configs
	}

	return config.Configs{}
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logger.Logger); ok {
		return l
	}

	return logger.NewLogger(logger.SILENCE)
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	if client, ok := ctx.Value(httpClientKey{}).(*http.Client); ok {
		return client
	}

	return http.DefaultClient
}
