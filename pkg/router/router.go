package router

import (
	"context"
	"net/http"

	"github.com/sakakuai/askbot/config"
	"github.com/sakakuai/askbot/pkg/logger"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// RawHandlerFunc serves endpoints that must see the unparsed request body,
// e.g. signed webhooks whose signature covers the exact received bytes. The
// request is available via xcontext.HTTPRequest.
type RawHandlerFunc[Response any] func(ctx context.Context) (*Response, error)

type MiddlewareFunc func(ctx context.Context) error
type CloserFunc func(ctx context.Context)

type Router struct {
	mux        *http.ServeMux
	cfg        config.Configs
	logger     logger.Logger
	httpClient *http.Client

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:        http.NewServeMux(),
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{},
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Branch shares the underlying mux but keeps an independent middleware
// chain, so groups of endpoints can differ in befores/afters.
func (r *Router) Branch() *Router {
	branch := &Router{
		mux:        r.mux,
		cfg:        r.cfg,
		logger:     r.logger,
		httpClient: r.httpClient,
	}
	branch.befores = append(branch.befores, r.befores...)
	branch.afters = append(branch.afters, r.afters...)
	branch.closers = append(branch.closers, r.closers...)
	return branch
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func RawPOST[Response any](r *Router, pattern string, handler RawHandlerFunc[Response]) {
	r.mux.HandleFunc(pattern, wrapRawHandler(r, http.MethodPost, handler))
}
