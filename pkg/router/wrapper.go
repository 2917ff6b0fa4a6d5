package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/sakakuai/askbot/pkg/errorx"
	"github.com/sakakuai/askbot/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run(router, method, w, r, func(ctx context.Context) (any, error) {
			var req Request
			switch method {
			case http.MethodGet:
				if err := bindQuery(r, &req); err != nil {
					xcontext.Logger(ctx).Warnf("Cannot bind the query: %v", err)
					return nil, errorx.New(errorx.BadRequest, "Cannot bind the query")
				}
			case http.MethodPost:
				body, err := io.ReadAll(r.Body)
				if err != nil {
					xcontext.Logger(ctx).Warnf("Cannot read the request body: %v", err)
					return nil, errorx.New(errorx.BadRequest, "Cannot read the request body")
				}

				if len(body) > 0 {
					if err := json.Unmarshal(body, &req); err != nil {
						xcontext.Logger(ctx).Warnf("Cannot parse the request body: %v", err)
						return nil, errorx.New(errorx.BadRequest, "Cannot parse the request body")
					}
				}
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				return nil, err
			}

			return resp, nil
		})
	}
}

func wrapRawHandler[Response any](
	router *Router,
	method string,
	handler RawHandlerFunc[Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run(router, method, w, r, func(ctx context.Context) (any, error) {
			resp, err := handler(ctx)
			if err != nil {
				return nil, err
			}

			return resp, nil
		})
	}
}

func run(
	router *Router,
	method string,
	w http.ResponseWriter,
	r *http.Request,
	handle func(ctx context.Context) (any, error),
) {
	ctx := r.Context()
	ctx = xcontext.WithConfigs(ctx, router.cfg)
	ctx = xcontext.WithLogger(ctx, router.logger)
	ctx = xcontext.WithHTTPClient(ctx, router.httpClient)
	ctx = xcontext.WithHTTPRequest(ctx, r)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithOutcome(ctx)

	func() {
		defer func() {
			if v := recover(); v != nil {
				router.logger.Errorf("Recovered from a panic of %s: %v", r.URL.Path, v)
				xcontext.SetError(ctx, errorx.New(errorx.Internal, "Request failed"))
			}
		}()

		if r.Method != method {
			xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Not supported method %s", r.Method))
			return
		}

		for _, middleware := range router.befores {
			if err := middleware(ctx); err != nil {
				xcontext.SetError(ctx, err)
				return
			}
		}

		resp, err := handle(ctx)
		if err != nil {
			xcontext.SetError(ctx, err)
			return
		}
		xcontext.SetResponse(ctx, resp)

		for _, middleware := range router.afters {
			if err := middleware(ctx); err != nil {
				xcontext.SetError(ctx, err)
				return
			}
		}
	}()

	handleResponse(ctx)
	xcontext.RunDeferred(ctx)
	for _, closer := range router.closers {
		closer(ctx)
	}
}

// bindQuery fills string and int fields of req from the URL query, matching
// fields by their json tag.
func bindQuery(r *http.Request, req any) error {
	v := reflect.ValueOf(req).Elem()
	for i := 0; i < v.NumField(); i++ {
		name := v.Type().Field(i).Tag.Get("json")
		queryVal := r.URL.Query().Get(name)
		if queryVal == "" {
			continue
		}

		switch v.Field(i).Kind() {
		case reflect.String:
			v.Field(i).SetString(queryVal)

		case reflect.Int:
			val, err := strconv.Atoi(queryVal)
			if err != nil {
				return err
			}
			v.Field(i).SetInt(int64(val))
		}
	}

	return nil
}
