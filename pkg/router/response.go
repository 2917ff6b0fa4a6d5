package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sakakuai/askbot/pkg/errorx"
	"github.com/sakakuai/askbot/pkg/xcontext"
)

type errorResponse struct {
	Code  int64  `json:"code"`
	Error string `json:"error"`
}

// handleResponse writes the handler response as plain JSON. The body is the
// response value itself, not an envelope: webhook callers such as Discord
// require the exact wire shape.
func handleResponse(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)

	if err := xcontext.GetError(ctx); err != nil {
		errx := errorx.Unknown
		errors.As(err, &errx)

		resp := errorResponse{Code: int64(errx.Code), Error: errx.Message}
		if err := writeJSON(w, statusOf(errx.Code), resp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", err)
		}
		return
	}

	resp := xcontext.GetResponse(ctx)
	if resp == nil {
		return
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func statusOf(code errorx.Code) int {
	switch code {
	case errorx.BadRequest:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	// Push the response to the wire now; deferred work must not race the
	// caller's receipt of it.
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	return nil
}
