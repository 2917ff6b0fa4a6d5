package router

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakakuai/askbot/config"
	"github.com/sakakuai/askbot/pkg/errorx"
	"github.com/sakakuai/askbot/pkg/logger"
	"github.com/sakakuai/askbot/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type echoResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestRouter() *Router {
	return New(config.Configs{}, logger.NewLogger(logger.SILENCE))
}

func serve(r *Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	return rec
}

func Test_Router_POST(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Name: req.Name, Count: req.Count + 1}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{"name":"a","count":1}`))
	rec := serve(r, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"name":"a","count":2}`, rec.Body.String())
}

func Test_Router_GET_BindsQuery(t *testing.T) {
	r := newTestRouter()
	GET(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Name: req.Name, Count: req.Count}, nil
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/echo?name=a&count=7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"name":"a","count":7}`, rec.Body.String())
}

func Test_Router_RawPOST_PreservesBody(t *testing.T) {
	sent := []byte(`{"unformatted":       1}`)

	r := newTestRouter()
	RawPOST(r, "/raw", func(ctx context.Context) (*echoResponse, error) {
		body, err := io.ReadAll(xcontext.HTTPRequest(ctx).Body)
		require.NoError(t, err)
		require.Equal(t, sent, body)
		return &echoResponse{Name: "ok"}, nil
	})

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/raw", bytes.NewReader(sent)))
	require.Equal(t, http.StatusOK, rec.Code)
}

func Test_Router_ErrorStatus(t *testing.T) {
	testcases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "unauthenticated",
			err:            errorx.New(errorx.Unauthenticated, "Invalid request signature"),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"code":100005,"error":"Invalid request signature"}`,
		},
		{
			name:           "bad request",
			err:            errorx.New(errorx.BadRequest, "Cannot parse the interaction"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"code":100001,"error":"Cannot parse the interaction"}`,
		},
		{
			name:           "not found",
			err:            errorx.New(errorx.NotFound, "Not found"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"code":100004,"error":"Not found"}`,
		},
		{
			name:           "too many requests",
			err:            errorx.New(errorx.TooManyRequests, "Too many requests"),
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   `{"code":100010,"error":"Too many requests"}`,
		},
		{
			name:           "plain error is not exposed",
			err:            io.ErrUnexpectedEOF,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"code":100000,"error":"Request failed"}`,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter()
			POST(r, "/fail", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
				return nil, tc.err
			})

			rec := serve(r, httptest.NewRequest(http.MethodPost, "/fail", nil))

			require.Equal(t, tc.expectedStatus, rec.Code)
			require.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func Test_Router_MethodNotSupported(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_Router_RecoversFromPanic(t *testing.T) {
	r := newTestRouter()
	POST(r, "/panic", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		panic("handler exploded")
	})

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"code":100007,"error":"Request failed"}`, rec.Body.String())
}

func Test_Router_DeferredRunsAfterResponse(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()

	var bodyAtDeferred string
	POST(r, "/defer", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		xcontext.Defer(ctx, func() {
			bodyAtDeferred = rec.Body.String()
		})
		return &echoResponse{Name: "ok"}, nil
	})

	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/defer", nil))

	// The deferred function observed the already-written response.
	require.JSONEq(t, `{"name":"ok","count":0}`, bodyAtDeferred)
}

func Test_Router_MiddlewareChain(t *testing.T) {
	var order []string

	r := newTestRouter()
	r.Before(func(ctx context.Context) error {
		order = append(order, "before")
		return nil
	})
	r.After(func(ctx context.Context) error {
		order = append(order, "after")
		return nil
	})
	r.AddCloser(func(ctx context.Context) {
		order = append(order, "closer")
	})

	POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		order = append(order, "handler")
		return &echoResponse{}, nil
	})

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/echo", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"before", "handler", "after", "closer"}, order)
}

func Test_Router_BeforeError(t *testing.T) {
	r := newTestRouter()
	r.Before(func(ctx context.Context) error {
		return errorx.New(errorx.Unauthenticated, "Permission denied")
	})

	handled := false
	POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		handled = true
		return &echoResponse{}, nil
	})

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/echo", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, handled)
}

func Test_Router_BranchKeepsIndependentMiddlewares(t *testing.T) {
	var rootBefores, branchBefores int

	r := newTestRouter()
	r.Before(func(ctx context.Context) error {
		rootBefores++
		return nil
	})

	branch := r.Branch()
	branch.Before(func(ctx context.Context) error {
		branchBefores++
		return nil
	})

	POST(r, "/root", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})
	POST(branch, "/branch", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	serve(r, httptest.NewRequest(http.MethodPost, "/root", nil))
	require.Equal(t, 1, rootBefores)
	require.Equal(t, 0, branchBefores)

	serve(r, httptest.NewRequest(http.MethodPost, "/branch", nil))
	require.Equal(t, 2, rootBefores)
	require.Equal(t, 1, branchBefores)
}
