package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakakuai/askbot/config"
	"github.com/sakakuai/askbot/pkg/api"
	"github.com/stretchr/testify/require"
)

func newTestEndpoint(mock *api.MockAPIGenerator) *Endpoint {
	endpoint := New(config.GeminiConfigs{
		Model:           "gemini-1.5-flash",
		MaxOutputTokens: 1024,
	})
	endpoint.apiGenerator = mock
	return endpoint
}

func completionResponse(text string) *api.Response {
	return &api.Response{
		Code: 200,
		Body: api.JSON{
			"candidates": api.Array{
				{"content": api.JSON{"parts": api.Array{{"text": text}}}},
			},
		},
	}
}

func Test_Endpoint_Ask(t *testing.T) {
	mock := &api.MockAPIGenerator{}

	gotHeaders := map[string]string{}
	mock.MockClient.HeaderFunc = func(name, value string) api.Client {
		gotHeaders[name] = value
		return &mock.MockClient
	}

	// The URL is logged on transport errors, so the key must never be part
	// of it.
	mock.MockClient.QueryFunc = func(query api.Parameter) api.Client {
		t.Errorf("unexpected query parameters: %v", query)
		return &mock.MockClient
	}

	var gotBody api.JSON
	mock.MockClient.BodyFunc = func(body api.Body) api.Client {
		gotBody = body.(api.JSON)
		return &mock.MockClient
	}

	mock.MockClient.POSTFunc = func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
		return completionResponse("The sky scatters blue light."), nil
	}

	endpoint := newTestEndpoint(mock)
	answer, err := endpoint.Ask(context.Background(), "key-1", "why is the sky blue?")

	require.NoError(t, err)
	require.Equal(t, "The sky scatters blue light.", answer)
	require.Equal(t, "key-1", gotHeaders["x-goog-api-key"])

	contents := gotBody["contents"].(api.Array)
	require.Equal(t, "why is the sky blue?", contents[0]["parts"].(api.Array)[0]["text"])

	generation := gotBody["generationConfig"].(api.JSON)
	require.Equal(t, 1024, generation["maxOutputTokens"])
}

func Test_Endpoint_Ask_UpstreamStatus(t *testing.T) {
	mock := &api.MockAPIGenerator{}
	mock.MockClient.POSTFunc = func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
		return &api.Response{Code: 500, Body: api.JSON{}}, nil
	}

	endpoint := newTestEndpoint(mock)
	_, err := endpoint.Ask(context.Background(), "key-1", "anything")

	require.ErrorContains(t, err, "gemini returned status 500")
	require.NotErrorIs(t, err, ErrTimeout)
}

func Test_Endpoint_Ask_EmptyCompletion(t *testing.T) {
	testcases := []struct {
		name string
		body api.JSON
	}{
		{name: "no candidates", body: api.JSON{"candidates": api.Array{}}},
		{
			name: "no parts",
			body: api.JSON{"candidates": api.Array{
				{"content": api.JSON{"parts": api.Array{}}},
			}},
		},
		{
			name: "blank text",
			body: api.JSON{"candidates": api.Array{
				{"content": api.JSON{"parts": api.Array{{"text": "   "}}}},
			}},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &api.MockAPIGenerator{}
			mock.MockClient.POSTFunc = func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				return &api.Response{Code: 200, Body: tc.body}, nil
			}

			endpoint := newTestEndpoint(mock)
			_, err := endpoint.Ask(context.Background(), "key-1", "anything")
			require.ErrorContains(t, err, "empty completion")
		})
	}
}

func Test_Endpoint_Ask_Timeout(t *testing.T) {
	mock := &api.MockAPIGenerator{}
	mock.MockClient.POSTFunc = func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
		return nil, context.DeadlineExceeded
	}

	endpoint := newTestEndpoint(mock)
	_, err := endpoint.Ask(context.Background(), "key-1", "anything")
	require.ErrorIs(t, err, ErrTimeout)
}

func Test_Endpoint_Ask_ExpiredContext(t *testing.T) {
	mock := &api.MockAPIGenerator{}
	mock.MockClient.POSTFunc = func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
		return nil, errors.New("connection reset")
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	endpoint := newTestEndpoint(mock)
	_, err := endpoint.Ask(ctx, "key-1", "anything")
	require.ErrorIs(t, err, ErrTimeout)
}

func Test_Endpoint_Ask_TransportFailure(t *testing.T) {
	mock := &api.MockAPIGenerator{}
	mock.MockClient.POSTFunc = func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
		return nil, errors.New("all endpoints got errors")
	}

	endpoint := newTestEndpoint(mock)
	_, err := endpoint.Ask(context.Background(), "key-1", "anything")

	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTimeout)
}
