package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingStore struct {
	calls   int
	secrets map[string]string
	err     error
}

func (s *countingStore) Get(ctx context.Context, name string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}

	return s.secrets[name], nil
}

func Test_CachedStore_ServesFromCache(t *testing.T) {
	inner := &countingStore{secrets: map[string]string{"discord_public_key": "abc"}}
	store := NewCachedStore(inner, time.Hour)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		value, err := store.Get(ctx, "discord_public_key")
		require.NoError(t, err)
		require.Equal(t, "abc", value)
	}

	require.Equal(t, 1, inner.calls)
}

func Test_CachedStore_ExpiresAfterTTL(t *testing.T) {
	inner := &countingStore{secrets: map[string]string{"gemini_api_key": "k"}}
	store := NewCachedStore(inner, time.Millisecond)

	ctx := context.Background()
	_, err := store.Get(ctx, "gemini_api_key")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = store.Get(ctx, "gemini_api_key")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func Test_CachedStore_DoesNotCacheFailures(t *testing.T) {
	inner := &countingStore{err: errors.New("secretsmanager is down")}
	store := NewCachedStore(inner, time.Hour)

	ctx := context.Background()
	_, err := store.Get(ctx, "discord_public_key")
	require.Error(t, err)
	_, err = store.Get(ctx, "discord_public_key")
	require.Error(t, err)

	require.Equal(t, 2, inner.calls)

	// After the inner store recovers, the value is served and cached again.
	inner.err = nil
	inner.secrets = map[string]string{"discord_public_key": "abc"}

	value, err := store.Get(ctx, "discord_public_key")
	require.NoError(t, err)
	require.Equal(t, "abc", value)

	_, _ = store.Get(ctx, "discord_public_key")
	require.Equal(t, 3, inner.calls)
}

func Test_CachedStore_ZeroTTLDisablesCaching(t *testing.T) {
	inner := &countingStore{secrets: map[string]string{"k": "v"}}

	store := NewCachedStore(inner, 0)
	require.IsType(t, inner, store)

	ctx := context.Background()
	_, _ = store.Get(ctx, "k")
	_, _ = store.Get(ctx, "k")
	require.Equal(t, 2, inner.calls)
}
