package secrets

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync"
)

type cachedValue struct {
	value     string
	expiredAt time.Time
}

type cachedStore struct {
	inner  Store
	ttl    time.Duration
	values *xsync.MapOf[string, cachedValue]
}

// NewCachedStore wraps inner with a read-through cache. The ttl bounds how
// long a value may be served without consulting the inner store; it must
// stay below the rotation interval of the cached secrets. A non-positive
// ttl disables caching and returns inner unchanged.
func NewCachedStore(inner Store, ttl time.Duration) Store {
	if ttl <= 0 {
		return inner
	}

	return &cachedStore{
		inner:  inner,
		ttl:    ttl,
		values: xsync.NewMapOf[cachedValue](),
	}
}

func (s *cachedStore) Get(ctx context.Context, name string) (string, error) {
	if cached, ok := s.values.Load(name); ok && time.Now().Before(cached.expiredAt) {
		return cached.value, nil
	}

	value, err := s.inner.Get(ctx, name)
	if err != nil {
		// Failures are not cached; the next lookup retries the inner store.
		return "", err
	}

	s.values.Store(name, cachedValue{value: value, expiredAt: time.Now().Add(s.ttl)})
	return value, nil
}
