package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinder-ng/carefinder/internal/api/middleware"
	"github.com/carefinder-ng/carefinder/internal/application/services"
	"github.com/carefinder-ng/carefinder/internal/domain/entities"
)

// globCache is an in-memory CacheProvider whose DeletePattern honors Redis
// glob semantics, so invalidation patterns are exercised against real keys.
type globCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes chan string
}

func newGlobCache() *globCache {
	return &globCache{
		entries: make(map[string][]byte),
		deletes: make(chan string, 8),
	}
}

func (c *globCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, ok := c.entries[key]; ok {
		return data, nil
	}
	return nil, assert.AnError
}

func (c *globCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *globCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *globCache) DeletePattern(ctx context.Context, pattern string) error {
	re := globToRegexp(pattern)
	c.mu.Lock()
	for key := range c.entries {
		if re.MatchString(key) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	c.deletes <- pattern
	return nil
}

func (c *globCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}

func globToRegexp(pattern string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(pattern)
	return regexp.MustCompile("^" + strings.ReplaceAll(escaped, `\*`, ".*") + "$")
}

// channelEventBus hands subscribers a channel the test feeds directly.
type channelEventBus struct {
	events chan *entities.HospitalEvent
}

func newChannelEventBus() *channelEventBus {
	return &channelEventBus{events: make(chan *entities.HospitalEvent, 8)}
}

func (b *channelEventBus) Publish(ctx context.Context, channel string, event *entities.HospitalEvent) error {
	b.events <- event
	return nil
}

func (b *channelEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.HospitalEvent, error) {
	return b.events, nil
}

func (b *channelEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *channelEventBus) Close() error { return nil }

func waitForDeletes(t *testing.T, c *globCache, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-c.deletes:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for cache invalidation")
		}
	}
}

func cachedHandler(cache *globCache, hits *int) http.Handler {
	mw := middleware.NewCacheMiddleware(cache, nil)
	return mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Lagoon Hospital"}`))
	}))
}

func TestHospitalEventEvictsCachedDetailResponse(t *testing.T) {
	cache := newGlobCache()
	var hits int
	handler := cachedHandler(cache, &hits)

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hospitals/abc-123", nil))
		return w
	}

	first := get()
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	require.Equal(t, 1, hits)

	second := get()
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	require.Equal(t, 1, hits)

	bus := newChannelEventBus()
	invalidation := services.NewCacheInvalidationService(cache, bus)
	require.NoError(t, invalidation.Start())
	defer invalidation.Stop()

	require.NoError(t, bus.Publish(context.Background(),
		"hospital:updates",
		entities.NewHospitalEvent("abc-123", entities.HospitalEventTypeCreated, "Lagoon Hospital")))
	waitForDeletes(t, cache, 3)

	third := get()
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestHospitalEventEvictsCachedSearchResponses(t *testing.T) {
	cache := newGlobCache()
	var hits int
	handler := cachedHandler(cache, &hits)

	search := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hospitals?searchTerm=lagos&searchType=location", nil))
		return w
	}

	search()
	cached := search()
	assert.Equal(t, "HIT", cached.Header().Get("X-Cache"))
	require.Equal(t, 1, hits)

	bus := newChannelEventBus()
	invalidation := services.NewCacheInvalidationService(cache, bus)
	require.NoError(t, invalidation.Start())
	defer invalidation.Stop()

	require.NoError(t, bus.Publish(context.Background(),
		"hospital:updates",
		entities.NewHospitalEvent("new-hospital", entities.HospitalEventTypeCreated, "Garki Hospital")))
	waitForDeletes(t, cache, 3)

	refreshed := search()
	assert.Equal(t, "MISS", refreshed.Header().Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestInvalidateHospitalCacheDoesNotSweepPrefixedIds(t *testing.T) {
	cache := newGlobCache()
	var hits int
	handler := cachedHandler(cache, &hits)

	get := func(id string) {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/hospitals/"+id, nil))
	}

	get("abc-1")
	get("abc-12")

	invalidation := services.NewCacheInvalidationService(cache, newChannelEventBus())
	require.NoError(t, invalidation.InvalidateHospitalCache(context.Background(), "abc-1"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hospitals/abc-12", nil))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
}
