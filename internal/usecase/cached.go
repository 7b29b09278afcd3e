package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"trip-sharing/internal/observability"
	"trip-sharing/pkg/cache"
)

// cacheNamespace extracts the metrics label from a cache key
// ("pricing:trip:<id>" -> "pricing").
func cacheNamespace(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

// readCached unmarshals a cached JSON value into out, recording the
// hit/miss. A corrupt entry counts as a miss.
func readCached[T any](ctx context.Context, store cache.Store, key string, out *T) bool {
	raw, ok := store.Get(ctx, key)
	ns := cacheNamespace(key)
	if !ok {
		observability.CacheMisses.WithLabelValues(ns).Inc()
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		observability.CacheMisses.WithLabelValues(ns).Inc()
		return false
	}
	observability.CacheHits.WithLabelValues(ns).Inc()
	return true
}

// writeCached stores a JSON-encoded value; encoding failures are
// dropped since caching is best-effort.
func writeCached(ctx context.Context, store cache.Store, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	store.Put(ctx, key, string(raw), ttl)
}
