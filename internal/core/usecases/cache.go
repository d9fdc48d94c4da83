package usecases

import (
	"context"
	"encoding/json"

	"github.com/agrivision/backend/internal/core/ports"
)

// cachedJSON wraps a loader with read-through JSON caching. Cache failures
// fall through to the loader; a nil cache disables caching entirely.
func cachedJSON[T any](ctx context.Context, cache ports.CacheService, key string, ttlSeconds int, load func() (*T, error)) (*T, error) {
	if cache != nil {
		if data, err := cache.Get(ctx, key); err == nil {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				return &v, nil
			}
		}
	}

	v, err := load()
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if data, err := json.Marshal(v); err == nil {
			_ = cache.Set(ctx, key, data, ttlSeconds)
		}
	}
	return v, nil
}
