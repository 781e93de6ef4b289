package service

import (
	"context"
	"encoding/json"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"menu-service/internal/cache"
	"menu-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// invalidations counts the invalidations issued by this process. Reads compare
// it before and after a store fetch.
var invalidations atomic.Uint64

// readThrough serves key from the cache, or loads it with fetch and stores the
// result. Cache failures are logged and handled as misses; fetch errors are
// returned as is.
func readThrough[T any](ctx context.Context, c cache.Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Error reading from cache, falling back to store")
	}

	if ok {
		var cached T
		err := json.Unmarshal(raw, &cached)
		if err == nil {
			return cached, nil
		}
		logger.Error().Err(err).Str("key", key).Msg("Error unmarshalling cached value")
	}

	epoch := invalidations.Load()
	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	storeFresh(ctx, c, key, value, epoch)
	return value, nil
}

// storeFresh stores value unless an invalidation ran since epoch was read.
// An invalidation racing the write itself removes the key again.
func storeFresh(ctx context.Context, c cache.Cache, key string, value interface{}, epoch uint64) {
	if invalidations.Load() != epoch {
		logger.Debug().Str("key", key).Msg("Skipping cache write after concurrent invalidation")
		return
	}
	store(ctx, c, key, value)
	if invalidations.Load() != epoch {
		if err := c.Delete(ctx, key); err != nil {
			logger.Error().Err(err).Str("key", key).Msg("Error dropping raced cache write")
		}
	}
}

// store writes value under key. Failures are logged only.
func store(ctx context.Context, c cache.Cache, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Error marshalling value for cache")
		return
	}
	if err := c.Set(ctx, key, data); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Error setting value in cache")
	}
}

// invalidate drops the keys made stale by op. Failures are logged only: the
// store write has already succeeded.
func invalidate(ctx context.Context, c cache.Cache, level cache.Level, op cache.Op, scope cache.Scope) {
	keys := cache.InvalidationKeys(level, op, scope)
	invalidations.Add(1)
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Error().Err(err).Strs("keys", keys).Msg("Error invalidating cache")
	}
}

// dishDiscount reads the promotional discount of a dish from the side cache.
// A missing, unreadable or out of range entry means no discount.
func dishDiscount(ctx context.Context, c cache.Cache, dishID uuid.UUID) *decimal.Decimal {
	raw, ok, err := c.Get(ctx, cache.DiscountKey(dishID))
	if err != nil {
		logger.Warn().Err(err).Str("dish_id", dishID.String()).Msg("Error reading dish discount from cache")
		return nil
	}
	if !ok {
		return nil
	}

	value, err := decimal.NewFromString(string(raw))
	if err != nil {
		logger.Warn().Err(err).Str("dish_id", dishID.String()).Msg("Invalid dish discount in cache")
		return nil
	}
	if !entity.DiscountInRange(value) {
		logger.Warn().Str("dish_id", dishID.String()).Str("discount", value.String()).Msg("Dish discount out of range in cache")
		return nil
	}
	return &value
}
