package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
	"subscription-tracker/internal/infra/metrics"
	red "subscription-tracker/internal/infra/redis"
)

var _ repository.SubscriptionRepository = (*subscriptionRepoCacheDecorator)(nil)

// subscriptionRepoCacheDecorator caches FindByID results in Redis. Cache
// failures are logged and fall through to the inner repository.
type subscriptionRepoCacheDecorator struct {
	inner repository.SubscriptionRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewSubscriptionRepoCacheDecorator(inner repository.SubscriptionRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.SubscriptionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	l := logger.With().Str("component", "SubscriptionCache").Logger()
	return &subscriptionRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   &l,
	}
}

func subscriptionKey(id string) string { return fmt.Sprintf("subscription:%s", id) }

func (d *subscriptionRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	key := subscriptionKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var s model.Subscription
		if json.Unmarshal([]byte(val), &s) == nil {
			metrics.IncCacheRequest("subscription", "hit")
			return &s, nil
		}
	} else if !errors.Is(err, red.Nil) {
		d.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	metrics.IncCacheRequest("subscription", "miss")
	s, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(s); err == nil {
		if err := d.cache.Set(ctx, key, b, d.ttl); err != nil {
			d.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return s, nil
}

// Save invalidates the cached record before writing through.
func (d *subscriptionRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if err := d.cache.Del(ctx, subscriptionKey(s.ID)); err != nil {
		d.log.Warn().Err(err).Str("subscription_id", s.ID).Msg("cache invalidation failed")
	}
	return d.inner.Save(ctx, tx, s)
}

func (d *subscriptionRepoCacheDecorator) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	return d.inner.ListByUser(ctx, tx, userID)
}

func (d *subscriptionRepoCacheDecorator) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	return d.inner.CountByStatus(ctx, tx)
}
