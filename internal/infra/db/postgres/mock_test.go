//go:build !integration

package postgres

import (
	"context"
	"time"

	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
	red "subscription-tracker/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerSubscriptionRepo mocks the database repository that the decorator wraps.
type mockInnerSubscriptionRepo struct {
	SaveFunc          func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
	FindByIDFunc      func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error)
	ListByUserFunc    func(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error)
	CountByStatusFunc func(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error)
}

var _ repository.SubscriptionRepository = (*mockInnerSubscriptionRepo)(nil)

func (m *mockInnerSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	return m.SaveFunc(ctx, tx, s)
}
func (m *mockInnerSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerSubscriptionRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	return m.ListByUserFunc(ctx, tx, userID)
}
func (m *mockInnerSubscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	return m.CountByStatusFunc(ctx, tx)
}

// mockRedisClient mocks our Redis client wrapper. Unset funcs behave like an empty cache.
type mockRedisClient struct {
	GetFunc   func(ctx context.Context, key string) (string, error)
	SetFunc   func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc   func(ctx context.Context, keys ...string) error
	PingFunc  func(ctx context.Context) error
	CloseFunc func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc == nil {
		return "", red.Nil
	}
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc == nil {
		return nil
	}
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc == nil {
		return nil
	}
	return m.PingFunc(ctx)
}
func (m *mockRedisClient) Close() error {
	if m.CloseFunc == nil {
		return nil
	}
	return m.CloseFunc()
}
