//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
)

func newNopLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func sampleSubscription() *model.Subscription {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &model.Subscription{
		ID:            "01HZX5V7K3S9Q2W8E4R6T1Y0UA",
		Name:          "Netflix",
		Price:         decimal.RequireFromString("15.99"),
		Currency:      model.CurrencyUSD,
		Frequency:     model.FrequencyMonthly,
		Category:      model.CategoryEntertainment,
		PaymentMethod: "Credit Card",
		Status:        model.SubscriptionStatusActive,
		StartDate:     start,
		RenewalDate:   start.AddDate(0, 0, 30),
		UserID:        "user-1",
	}
}

func TestSubscriptionRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	sub := sampleSubscription()
	subJSON, _ := json.Marshal(sub)

	t.Run("FindByID should return from cache on hit", func(t *testing.T) {
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				if key != "subscription:"+sub.ID {
					t.Errorf("unexpected cache key %q", key)
				}
				return string(subJSON), nil
			},
		}
		innerCalled := false
		inner := &mockInnerSubscriptionRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
				innerCalled = true
				return nil, nil
			},
		}

		got, err := NewSubscriptionRepoCacheDecorator(inner, mockRedis, time.Minute, newNopLogger()).FindByID(ctx, nil, sub.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if got.ID != sub.ID || !got.Price.Equal(sub.Price) || !got.RenewalDate.Equal(sub.RenewalDate) {
			t.Errorf("unexpected cached subscription: %+v", got)
		}
	})

	t.Run("FindByID should load and populate cache on miss", func(t *testing.T) {
		var setKey string
		var setTTL time.Duration
		mockRedis := &mockRedisClient{
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setKey, setTTL = key, expiration
				return nil
			},
		}
		inner := &mockInnerSubscriptionRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
				return sub, nil
			},
		}

		got, err := NewSubscriptionRepoCacheDecorator(inner, mockRedis, 5*time.Minute, newNopLogger()).FindByID(ctx, nil, sub.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != sub {
			t.Error("expected the inner repository result")
		}
		if setKey != "subscription:"+sub.ID || setTTL != 5*time.Minute {
			t.Errorf("unexpected cache write key=%q ttl=%s", setKey, setTTL)
		}
	})

	t.Run("FindByID should fall through on cache errors", func(t *testing.T) {
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", errors.New("connection refused")
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				return errors.New("connection refused")
			},
		}
		inner := &mockInnerSubscriptionRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
				return sub, nil
			},
		}
		got, err := NewSubscriptionRepoCacheDecorator(inner, mockRedis, time.Minute, newNopLogger()).FindByID(ctx, nil, sub.ID)
		if err != nil || got != sub {
			t.Fatalf("expected inner result, got %v, %v", got, err)
		}
	})

	t.Run("FindByID should not cache not-found", func(t *testing.T) {
		setCalled := false
		mockRedis := &mockRedisClient{
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setCalled = true
				return nil
			},
		}
		inner := &mockInnerSubscriptionRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
				return nil, domain.ErrNotFound
			},
		}
		_, err := NewSubscriptionRepoCacheDecorator(inner, mockRedis, time.Minute, newNopLogger()).FindByID(ctx, nil, "missing")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if setCalled {
			t.Error("not-found results must not be cached")
		}
	})

	t.Run("Save should invalidate the cache", func(t *testing.T) {
		var deletedKeys []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deletedKeys = append(deletedKeys, keys...)
				return nil
			},
		}
		saved := false
		inner := &mockInnerSubscriptionRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
				saved = true
				return nil
			},
		}

		if err := NewSubscriptionRepoCacheDecorator(inner, mockRedis, time.Minute, newNopLogger()).Save(ctx, nil, sub); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !saved {
			t.Error("expected inner Save to be called")
		}
		if len(deletedKeys) != 1 || deletedKeys[0] != "subscription:"+sub.ID {
			t.Errorf("unexpected invalidated keys %v", deletedKeys)
		}
	})

	t.Run("ListByUser and CountByStatus should pass through", func(t *testing.T) {
		inner := &mockInnerSubscriptionRepo{
			ListByUserFunc: func(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
				return []*model.Subscription{sub}, nil
			},
			CountByStatusFunc: func(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
				return map[model.SubscriptionStatus]int{model.SubscriptionStatusActive: 1}, nil
			},
		}
		d := NewSubscriptionRepoCacheDecorator(inner, &mockRedisClient{}, time.Minute, newNopLogger())
		list, err := d.ListByUser(ctx, nil, "user-1")
		if err != nil || len(list) != 1 {
			t.Fatalf("unexpected list result %v, %v", list, err)
		}
		counts, err := d.CountByStatus(ctx, nil)
		if err != nil || counts[model.SubscriptionStatusActive] != 1 {
			t.Fatalf("unexpected counts %v, %v", counts, err)
		}
	})
}
