//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
)

func newSub(id, userID string, start time.Time, status model.SubscriptionStatus) *model.Subscription {
	return &model.Subscription{
		ID:            id,
		Name:          "Sub " + id,
		Price:         decimal.RequireFromString("9.5"),
		Currency:      model.CurrencyEUR,
		Frequency:     model.FrequencyWeekly,
		Category:      model.CategoryNews,
		PaymentMethod: "SEPA",
		Status:        status,
		StartDate:     start,
		RenewalDate:   start.AddDate(0, 0, 7),
		UserID:        userID,
	}
}

func TestSubscriptionRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewSubscriptionRepo(testPool)
	start := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Save and FindByID round trip", func(t *testing.T) {
		cleanup(t)
		s := newSub("sub-1", "user-1", start, model.SubscriptionStatusActive)
		if err := repo.Save(ctx, nil, s); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
			t.Error("expected database timestamps to be written back")
		}

		got, err := repo.FindByID(ctx, nil, "sub-1")
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if !got.Price.Equal(s.Price) || got.Currency != model.CurrencyEUR || !got.RenewalDate.Equal(s.RenewalDate) {
			t.Errorf("unexpected record: %+v", got)
		}
	})

	t.Run("Save keeps every decimal place of the price", func(t *testing.T) {
		cleanup(t)
		s := newSub("sub-precise", "user-1", start, model.SubscriptionStatusActive)
		s.Price = decimal.RequireFromString("9.99999")
		if err := repo.Save(ctx, nil, s); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		want := decimal.RequireFromString("9.99999")
		if !s.Price.Equal(want) {
			t.Errorf("expected saved price %s, got %s", want, s.Price)
		}
		got, err := repo.FindByID(ctx, nil, "sub-precise")
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if !got.Price.Equal(want) {
			t.Errorf("expected stored price %s, got %s", want, got.Price)
		}
	})

	t.Run("FindByID returns ErrNotFound", func(t *testing.T) {
		cleanup(t)
		if _, err := repo.FindByID(ctx, nil, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListByUser orders by start date", func(t *testing.T) {
		cleanup(t)
		_ = repo.Save(ctx, nil, newSub("b", "user-1", start.AddDate(0, 0, 2), model.SubscriptionStatusActive))
		_ = repo.Save(ctx, nil, newSub("a", "user-1", start, model.SubscriptionStatusExpired))
		_ = repo.Save(ctx, nil, newSub("c", "user-2", start, model.SubscriptionStatusActive))

		list, err := repo.ListByUser(ctx, nil, "user-1")
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
			t.Errorf("unexpected list order: %v", list)
		}

		counts, err := repo.CountByStatus(ctx, nil)
		if err != nil {
			t.Fatalf("CountByStatus failed: %v", err)
		}
		if counts[model.SubscriptionStatusActive] != 2 || counts[model.SubscriptionStatusExpired] != 1 {
			t.Errorf("unexpected counts: %v", counts)
		}
	})

	t.Run("Save inside a rolled back transaction is discarded", func(t *testing.T) {
		cleanup(t)
		tm := NewTxManager(testPool)
		boom := errors.New("boom")
		err := tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			if err := repo.Save(ctx, tx, newSub("tx-1", "user-1", start, model.SubscriptionStatusActive)); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected callback error, got %v", err)
		}
		if _, err := repo.FindByID(ctx, nil, "tx-1"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected rolled back record to be absent, got %v", err)
		}
	})
}
