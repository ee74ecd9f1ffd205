package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/validation"
	pg "subscription-tracker/internal/infra/db/postgres"
	"subscription-tracker/internal/infra/logging"
	"subscription-tracker/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	user := flag.String("user", "demo-user", "owner of the seeded subscriptions")
	flag.Parse()

	// ---- Config ----
	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect Postgres
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	subUC := usecase.NewSubscriptionUseCase(pg.NewSubscriptionRepo(pool), pg.NewTxManager(pool), validation.New(), logger)

	// If the user already has subscriptions, do nothing
	existing, err := subUC.ListByUser(ctx, *user)
	if err != nil {
		log.Fatalf("list subscriptions: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d subscriptions already present for %s. No changes.\n", len(existing), *user)
		for _, s := range existing {
			fmt.Printf("  - %s (%s %s, %s, renews %s)\n", s.Name, s.Price, s.Currency, s.Status, s.RenewalDate.Format("2006-01-02"))
		}
		return
	}

	// A mix of live and lapsed subscriptions; the yearly one started long
	// enough ago that its derived renewal date has passed.
	now := time.Now().UTC()
	seed := []struct {
		Name      string
		Price     string
		Currency  model.Currency
		Frequency model.Frequency
		Category  model.Category
		Started   time.Time
	}{
		{"Netflix", "15.99", model.CurrencyUSD, model.FrequencyMonthly, model.CategoryEntertainment, now.AddDate(0, 0, -10)},
		{"Spotify", "9.99", model.CurrencyEUR, model.FrequencyMonthly, model.CategoryEntertainment, now.AddDate(0, 0, -3)},
		{"Gym", "35", model.CurrencyUSD, model.FrequencyWeekly, model.CategoryLifestyle, now.AddDate(0, 0, -2)},
		{"News Weekly", "120", model.CurrencyUSD, model.FrequencyYearly, model.CategoryNews, now.AddDate(-2, 0, 0)},
	}

	for _, s := range seed {
		price := decimal.RequireFromString(s.Price)
		started := s.Started
		sub, err := subUC.Create(ctx, &model.SubscriptionInput{
			Name:          s.Name,
			Price:         &price,
			Currency:      s.Currency,
			Frequency:     s.Frequency,
			Category:      s.Category,
			PaymentMethod: "Credit Card",
			StartDate:     &started,
			UserID:        *user,
		})
		if err != nil {
			log.Fatalf("create subscription %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, %s %s, %s, renews %s)\n", sub.Name, sub.ID, sub.Price, sub.Currency, sub.Status, sub.RenewalDate.Format("2006-01-02"))
	}

	fmt.Println("✅ Seeding complete.")
}
