package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyPKR Currency = "PKR"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

type Category string

const (
	CategorySports        Category = "sports"
	CategoryNews          Category = "news"
	CategoryEntertainment Category = "entertainment"
	CategoryLifestyle     Category = "lifestyle"
	CategoryTechnology    Category = "technology"
	CategoryFinance       Category = "finance"
	CategoryPolitics      Category = "politics"
	CategoryOther         Category = "other"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

var (
	Currencies  = []Currency{CurrencyUSD, CurrencyEUR, CurrencyPKR}
	Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly}
	Categories  = []Category{
		CategorySports, CategoryNews, CategoryEntertainment, CategoryLifestyle,
		CategoryTechnology, CategoryFinance, CategoryPolitics, CategoryOther,
	}
	Statuses = []SubscriptionStatus{SubscriptionStatusActive, SubscriptionStatusCancelled, SubscriptionStatusExpired}
)

func (c Currency) Valid() bool {
	for _, v := range Currencies {
		if v == c {
			return true
		}
	}
	return false
}

func (f Frequency) Valid() bool {
	_, ok := periodDays[f]
	return ok
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func (s SubscriptionStatus) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// periodDays is the renewal period of each billing frequency, in calendar days.
var periodDays = map[Frequency]int{
	FrequencyDaily:   1,
	FrequencyWeekly:  7,
	FrequencyMonthly: 30,
	FrequencyYearly:  365,
}

// Period returns the renewal period of f in calendar days.
func Period(f Frequency) (int, bool) {
	d, ok := periodDays[f]
	return d, ok
}

// SubscriptionInput is a candidate record as submitted by a caller.
// Pointer and empty-string fields are treated as absent.
type SubscriptionInput struct {
	Name          string             `json:"name"`
	Price         *decimal.Decimal   `json:"price"`
	Currency      Currency           `json:"currency,omitempty"`
	Frequency     Frequency          `json:"frequency,omitempty"`
	Category      Category           `json:"category"`
	PaymentMethod string             `json:"paymentMethod"`
	Status        SubscriptionStatus `json:"status,omitempty"`
	StartDate     *time.Time         `json:"startDate"`
	RenewalDate   *time.Time         `json:"renewalDate,omitempty"`
	UserID        string             `json:"user"`
}

// Subscription is a finalized subscription record.
type Subscription struct {
	ID            string             `json:"id,omitempty"`
	Name          string             `json:"name"`
	Price         decimal.Decimal    `json:"price"`
	Currency      Currency           `json:"currency"`
	Frequency     Frequency          `json:"frequency,omitempty"`
	Category      Category           `json:"category"`
	PaymentMethod string             `json:"paymentMethod"`
	Status        SubscriptionStatus `json:"status"`
	StartDate     time.Time          `json:"startDate"`
	RenewalDate   time.Time          `json:"renewalDate"`
	UserID        string             `json:"user"`
	CreatedAt     time.Time          `json:"createdAt,omitzero"`
	UpdatedAt     time.Time          `json:"updatedAt,omitzero"`
}

// Input converts a finalized record back into a candidate, e.g. to re-validate it.
func (s *Subscription) Input() *SubscriptionInput {
	price := s.Price
	start := s.StartDate
	renewal := s.RenewalDate
	return &SubscriptionInput{
		Name:          s.Name,
		Price:         &price,
		Currency:      s.Currency,
		Frequency:     s.Frequency,
		Category:      s.Category,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		StartDate:     &start,
		RenewalDate:   &renewal,
		UserID:        s.UserID,
	}
}
