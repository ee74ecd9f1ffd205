// Package validation checks candidate subscriptions and derives their renewal schedule.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain/model"
)

const (
	nameMinLen = 2
	nameMaxLen = 50
)

var (
	priceMin = decimal.Zero
	priceMax = decimal.NewFromInt(1000)
)

// fieldRule checks one field of a candidate. check returns the violation
// message and false when the field is invalid.
type fieldRule struct {
	field string
	check func(in *model.SubscriptionInput) (string, bool)
}

// temporalRule is a cross-field rule evaluated against a single "now".
type temporalRule struct {
	field string
	check func(in *model.SubscriptionInput, now time.Time) (string, bool)
}

var fieldRules = []fieldRule{
	{"name", func(in *model.SubscriptionInput) (string, bool) {
		n := utf8.RuneCountInString(in.Name)
		switch {
		case n == 0:
			return "Subscription name is required", false
		case n < nameMinLen:
			return fmt.Sprintf("Subscription name must be at least %d characters", nameMinLen), false
		case n > nameMaxLen:
			return fmt.Sprintf("Subscription name must be at most %d characters", nameMaxLen), false
		}
		return "", true
	}},
	{"price", func(in *model.SubscriptionInput) (string, bool) {
		switch {
		case in.Price == nil:
			return "Subscription price is required", false
		case in.Price.LessThan(priceMin):
			return "Price must be greater than 0", false
		case in.Price.GreaterThan(priceMax):
			return "Price must be less than 1000", false
		}
		return "", true
	}},
	{"currency", func(in *model.SubscriptionInput) (string, bool) {
		return enumMessage(string(in.Currency), "currency"), in.Currency.Valid()
	}},
	{"frequency", func(in *model.SubscriptionInput) (string, bool) {
		if in.Frequency == "" {
			return "", true
		}
		return enumMessage(string(in.Frequency), "frequency"), in.Frequency.Valid()
	}},
	{"category", func(in *model.SubscriptionInput) (string, bool) {
		if in.Category == "" {
			return "Subscription category is required", false
		}
		return enumMessage(string(in.Category), "category"), in.Category.Valid()
	}},
	{"paymentMethod", func(in *model.SubscriptionInput) (string, bool) {
		return "Payment method is required", in.PaymentMethod != ""
	}},
	{"status", func(in *model.SubscriptionInput) (string, bool) {
		return enumMessage(string(in.Status), "status"), in.Status.Valid()
	}},
	{"startDate", func(in *model.SubscriptionInput) (string, bool) {
		return "Start date is required", in.StartDate != nil
	}},
	{"user", func(in *model.SubscriptionInput) (string, bool) {
		return "User is required", in.UserID != ""
	}},
}

// temporalRules run in order and halt on the first failure.
var temporalRules = []temporalRule{
	{"startDate", func(in *model.SubscriptionInput, now time.Time) (string, bool) {
		return "Start date must be in the past", !in.StartDate.After(now)
	}},
	{"renewalDate", func(in *model.SubscriptionInput, now time.Time) (string, bool) {
		if in.RenewalDate == nil {
			return "", true
		}
		return "Renewal date must be after the start date", in.RenewalDate.After(*in.StartDate)
	}},
}

func enumMessage(value, field string) string {
	return fmt.Sprintf("`%s` is not a valid %s", value, field)
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the time source used for "now".
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// Validator validates candidate subscriptions. It holds no mutable state and
// is safe for concurrent use.
type Validator struct {
	now func() time.Time
}

func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks in and returns the finalized subscription. On failure the
// error is a *ValidationError. in is not modified.
//
// A missing renewal date is derived from the start date and frequency; if the
// derived date is already in the past and the caller did not supply a status,
// the subscription is marked expired. An explicit renewal date is never
// recomputed and never affects status.
func (v *Validator) Validate(in *model.SubscriptionInput) (*model.Subscription, error) {
	if in == nil {
		return nil, newError(KindFieldConstraint, Violation{Field: "subscription", Message: "Subscription is required"})
	}
	now := v.now()

	statusSupplied := in.Status != ""
	c := normalize(in)

	var violations []Violation
	for _, r := range fieldRules {
		if msg, ok := r.check(&c); !ok {
			violations = append(violations, Violation{Field: r.field, Message: msg})
		}
	}
	if len(violations) > 0 {
		return nil, newError(KindFieldConstraint, violations...)
	}

	for _, r := range temporalRules {
		if msg, ok := r.check(&c, now); !ok {
			return nil, newError(KindCrossFieldTemporal, Violation{Field: r.field, Message: msg})
		}
	}

	sub := &model.Subscription{
		Name:          c.Name,
		Price:         *c.Price,
		Currency:      c.Currency,
		Frequency:     c.Frequency,
		Category:      c.Category,
		PaymentMethod: c.PaymentMethod,
		Status:        c.Status,
		StartDate:     *c.StartDate,
		UserID:        c.UserID,
	}

	if c.RenewalDate != nil {
		sub.RenewalDate = *c.RenewalDate
		return sub, nil
	}

	renewal, err := DeriveRenewalDate(sub.StartDate, c.Frequency)
	if err != nil {
		return nil, err
	}
	sub.RenewalDate = renewal
	if !statusSupplied && renewal.Before(now) {
		sub.Status = model.SubscriptionStatusExpired
	}
	return sub, nil
}

// ExpiryInferred reports whether sub, as returned by Validate for in, was
// marked expired by inference rather than by the caller.
func ExpiryInferred(in *model.SubscriptionInput, sub *model.Subscription) bool {
	if in == nil || sub == nil || sub.Status != model.SubscriptionStatusExpired {
		return false
	}
	return in.Status == "" && (in.RenewalDate == nil || in.RenewalDate.IsZero())
}

// DeriveRenewalDate adds the frequency's period to start in whole calendar
// days, keeping start's wall clock and location.
func DeriveRenewalDate(start time.Time, f model.Frequency) (time.Time, error) {
	days, ok := model.Period(f)
	if !ok {
		msg := fmt.Sprintf("Unsupported frequency %q", string(f))
		if f == "" {
			msg = "Frequency is required to derive the renewal date"
		}
		return time.Time{}, newError(KindUnsupportedFrequency, Violation{Field: "frequency", Message: msg})
	}
	return start.AddDate(0, 0, days), nil
}

// normalize returns a trimmed copy of in with defaults applied. Zero dates are
// treated as absent.
func normalize(in *model.SubscriptionInput) model.SubscriptionInput {
	c := *in
	c.Name = strings.TrimSpace(c.Name)
	c.PaymentMethod = strings.TrimSpace(c.PaymentMethod)
	c.UserID = strings.TrimSpace(c.UserID)
	if c.Currency == "" {
		c.Currency = model.CurrencyUSD
	}
	if c.Status == "" {
		c.Status = model.SubscriptionStatusActive
	}
	if c.StartDate != nil && c.StartDate.IsZero() {
		c.StartDate = nil
	}
	if c.RenewalDate != nil && c.RenewalDate.IsZero() {
		c.RenewalDate = nil
	}
	return c
}
