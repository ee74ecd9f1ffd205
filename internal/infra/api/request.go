package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/validation"
)

// dateLayouts are accepted for startDate and renewalDate; date-only values are UTC midnight.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// subscriptionRequest is the JSON body of create and validate calls. Dates
// are kept as strings so date-only values can be accepted.
type subscriptionRequest struct {
	Name          string           `json:"name"`
	Price         *decimal.Decimal `json:"price"`
	Currency      string           `json:"currency"`
	Frequency     string           `json:"frequency"`
	Category      string           `json:"category"`
	PaymentMethod string           `json:"paymentMethod"`
	Status        string           `json:"status"`
	StartDate     *string          `json:"startDate"`
	RenewalDate   *string          `json:"renewalDate"`
	User          string           `json:"user"`
}

// ParseSubscriptionJSON decodes one candidate record. Unparseable dates are
// reported as a field constraint failure.
func ParseSubscriptionJSON(b []byte) (*model.SubscriptionInput, error) {
	var req subscriptionRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return nil, err
	}
	return req.toInput()
}

func (r *subscriptionRequest) toInput() (*model.SubscriptionInput, error) {
	in := &model.SubscriptionInput{
		Name:          r.Name,
		Price:         r.Price,
		Currency:      model.Currency(strings.TrimSpace(r.Currency)),
		Frequency:     model.Frequency(strings.TrimSpace(r.Frequency)),
		Category:      model.Category(strings.TrimSpace(r.Category)),
		PaymentMethod: r.PaymentMethod,
		Status:        model.SubscriptionStatus(strings.TrimSpace(r.Status)),
		UserID:        r.User,
	}

	var bad []validation.Violation
	if t, err := parseDate(r.StartDate); err != nil {
		bad = append(bad, validation.Violation{Field: "startDate", Message: err.Error()})
	} else {
		in.StartDate = t
	}
	if t, err := parseDate(r.RenewalDate); err != nil {
		bad = append(bad, validation.Violation{Field: "renewalDate", Message: err.Error()})
	} else {
		in.RenewalDate = t
	}
	if len(bad) > 0 {
		return nil, &validation.ValidationError{Kind: validation.KindFieldConstraint, Violations: bad}
	}
	return in, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%q is not a valid date", v)
}
