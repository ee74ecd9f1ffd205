package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/usecase"
	"subscription-tracker/internal/domain/validation"
)

var (
	ErrEmptyBatch   = errors.New("empty input")
	ErrInvalidBatch = errors.New("input is not valid JSON")
)

// BatchItem is the reported outcome of one record of a batch.
type BatchItem struct {
	Index        int                    `json:"index"`
	Valid        bool                   `json:"valid"`
	Subscription *model.Subscription    `json:"subscription,omitempty"`
	Kind         validation.Kind        `json:"kind,omitempty"`
	Violations   []validation.Violation `json:"violations,omitempty"`
	Error        string                 `json:"error,omitempty"`
}

// SplitRecords accepts a single JSON object or an array of objects.
func SplitRecords(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrEmptyBatch
	}
	if trimmed[0] == '[' {
		var out []json.RawMessage
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, ErrInvalidBatch
		}
		return out, nil
	}
	if !json.Valid(trimmed) {
		return nil, ErrInvalidBatch
	}
	return []json.RawMessage{trimmed}, nil
}

// ValidateRecords decodes every record and validates the decodable ones on
// subs' worker pool. Records that fail to decode are reported without being
// validated. Items come back in input order.
func ValidateRecords(ctx context.Context, subs usecase.SubscriptionManager, records []json.RawMessage, workers int) []BatchItem {
	items := make([]BatchItem, len(records))
	inputs := make([]*model.SubscriptionInput, 0, len(records))
	positions := make([]int, 0, len(records))
	for i, rec := range records {
		in, err := ParseSubscriptionJSON(rec)
		if err != nil {
			items[i] = newBatchItem(i, nil, err)
			continue
		}
		inputs = append(inputs, in)
		positions = append(positions, i)
	}

	for _, br := range subs.ValidateBatch(ctx, inputs, workers) {
		i := positions[br.Index]
		items[i] = newBatchItem(i, br.Subscription, br.Err)
	}
	return items
}

func newBatchItem(i int, sub *model.Subscription, err error) BatchItem {
	if err == nil {
		return BatchItem{Index: i, Valid: true, Subscription: sub}
	}
	if ve, ok := validation.AsValidationError(err); ok {
		return BatchItem{Index: i, Kind: ve.Kind, Violations: ve.Violations, Error: "validation failed"}
	}
	return BatchItem{Index: i, Error: err.Error()}
}
