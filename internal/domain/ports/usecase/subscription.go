package usecase

import (
	"context"

	"subscription-tracker/internal/domain/model"
)

// BatchResult is the outcome of validating one record of a batch.
type BatchResult struct {
	Index        int
	Subscription *model.Subscription
	Err          error
}

// SubscriptionManager defines the subscription operations exposed to the API and CLI layers.
type SubscriptionManager interface {
	Validate(ctx context.Context, in *model.SubscriptionInput) (*model.Subscription, error)
	ValidateBatch(ctx context.Context, inputs []*model.SubscriptionInput, workers int) []BatchResult
	Create(ctx context.Context, in *model.SubscriptionInput) (*model.Subscription, error)
	Get(ctx context.Context, id string) (*model.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Subscription, error)
	CountByStatus(ctx context.Context) (map[model.SubscriptionStatus]int, error)
}
