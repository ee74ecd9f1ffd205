package repository

import (
	"context"

	"subscription-tracker/internal/domain/model"
)

// SubscriptionRepository is the port for finalized subscriptions.
// Implementations own created_at/updated_at and the user_id index.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Subscription, error)

	// CountByStatus returns the number of stored subscriptions per status.
	CountByStatus(ctx context.Context, tx Tx) (map[model.SubscriptionStatus]int, error)
}
