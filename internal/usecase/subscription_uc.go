// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
	ports "subscription-tracker/internal/domain/ports/usecase"
	"subscription-tracker/internal/domain/validation"
	"subscription-tracker/internal/infra/logging"
	"subscription-tracker/internal/infra/metrics"
	"subscription-tracker/internal/infra/worker"
)

// Compile-time check
var _ ports.SubscriptionManager = (*SubscriptionUseCase)(nil)

// SubscriptionUseCase validates candidate subscriptions and hands finalized
// records to the repository.
type SubscriptionUseCase struct {
	subRepo   repository.SubscriptionRepository
	tm        repository.TransactionManager
	validator *validation.Validator
	newID     func() string
	log       *zerolog.Logger
	dev       bool
}

type Option func(*SubscriptionUseCase)

// WithIDGenerator replaces the ULID generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(uc *SubscriptionUseCase) { uc.newID = fn }
}

// WithDevMode disables PII redaction in logs.
func WithDevMode(dev bool) Option {
	return func(uc *SubscriptionUseCase) { uc.dev = dev }
}

func NewSubscriptionUseCase(subRepo repository.SubscriptionRepository, tm repository.TransactionManager, v *validation.Validator, logger *zerolog.Logger, opts ...Option) *SubscriptionUseCase {
	if v == nil {
		v = validation.New()
	}
	l := logger.With().Str("component", "SubscriptionUseCase").Logger()
	uc := &SubscriptionUseCase{
		subRepo:   subRepo,
		tm:        tm,
		validator: v,
		newID:     func() string { return ulid.Make().String() },
		log:       &l,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Validate runs the validator without persisting anything.
func (uc *SubscriptionUseCase) Validate(ctx context.Context, in *model.SubscriptionInput) (*model.Subscription, error) {
	sub, err := uc.validate(in)
	if err != nil {
		withViolations(logging.With(ctx, uc.log).Debug(), err).Msg("subscription rejected")
		return nil, err
	}
	return sub, nil
}

// Create validates in, assigns an ID and persists the finalized record.
func (uc *SubscriptionUseCase) Create(ctx context.Context, in *model.SubscriptionInput) (*model.Subscription, error) {
	defer logging.TraceDuration(uc.log, "SubscriptionUseCase.Create")()

	sub, err := uc.validate(in)
	if err != nil {
		withViolations(logging.With(ctx, uc.log).Info(), err).Msg("subscription rejected")
		return nil, err
	}
	sub.ID = uc.newID()

	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		return uc.subRepo.Save(ctx, tx, sub)
	})
	if err != nil {
		logging.With(ctx, uc.log).Error().Err(err).Str("subscription_id", sub.ID).Msg("save subscription failed")
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	inferred := validation.ExpiryInferred(in, sub)
	metrics.IncSubscriptionsCreated(inferred)

	ctx = logging.WithSubscriptionID(logging.WithUserID(ctx, sub.UserID), sub.ID)
	logging.With(ctx, uc.log).Info().
		Str("status", string(sub.Status)).
		Bool("expiry_inferred", inferred).
		Time("renewal_date", sub.RenewalDate).
		Str("payment_method", logging.Redact(sub.PaymentMethod, uc.dev)).
		Msg("subscription created")
	return sub, nil
}

func (uc *SubscriptionUseCase) Get(ctx context.Context, id string) (*model.Subscription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.subRepo.FindByID(ctx, repository.NoTX, id)
}

// ListByUser returns the user's subscriptions ordered by start date.
func (uc *SubscriptionUseCase) ListByUser(ctx context.Context, userID string) ([]*model.Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.subRepo.ListByUser(ctx, repository.NoTX, userID)
}

// CountByStatus returns stored subscriptions per status and refreshes the gauge.
func (uc *SubscriptionUseCase) CountByStatus(ctx context.Context) (map[model.SubscriptionStatus]int, error) {
	counts, err := uc.subRepo.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	metrics.SetSubscriptionsTotal(counts)
	return counts, nil
}

// ValidateBatch validates inputs on a pool of workers. The result slice has one
// entry per input, in input order. Records not validated before ctx is done
// carry ctx's error.
func (uc *SubscriptionUseCase) ValidateBatch(ctx context.Context, inputs []*model.SubscriptionInput, workers int) []ports.BatchResult {
	results := make([]ports.BatchResult, len(inputs))
	if len(inputs) == 0 {
		return results
	}

	pool := worker.NewPool(workers, uc.log)
	pool.Start(ctx)
	for i, in := range inputs {
		err := pool.Submit(ctx, func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				results[i] = ports.BatchResult{Index: i, Err: err}
				metrics.IncBatchJob("cancelled")
				return err
			}
			sub, err := uc.validate(in)
			results[i] = ports.BatchResult{Index: i, Subscription: sub, Err: err}
			if err != nil {
				metrics.IncBatchJob("invalid")
				return err
			}
			metrics.IncBatchJob("valid")
			return nil
		})
		if err != nil {
			for j := i; j < len(inputs); j++ {
				results[j] = ports.BatchResult{Index: j, Err: err}
			}
			break
		}
	}
	pool.Close()

	uc.log.Debug().Int("records", len(inputs)).Int("workers", pool.Size()).Msg("batch validated")
	return results
}

func (uc *SubscriptionUseCase) validate(in *model.SubscriptionInput) (*model.Subscription, error) {
	sub, err := uc.validator.Validate(in)
	if err != nil {
		kind := "unknown"
		if ve, ok := validation.AsValidationError(err); ok {
			kind = string(ve.Kind)
		}
		metrics.IncValidation("rejected", kind)
		return nil, err
	}
	metrics.IncValidation("ok", "none")
	return sub, nil
}

// withViolations adds the rejection kind and offending field names to ev.
func withViolations(ev *zerolog.Event, err error) *zerolog.Event {
	if ve, ok := validation.AsValidationError(err); ok {
		return ev.Str("kind", string(ve.Kind)).Strs("fields", ve.Fields())
	}
	return ev.Err(err)
}
