package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/model"
	"subscription-tracker/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

const uniqueViolation = "23505"

const subscriptionColumns = `id, name, price, currency, frequency, category, payment_method, status,
       start_date, renewal_date, user_id, created_at, updated_at`

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

// Save upserts s and writes the stored price and database-owned timestamps
// back into it.
func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, name, price, currency, frequency, category, payment_method, status, start_date, renewal_date, user_id
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  name=$2, price=$3, currency=$4, frequency=$5, category=$6, payment_method=$7,
  status=$8, start_date=$9, renewal_date=$10, user_id=$11, updated_at=NOW()
RETURNING price, created_at, updated_at;`

	row, err := pickRow(ctx, r.pool, tx, q,
		s.ID, s.Name, s.Price, string(s.Currency), string(s.Frequency), string(s.Category),
		s.PaymentMethod, string(s.Status), s.StartDate, s.RenewalDate, s.UserID)
	if err != nil {
		return err
	}
	if err := row.Scan(&s.Price, &s.CreatedAt, &s.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("%w: save subscription: %v", domain.ErrOperationFailed, err)
	}
	return nil
}

func (r *subscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	s, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func (r *subscriptionRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE user_id=$1
 ORDER BY start_date ASC, id ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	out := make([]*model.Subscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *subscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM subscriptions GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.SubscriptionStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.SubscriptionStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var s model.Subscription
	var currency, frequency, category, status string
	err := row.Scan(
		&s.ID, &s.Name, &s.Price, &currency, &frequency, &category, &s.PaymentMethod, &status,
		&s.StartDate, &s.RenewalDate, &s.UserID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Currency = model.Currency(currency)
	s.Frequency = model.Frequency(frequency)
	s.Category = model.Category(category)
	s.Status = model.SubscriptionStatus(status)
	return &s, nil
}
