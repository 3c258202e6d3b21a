package repository

import (
	"context"
	"time"

	"github.com/avdeenkov/homebook-checkout/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttemptRepository interface {
	CreateInitiated(ctx context.Context, attempt *domain.PaymentAttempt) error
	GetByToken(ctx context.Context, token string) (*domain.PaymentAttempt, error)
	UpdateStatus(ctx context.Context, token string, status domain.AttemptStatus, bookingID string) (*domain.PaymentAttempt, error)
	ExpireInitiatedBefore(ctx context.Context, deadline time.Time) ([]domain.PaymentAttempt, error)
}

type PGAttemptRepository struct {
	db *pgxpool.Pool
}

func NewAttemptRepository(db *pgxpool.Pool) AttemptRepository {
	return &PGAttemptRepository{db: db}
}

func (r *PGAttemptRepository) CreateInitiated(ctx context.Context, attempt *domain.PaymentAttempt) error {
	attempt.Status = domain.AttemptStatusInitiated
	return r.db.QueryRow(ctx, `INSERT INTO payment_attempts (session_id, token, email, status, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`, attempt.SessionID, attempt.Token, attempt.Email, attempt.Status, attempt.ExpiresAt).
		Scan(&attempt.ID, &attempt.CreatedAt, &attempt.UpdatedAt)
}

func (r *PGAttemptRepository) GetByToken(ctx context.Context, token string) (*domain.PaymentAttempt, error) {
	row := r.db.QueryRow(ctx, `SELECT id, session_id, token, email, status, booking_id, expires_at, created_at, updated_at FROM payment_attempts WHERE token=$1`, token)
	var a domain.PaymentAttempt
	if err := row.Scan(&a.ID, &a.SessionID, &a.Token, &a.Email, &a.Status, &a.BookingID, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PGAttemptRepository) UpdateStatus(ctx context.Context, token string, status domain.AttemptStatus, bookingID string) (*domain.PaymentAttempt, error) {
	row := r.db.QueryRow(ctx, `UPDATE payment_attempts SET status=$1, booking_id=$2, updated_at=now() WHERE token=$3 RETURNING id, session_id, token, email, status, booking_id, expires_at, created_at, updated_at`, status, bookingID, token)
	var a domain.PaymentAttempt
	if err := row.Scan(&a.ID, &a.SessionID, &a.Token, &a.Email, &a.Status, &a.BookingID, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ExpireInitiatedBefore marks abandoned redirects: attempts that were
// initiated but never reconciled by the deadline.
func (r *PGAttemptRepository) ExpireInitiatedBefore(ctx context.Context, deadline time.Time) ([]domain.PaymentAttempt, error) {
	rows, err := r.db.Query(ctx, `UPDATE payment_attempts SET status=$1, updated_at=now() WHERE status=$2 AND expires_at <= $3 RETURNING id, session_id, token, email, status, booking_id, expires_at, created_at, updated_at`, domain.AttemptStatusExpired, domain.AttemptStatusInitiated, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.PaymentAttempt
	for rows.Next() {
		var a domain.PaymentAttempt
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Token, &a.Email, &a.Status, &a.BookingID, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		expired = append(expired, a)
	}
	return expired, rows.Err()
}

var _ AttemptRepository = (*PGAttemptRepository)(nil)
