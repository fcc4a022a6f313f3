package repository

import (
	"context"
	"errors"

	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (booking_id, amount, currency, status, checkout_session_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := p.db.QueryRow(ctx, query,
		payment.BookingID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.CheckoutSessionID,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func (p *PostgresPaymentRepository) UpdateStatusByCheckoutSession(
	ctx context.Context,
	checkoutSessionID string,
	status domain.PaymentStatus) error {

	query := `
		UPDATE payments
		SET status = $1, payment_date = NOW(), updated_at = NOW()
		WHERE checkout_session_id = $2
	`

	tag, err := p.db.Exec(ctx, query, status, checkoutSessionID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
