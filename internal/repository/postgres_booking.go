package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (id, user_id, show_id, status, total_price, created_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

		_, err := tx.Exec(ctx, query,
			booking.ID,
			booking.UserID,
			booking.ShowID,
			booking.Status,
			booking.TotalPrice,
			booking.CreatedAt,
			booking.ExpiresAt,
		)
		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(booking.Seats))
		for _, seat := range booking.Seats {
			rows = append(rows, []any{booking.ID, booking.ShowID, seat.SeatID})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "show_id", "seat_id"},
			pgx.CopyFromRows(rows),
		)

		return err
	})
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, show_id, status, total_price, created_at, expires_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowID,
		&booking.Status,
		&booking.TotalPrice,
		&booking.CreatedAt,
		&booking.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seats, err := p.retrieveBookingSeats(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	booking.Seats = seats

	return &booking, nil
}

// UpdateStatus is the compare-and-swap the lifecycle builds its idempotency
// on: the row moves only when its current status matches `from`, and the
// report of whether it moved decides which racing caller mutates seats.
func (p *PostgresBookingRepository) UpdateStatus(
	ctx context.Context,
	id string,
	from, to domain.BookingStatus) (bool, error) {

	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	tag, err := p.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (p *PostgresBookingRepository) GetExpired(ctx context.Context, now time.Time, limit int) ([]domain.Booking, error) {
	query := `
		SELECT id, user_id, show_id, status, total_price, created_at, expires_at
		FROM bookings
		WHERE status = $1 AND expires_at <= $2
		ORDER BY expires_at
		LIMIT $3
	`

	rows, err := p.db.Query(ctx, query, domain.BookingStatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking

		err = rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.ShowID,
			&booking.Status,
			&booking.TotalPrice,
			&booking.CreatedAt,
			&booking.ExpiresAt,
		)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			m.title,
			sh.start_time,
			b.status,
			b.total_price,
			b.created_at
		FROM bookings b
		JOIN shows sh ON b.show_id = sh.id
		JOIN movies m ON sh.movie_id = m.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err = rows.Scan(
			&totalRecords,
			&summary.BookingID,
			&summary.MovieTitle,
			&summary.ShowTime,
			&summary.Status,
			&summary.TotalPrice,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

func (p *PostgresBookingRepository) retrieveBookingSeats(ctx context.Context, bookingID string) ([]domain.ShowSeat, error) {
	query := `
		SELECT bs.show_id, bs.seat_id, s.seat_row, s.seat_col, s.category, ss.status, COALESCE(ss.held_by, '')
		FROM booking_seats bs
		JOIN seats s ON bs.seat_id = s.id
		JOIN show_seats ss ON ss.show_id = bs.show_id AND ss.seat_id = bs.seat_id
		WHERE bs.booking_id = $1
		ORDER BY bs.seat_id
	`

	rows, err := p.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.ShowSeat, 0)

	for rows.Next() {
		var seat domain.ShowSeat

		err = rows.Scan(
			&seat.ShowID,
			&seat.SeatID,
			&seat.Row,
			&seat.Col,
			&seat.Category,
			&seat.Status,
			&seat.HeldBy,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
