package repository

import (
	"context"
	"errors"

	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) GetById(ctx context.Context, id int) (*domain.Show, error) {
	query := `
		SELECT id, movie_id, screen_id, start_time
		FROM shows
		WHERE id = $1
	`

	var show domain.Show

	err := p.db.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.MovieID,
		&show.ScreenID,
		&show.StartTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &show, nil
}

// GetShowSeats returns every ShowSeat row of the show, statuses included.
// Used to warm the in-memory and Redis ledgers at startup.
func (p *PostgresShowRepository) GetShowSeats(ctx context.Context, showID int) ([]domain.ShowSeat, error) {
	query := `
		SELECT ss.show_id, ss.seat_id, s.seat_row, s.seat_col, s.category, ss.status, COALESCE(ss.held_by, '')
		FROM show_seats ss
		JOIN seats s ON ss.seat_id = s.id
		WHERE ss.show_id = $1
		ORDER BY ss.seat_id
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showSeats := make([]domain.ShowSeat, 0)

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

		showSeats = append(showSeats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return showSeats, nil
}

// GetShowIds lists every show id. Ledger warm-up loads all of them, started
// shows included, so the warmed backends accept the same reservations the
// persistent ledger does.
func (p *PostgresShowRepository) GetShowIds(ctx context.Context) ([]int, error) {
	rows, err := p.db.Query(ctx, `SELECT id FROM shows ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)

	for rows.Next() {
		var id int

		if err = rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
