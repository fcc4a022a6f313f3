package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger keeps ShowSeat rows in the show_seats table. Atomicity of
// TryAcquire comes from row locks: the rows are selected FOR UPDATE in
// ascending seat-id order inside one transaction, so overlapping acquisitions
// serialize on the first shared row and the loser observes the winner's
// committed status.
type PostgresLedger struct {
	db *pgxpool.Pool
}

func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) TryAcquire(ctx context.Context, showID int, seatIDs []int, holder string) ([]domain.ShowSeat, error) {
	seatIDs = normalizeSeatIDs(seatIDs)
	if len(seatIDs) == 0 {
		return nil, domain.ErrEmptySelection
	}

	var held []domain.ShowSeat

	err := runInTx(ctx, l.db, func(tx pgx.Tx) error {
		query := `
			SELECT ss.seat_id, s.seat_row, s.seat_col, s.category, ss.status
			FROM show_seats ss
			JOIN seats s ON ss.seat_id = s.id
			WHERE ss.show_id = $1 AND ss.seat_id = ANY($2)
			ORDER BY ss.seat_id
			FOR UPDATE OF ss
		`

		rows, err := tx.Query(ctx, query, showID, seatIDs)
		if err != nil {
			return err
		}

		seats := make([]domain.ShowSeat, 0, len(seatIDs))

		for rows.Next() {
			seat := domain.ShowSeat{ShowID: showID}

			err = rows.Scan(&seat.SeatID, &seat.Row, &seat.Col, &seat.Category, &seat.Status)
			if err != nil {
				rows.Close()
				return err
			}

			seats = append(seats, seat)
		}

		rows.Close()
		if err = rows.Err(); err != nil {
			return err
		}

		if len(seats) != len(seatIDs) {
			return fmt.Errorf("%w: %d of %d seats found in show %d",
				domain.ErrInvalidSeat, len(seats), len(seatIDs), showID)
		}

		for _, seat := range seats {
			if seat.Status != domain.SeatStatusAvailable {
				return fmt.Errorf("%w: seat %d", domain.ErrSeatUnavailable, seat.SeatID)
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE show_seats
			SET status = $1, held_by = $2, updated_at = NOW()
			WHERE show_id = $3 AND seat_id = ANY($4)
		`, domain.SeatStatusHeld, holder, showID, seatIDs)
		if err != nil {
			return err
		}

		held = seats
		for i := range held {
			held[i].Status = domain.SeatStatusHeld
			held[i].HeldBy = holder
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return held, nil
}

func (l *PostgresLedger) Release(ctx context.Context, showID int, seatIDs []int, holder string) error {
	seatIDs = normalizeSeatIDs(seatIDs)

	// The holder guard makes release a no-op for seats the booking no longer
	// owns, so the expiry sweep and an explicit cancel can both run it.
	_, err := l.db.Exec(ctx, `
		UPDATE show_seats
		SET status = $1, held_by = NULL, updated_at = NOW()
		WHERE show_id = $2 AND seat_id = ANY($3) AND status = $4 AND held_by = $5
	`, domain.SeatStatusAvailable, showID, seatIDs, domain.SeatStatusHeld, holder)

	return err
}

func (l *PostgresLedger) Finalize(ctx context.Context, showID int, seatIDs []int, holder string) error {
	seatIDs = normalizeSeatIDs(seatIDs)

	return runInTx(ctx, l.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE show_seats
			SET status = $1, updated_at = NOW()
			WHERE show_id = $2 AND seat_id = ANY($3) AND status = $4 AND held_by = $5
		`, domain.SeatStatusOccupied, showID, seatIDs, domain.SeatStatusHeld, holder)
		if err != nil {
			return err
		}

		if int(tag.RowsAffected()) != len(seatIDs) {
			return fmt.Errorf("%w: only %d of %d seats held by booking %s",
				domain.ErrInvalidTransition, tag.RowsAffected(), len(seatIDs), holder)
		}

		return nil
	})
}

func normalizeSeatIDs(seatIDs []int) []int {
	sorted := slices.Clone(seatIDs)
	slices.Sort(sorted)

	return slices.Compact(sorted)
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
