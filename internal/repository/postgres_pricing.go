package repository

import (
	"context"

	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPriceRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPriceRepository(db *pgxpool.Pool) *PostgresPriceRepository {
	return &PostgresPriceRepository{
		db: db,
	}
}

func (p *PostgresPriceRepository) GetPricesByShow(ctx context.Context, showID int) (map[domain.SeatCategory]domain.Amount, error) {
	query := `
		SELECT category, price
		FROM show_seat_prices
		WHERE show_id = $1
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(map[domain.SeatCategory]domain.Amount)

	for rows.Next() {
		var (
			category domain.SeatCategory
			price    domain.Amount
		)

		if err = rows.Scan(&category, &price); err != nil {
			return nil, err
		}

		prices[category] = price
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return prices, nil
}
