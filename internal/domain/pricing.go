package domain

import "context"

// Amount is a monetary value in minor currency units (paise). Money never
// goes through floating point.
type Amount int64

// ShowSeatPrice maps a seat category to its price for one show. Populated
// when show pricing is configured; read-only during booking.
type ShowSeatPrice struct {
	ShowID   int
	Category SeatCategory
	Price    Amount
}

type PriceRepository interface {
	GetPricesByShow(ctx context.Context, showID int) (map[SeatCategory]Amount, error)
}
