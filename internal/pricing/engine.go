// Package pricing computes the charge for a set of reserved seats. The
// lookup is indexed by (show, category); a category without a configured
// price is a data-setup defect and aborts the whole reservation instead of
// pricing it as zero.
package pricing

import (
	"context"
	"fmt"

	"github.com/Vashishth06/BookMyShow/internal/domain"
)

type Engine struct {
	prices domain.PriceRepository
}

func NewEngine(prices domain.PriceRepository) *Engine {
	return &Engine{prices: prices}
}

// Price totals the ShowSeatPrice of each seat's category for the show. Pure
// with respect to its inputs and the pricing configuration: repeated calls
// return identical amounts until the configuration changes.
func (e *Engine) Price(ctx context.Context, showID int, seats []domain.ShowSeat) (domain.Amount, error) {
	priceByCategory, err := e.prices.GetPricesByShow(ctx, showID)
	if err != nil {
		return 0, err
	}

	var total domain.Amount

	for _, seat := range seats {
		price, ok := priceByCategory[seat.Category]
		if !ok {
			return 0, fmt.Errorf("%w: category %s in show %d", domain.ErrMissingPriceRule, seat.Category, showID)
		}

		total += price
	}

	return total, nil
}
