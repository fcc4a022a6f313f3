package domain

import "context"

type SeatCategory string

const (
	SeatCategoryStandard SeatCategory = "STANDARD"
	SeatCategoryVIP      SeatCategory = "VIP"
	SeatCategoryRecliner SeatCategory = "RECLINER"
)

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusHeld      SeatStatus = "HELD"
	SeatStatusOccupied  SeatStatus = "OCCUPIED"
)

// Seat is the physical seat in a screen. Its layout attributes are fixed
// once the screen is configured.
type Seat struct {
	ID       int
	ScreenID int
	Row      int
	Col      int
	Category SeatCategory
}

// ShowSeat is the availability record for one physical seat in one specific
// show. It is the unit of contention: every status change goes through the
// SeatLedger, never through direct mutation.
type ShowSeat struct {
	ShowID   int
	SeatID   int
	Row      int
	Col      int
	Category SeatCategory
	Status   SeatStatus
	HeldBy   string
}

// SeatLedger is the source of truth for ShowSeat status.
//
// TryAcquire transitions every named seat AVAILABLE -> HELD as one atomic
// operation relative to any other TryAcquire/Release/Finalize touching the
// same seats. If any seat is not AVAILABLE the whole call fails with
// ErrSeatUnavailable and no seat changes status. Seat ids that do not
// resolve to a ShowSeat of the show fail the call with ErrInvalidSeat.
// The holder tags the resulting holds so that Release and Finalize only act
// on seats held by the same booking.
//
// Release transitions HELD -> AVAILABLE; seats not held by the given holder
// are skipped. Finalize transitions HELD -> OCCUPIED on payment confirmation.
type SeatLedger interface {
	TryAcquire(ctx context.Context, showID int, seatIDs []int, holder string) ([]ShowSeat, error)
	Release(ctx context.Context, showID int, seatIDs []int, holder string) error
	Finalize(ctx context.Context, showID int, seatIDs []int, holder string) error
}
