// Package ledger provides the SeatLedger implementations. All of them uphold
// the same contract: TryAcquire is all-or-nothing and linearizable per seat,
// so two concurrent callers contending for an overlapping seat set can never
// both hold the shared seat.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Vashishth06/BookMyShow/internal/domain"
)

type seatKey struct {
	showID int
	seatID int
}

type seatEntry struct {
	mu   sync.Mutex
	seat domain.ShowSeat
}

// MemoryLedger keeps ShowSeat rows in process memory behind one exclusive
// lock per (show, seat). Locks are always taken in ascending seat-id order,
// which rules out deadlock between callers requesting overlapping seat sets
// in different orders.
type MemoryLedger struct {
	mu    sync.RWMutex // guards the seats map itself, not seat status
	seats map[seatKey]*seatEntry
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		seats: make(map[seatKey]*seatEntry),
	}
}

// AddShow registers the ShowSeat rows of a newly scheduled show, one per
// physical seat of the screen. Existing rows for the show are replaced.
func (l *MemoryLedger) AddShow(showID int, seats []domain.Seat) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, seat := range seats {
		l.seats[seatKey{showID, seat.ID}] = &seatEntry{
			seat: domain.ShowSeat{
				ShowID:   showID,
				SeatID:   seat.ID,
				Row:      seat.Row,
				Col:      seat.Col,
				Category: seat.Category,
				Status:   domain.SeatStatusAvailable,
			},
		}
	}
}

// Load registers pre-existing ShowSeat rows, statuses included. Used when the
// ledger is warmed from a persistent catalog at startup.
func (l *MemoryLedger) Load(seats []domain.ShowSeat) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, seat := range seats {
		l.seats[seatKey{seat.ShowID, seat.SeatID}] = &seatEntry{seat: seat}
	}
}

// RemoveShow drops every ShowSeat row of a retired show.
func (l *MemoryLedger) RemoveShow(showID int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key := range l.seats {
		if key.showID == showID {
			delete(l.seats, key)
		}
	}
}

func (l *MemoryLedger) TryAcquire(ctx context.Context, showID int, seatIDs []int, holder string) ([]domain.ShowSeat, error) {
	entries, err := l.resolve(showID, seatIDs)
	if err != nil {
		return nil, err
	}

	unlock := lockOrdered(entries)
	defer unlock()

	for _, entry := range entries {
		if entry.seat.Status != domain.SeatStatusAvailable {
			return nil, fmt.Errorf("%w: seat %d", domain.ErrSeatUnavailable, entry.seat.SeatID)
		}
	}

	held := make([]domain.ShowSeat, len(entries))
	for i, entry := range entries {
		entry.seat.Status = domain.SeatStatusHeld
		entry.seat.HeldBy = holder
		held[i] = entry.seat
	}

	return held, nil
}

func (l *MemoryLedger) Release(ctx context.Context, showID int, seatIDs []int, holder string) error {
	entries, err := l.resolve(showID, seatIDs)
	if err != nil {
		return err
	}

	unlock := lockOrdered(entries)
	defer unlock()

	for _, entry := range entries {
		// Seats held by somebody else (or already released) are left alone;
		// release must be safe to repeat after a lost confirm/expire race.
		if entry.seat.Status == domain.SeatStatusHeld && entry.seat.HeldBy == holder {
			entry.seat.Status = domain.SeatStatusAvailable
			entry.seat.HeldBy = ""
		}
	}

	return nil
}

func (l *MemoryLedger) Finalize(ctx context.Context, showID int, seatIDs []int, holder string) error {
	entries, err := l.resolve(showID, seatIDs)
	if err != nil {
		return err
	}

	unlock := lockOrdered(entries)
	defer unlock()

	for _, entry := range entries {
		if entry.seat.Status != domain.SeatStatusHeld || entry.seat.HeldBy != holder {
			return fmt.Errorf("%w: seat %d is not held by booking %s", domain.ErrInvalidTransition, entry.seat.SeatID, holder)
		}
	}

	for _, entry := range entries {
		entry.seat.Status = domain.SeatStatusOccupied
	}

	return nil
}

// Status returns the current state of one ShowSeat row.
func (l *MemoryLedger) Status(showID, seatID int) (domain.ShowSeat, error) {
	l.mu.RLock()
	entry, ok := l.seats[seatKey{showID, seatID}]
	l.mu.RUnlock()

	if !ok {
		return domain.ShowSeat{}, fmt.Errorf("%w: seat %d", domain.ErrInvalidSeat, seatID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return entry.seat, nil
}

// resolve maps the requested seat ids to their entries, sorted by seat id so
// that lockOrdered always locks in a globally consistent order.
func (l *MemoryLedger) resolve(showID int, seatIDs []int) ([]*seatEntry, error) {
	if len(seatIDs) == 0 {
		return nil, domain.ErrEmptySelection
	}

	sorted := slices.Clone(seatIDs)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]*seatEntry, len(sorted))
	for i, seatID := range sorted {
		entry, ok := l.seats[seatKey{showID, seatID}]
		if !ok {
			return nil, fmt.Errorf("%w: seat %d in show %d", domain.ErrInvalidSeat, seatID, showID)
		}
		entries[i] = entry
	}

	return entries, nil
}

func lockOrdered(entries []*seatEntry) (unlock func()) {
	for _, entry := range entries {
		entry.mu.Lock()
	}

	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].mu.Unlock()
		}
	}
}
