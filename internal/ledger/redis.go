package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Seat status lives in one key per (show, seat); absence means AVAILABLE.
// A single script call checks every key and then writes every key, which
// makes the acquisition atomic: Redis runs scripts serially.
var acquireSeatsScript = redis.NewScript(`
	-- KEYS[1] = seat membership set of the show
	-- KEYS[2..] = seat status keys
	-- ARGV[1] = holder, ARGV[2..] = seat ids matching KEYS[2..]

	for i = 2, #KEYS do
		if redis.call("SISMEMBER", KEYS[1], ARGV[i]) == 0 then
			return {err = "seat not found"}
		end
		if redis.call("EXISTS", KEYS[i]) == 1 then
			return {err = "seat unavailable"}
		end
	end

	for i = 2, #KEYS do
		redis.call("SET", KEYS[i], "HELD:" .. ARGV[1])
	end

	return "OK"
`)

var releaseSeatsScript = redis.NewScript(`
	local want = "HELD:" .. ARGV[1]

	for i = 1, #KEYS do
		if redis.call("GET", KEYS[i]) == want then
			redis.call("DEL", KEYS[i])
		end
	end

	return "OK"
`)

var finalizeSeatsScript = redis.NewScript(`
	local want = "HELD:" .. ARGV[1]

	for i = 1, #KEYS do
		if redis.call("GET", KEYS[i]) ~= want then
			return {err = "invalid transition"}
		end
	end

	for i = 1, #KEYS do
		redis.call("SET", KEYS[i], "OCCUPIED:" .. ARGV[1])
	end

	return "OK"
`)

// RedisLedger keeps ShowSeat status in Redis. Unlike the cart-style seat
// locks it grew out of, the keys carry no TTL: holds are released by the
// booking lifecycle (cancel or expiry sweep), never by key eviction, so a
// confirmed seat can't silently reappear.
type RedisLedger struct {
	client redis.UniversalClient
}

func NewRedisLedger(client redis.UniversalClient) *RedisLedger {
	return &RedisLedger{client: client}
}

// AddShow registers the seats of a scheduled show: a membership set for
// existence checks plus a metadata hash for layout and category.
func (l *RedisLedger) AddShow(ctx context.Context, showID int, seats []domain.Seat) error {
	pipe := l.client.TxPipeline()

	members := make([]interface{}, len(seats))
	meta := make(map[string]interface{}, len(seats))

	for i, seat := range seats {
		members[i] = seat.ID
		meta[strconv.Itoa(seat.ID)] = fmt.Sprintf("%d|%d|%s", seat.Row, seat.Col, seat.Category)
	}

	pipe.SAdd(ctx, seatSetKey(showID), members...)
	pipe.HSet(ctx, seatMetaKey(showID), meta)

	_, err := pipe.Exec(ctx)

	return err
}

func (l *RedisLedger) TryAcquire(ctx context.Context, showID int, seatIDs []int, holder string) ([]domain.ShowSeat, error) {
	seatIDs = normalizeSeatIDs(seatIDs)
	if len(seatIDs) == 0 {
		return nil, domain.ErrEmptySelection
	}

	keys := make([]string, 0, len(seatIDs)+1)
	keys = append(keys, seatSetKey(showID))

	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, holder)

	for _, seatID := range seatIDs {
		keys = append(keys, seatStatusKey(showID, seatID))
		args = append(args, seatID)
	}

	err := acquireSeatsScript.Run(ctx, l.client, keys, args...).Err()
	if err != nil {
		switch {
		case redis.HasErrorPrefix(err, "seat not found"):
			return nil, fmt.Errorf("%w: show %d", domain.ErrInvalidSeat, showID)
		case redis.HasErrorPrefix(err, "seat unavailable"):
			return nil, domain.ErrSeatUnavailable
		default:
			return nil, err
		}
	}

	return l.heldSeats(ctx, showID, seatIDs, holder)
}

func (l *RedisLedger) Release(ctx context.Context, showID int, seatIDs []int, holder string) error {
	return releaseSeatsScript.Run(ctx, l.client, l.statusKeys(showID, seatIDs), holder).Err()
}

func (l *RedisLedger) Finalize(ctx context.Context, showID int, seatIDs []int, holder string) error {
	err := finalizeSeatsScript.Run(ctx, l.client, l.statusKeys(showID, seatIDs), holder).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, "invalid transition") {
			return fmt.Errorf("%w: seats not held by booking %s", domain.ErrInvalidTransition, holder)
		}

		return err
	}

	return nil
}

func (l *RedisLedger) statusKeys(showID int, seatIDs []int) []string {
	seatIDs = normalizeSeatIDs(seatIDs)

	keys := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = seatStatusKey(showID, seatID)
	}

	return keys
}

func (l *RedisLedger) heldSeats(ctx context.Context, showID int, seatIDs []int, holder string) ([]domain.ShowSeat, error) {
	fields := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		fields[i] = strconv.Itoa(seatID)
	}

	values, err := l.client.HMGet(ctx, seatMetaKey(showID), fields...).Result()
	if err != nil {
		return nil, err
	}

	seats := make([]domain.ShowSeat, len(seatIDs))

	for i, seatID := range seatIDs {
		seat := domain.ShowSeat{
			ShowID: showID,
			SeatID: seatID,
			Status: domain.SeatStatusHeld,
			HeldBy: holder,
		}

		if raw, ok := values[i].(string); ok {
			parts := strings.SplitN(raw, "|", 3)
			if len(parts) == 3 {
				seat.Row, _ = strconv.Atoi(parts[0])
				seat.Col, _ = strconv.Atoi(parts[1])
				seat.Category = domain.SeatCategory(parts[2])
			}
		}

		seats[i] = seat
	}

	return seats, nil
}

func seatSetKey(showID int) string {
	return fmt.Sprintf("show_seats:%d", showID)
}

func seatMetaKey(showID int) string {
	return fmt.Sprintf("show_seat_meta:%d", showID)
}

func seatStatusKey(showID, seatID int) string {
	return fmt.Sprintf("show_seat:%d:%d", showID, seatID)
}
