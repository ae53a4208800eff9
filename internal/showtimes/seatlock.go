package showtimes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSeatTaken = errors.New("seat already locked")

// SeatLocker serializes seat selection per showtime. All seats in a
// request lock together or not at all.
type SeatLocker struct {
	redis *redis.Client
}

func NewSeatLocker(redisClient *redis.Client) *SeatLocker {
	return &SeatLocker{redis: redisClient}
}

const luaLockSeats = `
-- KEYS[1] = booking_id
-- ARGV[1] = user_id
-- ARGV[2] = showtime_id
-- ARGV[3] = ttl_seconds
-- ARGV[4..N] = seat_ids

local booking_id = KEYS[1]
local user_id = ARGV[1]
local showtime_id = ARGV[2]
local ttl = tonumber(ARGV[3])

for i = 4, #ARGV do
    local seat_key = "seat_lock:" .. showtime_id .. ":" .. ARGV[i]
    if redis.call("EXISTS", seat_key) == 1 then
        return {0, ARGV[i]}
    end
end

local booking_seats_key = "booking_seats:" .. booking_id
local lock_value = user_id .. ":" .. booking_id

for i = 4, #ARGV do
    local seat_key = "seat_lock:" .. showtime_id .. ":" .. ARGV[i]
    redis.call("SETEX", seat_key, ttl, lock_value)
    redis.call("SADD", booking_seats_key, ARGV[i])
end

redis.call("EXPIRE", booking_seats_key, ttl)
redis.call("SETEX", "booking_showtime:" .. booking_id, ttl, showtime_id)

return {1, "ok"}
`

const luaReleaseSeats = `
-- KEYS[1] = booking_id
local booking_id = KEYS[1]

local booking_seats_key = "booking_seats:" .. booking_id
local showtime_key = "booking_showtime:" .. booking_id

local showtime_id = redis.call("GET", showtime_key)
if not showtime_id then
    return {0, "lock_not_found"}
end

local seat_ids = redis.call("SMEMBERS", booking_seats_key)
for i = 1, #seat_ids do
    redis.call("DEL", "seat_lock:" .. showtime_id .. ":" .. seat_ids[i])
end

redis.call("DEL", booking_seats_key)
redis.call("DEL", showtime_key)

return {1, #seat_ids}
`

// LockSeats locks every requested seat for the booking, failing fast on
// the first conflict. Locks expire on their own after ttl.
func (l *SeatLocker) LockSeats(ctx context.Context, showtimeID, bookingID, userID string, seatIDs []string, ttl time.Duration) error {
	if l.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	if len(seatIDs) == 0 {
		return fmt.Errorf("no seats requested")
	}

	keys := []string{bookingID}
	args := []interface{}{userID, showtimeID, strconv.Itoa(int(ttl.Seconds()))}
	for _, id := range seatIDs {
		args = append(args, id)
	}

	result, err := l.redis.EvalSha(ctx, luaLockSeats, keys, args...).Result()
	if err != nil {
		result, err = l.redis.Eval(ctx, luaLockSeats, keys, args...).Result()
		if err != nil {
			return fmt.Errorf("failed to lock seats: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from seat lock script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag from seat lock script")
	}

	if success == 0 {
		if conflictSeat, ok := resultArray[1].(string); ok {
			return fmt.Errorf("%w: %s", ErrSeatTaken, conflictSeat)
		}
		return ErrSeatTaken
	}

	return nil
}

// ReleaseSeats frees all seat locks owned by the booking. Returns the
// number of seats released; a missing lock is not an error since TTL
// expiry races with explicit release.
func (l *SeatLocker) ReleaseSeats(ctx context.Context, bookingID string) (int, error) {
	if l.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	result, err := l.redis.EvalSha(ctx, luaReleaseSeats, []string{bookingID}).Result()
	if err != nil {
		result, err = l.redis.Eval(ctx, luaReleaseSeats, []string{bookingID}).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to release seats: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return 0, fmt.Errorf("unexpected result format from seat release script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid success flag from seat release script")
	}

	if success == 0 {
		return 0, nil
	}

	released, ok := resultArray[1].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count from seat release script")
	}

	return int(released), nil
}

// LockedSeats reports which of the given seats currently carry a lock
// for the showtime.
func (l *SeatLocker) LockedSeats(ctx context.Context, showtimeID string, seatIDs []string) (map[string]bool, error) {
	if l.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	locked := make(map[string]bool, len(seatIDs))
	if len(seatIDs) == 0 {
		return locked, nil
	}

	pipe := l.redis.Pipeline()
	cmds := make([]*redis.IntCmd, len(seatIDs))
	for i, id := range seatIDs {
		cmds[i] = pipe.Exists(ctx, "seat_lock:"+showtimeID+":"+id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check seat locks: %w", err)
	}

	for i, id := range seatIDs {
		locked[id] = cmds[i].Val() > 0
	}
	return locked, nil
}

// PreloadScripts warms the script cache so EvalSha succeeds first try.
func (l *SeatLocker) PreloadScripts(ctx context.Context) error {
	if l.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if _, err := l.redis.ScriptLoad(ctx, luaLockSeats).Result(); err != nil {
		return fmt.Errorf("failed to load seat lock script: %w", err)
	}
	if _, err := l.redis.ScriptLoad(ctx, luaReleaseSeats).Result(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}
	return nil
}
