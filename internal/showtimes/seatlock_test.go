package showtimes

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLocker(t *testing.T) (*SeatLocker, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSeatLocker(client), mr
}

func TestLockSeats_AllOrNothing(t *testing.T) {
	locker, _ := setupTestLocker(t)
	ctx := context.Background()

	err := locker.LockSeats(ctx, "show-1", "booking-1", "user-1", []string{"s1", "s2", "s3"}, 5*time.Minute)
	require.NoError(t, err)

	// s2 is already locked by booking-1, so booking-2 must get nothing.
	err = locker.LockSeats(ctx, "show-1", "booking-2", "user-2", []string{"s2", "s4"}, 5*time.Minute)
	require.ErrorIs(t, err, ErrSeatTaken)
	assert.Contains(t, err.Error(), "s2")

	locked, err := locker.LockedSeats(ctx, "show-1", []string{"s1", "s2", "s3", "s4"})
	require.NoError(t, err)
	assert.True(t, locked["s1"])
	assert.True(t, locked["s2"])
	assert.True(t, locked["s3"])
	assert.False(t, locked["s4"], "failed lock must not leave partial state")
}

func TestLockSeats_SameSeatDifferentShowtime(t *testing.T) {
	locker, _ := setupTestLocker(t)
	ctx := context.Background()

	require.NoError(t, locker.LockSeats(ctx, "show-1", "booking-1", "user-1", []string{"s1"}, 5*time.Minute))
	require.NoError(t, locker.LockSeats(ctx, "show-2", "booking-2", "user-2", []string{"s1"}, 5*time.Minute))
}

func TestReleaseSeats_FreesAllLocks(t *testing.T) {
	locker, _ := setupTestLocker(t)
	ctx := context.Background()

	require.NoError(t, locker.LockSeats(ctx, "show-1", "booking-1", "user-1", []string{"s1", "s2"}, 5*time.Minute))

	released, err := locker.ReleaseSeats(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, 2, released)

	locked, err := locker.LockedSeats(ctx, "show-1", []string{"s1", "s2"})
	require.NoError(t, err)
	assert.False(t, locked["s1"])
	assert.False(t, locked["s2"])

	err = locker.LockSeats(ctx, "show-1", "booking-2", "user-2", []string{"s1", "s2"}, 5*time.Minute)
	require.NoError(t, err, "released seats must be lockable again")
}

func TestReleaseSeats_MissingLockIsNotAnError(t *testing.T) {
	locker, _ := setupTestLocker(t)

	released, err := locker.ReleaseSeats(context.Background(), "no-such-booking")
	require.NoError(t, err)
	assert.Zero(t, released)
}

func TestLockSeats_ExpireFreesSeats(t *testing.T) {
	locker, mr := setupTestLocker(t)
	ctx := context.Background()

	require.NoError(t, locker.LockSeats(ctx, "show-1", "booking-1", "user-1", []string{"s1"}, 1*time.Minute))

	mr.FastForward(2 * time.Minute)

	locked, err := locker.LockedSeats(ctx, "show-1", []string{"s1"})
	require.NoError(t, err)
	assert.False(t, locked["s1"])

	err = locker.LockSeats(ctx, "show-1", "booking-2", "user-2", []string{"s1"}, 1*time.Minute)
	require.NoError(t, err)
}
