package holds

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestRedisStore_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, "booking_holds")
	ctx := context.Background()

	deadline := time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC)
	holds := []BookingHold{
		{
			BookingID: "b1",
			UserID:    "user-1",
			MovieName: "Dune",
			Deadline:  deadline,
			Progress: Progress{
				Step: "seat-select",
				Data: json.RawMessage(`{"room":"r1","seats":["A1"]}`),
				Path: "/seats/r1/b1",
			},
		},
		{
			BookingID: "b2",
			UserID:    "user-2",
			MovieName: "Alien: Romulus",
			Deadline:  deadline.Add(42 * time.Second),
			Progress:  Progress{Step: "payment", Path: "/payment/b2"},
		},
	}

	require.NoError(t, store.Save(ctx, holds))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// No field is lost or altered by the round trip.
	for i := range holds {
		assert.Equal(t, holds[i].BookingID, loaded[i].BookingID)
		assert.Equal(t, holds[i].UserID, loaded[i].UserID)
		assert.Equal(t, holds[i].MovieName, loaded[i].MovieName)
		assert.True(t, holds[i].Deadline.Equal(loaded[i].Deadline))
		assert.True(t, holds[i].Progress.Equal(loaded[i].Progress))
	}
}

func TestRedisStore_MissingKeyIsEmptySet(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, "booking_holds")

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRedisStore_CorruptDataSurfacesError(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "booking_holds", "{not json[", 0).Err())

	store := NewRedisStore(client, "booking_holds")
	_, err := store.Load(ctx)
	assert.Error(t, err, "manager falls back to an empty set on this error")
}

func TestRedisStore_SaveOverwrites(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, "booking_holds")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []BookingHold{{BookingID: "b1"}}))
	require.NoError(t, store.Save(ctx, []BookingHold{}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded, "the persisted snapshot reflects the latest state only")
}
