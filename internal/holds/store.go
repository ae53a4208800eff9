package holds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store persists the active hold set as one JSON-serialized array under a
// single key. It is read once at startup to rehydrate and written after
// every mutating operation, so a reload immediately after any operation
// replays the same state.
type Store interface {
	Load(ctx context.Context) ([]BookingHold, error)
	Save(ctx context.Context, holds []BookingHold) error
}

// RedisStore keeps the hold set in Redis. Holds carry their own absolute
// deadlines, so no key TTL is used; expiry is driven by the manager's tick.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a hold store bound to the given key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Load reads the serialized hold set. A missing key yields an empty set.
// Corrupt data is reported as an error; the manager falls back to an empty
// set rather than failing startup.
func (s *RedisStore) Load(ctx context.Context) ([]BookingHold, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []BookingHold{}, nil
		}
		return nil, fmt.Errorf("hold store read error: %w", err)
	}

	var holds []BookingHold
	if err := json.Unmarshal([]byte(val), &holds); err != nil {
		return nil, fmt.Errorf("hold store unmarshal error: %w", err)
	}
	return holds, nil
}

// Save overwrites the serialized hold set.
func (s *RedisStore) Save(ctx context.Context, holds []BookingHold) error {
	data, err := json.Marshal(holds)
	if err != nil {
		return fmt.Errorf("hold store marshal error: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("hold store write error: %w", err)
	}
	return nil
}
