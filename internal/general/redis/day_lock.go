package redis

import (
	"context"
	"fmt"
	"time"

	"school-bus/internal/ports"

	"github.com/go-redis/redis/v8"
)

// dayLockTTL keeps a generation lock around long enough to cover any
// plausible batch run, then lets it expire on its own.
const dayLockTTL = 6 * time.Hour

// DayLock is a SETNX-based advisory lock keyed per service date. It keeps
// two concurrent daily generation runs from interleaving; the unique trip
// index is still the hard idempotency guarantee.
type DayLock struct {
	client *redis.Client
}

// NewDayLock constructs a DayLock on top of the given Redis client.
func NewDayLock(client *redis.Client) ports.GenerationLock {
	return &DayLock{client: client}
}

// AcquireDay attempts to take the generation lock for the date. Returns
// false when another run already holds it.
func (lock *DayLock) AcquireDay(ctx context.Context, date time.Time) (bool, error) {
	ok, err := lock.client.SetNX(ctx, dayLockKey(date), "1", dayLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire generation lock: %w", err)
	}
	return ok, nil
}

// ReleaseDay drops the generation lock for the date so a retry after a
// failed batch does not have to wait out the TTL.
func (lock *DayLock) ReleaseDay(ctx context.Context, date time.Time) error {
	if err := lock.client.Del(ctx, dayLockKey(date)).Err(); err != nil {
		return fmt.Errorf("release generation lock: %w", err)
	}
	return nil
}

func dayLockKey(date time.Time) string {
	return fmt.Sprintf("trip_generation:%s", date.Format("2006-01-02"))
}
