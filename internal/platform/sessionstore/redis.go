package sessionstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// Store holds contest session start instants in Redis. The instant is
// written with SETNX so the first granted access wins and every later
// observer reads the same value; there is no update path.
type Store struct {
	rdb       *redis.Client
	retention time.Duration
}

func Connect(ctx context.Context, addr, password string, db int, retention time.Duration) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ping := func() error {
		return rdb.Ping(ctx).Err()
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(ping, policy); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("sessionstore.Connect ping: %w", err)
	}

	return &Store{rdb: rdb, retention: retention}, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func key(contestID, wallet string) string {
	return "cparena:session:" + contestID + ":" + wallet
}

// Begin establishes the start instant for (contestID, wallet) if none exists
// yet and returns the authoritative instant either way. The bool reports
// whether this call created the session.
func (s *Store) Begin(ctx context.Context, contestID, wallet string, now time.Time) (time.Time, bool, error) {
	k := key(contestID, wallet)
	val := strconv.FormatInt(now.UnixMilli(), 10)

	// At most one retry: the key can expire between SETNX and GET once, but
	// the second SETNX then lands on an absent key.
	for attempt := 0; attempt < 2; attempt++ {
		created, err := s.rdb.SetNX(ctx, k, val, s.retention).Result()
		if err != nil {
			return time.Time{}, false, fmt.Errorf("sessionstore.Begin setnx: %w", err)
		}
		if created {
			return now, true, nil
		}

		startedAt, found, err := s.Get(ctx, contestID, wallet)
		if err != nil {
			return time.Time{}, false, err
		}
		if found {
			return startedAt, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("sessionstore.Begin: session key for %s kept vanishing", k)
}

// Get returns the stored start instant, or found=false when no session has
// been opened for the pair.
func (s *Store) Get(ctx context.Context, contestID, wallet string) (time.Time, bool, error) {
	val, err := s.rdb.Get(ctx, key(contestID, wallet)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("sessionstore.Get: %w", err)
	}
	millis, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("sessionstore.Get parse %q: %w", val, err)
	}
	return time.UnixMilli(millis), true, nil
}
