package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/cecredit-backend/internal/platform/envutil"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
)

// CounterStore is a fixed-window counter shared by every API instance.
type CounterStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func OptionsFromEnv() Options {
	return Options{
		Addr:     envutil.String("REDIS_ADDR", ""),
		Password: envutil.String("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
		Prefix:   envutil.String("REDIS_KEY_PREFIX", "cecredit"),
	}
}

func NewCounterStore(log *logger.Logger, opts Options) (*CounterStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &CounterStore{
		log:    log.With("client", "RedisCounterStore"),
		rdb:    rdb,
		prefix: strings.TrimSuffix(opts.Prefix, ":"),
	}, nil
}

// Incr bumps the counter for key and returns the new count and when the
// current window ends. The first hit of a window sets its expiry.
func (s *CounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	k := s.key(key)
	count, err := s.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := s.rdb.PExpire(ctx, k, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("redis pexpire: %w", err)
		}
		return count, time.Now().Add(window), nil
	}
	ttl, err := s.rdb.PTTL(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis pttl: %w", err)
	}
	if ttl < 0 {
		// A key without expiry would block forever; repair it.
		s.log.Warn("Counter key missing expiry, resetting window", "key", k)
		if err := s.rdb.PExpire(ctx, k, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("redis pexpire: %w", err)
		}
		ttl = window
	}
	return count, time.Now().Add(ttl), nil
}

func (s *CounterStore) key(k string) string {
	if s.prefix == "" {
		return "ratelimit:" + k
	}
	return s.prefix + ":ratelimit:" + k
}

func (s *CounterStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
