package app

import (
	"errors"
	"fmt"

	"github.com/yungbote/cecredit-backend/internal/platform/gcp"
	"github.com/yungbote/cecredit-backend/internal/platform/logger"
	rediscounter "github.com/yungbote/cecredit-backend/internal/platform/redis"
	"github.com/yungbote/cecredit-backend/internal/platform/sendgrid"
	"github.com/yungbote/cecredit-backend/internal/services"
)

type Clients struct {
	Bucket   gcp.BucketService
	SendGrid sendgrid.Client
	Counter  services.CounterStore

	redis *rediscounter.CounterStore
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Gcs
	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}
	out := Clients{Bucket: bucket}

	// SendGrid (optional)
	sg, err := sendgrid.NewFromEnv(log)
	switch {
	case errors.Is(err, sendgrid.ErrNotConfigured):
		log.Warn("SendGrid not configured, certificate emails disabled")
	case err != nil:
		out.Close(log)
		return Clients{}, fmt.Errorf("init sendgrid client: %w", err)
	default:
		out.SendGrid = sg
	}

	// Redis (optional)
	redisOpts := rediscounter.OptionsFromEnv()
	if redisOpts.Addr != "" {
		store, err := rediscounter.NewCounterStore(log, redisOpts)
		if err != nil {
			out.Close(log)
			return Clients{}, fmt.Errorf("init redis counter store: %w", err)
		}
		out.redis = store
		out.Counter = store
	} else {
		log.Info("REDIS_ADDR not set, using in-memory rate limit counters")
		out.Counter = services.NewMemoryCounterStore()
	}
	return out, nil
}

func (c Clients) Close(log *logger.Logger) {
	if c.Bucket != nil {
		if err := c.Bucket.Close(); err != nil {
			log.Warn("Bucket client close failed", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn("Redis client close failed", "error", err)
		}
	}
}
