package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultTTL = 15 * time.Minute

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis caches fetched postings between sessions. When the server is
// unreachable every method degrades to a no-op so the pipeline keeps
// working without it.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

func NewRedis(logger *zap.Logger, opts Options) *Redis {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	addr := opts.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, bypassing cache", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()

		return &Redis{client: nil, logger: logger, ttl: ttl}
	}

	logger.Debug("redis cache connected", zap.String("addr", addr), zap.Duration("ttl", ttl))

	return &Redis{client: client, logger: logger, ttl: ttl}
}

func (r *Redis) Enabled() bool {
	return !r.isUnavailable()
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis unavailable, bypassing cache", zap.Error(err))
	}
}

// GetJSON reports whether the key was present and decodes it into out.
// An unavailable cache is a miss, never an error.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}

	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)

		return false, nil
	}
	if len(b) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}

	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any) error {
	if r.isUnavailable() {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}

	return nil
}
