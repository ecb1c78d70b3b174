package engine

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Published state: the latest snapshot fields are mirrored into Redis so other
// consumers of the home-automation host can read them without polling us.
// L1 remembers the digest of the last payload per key; an unchanged payload
// only refreshes the Redis TTL.
var stateStore *tieredStore

// StateTTL controls how long published fields live in Redis.
var StateTTL = time.Hour

type tieredStore struct {
	l1  sync.Map      // key → [32]byte payload digest
	rdb *redis.Client // nil if Redis unavailable
	ttl time.Duration
}

// InitStateStore sets up publishing. redisURL can be empty to disable it.
func InitStateStore(redisURL string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = StateTTL
	}
	s := &tieredStore{ttl: ttl}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Warn("state: invalid redis URL, publishing disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Warn("state: redis unreachable, publishing disabled", slog.Any("error", err))
				_ = rdb.Close()
			} else {
				s.rdb = rdb
				slog.Info("state: redis connected", slog.String("addr", opts.Addr))
			}
		}
	}

	stateStore = s
	slog.Info("state: initialized", slog.Duration("ttl", ttl), slog.Bool("redis", s.rdb != nil))
}

// StateKey builds a namespaced Redis key from parts.
func StateKey(parts ...string) string {
	return "ytwatch:" + strings.Join(parts, ":")
}

// PublishState stores v as JSON under key. A no-op when publishing is disabled.
func PublishState(ctx context.Context, key string, v any) error {
	if stateStore == nil || stateStore.rdb == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state: marshal %s: %w", key, err)
	}
	digest := sha256.Sum256(data)

	if prev, ok := stateStore.l1.Load(key); ok && prev.([32]byte) == digest {
		if err := stateStore.rdb.Expire(ctx, key, stateStore.ttl).Err(); err != nil {
			return fmt.Errorf("state: expire %s: %w", key, err)
		}
		return nil
	}

	if err := stateStore.rdb.Set(ctx, key, data, stateStore.ttl).Err(); err != nil {
		stateStore.l1.Delete(key)
		return fmt.Errorf("state: set %s: %w", key, err)
	}
	stateStore.l1.Store(key, digest)
	metrics.StatePublishes.Add(1)
	return nil
}

// StatePublishingEnabled reports whether a Redis connection is live.
func StatePublishingEnabled() bool {
	return stateStore != nil && stateStore.rdb != nil
}

// CloseStateStore releases the Redis connection.
func CloseStateStore() error {
	if stateStore == nil || stateStore.rdb == nil {
		return nil
	}
	return stateStore.rdb.Close()
}
