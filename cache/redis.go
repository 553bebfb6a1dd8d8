// Package cache wraps the optional redis client used by the GET-response
// cache middleware. The app is fully functional with redis absent.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

func InitRedis(addr string, logger *zap.Logger) error {
	client = redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis_connection_failed", zap.Error(err), zap.String("addr", addr))
		client = nil
		return err
	}

	logger.Info("redis_connected", zap.String("addr", addr))
	return nil
}

func Enabled() bool {
	return client != nil
}

func Set(key string, value interface{}, expiration time.Duration) error {
	if client == nil {
		return fmt.Errorf("cache disabled")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return client.Set(ctx, key, data, expiration).Err()
}

func Get(key string, dest interface{}) error {
	if client == nil {
		return fmt.Errorf("cache disabled")
	}
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return fmt.Errorf("cache miss: %w", err)
	} else if err != nil {
		return fmt.Errorf("cache get failed: %w", err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return nil
}

func Delete(key string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, key).Err()
}

// DeletePattern removes all keys matching a pattern (e.g. "cache:1:*").
func DeletePattern(pattern string) error {
	if client == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete keys failed: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}
