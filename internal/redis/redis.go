package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fakhrymubarak/forecast-api/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

var (
	client *redisv9.Client
	once   sync.Once
)

// GetClient returns the process-wide client for redis.addr.
func GetClient() *redisv9.Client {
	once.Do(func() {
		client = redisv9.NewClient(&redisv9.Options{
			Addr:        config.GetRedisAddr(),
			DialTimeout: 2 * time.Second,
		})
	})
	return client
}

// Ping checks that the server behind GetClient answers.
func Ping(ctx context.Context) error {
	if err := GetClient().Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", config.GetRedisAddr(), err)
	}
	return nil
}

// Close releases the shared client, if one was created.
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// ResetClientForTest resets the Redis client singleton. Use only in tests.
func ResetClientForTest() {
	once = sync.Once{}
	client = nil
}
