package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisMu     sync.Mutex
	redisClient *redis.Client
)

// RedisSettings is the Redis part of the environment. Redis is optional:
// sessions fall back to the sessions table and rate limiting to an
// in-process limiter when it is off.
type RedisSettings struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// LoadRedisSettings reads REDIS_* variables on every call so tests can flip
// them with t.Setenv. Redis is never enabled under APPENV=test.
func LoadRedisSettings() RedisSettings {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	dial, err := time.ParseDuration(os.Getenv("REDIS_DIAL_TIMEOUT"))
	if err != nil || dial <= 0 {
		dial = 2 * time.Second
	}
	return RedisSettings{
		Enabled:     redisEnabled(os.Getenv("REDIS_ENABLED"), IsTestEnv()),
		Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          db,
		DialTimeout: dial,
	}
}

func redisEnabled(raw string, testEnv bool) bool {
	enabled, _ := strconv.ParseBool(raw)
	return enabled && !testEnv
}

// ConnectRedis returns the shared client, dialing it on first use.
// It returns nil without error when Redis is disabled.
func ConnectRedis() (*redis.Client, error) {
	s := LoadRedisSettings()
	if !s.Enabled {
		return nil, nil
	}

	redisMu.Lock()
	defer redisMu.Unlock()
	if redisClient != nil {
		return redisClient, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        s.Addr,
		Password:    s.Password,
		DB:          s.DB,
		DialTimeout: s.DialTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), s.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", s.Addr, err)
	}
	redisClient = rdb
	return redisClient, nil
}

// GetRedisClient returns the shared client, or nil when none is connected.
func GetRedisClient() *redis.Client {
	redisMu.Lock()
	defer redisMu.Unlock()
	return redisClient
}

// CloseRedis closes and forgets the shared client.
func CloseRedis() error {
	redisMu.Lock()
	defer redisMu.Unlock()
	if redisClient == nil {
		return nil
	}
	err := redisClient.Close()
	redisClient = nil
	return err
}
