package config

import "github.com/redis/go-redis/v9"

// SetRedisClientForTest installs client (usually a redismock client) as the
// shared Redis client. Undo it with CloseRedis.
func SetRedisClientForTest(client *redis.Client) {
	redisMu.Lock()
	redisClient = client
	redisMu.Unlock()
}
