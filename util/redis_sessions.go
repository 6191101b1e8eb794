package util

import (
	"context"
	"fmt"
	"time"

	"github.com/ariebrainware/sisreg/config"
	"github.com/redis/go-redis/v9"
)

// SessionKey is the Redis key caching a session token as "userID:roleID".
func SessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func userSessionsKey(userID uint) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

// removeSessionScript removes a token from the user index and deletes the index once empty.
const removeSessionScript = `
local removed = redis.call('SREM', KEYS[1], ARGV[1])
if removed > 0 and redis.call('SCARD', KEYS[1]) == 0 then
	redis.call('DEL', KEYS[1])
end
return removed
`

// CacheSession stores a session in Redis and indexes it under its user.
// It is a no-op without Redis.
func CacheSession(ctx context.Context, token string, userID uint, roleID uint32, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Set(ctx, SessionKey(token), fmt.Sprintf("%d:%d", userID, roleID), ttl).Err(); err != nil {
		return err
	}
	return rdb.SAdd(ctx, userSessionsKey(userID), token).Err()
}

// RemoveCachedSession deletes a single session and drops the user index when it empties.
func RemoveCachedSession(ctx context.Context, token string, userID uint) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, SessionKey(token)).Err(); err != nil {
		return err
	}
	return rdb.Eval(ctx, removeSessionScript, []string{userSessionsKey(userID)}, token).Err()
}

// InvalidateUserSessions deletes every cached session of a user, e.g. after a
// password or role change.
func InvalidateUserSessions(ctx context.Context, userID uint) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	members, err := rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	for _, tok := range members {
		_ = rdb.Del(ctx, SessionKey(tok)).Err()
	}
	return rdb.Del(ctx, userSessionsKey(userID)).Err()
}
