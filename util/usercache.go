package util

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// userNameCache maps user id -> display name for activity listings.
var userNameCache = cache.New(10*time.Minute, 20*time.Minute)

// InitUserNameCache resets the cache with the given TTL. A non-positive TTL
// keeps the default of ten minutes.
func InitUserNameCache(ttl time.Duration) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	userNameCache = cache.New(ttl, 2*ttl)
}

func userCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// UserNameCacheGet returns the cached display name for userID.
func UserNameCacheGet(userID uint) (string, bool) {
	v, ok := userNameCache.Get(userCacheKey(userID))
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

// UserNameCacheSet stores the display name for userID.
func UserNameCacheSet(userID uint, name string) {
	userNameCache.SetDefault(userCacheKey(userID), name)
}

// UserNameCacheInvalidate drops userID from the cache, e.g. after a rename or delete.
func UserNameCacheInvalidate(userID uint) {
	userNameCache.Delete(userCacheKey(userID))
}

// GetUserName returns the display name for userID using the cache, falling
// back to the users table. Unknown users resolve to "".
func GetUserName(db *gorm.DB, userID uint) string {
	if userID == 0 {
		return ""
	}
	if name, ok := UserNameCacheGet(userID); ok {
		return name
	}
	if db == nil {
		return ""
	}
	var u struct{ Name string }
	if err := db.Table("users").Select("name").Where("id = ? AND deleted_at IS NULL", userID).Take(&u).Error; err != nil {
		return ""
	}
	if u.Name != "" {
		UserNameCacheSet(userID, u.Name)
	}
	return u.Name
}
