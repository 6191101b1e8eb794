package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ariebrainware/sisreg/config"
	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/referral"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Context keys set by the middlewares below.
const (
	UserIDKey  = "user_id"
	RoleIDKey  = "role_id"
	dbKey      = "db"
	serviceKey = "referral_service"
)

// SessionTokenHeader carries the login session token.
const SessionTokenHeader = "session-token"

func setCorsHeaders(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PATCH")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization, session-token")
	c.Writer.Header().Set("Access-Control-Max-Age", "86400")
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Content-Type", "application/json")
}

// tokenValidator checks the Authorization header against the expected API
// token. It aborts with 401 on mismatch. Preflight requests always pass.
func tokenValidator(c *gin.Context, expected string) bool {
	if c.Request.Method == http.MethodOptions {
		return true
	}
	if c.GetHeader("Authorization") != expected {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Invalid API token",
			Err: fmt.Errorf("authorization header mismatch"),
		})
		c.Abort()
		return false
	}
	return true
}

// CORSMiddleware configures CORS headers for incoming requests and, when
// APITOKEN is configured, requires it as a bearer token.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		setCorsHeaders(c)

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if token := config.LoadConfig().APIToken; token != "" {
			if !tokenValidator(c, "Bearer "+token) {
				return
			}
		}
		c.Next()
	}
}

// DatabaseMiddleware stores db in the request context.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbKey, db)
		c.Next()
	}
}

// GetDB returns the database set by DatabaseMiddleware, or nil.
func GetDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(dbKey)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	return db
}

// ServiceMiddleware stores the referral service in the request context.
func ServiceMiddleware(svc *referral.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(serviceKey, svc)
		c.Next()
	}
}

// GetService returns the referral service set by ServiceMiddleware, or nil.
func GetService(c *gin.Context) *referral.Service {
	v, ok := c.Get(serviceKey)
	if !ok {
		return nil
	}
	svc, _ := v.(*referral.Service)
	return svc
}

// GetUserID returns the authenticated user id.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetRoleID returns the authenticated user's role id.
func GetRoleID(c *gin.Context) (uint32, bool) {
	v, ok := c.Get(RoleIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint32)
	return id, ok
}

// GetActor returns the authenticated user as a referral actor.
func GetActor(c *gin.Context) referral.Actor {
	userID, _ := GetUserID(c)
	roleID, _ := GetRoleID(c)
	return referral.Actor{UserID: userID, Role: model.RoleName(roleID)}
}

// parseCachedSession parses a cached "userID:roleID" value.
func parseCachedSession(val string) (uint, uint32, bool) {
	parts := strings.SplitN(val, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	uid, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || uid == 0 {
		return 0, 0, false
	}
	rid, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, false
	}
	return uint(uid), uint32(rid), true
}

func lookupCachedSession(ctx context.Context, token string) (uint, uint32, bool) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return 0, 0, false
	}
	val, err := rdb.Get(ctx, util.SessionKey(token)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			util.Logger().Sugar().Warnw("session cache lookup failed", "error", err)
		}
		return 0, 0, false
	}
	return parseCachedSession(val)
}

type sessionRow struct {
	UserID uint
	RoleID uint32
}

func lookupSession(db *gorm.DB, token string) (sessionRow, error) {
	var row sessionRow
	err := db.Table("sessions").
		Select("sessions.user_id AS user_id, users.role_id AS role_id").
		Joins("JOIN users ON users.id = sessions.user_id AND users.deleted_at IS NULL").
		Where("sessions.session_token = ? AND sessions.expires_at > ? AND sessions.deleted_at IS NULL", token, time.Now()).
		Take(&row).Error
	return row, err
}

// ValidateLoginToken authenticates the session-token header through the
// Redis session cache, falling back to the sessions table.
func ValidateLoginToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionTokenHeader)
		if token == "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session token is required",
				Err: fmt.Errorf("missing session token"),
			})
			c.Abort()
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Database connection not available",
				Err: fmt.Errorf("db is nil"),
			})
			c.Abort()
			return
		}

		if uid, rid, ok := lookupCachedSession(c.Request.Context(), token); ok {
			c.Set(UserIDKey, uid)
			c.Set(RoleIDKey, rid)
			c.Next()
			return
		}

		row, err := lookupSession(db.WithContext(c.Request.Context()), token)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				util.CallServerError(c, util.APIErrorParams{Msg: "Failed to validate session", Err: err})
				c.Abort()
				return
			}
			util.LogUnauthorizedAccess("", c.ClientIP(), c.Request.URL.Path, "invalid or expired session")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired session",
				Err: fmt.Errorf("session not found"),
			})
			c.Abort()
			return
		}

		c.Set(UserIDKey, row.UserID)
		c.Set(RoleIDKey, row.RoleID)
		c.Next()
	}
}

// RequireRole lets through only users holding one of roles.
func RequireRole(roles ...uint32) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleID, ok := GetRoleID(c)
		if ok {
			for _, r := range roles {
				if r == roleID {
					c.Next()
					return
				}
			}
		}
		userID, _ := GetUserID(c)
		util.LogUnauthorizedAccess(fmt.Sprintf("%d", userID), c.ClientIP(), c.Request.URL.Path, "insufficient role")
		util.CallForbidden(c, util.APIErrorParams{
			Msg: "You are not allowed to access this resource",
			Err: fmt.Errorf("role %q not permitted", model.RoleName(roleID)),
		})
		c.Abort()
	}
}
