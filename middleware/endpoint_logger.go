package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
)

// Paths under these prefixes are not audited.
var unauditedPrefixes = []string{"/swagger/"}

// EndpointCallLogger records each API call as an ENDPOINT_CALL security
// event. Events reach the security_logs table once util.SetSecurityLoggerDB
// has been called.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		for _, prefix := range unauditedPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		status := c.Writer.Status()
		userID, _ := GetUserID(c)
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventEndpointCall,
			UserID:    fmt.Sprintf("%d", userID),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, path, status),
			Details:   callDetails(c, status, time.Since(start)),
		})
	}
}

func callDetails(c *gin.Context, status int, elapsed time.Duration) map[string]interface{} {
	d := map[string]interface{}{
		"method":      c.Request.Method,
		"route":       c.FullPath(),
		"status":      status,
		"duration_ms": elapsed.Milliseconds(),
	}
	if q := c.Request.URL.RawQuery; q != "" {
		d["query"] = q
	}
	// Request, patient and catalog routes all name their subject :id.
	if id := c.Param("id"); id != "" {
		d["resource_id"] = id
	}
	if roleID, ok := GetRoleID(c); ok {
		d["role"] = model.RoleName(roleID)
	}
	if len(c.Errors) > 0 {
		d["errors"] = c.Errors.String()
	}
	return d
}
