package util

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/ariebrainware/sisreg/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityEventType names an authentication or access event.
type SecurityEventType string

const (
	EventLoginSuccess       SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailure       SecurityEventType = "LOGIN_FAILURE"
	EventLogout             SecurityEventType = "LOGOUT"
	EventAccountLocked      SecurityEventType = "ACCOUNT_LOCKED"
	EventPasswordChanged    SecurityEventType = "PASSWORD_CHANGED"
	EventUnauthorizedAccess SecurityEventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded  SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventSuspiciousActivity SecurityEventType = "SUSPICIOUS_ACTIVITY"
	EventEndpointCall       SecurityEventType = "ENDPOINT_CALL"
)

// SecurityEvent is one entry for the security log.
type SecurityEvent struct {
	EventType SecurityEventType
	UserID    string
	Username  string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

const maxLogValueLen = 200

var (
	securityDB       atomic.Pointer[gorm.DB]
	logValueReplacer = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")
)

// SetSecurityLoggerDB makes LogSecurityEvent also persist events to the
// security_logs table. Passing nil turns persistence off.
func SetSecurityLoggerDB(db *gorm.DB) {
	securityDB.Store(db)
}

// sanitizeLogValue flattens control whitespace and caps the length so a
// crafted username or user agent cannot forge extra log lines.
func sanitizeLogValue(value string) string {
	value = logValueReplacer.Replace(value)
	if len(value) > maxLogValueLen {
		value = value[:maxLogValueLen] + "..."
	}
	return value
}

func (e SecurityEvent) sanitized() SecurityEvent {
	e.EventType = SecurityEventType(sanitizeLogValue(string(e.EventType)))
	e.UserID = sanitizeLogValue(e.UserID)
	e.Username = sanitizeLogValue(e.Username)
	e.IP = sanitizeLogValue(e.IP)
	e.UserAgent = sanitizeLogValue(e.UserAgent)
	e.Message = sanitizeLogValue(e.Message)
	return e
}

func (e SecurityEvent) row() model.SecurityLog {
	var details datatypes.JSON
	if len(e.Details) > 0 {
		if b, err := json.Marshal(e.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}
	return model.SecurityLog{
		EventType: string(e.EventType),
		UserID:    e.UserID,
		Username:  e.Username,
		IP:        e.IP,
		Location:  sanitizeLogValue(GetIPLocation(e.IP).String()),
		UserAgent: e.UserAgent,
		Message:   e.Message,
		Details:   details,
	}
}

// LogSecurityEvent writes e to the "security" logger and, when a database
// is set, to security_logs. Persistence failures are only logged.
func LogSecurityEvent(e SecurityEvent) {
	e = e.sanitized()
	log := Logger().Named("security")
	log.Info("security event",
		zap.String("event", string(e.EventType)),
		zap.String("user_id", e.UserID),
		zap.String("username", e.Username),
		zap.String("ip", e.IP),
		zap.String("user_agent", e.UserAgent),
		zap.String("message", e.Message),
		zap.Int("details_count", len(e.Details)),
	)

	db := securityDB.Load()
	if db == nil {
		return
	}
	entry := e.row()
	if err := db.Create(&entry).Error; err != nil {
		log.Warn("failed to persist security event", zap.Error(err))
	}
}

func userIDString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func LogLoginSuccess(userID uint, username, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginSuccess,
		UserID:    userIDString(userID),
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged in successfully",
	})
}

func LogLoginFailure(username, ip, userAgent, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "Login failed: " + reason,
	})
}

func LogLogout(userID uint, username, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLogout,
		UserID:    userIDString(userID),
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged out",
	})
}

// LogAccountLocked records a lockout after repeated failed logins.
func LogAccountLocked(userID uint, username, ip, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventAccountLocked,
		UserID:    userIDString(userID),
		Username:  username,
		IP:        ip,
		Message:   "Account locked: " + reason,
	})
}

// LogUnauthorizedAccess records a request rejected for a missing session or
// an insufficient role.
func LogUnauthorizedAccess(userID, ip, resource, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventUnauthorizedAccess,
		UserID:    userID,
		IP:        ip,
		Message:   fmt.Sprintf("Unauthorized access to %s: %s", resource, reason),
	})
}

func LogRateLimitExceeded(ip, endpoint string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventRateLimitExceeded,
		IP:        ip,
		Message:   "Rate limit exceeded for endpoint: " + endpoint,
	})
}
