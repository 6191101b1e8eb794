package endpoint

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariebrainware/sisreg/middleware"
	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	sessionTTL       = 8 * time.Hour
	maxLoginFailures = 5
	lockoutDuration  = 15 * time.Minute
)

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"maria.recepcao"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token        string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Role         string `json:"role" example:"recepcao"`
	UserID       uint   `json:"user_id" example:"1"`
	Name         string `json:"name" example:"Maria Souza"`
	HealthUnitID *uint  `json:"health_unit_id" example:"1"`
}

// Login godoc
// @Summary      User login
// @Description  Authenticate a staff user with username and password
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Invalid username or password"
// @Failure      423 {object} util.APIResponse "Account locked"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ctx := loginContext{
		C:        c,
		DB:       db,
		Username: strings.ToLower(strings.TrimSpace(req.Username)),
		CI:       clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()},
	}

	user, ok := loadUserForLogin(ctx)
	if !ok {
		return
	}
	if !ensureAccountNotLocked(ctx, &user) {
		return
	}
	if !verifyPasswordOrRespond(ctx, &user, req.Password) {
		return
	}
	finalizeLogin(ctx, &user)
}

type clientInfo struct {
	IP    string
	Agent string
}

type loginContext struct {
	C        *gin.Context
	DB       *gorm.DB
	Username string
	CI       clientInfo
}

func loadUserForLogin(ctx loginContext) (model.User, bool) {
	var user model.User
	err := ctx.DB.Where("username = ?", ctx.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "user not found")
		util.CallUserNotAuthorized(ctx.C, util.APIErrorParams{Msg: "Invalid username or password", Err: fmt.Errorf("user not found")})
		return model.User{}, false
	}
	if err != nil {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "database error")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Database error", Err: err})
		return model.User{}, false
	}
	return user, true
}

func isAccountLocked(user *model.User, now time.Time) (bool, time.Time) {
	if user.LockedUntil != nil && *user.LockedUntil > now.Unix() {
		return true, time.Unix(*user.LockedUntil, 0)
	}
	return false, time.Time{}
}

func ensureAccountNotLocked(ctx loginContext, user *model.User) bool {
	locked, until := isAccountLocked(user, time.Now())
	if !locked {
		return true
	}
	util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "account locked")
	ctx.C.JSON(423, util.APIResponse{
		Msg:   fmt.Sprintf("Account is locked until %s due to multiple failed login attempts", until.Format(time.RFC3339)),
		Error: "account locked",
		Data:  map[string]interface{}{},
	})
	return false
}

func verifyPasswordOrRespond(ctx loginContext, user *model.User, plain string) bool {
	match, err := util.VerifyPassword(plain, user.Password, user.PasswordSalt)
	if err != nil {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "password verification error")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Password verification failed", Err: err})
		return false
	}
	if !match {
		incrementFailedAttempts(ctx.DB, user, ctx.CI)
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "invalid password")
		util.CallUserNotAuthorized(ctx.C, util.APIErrorParams{Msg: "Invalid username or password", Err: fmt.Errorf("invalid password")})
		return false
	}
	return true
}

func incrementFailedAttempts(db *gorm.DB, user *model.User, ci clientInfo) {
	updates := map[string]interface{}{"failed_attempts": gorm.Expr("failed_attempts + 1")}
	if user.FailedAttempts+1 >= maxLoginFailures {
		until := time.Now().Add(lockoutDuration).Unix()
		updates["locked_until"] = until
		updates["failed_attempts"] = 0
		util.LogAccountLocked(user.ID, user.Username, ci.IP, "too many failed login attempts")
	}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		util.LogLoginFailure(user.Username, ci.IP, ci.Agent, "failed to update failed attempts")
	}
}

func resetFailedAttempts(db *gorm.DB, user *model.User) error {
	if user.FailedAttempts == 0 && user.LockedUntil == nil {
		return nil
	}
	return db.Model(user).Updates(map[string]interface{}{"failed_attempts": 0, "locked_until": nil}).Error
}

func createJWTToken(user model.User, expires time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.RoleID,
		"exp":      expires.Unix(),
		"iat":      time.Now().Unix(),
		"jti":      uuid.NewString(),
	})
	return token.SignedString(util.GetJWTSecretByte())
}

func finalizeLogin(ctx loginContext, user *model.User) {
	if err := resetFailedAttempts(ctx.DB, user); err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			UserID:    fmt.Sprintf("%d", user.ID),
			Username:  user.Username,
			IP:        ctx.CI.IP,
			Message:   fmt.Sprintf("Failed to reset failed attempts: %v", err),
		})
	}

	expires := time.Now().Add(sessionTTL)
	tokenString, err := createJWTToken(*user, expires)
	if err != nil {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "token generation failed")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	session := model.Session{
		UserID:       user.ID,
		SessionToken: tokenString,
		ExpiresAt:    expires,
		ClientIP:     ctx.CI.IP,
		Browser:      ctx.CI.Agent,
	}
	if err := ctx.DB.Create(&session).Error; err != nil {
		util.LogLoginFailure(ctx.Username, ctx.CI.IP, ctx.CI.Agent, "session creation failed")
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return
	}

	// Cache failures only cost a DB lookup per request.
	if err := util.CacheSession(ctx.C.Request.Context(), tokenString, user.ID, user.RoleID, time.Until(expires)); err != nil {
		util.Logger().Sugar().Warnw("failed to cache session", "user_id", user.ID, "error", err)
	}

	if err := middleware.ResetRateLimit(ctx.CI.IP, ctx.C.Request.URL.Path); err != nil {
		util.Logger().Sugar().Warnw("failed to reset login rate limit", "ip", ctx.CI.IP, "error", err)
	}

	util.LogLoginSuccess(user.ID, user.Username, ctx.CI.IP, ctx.CI.Agent)
	util.CallSuccessOK(ctx.C, util.APISuccessParams{
		Msg: "Login successful",
		Data: LoginResponse{
			Token:        tokenString,
			Role:         user.RoleName(),
			UserID:       user.ID,
			Name:         user.Name,
			HealthUnitID: user.HealthUnitID,
		},
	})
}

// Logout godoc
// @Summary      User logout
// @Description  Invalidate the current session token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Session not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logout [delete]
func Logout(c *gin.Context) {
	token := c.GetHeader(middleware.SessionTokenHeader)
	if token == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Session token not provided", Err: fmt.Errorf("session token not provided")})
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var session model.Session
	if err := db.Where("session_token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Session not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load session", Err: err})
		return
	}

	if err := db.Delete(&session).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete session", Err: err})
		return
	}
	_ = util.RemoveCachedSession(c.Request.Context(), token, session.UserID)

	util.LogLogout(session.UserID, util.GetUserName(db, session.UserID), c.ClientIP(), c.Request.UserAgent())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logout successful"})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" example:"password123"`
	NewPassword     string `json:"new_password" binding:"required,min=8" example:"n3w-passw0rd"`
}

// ChangePassword godoc
// @Summary      Change own password
// @Description  Replace the authenticated user's password. Every session of the user is closed.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        request body ChangePasswordRequest true "Current and new password"
// @Success      200 {object} util.APIResponse "Password changed"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Current password does not match"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /user/password [patch]
func ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "User not authenticated", Err: fmt.Errorf("user id not found in context")})
		return
	}

	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve user", Err: err})
		return
	}
	match, err := util.VerifyPassword(req.CurrentPassword, user.Password, user.PasswordSalt)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Password verification failed", Err: err})
		return
	}
	if !match {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Current password does not match", Err: fmt.Errorf("invalid password")})
		return
	}

	if err := hashUserPassword(&user, req.NewPassword); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to hash password", Err: err})
		return
	}
	if err := db.Model(&user).Updates(map[string]interface{}{"password": user.Password, "password_salt": user.PasswordSalt}).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update password", Err: err})
		return
	}
	invalidateUserSessions(c, db, user.ID)

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventPasswordChanged,
		UserID:    fmt.Sprintf("%d", user.ID),
		Username:  user.Username,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "Password changed by owner",
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Password changed"})
}
