package endpoint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken   = errors.New("username already exists")
	ErrUnknownRole     = errors.New("unknown role")
	ErrUnknownUnit     = errors.New("health unit not found")
	ErrNothingToUpdate = errors.New("no fields to update")
	ErrWeakPassword    = errors.New("password must have at least 8 characters")
)

type CreateUserRequest struct {
	Name         string `json:"name" binding:"required" example:"Maria Souza"`
	Username     string `json:"username" binding:"required" example:"maria.recepcao"`
	Password     string `json:"password" binding:"required,min=8" example:"password123"`
	Role         string `json:"role" binding:"required" example:"recepcao"`
	HealthUnitID *uint  `json:"health_unit_id" example:"1"`
}

type UpdateUserRequest struct {
	Name         string `json:"name" example:"Maria Souza"`
	Role         string `json:"role" example:"regulacao"`
	HealthUnitID *uint  `json:"health_unit_id" example:"2"`
	Password     string `json:"password" example:"newpassword123"`
}

func (r UpdateUserRequest) empty() bool {
	return r.Name == "" && r.Role == "" && r.HealthUnitID == nil && r.Password == ""
}

// hashUserPassword generates a salt and hashes the provided password, updating the user model.
func hashUserPassword(user *model.User, plainPassword string) error {
	salt, err := util.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate password salt: %w", err)
	}
	hashed, err := util.HashPasswordArgon2(plainPassword, salt)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed
	user.PasswordSalt = salt
	return nil
}

// invalidateUserSessions removes session records from both DB and Redis for
// a given user. Failures are logged; the user change itself is already saved.
func invalidateUserSessions(c *gin.Context, db *gorm.DB, userID uint) {
	if err := db.Where("user_id = ?", userID).Delete(&model.Session{}).Error; err != nil {
		util.Logger().Sugar().Errorw("failed to delete user sessions", "user_id", userID, "error", err)
	}
	if err := util.InvalidateUserSessions(c.Request.Context(), userID); err != nil {
		util.Logger().Sugar().Warnw("failed to drop cached sessions", "user_id", userID, "error", err)
	}
}

func usernameExists(db *gorm.DB, username string, excludeID uint) (bool, error) {
	var count int64
	err := db.Unscoped().Model(&model.User{}).Where("username = ? AND id != ?", username, excludeID).Count(&count).Error
	return count > 0, err
}

func healthUnitExists(db *gorm.DB, id uint) (bool, error) {
	var count int64
	err := db.Model(&model.HealthUnit{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func respondUserError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		util.CallConflict(c, util.APIErrorParams{Msg: "Username already exists", Err: err})
	case errors.Is(err, ErrUnknownRole), errors.Is(err, ErrUnknownUnit), errors.Is(err, ErrNothingToUpdate),
		errors.Is(err, ErrWeakPassword):
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "User not found", Err: err})
	default:
		util.CallServerError(c, util.APIErrorParams{Msg: msg, Err: err})
	}
}

// ListUsers godoc
// @Summary      List users (admin only)
// @Description  Get a list of staff users using cursor-based pagination
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        limit query int false "Limit number of results (default 10, max 100)"
// @Param        cursor query int false "Cursor for pagination (User ID)"
// @Param        keyword query string false "Search keyword for name or username"
// @Success      200 {object} util.APIResponse{data=object} "Users retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /user [get]
func ListUsers(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	limit := parsePositiveInt(c.Query("limit"), 10, 100)
	cursor := parseUintQuery(c, "cursor")

	query := db.Model(&model.User{})
	if kw := strings.TrimSpace(c.Query("keyword")); kw != "" {
		like := "%" + kw + "%"
		query = query.Where("name LIKE ? OR username LIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to count users", Err: err})
		return
	}

	if cursor > 0 {
		query = query.Where("id > ?", cursor)
	}
	users := []model.User{}
	if err := query.Preload("HealthUnit").Order("id ASC").Limit(limit + 1).Find(&users).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve users", Err: err})
		return
	}

	hasMore := len(users) > limit
	if hasMore {
		users = users[:limit]
	}
	var nextCursor *uint
	if hasMore {
		last := users[len(users)-1].ID
		nextCursor = &last
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Users retrieved",
		Data: map[string]interface{}{
			"users":         users,
			"total":         total,
			"total_fetched": len(users),
			"has_more":      hasMore,
			"next_cursor":   nextCursor,
		},
	})
}

// parsePositiveInt parses a positive integer from a query value returning a default
// when the value is missing or invalid. If max > 0 it caps the returned value.
func parsePositiveInt(q string, defaultVal, max int) int {
	v, err := strconv.Atoi(q)
	if err != nil || v <= 0 {
		return defaultVal
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// parseUintQuery returns 0 for a missing or invalid cursor.
func parseUintQuery(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// CreateUser godoc
// @Summary      Create user (admin only)
// @Description  Register a staff account with a role and an optional health unit
// @Tags         User
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        request body CreateUserRequest true "User details"
// @Success      201 {object} util.APIResponse{data=model.User} "User created"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      409 {object} util.APIResponse "Username already exists"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /user [post]
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	user, err := buildNewUser(db, req)
	if err != nil {
		respondUserError(c, "Invalid user", err)
		return
	}
	if err := db.Create(&user).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create user", Err: err})
		return
	}
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "User created", Data: user})
}

func buildNewUser(db *gorm.DB, req CreateUserRequest) (model.User, error) {
	roleID, ok := model.RoleID(req.Role)
	if !ok {
		return model.User{}, fmt.Errorf("%w %q", ErrUnknownRole, req.Role)
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))
	taken, err := usernameExists(db, username, 0)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, ErrUsernameTaken
	}
	if req.HealthUnitID != nil {
		found, err := healthUnitExists(db, *req.HealthUnitID)
		if err != nil {
			return model.User{}, err
		}
		if !found {
			return model.User{}, ErrUnknownUnit
		}
	}
	user := model.User{
		Name:         util.NormalizeName(req.Name),
		Username:     username,
		RoleID:       roleID,
		HealthUnitID: req.HealthUnitID,
	}
	return user, hashUserPassword(&user, req.Password)
}

// UpdateUserByID godoc
// @Summary      Update user (admin only)
// @Description  Change a user's name, role, health unit or password. Role and password changes close the user's sessions.
// @Tags         User
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "User ID"
// @Param        request body UpdateUserRequest true "Update details"
// @Success      200 {object} util.APIResponse{data=model.User} "User updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "User not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /user/{id} [patch]
func UpdateUserByID(c *gin.Context) {
	uid, ok := idParam(c, "user")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	if req.empty() {
		respondUserError(c, "At least one field (name, role, health_unit_id, password) must be provided", ErrNothingToUpdate)
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var user model.User
	if err := db.First(&user, uid).Error; err != nil {
		respondUserError(c, "Failed to retrieve user", err)
		return
	}
	revoke, err := applyUserUpdate(db, &user, req)
	if err != nil {
		respondUserError(c, "Invalid user update", err)
		return
	}
	if err := db.Save(&user).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update user", Err: err})
		return
	}
	util.UserNameCacheInvalidate(user.ID)
	if revoke {
		invalidateUserSessions(c, db, user.ID)
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User updated", Data: user})
}

// applyUserUpdate changes user in memory and reports whether its sessions
// must be revoked.
func applyUserUpdate(db *gorm.DB, user *model.User, req UpdateUserRequest) (bool, error) {
	revoke := false
	if name := util.NormalizeName(req.Name); name != "" {
		user.Name = name
	}
	if req.Role != "" {
		roleID, ok := model.RoleID(req.Role)
		if !ok {
			return false, fmt.Errorf("%w %q", ErrUnknownRole, req.Role)
		}
		revoke = revoke || roleID != user.RoleID
		user.RoleID = roleID
	}
	if req.HealthUnitID != nil {
		found, err := healthUnitExists(db, *req.HealthUnitID)
		if err != nil {
			return false, err
		}
		if !found {
			return false, ErrUnknownUnit
		}
		user.HealthUnitID = req.HealthUnitID
		user.HealthUnit = nil
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return false, ErrWeakPassword
		}
		if err := hashUserPassword(user, req.Password); err != nil {
			return false, err
		}
		revoke = true
	}
	return revoke, nil
}

// deleteUserWithSessions deletes a user and all their sessions atomically.
func deleteUserWithSessions(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		user := &model.User{}
		if err := tx.First(user, userID).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Session{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}

// DeleteUser godoc
// @Summary      Delete user (admin only)
// @Description  Soft-delete a user and close its sessions
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "User ID"
// @Success      200 {object} util.APIResponse "User deleted"
// @Failure      400 {object} util.APIResponse "Invalid user id"
// @Failure      404 {object} util.APIResponse "User not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /user/{id} [delete]
func DeleteUser(c *gin.Context) {
	uid, ok := idParam(c, "user")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if err := deleteUserWithSessions(db, uid); err != nil {
		respondUserError(c, "Failed to delete user", err)
		return
	}
	if err := util.InvalidateUserSessions(c.Request.Context(), uid); err != nil {
		util.Logger().Sugar().Warnw("failed to drop cached sessions", "user_id", uid, "error", err)
	}
	util.UserNameCacheInvalidate(uid)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User deleted"})
}
