package endpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/ariebrainware/sisreg/middleware"
	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TokenInfo struct {
	UserID       uint      `json:"user_id" example:"1"`
	Name         string    `json:"name" example:"Maria Souza"`
	Username     string    `json:"username" example:"maria.recepcao"`
	Role         string    `json:"role" example:"recepcao"`
	HealthUnitID *uint     `json:"health_unit_id" example:"1"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ValidateToken godoc
// @Summary      Validate session token
// @Description  Report the user and role behind a valid, unexpired session token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=TokenInfo} "Valid session token"
// @Failure      401 {object} util.APIResponse "Invalid or expired session token"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /token/validate [get]
func ValidateToken(c *gin.Context) {
	token := c.GetHeader(middleware.SessionTokenHeader)
	if token == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Invalid session token", Err: fmt.Errorf("missing session token")})
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var row struct {
		UserID       uint
		Name         string
		Username     string
		RoleID       uint32
		HealthUnitID *uint
		ExpiresAt    time.Time
	}
	err := db.Table("sessions").
		Select("sessions.user_id, users.name, users.username, users.role_id, users.health_unit_id, sessions.expires_at").
		Joins("JOIN users ON users.id = sessions.user_id AND users.deleted_at IS NULL").
		Where("sessions.session_token = ? AND sessions.expires_at > ? AND sessions.deleted_at IS NULL", token, time.Now()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Session not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to validate session", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Valid session token",
		Data: TokenInfo{
			UserID:       row.UserID,
			Name:         row.Name,
			Username:     row.Username,
			Role:         model.RoleName(row.RoleID),
			HealthUnitID: row.HealthUnitID,
			ExpiresAt:    row.ExpiresAt,
		},
	})
}
