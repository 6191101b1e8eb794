package endpoint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type healthUnitRequest struct {
	Name        string `json:"name" example:"UBS Centro"`
	Address     string `json:"address" example:"Rua Principal, 100"`
	PhoneNumber string `json:"phone_number" example:"(11) 3333-4444"`
}

// ListHealthUnits godoc
// @Summary      List health units
// @Description  Get every health unit ordered by name
// @Tags         HealthUnit
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        keyword query string false "Search keyword for name"
// @Success      200 {object} util.APIResponse{data=[]model.HealthUnit} "Health units retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /health-unit [get]
func ListHealthUnits(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	query := db.Order("name ASC")
	if kw := strings.TrimSpace(c.Query("keyword")); kw != "" {
		query = query.Where("name LIKE ?", "%"+kw+"%")
	}
	units := []model.HealthUnit{}
	if err := query.Find(&units).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve health units", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health units retrieved", Data: units})
}

// CreateHealthUnit godoc
// @Summary      Create health unit (admin only)
// @Tags         HealthUnit
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        request body healthUnitRequest true "Health unit details"
// @Success      201 {object} util.APIResponse{data=model.HealthUnit} "Health unit created"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /health-unit [post]
func CreateHealthUnit(c *gin.Context) {
	var req healthUnitRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	name := util.NormalizeName(req.Name)
	if name == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Name is required", Err: fmt.Errorf("empty health unit name")})
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	unit := model.HealthUnit{
		Name:        name,
		Address:     strings.TrimSpace(req.Address),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
	}
	if err := db.Create(&unit).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create health unit", Err: err})
		return
	}
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Health unit created", Data: unit})
}

func fetchHealthUnit(c *gin.Context, db *gorm.DB) (model.HealthUnit, bool) {
	id, ok := idParam(c, "health unit")
	if !ok {
		return model.HealthUnit{}, false
	}
	var unit model.HealthUnit
	if err := db.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Health unit not found", Err: err})
			return model.HealthUnit{}, false
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve health unit", Err: err})
		return model.HealthUnit{}, false
	}
	return unit, true
}

// UpdateHealthUnit godoc
// @Summary      Update health unit (admin only)
// @Tags         HealthUnit
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Health unit ID"
// @Param        request body healthUnitRequest true "Fields to change"
// @Success      200 {object} util.APIResponse{data=model.HealthUnit} "Health unit updated"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      404 {object} util.APIResponse "Health unit not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /health-unit/{id} [patch]
func UpdateHealthUnit(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	unit, ok := fetchHealthUnit(c, db)
	if !ok {
		return
	}
	var req healthUnitRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	if name := util.NormalizeName(req.Name); name != "" {
		unit.Name = name
	}
	if addr := strings.TrimSpace(req.Address); addr != "" {
		unit.Address = addr
	}
	if phone := strings.TrimSpace(req.PhoneNumber); phone != "" {
		unit.PhoneNumber = phone
	}
	if err := db.Save(&unit).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update health unit", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health unit updated", Data: unit})
}

// DeleteHealthUnit godoc
// @Summary      Delete health unit (admin only)
// @Description  Soft-delete a health unit. Units still referenced by requests cannot be removed.
// @Tags         HealthUnit
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Health unit ID"
// @Success      200 {object} util.APIResponse "Health unit deleted"
// @Failure      404 {object} util.APIResponse "Health unit not found"
// @Failure      409 {object} util.APIResponse "Health unit in use"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /health-unit/{id} [delete]
func DeleteHealthUnit(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	unit, ok := fetchHealthUnit(c, db)
	if !ok {
		return
	}
	var inUse int64
	if err := db.Model(&model.Request{}).Where("health_unit_id = ?", unit.ID).Count(&inUse).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check health unit usage", Err: err})
		return
	}
	if inUse > 0 {
		util.CallConflict(c, util.APIErrorParams{
			Msg: "Health unit has requests",
			Err: fmt.Errorf("health unit %d is referenced by %d requests", unit.ID, inUse),
		})
		return
	}
	if err := db.Delete(&unit).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete health unit", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health unit deleted"})
}
