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

// catalogRecord is implemented by *model.ExamType and *model.ConsultationType.
type catalogRecord[T any] interface {
	*T
	Entry() *model.CatalogEntry
}

type catalogRequest struct {
	Name                   string  `json:"name" example:"Hemograma Completo"`
	Description            *string `json:"description" example:"Complete blood count"`
	MonthlyQuota           *int    `json:"monthly_quota" example:"100"`
	Price                  *int64  `json:"price" example:"5000"`
	NeedsSecretaryApproval *bool   `json:"needs_secretary_approval" example:"false"`
	IsActive               *bool   `json:"is_active" example:"true"`
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (r catalogRequest) apply(e *model.CatalogEntry) error {
	if name := util.NormalizeName(r.Name); name != "" {
		e.Name = name
	}
	if r.Description != nil {
		e.Description = strings.TrimSpace(*r.Description)
	}
	if r.MonthlyQuota != nil {
		if *r.MonthlyQuota < 0 {
			return fmt.Errorf("monthly_quota must not be negative")
		}
		e.MonthlyQuota = *r.MonthlyQuota
	}
	if r.Price != nil {
		if *r.Price < 0 {
			return fmt.Errorf("price must not be negative")
		}
		e.Price = *r.Price
	}
	if r.NeedsSecretaryApproval != nil {
		e.NeedsSecretaryApproval = *r.NeedsSecretaryApproval
	}
	if r.IsActive != nil {
		e.IsActive = *r.IsActive
	}
	return nil
}

func listCatalog[T any](c *gin.Context, label string) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	query := db.Order("name ASC")
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid active filter", Err: err})
			return
		}
		query = query.Where("is_active = ?", active)
	}
	items := []T{}
	if err := query.Find(&items).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve " + label + "s", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: capitalize(label) + "s retrieved", Data: items})
}

func createCatalog[T any, P catalogRecord[T]](c *gin.Context, label string) {
	var req catalogRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	if util.NormalizeName(req.Name) == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Name is required", Err: fmt.Errorf("empty %s name", label)})
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var item T
	entry := P(&item).Entry()
	entry.IsActive = true
	if err := req.apply(entry); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid " + label, Err: err})
		return
	}
	active := entry.IsActive
	if err := db.Create(&item).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create " + label, Err: err})
		return
	}
	// Create skips zero values in favour of column defaults.
	if !active {
		if err := db.Model(P(&item)).Update("is_active", false).Error; err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create " + label, Err: err})
			return
		}
		P(&item).Entry().IsActive = false
	}
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: capitalize(label) + " created", Data: item})
}

func fetchCatalog[T any](c *gin.Context, db *gorm.DB, label string) (T, bool) {
	var item T
	id, ok := idParam(c, label)
	if !ok {
		return item, false
	}
	if err := db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: capitalize(label) + " not found", Err: err})
			return item, false
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve " + label, Err: err})
		return item, false
	}
	return item, true
}

func updateCatalog[T any, P catalogRecord[T]](c *gin.Context, label string) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	item, ok := fetchCatalog[T](c, db, label)
	if !ok {
		return
	}
	var req catalogRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	if err := req.apply(P(&item).Entry()); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid " + label, Err: err})
		return
	}
	if err := db.Save(&item).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update " + label, Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: capitalize(label) + " updated", Data: item})
}

// deactivateCatalog switches a type off. Its past requests keep pointing at it.
func deactivateCatalog[T any, P catalogRecord[T]](c *gin.Context, label string) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	item, ok := fetchCatalog[T](c, db, label)
	if !ok {
		return
	}
	if err := db.Model(P(&item)).Update("is_active", false).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to deactivate " + label, Err: err})
		return
	}
	P(&item).Entry().IsActive = false
	util.CallSuccessOK(c, util.APISuccessParams{Msg: capitalize(label) + " deactivated", Data: item})
}

// ListExamTypes godoc
// @Summary      List exam types
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        active query bool false "Only active (true) or inactive (false) types"
// @Success      200 {object} util.APIResponse{data=[]model.ExamType} "Exam types retrieved"
// @Failure      400 {object} util.APIResponse "Invalid filter"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /exam-type [get]
func ListExamTypes(c *gin.Context) { listCatalog[model.ExamType](c, "exam type") }

// CreateExamType godoc
// @Summary      Create exam type (admin only)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        request body catalogRequest true "Exam type"
// @Success      201 {object} util.APIResponse{data=model.ExamType} "Exam type created"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /exam-type [post]
func CreateExamType(c *gin.Context) { createCatalog[model.ExamType](c, "exam type") }

// UpdateExamType godoc
// @Summary      Update exam type (admin only)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Exam type ID"
// @Param        request body catalogRequest true "Fields to change"
// @Success      200 {object} util.APIResponse{data=model.ExamType} "Exam type updated"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      404 {object} util.APIResponse "Exam type not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /exam-type/{id} [patch]
func UpdateExamType(c *gin.Context) { updateCatalog[model.ExamType](c, "exam type") }

// DeactivateExamType godoc
// @Summary      Deactivate exam type (admin only)
// @Description  Mark the exam type inactive. Existing requests are kept.
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Exam type ID"
// @Success      200 {object} util.APIResponse{data=model.ExamType} "Exam type deactivated"
// @Failure      404 {object} util.APIResponse "Exam type not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /exam-type/{id} [delete]
func DeactivateExamType(c *gin.Context) { deactivateCatalog[model.ExamType](c, "exam type") }

// ListConsultationTypes godoc
// @Summary      List consultation types
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        active query bool false "Only active (true) or inactive (false) types"
// @Success      200 {object} util.APIResponse{data=[]model.ConsultationType} "Consultation types retrieved"
// @Failure      400 {object} util.APIResponse "Invalid filter"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /consultation-type [get]
func ListConsultationTypes(c *gin.Context) {
	listCatalog[model.ConsultationType](c, "consultation type")
}

// CreateConsultationType godoc
// @Summary      Create consultation type (admin only)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        request body catalogRequest true "Consultation type"
// @Success      201 {object} util.APIResponse{data=model.ConsultationType} "Consultation type created"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /consultation-type [post]
func CreateConsultationType(c *gin.Context) {
	createCatalog[model.ConsultationType](c, "consultation type")
}

// UpdateConsultationType godoc
// @Summary      Update consultation type (admin only)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Consultation type ID"
// @Param        request body catalogRequest true "Fields to change"
// @Success      200 {object} util.APIResponse{data=model.ConsultationType} "Consultation type updated"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      404 {object} util.APIResponse "Consultation type not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /consultation-type/{id} [patch]
func UpdateConsultationType(c *gin.Context) {
	updateCatalog[model.ConsultationType](c, "consultation type")
}

// DeactivateConsultationType godoc
// @Summary      Deactivate consultation type (admin only)
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Consultation type ID"
// @Success      200 {object} util.APIResponse{data=model.ConsultationType} "Consultation type deactivated"
// @Failure      404 {object} util.APIResponse "Consultation type not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /consultation-type/{id} [delete]
func DeactivateConsultationType(c *gin.Context) {
	deactivateCatalog[model.ConsultationType](c, "consultation type")
}
