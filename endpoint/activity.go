package endpoint

import (
	"strings"

	"github.com/ariebrainware/sisreg/referral"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
)

// ListActivity godoc
// @Summary      Activity log
// @Description  Audit trail of request and patient changes, newest first
// @Tags         Activity
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        request_id query int false "Request"
// @Param        patient_id query int false "Patient"
// @Param        user_id query int false "Acting user"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {object} util.APIResponse{data=object} "Activity retrieved"
// @Failure      400 {object} util.APIResponse "Invalid filter"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /activity [get]
func ListActivity(c *gin.Context) {
	var f referral.ActivityFilter
	var ok bool
	if f.RequestID, ok = queryUint(c, "request_id"); !ok {
		return
	}
	if f.PatientID, ok = queryUint(c, "patient_id"); !ok {
		return
	}
	if f.UserID, ok = queryUint(c, "user_id"); !ok {
		return
	}
	page := parsePagination(c)
	f.Limit, f.Offset = page.Limit, page.Offset

	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	entries, total, err := svc.ListActivity(c.Request.Context(), f)
	if err != nil {
		respondError(c, "Failed to retrieve activity", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Activity retrieved",
		Data: map[string]interface{}{"total": total, "activity": entries},
	})
}

// ListNotifications godoc
// @Summary      Patient notifications
// @Description  Messages queued for patients when their requests complete
// @Tags         Activity
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        status query string false "queued, sent or failed"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {object} util.APIResponse{data=object} "Notifications retrieved"
// @Failure      400 {object} util.APIResponse "Unknown status"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /notification [get]
func ListNotifications(c *gin.Context) {
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	page := parsePagination(c)
	items, total, err := svc.ListNotifications(c.Request.Context(), strings.TrimSpace(c.Query("status")), page.Limit, page.Offset)
	if err != nil {
		respondError(c, "Failed to retrieve notifications", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Notifications retrieved",
		Data: map[string]interface{}{"total": total, "notifications": items},
	})
}
