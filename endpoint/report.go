package endpoint

import (
	"github.com/ariebrainware/sisreg/referral"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
)

// periodReport resolves the reporting month and runs one report over it.
func periodReport(c *gin.Context, msg string, run func(svc *referral.Service, p referral.Period) (interface{}, error)) {
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	p, ok := periodFromQuery(c, svc)
	if !ok {
		return
	}
	data, err := run(svc, p)
	if err != nil {
		respondError(c, "Failed to build report", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: msg, Data: data})
}

// QuotaReport godoc
// @Summary      Quota usage
// @Description  Per active type, how much of the monthly quota the month's active requests use
// @Tags         Report
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        year query int false "Reporting year (defaults to current)"
// @Param        month query int false "Reporting month (defaults to current)"
// @Success      200 {object} util.APIResponse{data=referral.QuotaReport} "Quota usage"
// @Failure      400 {object} util.APIResponse "Invalid period"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/quota [get]
func QuotaReport(c *gin.Context) {
	periodReport(c, "Quota usage", func(svc *referral.Service, p referral.Period) (interface{}, error) {
		return svc.QuotaUsage(c.Request.Context(), p)
	})
}

// SpendingReport godoc
// @Summary      Spending
// @Description  Month spending split into regular and urgent requests, priced from the catalog
// @Tags         Report
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        year query int false "Reporting year (defaults to current)"
// @Param        month query int false "Reporting month (defaults to current)"
// @Success      200 {object} util.APIResponse{data=referral.SpendingReport} "Spending"
// @Failure      400 {object} util.APIResponse "Invalid period"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/spending [get]
func SpendingReport(c *gin.Context) {
	periodReport(c, "Spending", func(svc *referral.Service, p referral.Period) (interface{}, error) {
		return svc.Spending(c.Request.Context(), p)
	})
}

// MonthlyAuthorizationsReport godoc
// @Summary      Monthly authorizations per health unit
// @Tags         Report
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        year query int false "Reporting year (defaults to current)"
// @Param        month query int false "Reporting month (defaults to current)"
// @Success      200 {object} util.APIResponse{data=[]referral.UnitAuthorizations} "Monthly authorizations"
// @Failure      400 {object} util.APIResponse "Invalid period"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/monthly-authorizations [get]
func MonthlyAuthorizationsReport(c *gin.Context) {
	periodReport(c, "Monthly authorizations", func(svc *referral.Service, p referral.Period) (interface{}, error) {
		return svc.MonthlyAuthorizations(c.Request.Context(), p)
	})
}

// DashboardReport godoc
// @Summary      Dashboard
// @Description  Month totals by status with urgent, pending and suspended counts
// @Tags         Report
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        year query int false "Reporting year (defaults to current)"
// @Param        month query int false "Reporting month (defaults to current)"
// @Success      200 {object} util.APIResponse{data=referral.Dashboard} "Dashboard"
// @Failure      400 {object} util.APIResponse "Invalid period"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/dashboard [get]
func DashboardReport(c *gin.Context) {
	periodReport(c, "Dashboard", func(svc *referral.Service, p referral.Period) (interface{}, error) {
		return svc.Dashboard(c.Request.Context(), p)
	})
}

// DuplicatesReport godoc
// @Summary      Possible duplicate requests
// @Description  Requests for the same patient and type created close together
// @Tags         Report
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=[]referral.DuplicateEntry} "Duplicates"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/duplicates [get]
func DuplicatesReport(c *gin.Context) {
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	dups, err := svc.Duplicates(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to find duplicates", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Duplicates",
		Data: map[string]interface{}{"total": len(dups), "duplicates": dups},
	})
}
