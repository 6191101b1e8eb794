package endpoint

import (
	"strconv"
	"strings"

	"github.com/ariebrainware/sisreg/middleware"
	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/referral"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
)

// listFilterFromQuery reads the request listing filters.
func listFilterFromQuery(c *gin.Context) (referral.ListFilter, bool) {
	var f referral.ListFilter
	var ok bool
	if f.Year, ok = queryInt(c, "year"); !ok {
		return f, false
	}
	if f.Month, ok = queryInt(c, "month"); !ok {
		return f, false
	}
	if f.HealthUnitID, ok = queryUint(c, "health_unit_id"); !ok {
		return f, false
	}
	if f.PatientID, ok = queryUint(c, "patient_id"); !ok {
		return f, false
	}
	if raw := c.Query("is_urgent"); raw != "" {
		urgent, err := strconv.ParseBool(raw)
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid is_urgent", Err: err})
			return f, false
		}
		f.IsUrgent = &urgent
	}
	f.Status = strings.TrimSpace(c.Query("status"))
	f.Keyword = c.Query("keyword")
	page := parsePagination(c)
	f.Limit, f.Offset = page.Limit, page.Offset
	return f, true
}

// CreateRequest godoc
// @Summary      Create requests
// @Description  Register one request per selected exam or consultation type for a patient. Types that need secretary approval start pending.
// @Tags         Request
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        request body referral.CreateInput true "Referral"
// @Success      201 {object} util.APIResponse{data=[]model.Request} "Requests created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Patient, type or health unit not found"
// @Failure      409 {object} util.APIResponse "Exam and consultation type both or neither given"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /request [post]
func CreateRequest(c *gin.Context) {
	var in referral.CreateInput
	if !bindJSONOrRespond(c, &in, "Invalid request payload") {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	requests, err := svc.Create(c.Request.Context(), middleware.GetActor(c), in)
	if err != nil {
		respondError(c, "Failed to create request", err)
		return
	}
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Requests created", Data: requests})
}

func respondList(c *gin.Context, msg string, list func(svc *referral.Service, f referral.ListFilter) ([]model.Request, int64, error)) {
	f, ok := listFilterFromQuery(c)
	if !ok {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	items, total, err := list(svc, f)
	if err != nil {
		respondError(c, "Failed to retrieve requests", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  msg,
		Data: map[string]interface{}{"total": total, "requests": items},
	})
}

// ListRequests godoc
// @Summary      List requests
// @Description  Active requests only. Pending and suspended requests have their own listings.
// @Tags         Request
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        year query int false "Reporting year"
// @Param        month query int false "Reporting month (1-12)"
// @Param        status query string false "received, accepted, confirmed or completed"
// @Param        health_unit_id query int false "Health unit"
// @Param        patient_id query int false "Patient"
// @Param        is_urgent query bool false "Urgency"
// @Param        keyword query string false "Patient name, CPF or type name"
// @Param        limit query int false "Page size (default 50, max 500)"
// @Param        offset query int false "Offset"
// @Success      200 {object} util.APIResponse{data=object} "Requests retrieved"
// @Failure      400 {object} util.APIResponse "Invalid filter"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /request [get]
func ListRequests(c *gin.Context) {
	respondList(c, "Requests retrieved", func(svc *referral.Service, f referral.ListFilter) ([]model.Request, int64, error) {
		return svc.List(c.Request.Context(), f)
	})
}

// ListPendingRequests godoc
// @Summary      List pending requests
// @Description  Requests waiting for secretary approval
// @Tags         Request
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        year query int false "Reporting year"
// @Param        month query int false "Reporting month (1-12)"
// @Param        health_unit_id query int false "Health unit"
// @Param        keyword query string false "Patient name, CPF or type name"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {object} util.APIResponse{data=object} "Pending requests retrieved"
// @Failure      400 {object} util.APIResponse "Invalid filter"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /request/pending [get]
func ListPendingRequests(c *gin.Context) {
	respondList(c, "Pending requests retrieved", func(svc *referral.Service, f referral.ListFilter) ([]model.Request, int64, error) {
		return svc.ListPending(c.Request.Context(), f)
	})
}

// ListSuspendedRequests godoc
// @Summary      List suspended requests
// @Tags         Request
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        year query int false "Reporting year"
// @Param        month query int false "Reporting month (1-12)"
// @Param        health_unit_id query int false "Health unit"
// @Param        keyword query string false "Patient name, CPF or type name"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {object} util.APIResponse{data=object} "Suspended requests retrieved"
// @Failure      400 {object} util.APIResponse "Invalid filter"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /request/suspended [get]
func ListSuspendedRequests(c *gin.Context) {
	respondList(c, "Suspended requests retrieved", func(svc *referral.Service, f referral.ListFilter) ([]model.Request, int64, error) {
		return svc.ListSuspended(c.Request.Context(), f)
	})
}

// GetRequest godoc
// @Summary      Get request
// @Description  One request with its patient, type and health unit, whatever its status
// @Tags         Request
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Success      200 {object} util.APIResponse{data=object} "Request retrieved"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /request/{id} [get]
func GetRequest(c *gin.Context) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	req, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to retrieve request", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Request retrieved",
		Data: map[string]interface{}{"request": req, "view": req.View()},
	})
}

// UploadAttachment godoc
// @Summary      Upload request attachment
// @Description  Store a supporting document on a request, replacing the previous one
// @Tags         Request
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Param        file formData file true "Attachment"
// @Success      200 {object} util.APIResponse{data=model.Request} "Attachment uploaded"
// @Failure      400 {object} util.APIResponse "Invalid upload"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /request/{id}/attachment [post]
func UploadAttachment(c *gin.Context) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	file, closeFile, err := formFile(c, "file")
	defer closeFile()
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid upload", Err: err})
		return
	}
	req, err := svc.AttachFile(c.Request.Context(), middleware.GetActor(c), id, file)
	if err != nil {
		respondError(c, "Failed to upload attachment", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Attachment uploaded", Data: req})
}

// DownloadAttachment godoc
// @Summary      Download request attachment
// @Tags         Request
// @Produce      octet-stream
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Success      200 {file} file "Attachment"
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /request/{id}/attachment [get]
func DownloadAttachment(c *gin.Context) {
	downloadRequestFile(c, false)
}

// DownloadResult godoc
// @Summary      Download request result file
// @Tags         Request
// @Produce      octet-stream
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Success      200 {file} file "Result file"
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /request/{id}/result [get]
func DownloadResult(c *gin.Context) {
	downloadRequestFile(c, true)
}

func downloadRequestFile(c *gin.Context, result bool) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	req, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to retrieve request", err)
		return
	}
	if result {
		streamFile(c, req.ResultFileKey, req.ResultFileName)
		return
	}
	streamFile(c, req.AttachmentKey, req.AttachmentName)
}
