package endpoint

import (
	"fmt"

	"github.com/ariebrainware/sisreg/middleware"
	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/referral"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
)

type reasonRequest struct {
	Reason string `json:"reason" example:"Documentação incompleta"`
}

type idsRequest struct {
	IDs []uint `json:"ids" binding:"required" example:"1,2,3"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required" example:"accepted"`
}

type forwardBatchRequest struct {
	IDs []uint `json:"ids" binding:"required" example:"4,5"`
	referral.ForwardInput
}

// requestAction runs a single-request transition and answers with the updated request.
func requestAction(c *gin.Context, msg string, run func(svc *referral.Service, actor referral.Actor, id uint) (model.Request, error)) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	req, err := run(svc, middleware.GetActor(c), id)
	if err != nil {
		respondError(c, "Failed to update request", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: msg, Data: req})
}

// ApproveRequest godoc
// @Summary      Approve pending request
// @Description  Secretary approval moves a pending request to received
// @Tags         Request
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Success      200 {object} util.APIResponse{data=model.Request} "Request approved"
// @Failure      400 {object} util.APIResponse "Request is not pending"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Router       /request/{id}/approve [post]
func ApproveRequest(c *gin.Context) {
	requestAction(c, "Request approved", func(svc *referral.Service, actor referral.Actor, id uint) (model.Request, error) {
		return svc.Approve(c.Request.Context(), actor, id)
	})
}

// RejectRequest godoc
// @Summary      Reject pending request
// @Description  Rejection deletes the request. The activity log keeps a snapshot.
// @Tags         Request
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Param        request body reasonRequest false "Rejection reason"
// @Success      200 {object} util.APIResponse "Request rejected"
// @Failure      400 {object} util.APIResponse "Request is not pending"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Router       /request/{id}/reject [post]
func RejectRequest(c *gin.Context) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	var body reasonRequest
	if c.Request.ContentLength > 0 && !bindJSONOrRespond(c, &body, "Invalid request payload") {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	if err := svc.Reject(c.Request.Context(), middleware.GetActor(c), id, body.Reason); err != nil {
		respondError(c, "Failed to reject request", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Request rejected", Data: map[string]uint{"id": id}})
}

// BulkApprove godoc
// @Summary      Approve pending requests in bulk
// @Description  Each id is approved on its own. Failures are tallied, not fatal.
// @Tags         Request
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        request body idsRequest true "Request ids"
// @Success      200 {object} util.APIResponse{data=referral.BatchResult} "Bulk approval finished"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Router       /request/approve-bulk [post]
func BulkApprove(c *gin.Context) {
	var body idsRequest
	if !bindJSONOrRespond(c, &body, "Invalid request payload") {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	res, err := svc.BulkApprove(c.Request.Context(), middleware.GetActor(c), body.IDs)
	if err != nil {
		respondError(c, "Failed to approve requests", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  fmt.Sprintf("%d approved, %d failed", res.Succeeded, res.Failed),
		Data: res,
	})
}

// UpdateRequestStatus godoc
// @Summary      Update request status
// @Description  Move a request to accepted, confirmed or completed along the allowed transitions
// @Tags         Request
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Param        request body statusRequest true "Target status"
// @Success      200 {object} util.APIResponse{data=model.Request} "Status updated"
// @Failure      400 {object} util.APIResponse "Transition not allowed"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Router       /request/{id}/status [patch]
func UpdateRequestStatus(c *gin.Context) {
	var body statusRequest
	if !bindJSONOrRespond(c, &body, "Invalid request payload") {
		return
	}
	requestAction(c, "Status updated", func(svc *referral.Service, actor referral.Actor, id uint) (model.Request, error) {
		return svc.UpdateStatus(c.Request.Context(), actor, id, body.Status)
	})
}

// CompleteRequest godoc
// @Summary      Complete request with result
// @Description  Record where and when the exam or consultation happens, store the result file and notify the patient
// @Tags         Request
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Param        location formData string true "Location"
// @Param        date formData string true "Date (YYYY-MM-DD)"
// @Param        time formData string true "Time (HH:MM)"
// @Param        result_file formData file true "Result file"
// @Success      200 {object} util.APIResponse{data=referral.CompleteResult} "Request completed"
// @Failure      400 {object} util.APIResponse "Invalid input or transition"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Router       /request/{id}/complete [post]
func CompleteRequest(c *gin.Context) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	file, closeFile, err := formFile(c, "result_file")
	defer closeFile()
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid upload", Err: err})
		return
	}
	res, err := svc.CompleteWithResult(c.Request.Context(), middleware.GetActor(c), id, referral.CompleteInput{
		Location:   c.PostForm("location"),
		Date:       c.PostForm("date"),
		Time:       c.PostForm("time"),
		ResultFile: file,
	})
	if err != nil {
		respondError(c, "Failed to complete request", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Request completed", Data: res})
}

// SuspendRequest godoc
// @Summary      Suspend request
// @Description  Hide an active request from normal listings and statistics
// @Tags         Request
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Param        request body reasonRequest true "Suspension reason"
// @Success      200 {object} util.APIResponse{data=model.Request} "Request suspended"
// @Failure      400 {object} util.APIResponse "Missing reason or request not active"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Router       /request/{id}/suspend [post]
func SuspendRequest(c *gin.Context) {
	var body reasonRequest
	if !bindJSONOrRespond(c, &body, "Invalid request payload") {
		return
	}
	requestAction(c, "Request suspended", func(svc *referral.Service, actor referral.Actor, id uint) (model.Request, error) {
		return svc.Suspend(c.Request.Context(), actor, id, body.Reason)
	})
}

// RevertRequest godoc
// @Summary      Revert suspended request
// @Tags         Request
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Success      200 {object} util.APIResponse{data=model.Request} "Request reverted"
// @Failure      400 {object} util.APIResponse "Request is not suspended"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Router       /request/{id}/revert [post]
func RevertRequest(c *gin.Context) {
	requestAction(c, "Request reverted", func(svc *referral.Service, actor referral.Actor, id uint) (model.Request, error) {
		return svc.Revert(c.Request.Context(), actor, id)
	})
}

// FixFailedRequest godoc
// @Summary      Fix failed request
// @Description  Return a suspended request to received once its problem is fixed
// @Tags         Request
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Success      200 {object} util.APIResponse{data=model.Request} "Request fixed"
// @Failure      400 {object} util.APIResponse "Request is not suspended"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Router       /request/{id}/fix-failed [post]
func FixFailedRequest(c *gin.Context) {
	requestAction(c, "Request fixed", func(svc *referral.Service, actor referral.Actor, id uint) (model.Request, error) {
		return svc.FixFailed(c.Request.Context(), actor, id)
	})
}

// ForwardRequest godoc
// @Summary      Forward request to another month
// @Description  Move the request's reporting month and set it back to received. Its creation date is kept.
// @Tags         Request
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Param        request body referral.ForwardInput true "Target month"
// @Success      200 {object} util.APIResponse{data=model.Request} "Request forwarded"
// @Failure      400 {object} util.APIResponse "Invalid month"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Router       /request/{id}/forward [post]
func ForwardRequest(c *gin.Context) {
	var body referral.ForwardInput
	if !bindJSONOrRespond(c, &body, "Invalid request payload") {
		return
	}
	requestAction(c, "Request forwarded", func(svc *referral.Service, actor referral.Actor, id uint) (model.Request, error) {
		return svc.Forward(c.Request.Context(), actor, id, body)
	})
}

// ForwardBatch godoc
// @Summary      Forward requests in batch
// @Tags         Request
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        request body forwardBatchRequest true "Request ids and target month"
// @Success      200 {object} util.APIResponse{data=referral.ForwardBatchResult} "Batch forward finished"
// @Failure      400 {object} util.APIResponse "Invalid month or empty id list"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Router       /request/forward-batch [post]
func ForwardBatch(c *gin.Context) {
	var body forwardBatchRequest
	if !bindJSONOrRespond(c, &body, "Invalid request payload") {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	res, err := svc.BatchForward(c.Request.Context(), middleware.GetActor(c), body.IDs, body.ForwardInput)
	if err != nil {
		respondError(c, "Failed to forward requests", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  fmt.Sprintf("%d forwarded, %d failed", res.ForwardedCount, res.FailedCount),
		Data: res,
	})
}

// DeleteRequest godoc
// @Summary      Delete request
// @Description  Remove a request and its stored files. Completed requests need admin or regulacao.
// @Tags         Request
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Request ID"
// @Success      200 {object} util.APIResponse "Request deleted"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Request not found"
// @Router       /request/{id} [delete]
func DeleteRequest(c *gin.Context) {
	id, ok := idParam(c, "request")
	if !ok {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	if err := svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, "Failed to delete request", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Request deleted", Data: map[string]uint{"id": id}})
}
