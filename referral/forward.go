package referral

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariebrainware/sisreg/model"
	"gorm.io/gorm"
)

// ForwardInput names the reporting month a request is deferred to.
type ForwardInput struct {
	Year   int    `json:"year" example:"2025"`
	Month  int    `json:"month" example:"4"`
	Reason string `json:"reason"`
}

// Forward moves a request into another reporting month and sets it back to
// received. Its creation time is left untouched.
func (s *Service) Forward(ctx context.Context, actor Actor, id uint, in ForwardInput) (model.Request, error) {
	if err := actor.require("forward requests", approverRoles...); err != nil {
		return model.Request{}, err
	}
	target := Period{Year: in.Year, Month: in.Month}
	if err := target.Validate(); err != nil {
		return model.Request{}, err
	}
	var req model.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		req, err = s.forward(tx, actor, id, target, strings.TrimSpace(in.Reason))
		return err
	})
	return req, err
}

func (s *Service) forward(tx *gorm.DB, actor Actor, id uint, target Period, reason string) (model.Request, error) {
	req, err := s.loadRequest(tx, id)
	if err != nil {
		return req, err
	}
	extra := map[string]interface{}{
		"reporting_year":     target.Year,
		"reporting_month":    target.Month,
		"forwarded_to_year":  target.Year,
		"forwarded_to_month": target.Month,
		"forwarded_by_id":    actor.UserID,
		"forwarded_at":       s.now(),
		"forwarded_reason":   reason,
	}
	if req.Status == model.StatusSuspended {
		extra["notes"] = ""
	}
	description := fmt.Sprintf("Request forwarded to %s", target)
	if reason != "" {
		description += ": " + reason
	}
	err = s.transition(tx, actor, &req, model.ActionForward, model.StatusReceived, extra, description)
	return req, err
}

// ForwardBatchResult tallies a batch forward.
type ForwardBatchResult struct {
	ForwardedCount int             `json:"forwardedCount"`
	FailedCount    int             `json:"failedCount"`
	FailedIDs      []uint          `json:"failedIds"`
	Errors         map[uint]string `json:"errors,omitempty"`
}

// BatchForward forwards each id independently; one bad id does not stop the
// others.
func (s *Service) BatchForward(ctx context.Context, actor Actor, ids []uint, in ForwardInput) (ForwardBatchResult, error) {
	if err := actor.require("forward requests", approverRoles...); err != nil {
		return ForwardBatchResult{}, err
	}
	if len(ids) == 0 {
		return ForwardBatchResult{}, validationError("no request ids given")
	}
	target := Period{Year: in.Year, Month: in.Month}
	if err := target.Validate(); err != nil {
		return ForwardBatchResult{}, err
	}
	reason := strings.TrimSpace(in.Reason)

	res := runBatch(ids, func(id uint) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			_, err := s.forward(tx, actor, id, target, reason)
			return err
		})
	})
	return ForwardBatchResult{
		ForwardedCount: res.Succeeded,
		FailedCount:    res.Failed,
		FailedIDs:      res.FailedIDs,
		Errors:         res.Errors,
	}, nil
}
