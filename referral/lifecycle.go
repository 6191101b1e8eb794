package referral

import (
	"context"
	"strings"

	"github.com/ariebrainware/sisreg/model"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Approve moves a pending request to received. Quota is never checked.
func (s *Service) Approve(ctx context.Context, actor Actor, id uint) (model.Request, error) {
	if err := actor.require("approve requests", approverRoles...); err != nil {
		return model.Request{}, err
	}
	var req model.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = s.loadRequest(tx, id); err != nil {
			return err
		}
		if req.Status != model.StatusPending {
			return validationError("request %d is not awaiting approval (status %q)", id, req.Status)
		}
		return s.transition(tx, actor, &req, model.ActionApprove, model.StatusReceived, nil, "Request approved by the secretary")
	})
	return req, err
}

// Reject deletes a pending request. The activity log keeps a snapshot of it.
func (s *Service) Reject(ctx context.Context, actor Actor, id uint, reason string) error {
	if err := actor.require("reject requests", approverRoles...); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := s.loadRequest(tx, id)
		if err != nil {
			return err
		}
		if req.Status != model.StatusPending {
			return validationError("request %d is not awaiting approval (status %q)", id, req.Status)
		}
		description := "Request rejected by the secretary"
		if r := strings.TrimSpace(reason); r != "" {
			description += ": " + r
		}
		return s.deleteRequest(tx, actor, req, model.ActionReject, description)
	})
}

func (s *Service) deleteRequest(tx *gorm.DB, actor Actor, req model.Request, action, description string) error {
	if err := tx.Delete(&model.Request{}, req.ID).Error; err != nil {
		return err
	}
	id := req.ID
	pid := req.PatientID
	return s.logActivity(tx, activity{
		actor:       actor,
		action:      action,
		requestID:   &id,
		patientID:   &pid,
		oldStatus:   req.Status,
		description: description,
		details:     req,
	})
}

// BatchResult tallies a batch operation that processes every id on its own.
type BatchResult struct {
	Succeeded int             `json:"succeeded_count"`
	Failed    int             `json:"failed_count"`
	FailedIDs []uint          `json:"failed_ids"`
	Errors    map[uint]string `json:"errors,omitempty"`
}

func runBatch(ids []uint, fn func(id uint) error) BatchResult {
	res := BatchResult{FailedIDs: []uint{}, Errors: map[uint]string{}}
	for _, id := range lo.Uniq(ids) {
		if err := fn(id); err != nil {
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, id)
			res.Errors[id] = err.Error()
			continue
		}
		res.Succeeded++
	}
	return res
}

// BulkApprove approves each id independently.
func (s *Service) BulkApprove(ctx context.Context, actor Actor, ids []uint) (BatchResult, error) {
	if err := actor.require("approve requests", approverRoles...); err != nil {
		return BatchResult{}, err
	}
	if len(ids) == 0 {
		return BatchResult{}, validationError("no request ids given")
	}
	return runBatch(ids, func(id uint) error {
		_, err := s.Approve(ctx, actor, id)
		return err
	}), nil
}

// UpdateStatus moves a request to accepted, confirmed or completed.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, id uint, target string) (model.Request, error) {
	if err := actor.require("update request status", approverRoles...); err != nil {
		return model.Request{}, err
	}
	to, ok := model.ParseStatus(target)
	if !ok {
		return model.Request{}, validationError("unknown status %q", target)
	}
	if !lo.Contains(updatableTargets, to) {
		return model.Request{}, validationError("status %q has a dedicated operation", to)
	}

	var req model.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = s.loadRequest(tx, id); err != nil {
			return err
		}
		if !CanTransition(req.Status, to) {
			return validationError("cannot move request %d from %q to %q", id, req.Status, to)
		}
		var extra map[string]interface{}
		if to == model.StatusCompleted {
			extra = map[string]interface{}{"completed_date": s.now()}
		}
		return s.transition(tx, actor, &req, model.ActionStatusUpdate, to, extra, "")
	})
	return req, err
}

// Suspend hides an active request from normal listings. The reason is kept
// in notes.
func (s *Service) Suspend(ctx context.Context, actor Actor, id uint, reason string) (model.Request, error) {
	if err := actor.require("suspend requests", suspendRoles...); err != nil {
		return model.Request{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return model.Request{}, validationError("a suspension reason is required")
	}

	var req model.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = s.loadRequest(tx, id); err != nil {
			return err
		}
		if !lo.Contains(activeStatuses, req.Status) {
			return validationError("cannot suspend request %d in status %q", id, req.Status)
		}
		return s.transition(tx, actor, &req, model.ActionSuspend, model.StatusSuspended,
			map[string]interface{}{"notes": reason}, "Request suspended: "+reason)
	})
	return req, err
}

// Revert returns a suspended request to received.
func (s *Service) Revert(ctx context.Context, actor Actor, id uint) (model.Request, error) {
	return s.restore(ctx, actor, id, model.ActionRevert, "Suspended request reverted to received")
}

// FixFailed returns a suspended request to received after its problem was
// fixed. It is the same transition as Revert, logged under its own action.
func (s *Service) FixFailed(ctx context.Context, actor Actor, id uint) (model.Request, error) {
	return s.restore(ctx, actor, id, model.ActionFixFailed, "Failed request fixed and returned to received")
}

func (s *Service) restore(ctx context.Context, actor Actor, id uint, action, description string) (model.Request, error) {
	if err := actor.require("restore suspended requests", restoreRoles...); err != nil {
		return model.Request{}, err
	}
	var req model.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = s.loadRequest(tx, id); err != nil {
			return err
		}
		if req.Status != model.StatusSuspended {
			return validationError("request %d is not suspended (status %q)", id, req.Status)
		}
		return s.transition(tx, actor, &req, action, model.StatusReceived,
			map[string]interface{}{"notes": ""}, description)
	})
	return req, err
}

// Delete removes a request permanently. Completed requests may only be
// deleted by admin or regulacao.
func (s *Service) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := actor.require("delete requests", staffRoles...); err != nil {
		return err
	}
	var removed model.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := s.loadRequest(tx, id)
		if err != nil {
			return err
		}
		if req.Status == model.StatusCompleted {
			if err := actor.require("delete completed requests", deleteCompletedRoles...); err != nil {
				return err
			}
		}
		removed = req
		return s.deleteRequest(tx, actor, req, model.ActionDelete, "Request deleted")
	})
	if err != nil {
		return err
	}
	s.removeFiles(ctx, removed.AttachmentKey, removed.ResultFileKey)
	return nil
}
