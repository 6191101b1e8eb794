package referral

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ariebrainware/sisreg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprove(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	pending := f.createExam(t, f.raioX)

	_, err := f.svc.Approve(ctx, f.recepcao, pending.ID)
	requireKind(t, err, KindAuthorization)

	approved, err := f.svc.Approve(ctx, f.regulacao, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, approved.Status)

	_, err = f.svc.Approve(ctx, f.regulacao, pending.ID)
	requireKind(t, err, KindValidation)

	_, err = f.svc.Approve(ctx, f.admin, 9999)
	requireKind(t, err, KindNotFound)

	logs := f.activity(t, pending.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, model.ActionApprove, logs[1].Action)
	assert.Equal(t, string(model.StatusPending), logs[1].OldStatus)
	assert.Equal(t, string(model.StatusReceived), logs[1].NewStatus)
}

func TestRejectDeletesAndKeepsSnapshot(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	pending := f.createExam(t, f.raioX)
	active := f.createExam(t, f.hemograma)

	requireKind(t, f.svc.Reject(ctx, f.regulacao, active.ID, ""), KindValidation)
	requireKind(t, f.svc.Reject(ctx, f.recepcao, pending.ID, ""), KindAuthorization)

	require.NoError(t, f.svc.Reject(ctx, f.admin, pending.ID, "sem indicação clínica"))

	var count int64
	f.db.Model(&model.Request{}).Where("id = ?", pending.ID).Count(&count)
	assert.Zero(t, count)

	logs := f.activity(t, pending.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, model.ActionReject, logs[1].Action)
	assert.Contains(t, logs[1].Description, "sem indicação clínica")

	var snapshot model.Request
	require.NoError(t, json.Unmarshal(logs[1].Details, &snapshot))
	assert.Equal(t, pending.ID, snapshot.ID)
	assert.Equal(t, f.raioX.ID, *snapshot.ExamTypeID)
	assert.Equal(t, model.StatusPending, snapshot.Status)
}

func TestBulkApprovePartialFailure(t *testing.T) {
	f := setupFixture(t)
	a := f.createExam(t, f.raioX)
	b := f.createExam(t, f.raioX)
	active := f.createExam(t, f.hemograma)

	res, err := f.svc.BulkApprove(context.Background(), f.regulacao, []uint{a.ID, b.ID, active.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 2, res.Failed)
	assert.ElementsMatch(t, []uint{active.ID, 9999}, res.FailedIDs)
	assert.Equal(t, model.StatusReceived, f.reload(t, a.ID).Status)
	assert.Equal(t, model.StatusReceived, f.reload(t, b.ID).Status)

	_, err = f.svc.BulkApprove(context.Background(), f.recepcao, []uint{a.ID})
	requireKind(t, err, KindAuthorization)
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	req := f.createExam(t, f.hemograma)
	pending := f.createExam(t, f.raioX)

	tests := []struct {
		name   string
		actor  Actor
		id     uint
		target string
		kind   Kind
		ok     bool
	}{
		{"recepcao cannot update", f.recepcao, req.ID, "accepted", KindAuthorization, false},
		{"unknown status", f.admin, req.ID, "cancelled", KindValidation, false},
		{"suspend has its own operation", f.admin, req.ID, string(model.StatusSuspended), KindValidation, false},
		{"pending needs approval", f.admin, pending.ID, "accepted", KindValidation, false},
		{"received to accepted", f.regulacao, req.ID, "accepted", 0, true},
		{"accepted to confirmed is not allowed", f.regulacao, req.ID, "confirmed", KindValidation, false},
		{"accepted to completed", f.admin, req.ID, "completed", 0, true},
		{"completed is terminal", f.admin, req.ID, "accepted", KindValidation, false},
		{"unknown id", f.admin, 9999, "accepted", KindNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateStatus(ctx, tt.actor, tt.id, tt.target)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			requireKind(t, err, tt.kind)
		})
	}

	done := f.reload(t, req.ID)
	assert.Equal(t, model.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedDate)
	assert.True(t, done.CompletedDate.Equal(f.now))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(model.StatusPending, model.StatusReceived))
	assert.True(t, CanTransition(model.StatusReceived, model.StatusConfirmed))
	assert.True(t, CanTransition(model.StatusSuspended, model.StatusReceived))
	assert.False(t, CanTransition(model.StatusPending, model.StatusSuspended))
	assert.False(t, CanTransition(model.StatusCompleted, model.StatusSuspended))
	assert.False(t, CanTransition(model.StatusConfirmed, model.StatusAccepted))
}

func TestSuspendAndRestore(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	req := f.createExam(t, f.hemograma)
	pending := f.createExam(t, f.raioX)

	_, err := f.svc.Suspend(ctx, f.admin, req.ID, "CPF divergente")
	requireKind(t, err, KindAuthorization)
	_, err = f.svc.Suspend(ctx, f.regulacao, req.ID, "   ")
	requireKind(t, err, KindValidation)
	_, err = f.svc.Suspend(ctx, f.regulacao, pending.ID, "x")
	requireKind(t, err, KindValidation)

	suspended, err := f.svc.Suspend(ctx, f.regulacao, req.ID, " CPF divergente ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuspended, suspended.Status)
	assert.Equal(t, "CPF divergente", suspended.Notes)
	assert.Equal(t, model.RequestView{Kind: model.ViewSuspended, Reason: "CPF divergente"}, suspended.View())

	_, err = f.svc.Revert(ctx, f.recepcao, pending.ID)
	requireKind(t, err, KindValidation)

	restored, err := f.svc.Revert(ctx, f.recepcao, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, restored.Status)
	assert.Empty(t, restored.Notes)

	_, err = f.svc.Suspend(ctx, f.regulacao, req.ID, "exame repetido")
	require.NoError(t, err)
	fixed, err := f.svc.FixFailed(ctx, f.admin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, fixed.Status)

	logs := f.activity(t, req.ID)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{
		model.ActionCreate, model.ActionSuspend, model.ActionRevert, model.ActionSuspend, model.ActionFixFailed,
	}, actions)
}

func TestDeleteRoleDependsOnStatus(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	completed := f.createExam(t, f.hemograma)
	_, err := f.svc.UpdateStatus(ctx, f.admin, completed.ID, "completed")
	require.NoError(t, err)
	pending := f.createExam(t, f.raioX)

	requireKind(t, f.svc.Delete(ctx, f.recepcao, completed.ID), KindAuthorization)
	require.NoError(t, f.svc.Delete(ctx, f.regulacao, completed.ID))
	require.NoError(t, f.svc.Delete(ctx, f.recepcao, pending.ID))
	requireKind(t, f.svc.Delete(ctx, f.admin, pending.ID), KindNotFound)

	logs := f.activity(t, completed.ID)
	assert.Equal(t, model.ActionDelete, logs[len(logs)-1].Action)
	assert.NotEmpty(t, logs[len(logs)-1].Details)
}
