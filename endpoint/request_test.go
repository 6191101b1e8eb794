package endpoint_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/referral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestList struct {
	Total    int64           `json:"total"`
	Requests []model.Request `json:"requests"`
}

// fixture is a server with staff, one patient and two exam types, one of
// them gated by secretary approval.
type fixture struct {
	*testServer
	st      staff
	patient model.Patient
	exam    model.ExamType
	gated   model.ExamType
}

func newFixture(t *testing.T) fixture {
	s := setupServer(t)
	return fixture{
		testServer: s,
		st:         s.seedStaff(t),
		patient:    s.createPatient(t, "Maria da Silva", "12345678909", "11999998888"),
		exam:       s.createExamType(t, "Hemograma", 2, 1500, false),
		gated:      s.createExamType(t, "Tomografia", 1, 40000, true),
	}
}

// createRequests posts one referral per type so repeated types yield
// separate requests.
func (f fixture) createRequests(t *testing.T, token string, examIDs ...uint) []model.Request {
	t.Helper()
	var out []model.Request
	for _, id := range examIDs {
		rr := f.as(token, requestParams{
			method: http.MethodPost,
			path:   "/request",
			body: jsonBody(t, map[string]interface{}{
				"patient_id":    f.patient.ID,
				"exam_type_ids": []uint{id},
			}),
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var created []model.Request
		decodeData(t, rr, &created)
		require.Len(t, created, 1)
		out = append(out, created[0])
	}
	return out
}

func (f fixture) list(t *testing.T, token, path string) requestList {
	t.Helper()
	rr := f.as(token, requestParams{method: http.MethodGet, path: path})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var out requestList
	decodeData(t, rr, &out)
	return out
}

func TestCreateRequest(t *testing.T) {
	f := newFixture(t)

	rr := f.as(f.st.recepcao, requestParams{
		method: http.MethodPost,
		path:   "/request",
		body: jsonBody(t, map[string]interface{}{
			"patient_id":    f.patient.ID,
			"exam_type_ids": []uint{f.exam.ID, f.gated.ID, f.exam.ID},
		}),
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created []model.Request
	decodeData(t, rr, &created)
	require.Len(t, created, 2, "repeated types collapse")
	assert.Equal(t, model.StatusReceived, created[0].Status)
	assert.Equal(t, model.StatusPending, created[1].Status)
	for _, r := range created {
		assert.Equal(t, f.st.unit.ID, r.HealthUnitID, "falls back to the creator's unit")
		assert.Equal(t, 2025, r.ReportingYear)
		assert.Equal(t, 3, r.ReportingMonth)
	}

	t.Run("regulacao cannot create", func(t *testing.T) {
		rr := f.as(f.st.regulacao, requestParams{
			method: http.MethodPost,
			path:   "/request",
			body:   jsonBody(t, map[string]interface{}{"patient_id": f.patient.ID, "exam_type_ids": []uint{f.exam.ID}}),
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("exam and consultation together", func(t *testing.T) {
		rr := f.as(f.st.admin, requestParams{
			method: http.MethodPost,
			path:   "/request",
			body: jsonBody(t, map[string]interface{}{
				"patient_id": f.patient.ID, "health_unit_id": f.st.unit.ID,
				"exam_type_id": f.exam.ID, "consultation_type_id": 1,
			}),
		})
		assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())
	})

	t.Run("unknown exam type", func(t *testing.T) {
		rr := f.as(f.st.recepcao, requestParams{
			method: http.MethodPost,
			path:   "/request",
			body:   jsonBody(t, map[string]interface{}{"patient_id": f.patient.ID, "exam_type_ids": []uint{999}}),
		})
		assert.Equal(t, http.StatusNotFound, rr.Code, rr.Body.String())
	})

	t.Run("admin without unit must name one", func(t *testing.T) {
		rr := f.as(f.st.admin, requestParams{
			method: http.MethodPost,
			path:   "/request",
			body:   jsonBody(t, map[string]interface{}{"patient_id": f.patient.ID, "exam_type_ids": []uint{f.exam.ID}}),
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	})

	t.Run("new patient inline", func(t *testing.T) {
		rr := f.as(f.st.recepcao, requestParams{
			method: http.MethodPost,
			path:   "/request",
			body: jsonBody(t, map[string]interface{}{
				"patient":       map[string]string{"full_name": "Carlos Pereira", "phone_number": "11977776666"},
				"exam_type_ids": []uint{f.exam.ID},
				"is_urgent":     true,
			}),
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var reqs []model.Request
		decodeData(t, rr, &reqs)
		require.Len(t, reqs, 1)
		assert.True(t, reqs[0].IsUrgent)
		assert.NotEqual(t, f.patient.ID, reqs[0].PatientID)
	})
}

func TestRequestListings(t *testing.T) {
	f := newFixture(t)
	created := f.createRequests(t, f.st.recepcao, f.exam.ID, f.gated.ID)
	active, pending := created[0], created[1]

	all := f.list(t, f.st.recepcao, "/request")
	require.EqualValues(t, 1, all.Total)
	assert.Equal(t, active.ID, all.Requests[0].ID)

	pend := f.list(t, f.st.regulacao, "/request/pending")
	require.EqualValues(t, 1, pend.Total)
	assert.Equal(t, pending.ID, pend.Requests[0].ID)

	assert.EqualValues(t, 0, f.list(t, f.st.regulacao, "/request/suspended").Total)
	assert.EqualValues(t, 1, f.list(t, f.st.recepcao, "/request?year=2025&month=3").Total)
	assert.EqualValues(t, 0, f.list(t, f.st.recepcao, "/request?year=2025&month=4").Total)
	assert.EqualValues(t, 1, f.list(t, f.st.recepcao, "/request?keyword=hemo").Total)
	assert.EqualValues(t, 0, f.list(t, f.st.recepcao, "/request?is_urgent=true").Total)

	tests := []struct {
		name string
		path string
	}{
		{"pending through status filter", "/request?status=" + url.QueryEscape(string(model.StatusPending))},
		{"unknown status", "/request?status=lost"},
		{"bad month", "/request?year=2025&month=13"},
		{"bad year", "/request?year=abc"},
		{"bad urgency", "/request?is_urgent=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.as(f.st.recepcao, requestParams{method: http.MethodGet, path: tt.path})
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}

	rr := f.as(f.st.recepcao, requestParams{method: http.MethodGet, path: fmt.Sprintf("/request/%d", pending.ID)})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var detail struct {
		Request model.Request     `json:"request"`
		View    model.RequestView `json:"view"`
	}
	decodeData(t, rr, &detail)
	assert.Equal(t, pending.ID, detail.Request.ID)
	assert.Equal(t, pending.View(), detail.View)

	rr = f.as(f.st.recepcao, requestParams{method: http.MethodGet, path: "/request/424242"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestApproveAndReject(t *testing.T) {
	f := newFixture(t)
	created := f.createRequests(t, f.st.recepcao, f.gated.ID, f.gated.ID, f.exam.ID)
	first, second, received := created[0], created[1], created[2]

	rr := f.as(f.st.recepcao, requestParams{method: http.MethodPost, path: fmt.Sprintf("/request/%d/approve", first.ID)})
	assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())

	rr = f.as(f.st.regulacao, requestParams{method: http.MethodPost, path: fmt.Sprintf("/request/%d/approve", first.ID)})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var approved model.Request
	decodeData(t, rr, &approved)
	assert.Equal(t, model.StatusReceived, approved.Status)

	rr = f.as(f.st.regulacao, requestParams{method: http.MethodPost, path: fmt.Sprintf("/request/%d/approve", received.ID)})
	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

	rr = f.as(f.st.admin, requestParams{
		method: http.MethodPost,
		path:   fmt.Sprintf("/request/%d/reject", second.ID),
		body:   jsonBody(t, map[string]string{"reason": "Sem pedido medico"}),
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = f.as(f.st.admin, requestParams{method: http.MethodGet, path: fmt.Sprintf("/request/%d", second.ID)})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var logs []model.ActivityLog
	require.NoError(t, f.db.Where("request_id = ? AND action = ?", second.ID, model.ActionReject).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Description, "Sem pedido medico")
}

func TestBulkApprove(t *testing.T) {
	f := newFixture(t)
	created := f.createRequests(t, f.st.recepcao, f.gated.ID, f.gated.ID, f.exam.ID)

	rr := f.as(f.st.regulacao, requestParams{
		method: http.MethodPost,
		path:   "/request/approve-bulk",
		body:   jsonBody(t, map[string][]uint{"ids": {created[0].ID, created[1].ID, created[2].ID, 9999}}),
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res referral.BatchResult
	decodeData(t, rr, &res)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 2, res.Failed)
	assert.ElementsMatch(t, []uint{created[2].ID, 9999}, res.FailedIDs)

	rr = f.as(f.st.regulacao, requestParams{
		method: http.MethodPost,
		path:   "/request/approve-bulk",
		body:   jsonBody(t, map[string][]uint{"ids": {}}),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}

func TestStatusUpdates(t *testing.T) {
	f := newFixture(t)
	req := f.createRequests(t, f.st.recepcao, f.exam.ID)[0]
	path := fmt.Sprintf("/request/%d/status", req.ID)

	tests := []struct {
		name   string
		token  string
		status string
		code   int
	}{
		{"recepcao is not allowed", f.st.recepcao, "accepted", http.StatusForbidden},
		{"unknown status", f.st.regulacao, "archived", http.StatusBadRequest},
		{"received has its own operation", f.st.regulacao, string(model.StatusReceived), http.StatusBadRequest},
		{"received to accepted", f.st.regulacao, "accepted", http.StatusOK},
		{"accepted to confirmed is not allowed", f.st.regulacao, "confirmed", http.StatusBadRequest},
		{"accepted to completed", f.st.admin, "completed", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.as(tt.token, requestParams{
				method: http.MethodPatch,
				path:   path,
				body:   jsonBody(t, map[string]string{"status": tt.status}),
			})
			assert.Equal(t, tt.code, rr.Code, rr.Body.String())
		})
	}

	var stored model.Request
	require.NoError(t, f.db.First(&stored, req.ID).Error)
	assert.Equal(t, model.StatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedDate)
}

func TestSuspendRevertAndFixFailed(t *testing.T) {
	f := newFixture(t)
	created := f.createRequests(t, f.st.recepcao, f.exam.ID, f.exam.ID)
	path := func(id uint, action string) string { return fmt.Sprintf("/request/%d/%s", id, action) }

	rr := f.as(f.st.admin, requestParams{
		method: http.MethodPost,
		path:   path(created[0].ID, "suspend"),
		body:   jsonBody(t, map[string]string{"reason": "Paciente faltou"}),
	})
	assert.Equal(t, http.StatusForbidden, rr.Code, "only regulacao suspends")

	rr = f.as(f.st.regulacao, requestParams{
		method: http.MethodPost,
		path:   path(created[0].ID, "suspend"),
		body:   jsonBody(t, map[string]string{"reason": "  "}),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	for _, r := range created {
		rr = f.as(f.st.regulacao, requestParams{
			method: http.MethodPost,
			path:   path(r.ID, "suspend"),
			body:   jsonBody(t, map[string]string{"reason": "Paciente faltou"}),
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	suspended := f.list(t, f.st.regulacao, "/request/suspended")
	require.EqualValues(t, 2, suspended.Total)
	assert.Equal(t, "Paciente faltou", suspended.Requests[0].Notes)
	assert.EqualValues(t, 0, f.list(t, f.st.regulacao, "/request").Total)

	rr = f.as(f.st.recepcao, requestParams{method: http.MethodPost, path: path(created[0].ID, "revert")})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = f.as(f.st.recepcao, requestParams{method: http.MethodPost, path: path(created[1].ID, "fix-failed")})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var fixed model.Request
	decodeData(t, rr, &fixed)
	assert.Equal(t, model.StatusReceived, fixed.Status)
	assert.Empty(t, fixed.Notes)

	rr = f.as(f.st.recepcao, requestParams{method: http.MethodPost, path: path(created[1].ID, "revert")})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "no longer suspended")

	var actions []string
	require.NoError(t, f.db.Model(&model.ActivityLog{}).
		Where("request_id IN ? AND action IN ?", []uint{created[0].ID, created[1].ID}, []string{model.ActionRevert, model.ActionFixFailed}).
		Order("id").Pluck("action", &actions).Error)
	assert.Equal(t, []string{model.ActionRevert, model.ActionFixFailed}, actions)
}

func TestForwardRequests(t *testing.T) {
	f := newFixture(t)
	created := f.createRequests(t, f.st.recepcao, f.exam.ID, f.exam.ID, f.exam.ID)

	rr := f.as(f.st.regulacao, requestParams{
		method: http.MethodPost,
		path:   fmt.Sprintf("/request/%d/forward", created[0].ID),
		body:   jsonBody(t, referral.ForwardInput{Year: 2025, Month: 4, Reason: "Cota esgotada"}),
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var moved model.Request
	decodeData(t, rr, &moved)
	assert.Equal(t, 4, moved.ReportingMonth)
	assert.Equal(t, created[0].CreatedAt.Unix(), moved.CreatedAt.Unix())

	rr = f.as(f.st.regulacao, requestParams{
		method: http.MethodPost,
		path:   fmt.Sprintf("/request/%d/forward", created[1].ID),
		body:   jsonBody(t, referral.ForwardInput{Year: 2025, Month: 0}),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.as(f.st.recepcao, requestParams{
		method: http.MethodPost,
		path:   "/request/forward-batch",
		body:   jsonBody(t, map[string]interface{}{"ids": []uint{created[1].ID}, "year": 2025, "month": 4}),
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = f.as(f.st.admin, requestParams{
		method: http.MethodPost,
		path:   "/request/forward-batch",
		body:   jsonBody(t, map[string]interface{}{"ids": []uint{created[1].ID, created[2].ID, 777}, "year": 2025, "month": 4}),
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res referral.ForwardBatchResult
	decodeData(t, rr, &res)
	assert.Equal(t, 2, res.ForwardedCount)
	assert.Equal(t, 1, res.FailedCount)
	assert.Equal(t, []uint{777}, res.FailedIDs)

	assert.EqualValues(t, 0, f.list(t, f.st.recepcao, "/request?year=2025&month=3").Total)
	assert.EqualValues(t, 3, f.list(t, f.st.recepcao, "/request?year=2025&month=4").Total)
}

func TestCompleteWithResult(t *testing.T) {
	f := newFixture(t)
	req := f.createRequests(t, f.st.recepcao, f.exam.ID)[0]
	path := fmt.Sprintf("/request/%d/complete", req.ID)
	result := []byte("%PDF-1.4 laudo")
	fields := map[string]string{"location": "Hospital Regional", "date": "2025-03-20", "time": "09:30"}

	t.Run("missing result file", func(t *testing.T) {
		body, ct := multipartBody(t, fields, nil)
		rr := f.as(f.st.regulacao, requestParams{method: http.MethodPost, path: path, body: body, contentType: ct})
		assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	})

	t.Run("bad time", func(t *testing.T) {
		bad := map[string]string{"location": "Hospital Regional", "date": "2025-03-20", "time": "9h30"}
		body, ct := multipartBody(t, bad, &upload{field: "result_file", name: "laudo.pdf", contentType: "application/pdf", content: result})
		rr := f.as(f.st.regulacao, requestParams{method: http.MethodPost, path: path, body: body, contentType: ct})
		assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	})

	t.Run("recepcao cannot complete", func(t *testing.T) {
		body, ct := multipartBody(t, fields, &upload{field: "result_file", name: "laudo.pdf", contentType: "application/pdf", content: result})
		rr := f.as(f.st.recepcao, requestParams{method: http.MethodPost, path: path, body: body, contentType: ct})
		assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())
	})

	body, ct := multipartBody(t, fields, &upload{field: "result_file", name: "laudo.pdf", contentType: "application/pdf", content: result})
	rr := f.as(f.st.regulacao, requestParams{method: http.MethodPost, path: path, body: body, contentType: ct})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res referral.CompleteResult
	decodeData(t, rr, &res)
	assert.Equal(t, model.StatusCompleted, res.Request.Status)
	assert.Equal(t, "Hospital Regional", res.Request.ExamLocation)
	assert.Equal(t, "laudo.pdf", res.Request.ResultFileName)
	assert.Contains(t, res.Message, "Hospital Regional")
	assert.Equal(t, "11999998888", res.Notification.Recipient)

	rr = f.as(f.st.recepcao, requestParams{method: http.MethodGet, path: fmt.Sprintf("/request/%d/result", req.ID)})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, result, rr.Body.Bytes())

	rr = f.as(f.st.admin, requestParams{method: http.MethodGet, path: "/notification?status=" + model.NotificationSent})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var notes struct {
		Total         int64                `json:"total"`
		Notifications []model.Notification `json:"notifications"`
	}
	decodeData(t, rr, &notes)
	require.EqualValues(t, 1, notes.Total)
	assert.Equal(t, req.ID, notes.Notifications[0].RequestID)

	rr = f.as(f.st.admin, requestParams{method: http.MethodGet, path: "/notification?status=bogus"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Completed requests cannot be completed again.
	body, ct = multipartBody(t, fields, &upload{field: "result_file", name: "laudo.pdf", contentType: "application/pdf", content: result})
	rr = f.as(f.st.regulacao, requestParams{method: http.MethodPost, path: path, body: body, contentType: ct})
	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}

func TestAttachmentsAndDelete(t *testing.T) {
	f := newFixture(t)
	created := f.createRequests(t, f.st.recepcao, f.exam.ID, f.exam.ID)
	attachment := []byte("pedido medico")

	rr := f.as(f.st.recepcao, requestParams{method: http.MethodGet, path: fmt.Sprintf("/request/%d/attachment", created[0].ID)})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	body, ct := multipartBody(t, nil, &upload{field: "file", name: "pedido.pdf", contentType: "application/pdf", content: attachment})
	rr = f.as(f.st.recepcao, requestParams{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/request/%d/attachment", created[0].ID),
		body:        body,
		contentType: ct,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var withFile model.Request
	decodeData(t, rr, &withFile)
	assert.Equal(t, "pedido.pdf", withFile.AttachmentName)
	assert.EqualValues(t, len(attachment), withFile.AttachmentSize)

	rr = f.as(f.st.recepcao, requestParams{method: http.MethodGet, path: fmt.Sprintf("/request/%d/attachment", created[0].ID)})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, attachment, rr.Body.Bytes())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "pedido.pdf")

	rr = f.as(f.st.recepcao, requestParams{method: http.MethodDelete, path: fmt.Sprintf("/request/%d", created[0].ID)})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = f.as(f.st.recepcao, requestParams{method: http.MethodDelete, path: fmt.Sprintf("/request/%d", created[0].ID)})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Completed requests need admin or regulacao to delete.
	_, err := f.svc.UpdateStatus(t.Context(), actorFor(t, f.testServer, "admin"), created[1].ID, string(model.StatusCompleted))
	require.NoError(t, err)
	rr = f.as(f.st.recepcao, requestParams{method: http.MethodDelete, path: fmt.Sprintf("/request/%d", created[1].ID)})
	assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())
	rr = f.as(f.st.regulacao, requestParams{method: http.MethodDelete, path: fmt.Sprintf("/request/%d", created[1].ID)})
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}
