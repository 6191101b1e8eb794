package endpoint_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ariebrainware/sisreg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserManagement(t *testing.T) {
	s := setupServer(t)
	st := s.seedStaff(t)

	// Only admins manage users.
	rr := s.as(st.recepcao, requestParams{method: http.MethodGet, path: "/user"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.as(st.admin, requestParams{
		method: http.MethodPost,
		path:   "/user",
		body: jsonBody(t, map[string]interface{}{
			"name": "  lucia   ferreira ", "username": "Lucia", "password": testPassword,
			"role": "recepcao", "health_unit_id": st.unit.ID,
		}),
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created model.User
	decodeData(t, rr, &created)
	assert.Equal(t, "lucia", created.Username)
	assert.Equal(t, model.RoleRecepcao, created.RoleID)

	t.Run("duplicate username", func(t *testing.T) {
		rr := s.as(st.admin, requestParams{
			method: http.MethodPost,
			path:   "/user",
			body: jsonBody(t, map[string]interface{}{
				"name": "Other", "username": "LUCIA", "password": "password123", "role": "regulacao",
			}),
		})
		assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())
	})

	t.Run("unknown role", func(t *testing.T) {
		rr := s.as(st.admin, requestParams{
			method: http.MethodPost,
			path:   "/user",
			body: jsonBody(t, map[string]interface{}{
				"name": "Other", "username": "other", "password": "password123", "role": "medico",
			}),
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	})

	t.Run("unknown health unit", func(t *testing.T) {
		rr := s.as(st.admin, requestParams{
			method: http.MethodPost,
			path:   "/user",
			body: jsonBody(t, map[string]interface{}{
				"name": "Other", "username": "other2", "password": "password123", "role": "recepcao", "health_unit_id": 999,
			}),
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	})

	rr = s.as(st.admin, requestParams{method: http.MethodGet, path: "/user?limit=2"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var page struct {
		Users      []model.User `json:"users"`
		Total      int64        `json:"total"`
		HasMore    bool         `json:"has_more"`
		NextCursor *uint        `json:"next_cursor"`
	}
	decodeData(t, rr, &page)
	assert.Len(t, page.Users, 2)
	assert.EqualValues(t, 4, page.Total)
	assert.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)

	rr = s.as(st.admin, requestParams{method: http.MethodGet, path: fmt.Sprintf("/user?limit=2&cursor=%d", *page.NextCursor)})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &page)
	assert.Len(t, page.Users, 2)
	assert.False(t, page.HasMore)

	// A role change closes the user's sessions.
	luciaToken := s.login(t, "lucia")
	rr = s.as(st.admin, requestParams{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/user/%d", created.ID),
		body:   jsonBody(t, map[string]string{"role": "regulacao"}),
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = s.as(luciaToken, requestParams{method: http.MethodGet, path: "/token/validate"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.as(st.admin, requestParams{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/user/%d", created.ID),
		body:   jsonBody(t, map[string]string{}),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.as(st.admin, requestParams{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/user/%d", created.ID),
		body:   jsonBody(t, map[string]string{"password": "short"}),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.as(st.admin, requestParams{method: http.MethodDelete, path: fmt.Sprintf("/user/%d", created.ID)})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = s.as(st.admin, requestParams{method: http.MethodDelete, path: fmt.Sprintf("/user/%d", created.ID)})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthUnitEndpoints(t *testing.T) {
	s := setupServer(t)
	st := s.seedStaff(t)

	rr := s.as(st.recepcao, requestParams{
		method: http.MethodPost,
		path:   "/health-unit",
		body:   jsonBody(t, map[string]string{"name": "UBS Sul"}),
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.as(st.admin, requestParams{
		method: http.MethodPost,
		path:   "/health-unit",
		body:   jsonBody(t, map[string]string{"name": "   "}),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.as(st.admin, requestParams{
		method: http.MethodPost,
		path:   "/health-unit",
		body:   jsonBody(t, map[string]string{"name": "  UBS   Sul ", "address": "Rua B, 20"}),
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var unit model.HealthUnit
	decodeData(t, rr, &unit)
	assert.Equal(t, "UBS Sul", unit.Name)

	rr = s.as(st.recepcao, requestParams{method: http.MethodGet, path: "/health-unit?keyword=Sul"})
	require.Equal(t, http.StatusOK, rr.Code)
	var units []model.HealthUnit
	decodeData(t, rr, &units)
	require.Len(t, units, 1)
	assert.Equal(t, unit.ID, units[0].ID)

	rr = s.as(st.admin, requestParams{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/health-unit/%d", unit.ID),
		body:   jsonBody(t, map[string]string{"phone_number": "(11) 3000-0000"}),
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeData(t, rr, &unit)
	assert.Equal(t, "(11) 3000-0000", unit.PhoneNumber)
	assert.Equal(t, "UBS Sul", unit.Name)

	// A unit referenced by requests cannot be removed.
	exam := s.createExamType(t, "Raio X", 10, 1000, false)
	patient := s.createPatient(t, "Jose Lima", "", "11988887777")
	_, err := s.svc.Create(t.Context(), actorFor(t, s, "admin"), referralInput(patient.ID, st.unit.ID, exam.ID))
	require.NoError(t, err)
	rr = s.as(st.admin, requestParams{method: http.MethodDelete, path: fmt.Sprintf("/health-unit/%d", st.unit.ID)})
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	rr = s.as(st.admin, requestParams{method: http.MethodDelete, path: fmt.Sprintf("/health-unit/%d", unit.ID)})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = s.as(st.admin, requestParams{method: http.MethodDelete, path: fmt.Sprintf("/health-unit/%d", unit.ID)})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	s := setupServer(t)
	st := s.seedStaff(t)

	for _, path := range []string{"/exam-type", "/consultation-type"} {
		t.Run(path, func(t *testing.T) {
			rr := s.as(st.regulacao, requestParams{
				method: http.MethodPost,
				path:   path,
				body:   jsonBody(t, map[string]interface{}{"name": "Nope"}),
			})
			assert.Equal(t, http.StatusForbidden, rr.Code)

			rr = s.as(st.admin, requestParams{
				method: http.MethodPost,
				path:   path,
				body:   jsonBody(t, map[string]interface{}{"name": "Tipo A", "monthly_quota": -1}),
			})
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			rr = s.as(st.admin, requestParams{
				method: http.MethodPost,
				path:   path,
				body: jsonBody(t, map[string]interface{}{
					"name": "Tipo A", "monthly_quota": 30, "price": 2500, "needs_secretary_approval": true,
				}),
			})
			require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
			var active model.ExamType
			decodeData(t, rr, &active)
			assert.True(t, active.IsActive)
			assert.True(t, active.NeedsSecretaryApproval)
			assert.Equal(t, 30, active.MonthlyQuota)

			rr = s.as(st.admin, requestParams{
				method: http.MethodPost,
				path:   path,
				body:   jsonBody(t, map[string]interface{}{"name": "Tipo B", "is_active": false}),
			})
			require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
			var inactive model.ExamType
			decodeData(t, rr, &inactive)
			assert.False(t, inactive.IsActive)

			rr = s.as(st.recepcao, requestParams{method: http.MethodGet, path: path + "?active=true"})
			require.Equal(t, http.StatusOK, rr.Code)
			var listed []model.ExamType
			decodeData(t, rr, &listed)
			require.Len(t, listed, 1)
			assert.Equal(t, active.ID, listed[0].ID)

			rr = s.as(st.admin, requestParams{
				method: http.MethodPatch,
				path:   fmt.Sprintf("%s/%d", path, active.ID),
				body:   jsonBody(t, map[string]interface{}{"price": 3000}),
			})
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			var updated model.ExamType
			decodeData(t, rr, &updated)
			assert.EqualValues(t, 3000, updated.Price)
			assert.Equal(t, 30, updated.MonthlyQuota)

			rr = s.as(st.admin, requestParams{method: http.MethodDelete, path: fmt.Sprintf("%s/%d", path, active.ID)})
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			rr = s.as(st.recepcao, requestParams{method: http.MethodGet, path: path + "?active=false"})
			require.Equal(t, http.StatusOK, rr.Code)
			decodeData(t, rr, &listed)
			assert.Len(t, listed, 2)

			rr = s.as(st.recepcao, requestParams{method: http.MethodGet, path: path + "?active=maybe"})
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}
