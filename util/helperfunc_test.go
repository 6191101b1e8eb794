package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Maria da Silva", NormalizeName("  Maria   da  Silva "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		call   func(*gin.Context, APIErrorParams)
		status int
	}{
		{"not found", CallErrorNotFound, http.StatusNotFound},
		{"user error", CallUserError, http.StatusBadRequest},
		{"conflict", CallConflict, http.StatusConflict},
		{"server error", CallServerError, http.StatusInternalServerError},
		{"forbidden", CallForbidden, http.StatusForbidden},
		{"unauthorized", CallUserNotAuthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.call(c, APIErrorParams{Msg: "failed", Err: errors.New("boom")})

			assert.Equal(t, tt.status, w.Code)
			var resp APIResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, "boom", resp.Error)
			assert.Equal(t, "failed", resp.Msg)
		})
	}
}

func TestErrorResponse_NilError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	CallUserError(c, APIErrorParams{Msg: "bad input"})

	var resp APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "", resp.Error)
}

func TestCallSuccessOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	CallSuccessOK(c, APISuccessParams{Msg: "ok", Data: map[string]int{"n": 1}})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["success"].(bool))
	assert.Equal(t, float64(1), resp["data"].(map[string]interface{})["n"])
}
