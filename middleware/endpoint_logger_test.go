package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEndpointCallLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	original := util.Logger()
	util.SetLogger(zap.New(core))
	t.Cleanup(func() { util.SetLogger(original) })

	db := newInMemoryDB(t)
	util.SetSecurityLoggerDB(db)
	t.Cleanup(func() { util.SetSecurityLoggerDB(nil) })

	r := gin.New()
	r.Use(DatabaseMiddleware(db), EndpointCallLogger())
	r.GET("/request/:id", func(c *gin.Context) {
		c.Set(UserIDKey, uint(5))
		c.Set(RoleIDKey, model.RoleAdmin)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/request/9?foo=bar", nil)
	req.RemoteAddr = "192.168.1.100:1234"
	req.Header.Set("User-Agent", "TestAgent/1.0")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	entries := logs.FilterMessage("security event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, string(util.EventEndpointCall), fields["event"])
	assert.Equal(t, "GET /request/9 -> 200", fields["message"])
	assert.Equal(t, "5", fields["user_id"])

	var stored model.SecurityLog
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, string(util.EventEndpointCall), stored.EventType)
	assert.Contains(t, string(stored.Details), `"route":"/request/:id"`)
	assert.Contains(t, string(stored.Details), `"query":"foo=bar"`)
	assert.Contains(t, string(stored.Details), `"resource_id":"9"`)
	assert.Contains(t, string(stored.Details), `"role":"admin"`)
}

func TestEndpointCallLoggerSkipsSwagger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	original := util.Logger()
	util.SetLogger(zap.New(core))
	t.Cleanup(func() { util.SetLogger(original) })

	r := gin.New()
	r.Use(EndpointCallLogger())
	r.GET("/swagger/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, logs.Len())
}
