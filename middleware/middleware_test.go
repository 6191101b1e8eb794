package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariebrainware/sisreg/config"
	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/referral"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newInMemoryDB creates an in-memory sqlite DB and runs required migrations for tests.
func newInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_middleware_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Session{}, &model.SecurityLog{}))
	return db
}

type testSessionParams struct {
	roleID    uint32
	token     string
	expiresAt time.Time
}

// newTestDBWithUserSession creates an in-memory DB and seeds a user+session.
func newTestDBWithUserSession(t *testing.T, params testSessionParams) (*gorm.DB, model.User) {
	t.Helper()
	db := newInMemoryDB(t)
	user := model.User{
		Name:     "Test User",
		Username: "test.user",
		Password: "hashedpassword",
		RoleID:   params.roleID,
	}
	require.NoError(t, db.Create(&user).Error)
	if params.expiresAt.IsZero() {
		params.expiresAt = time.Now().Add(time.Hour)
	}
	session := model.Session{
		SessionToken: params.token,
		UserID:       user.ID,
		ExpiresAt:    params.expiresAt,
		ClientIP:     "127.0.0.1",
		Browser:      "test-browser",
	}
	require.NoError(t, db.Create(&session).Error)
	return db, user
}

func runValidateLoginTokenRequest(db *gorm.DB, token string, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	if db != nil {
		r.Use(DatabaseMiddleware(db))
	}
	r.GET("/test", ValidateLoginToken(), handler)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set(SessionTokenHeader, token)
	}
	r.ServeHTTP(w, req)
	return w
}

func setupRedisMock(t *testing.T) redismock.ClientMock {
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTest(rdb)
	t.Cleanup(func() { _ = config.CloseRedis() })
	return mock
}

func noRedis(t *testing.T) {
	_ = config.CloseRedis()
	t.Cleanup(func() { _ = config.CloseRedis() })
}

func assertIdentity(t *testing.T, c *gin.Context, userID uint, roleID uint32) {
	t.Helper()
	uid, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, userID, uid)
	rid, ok := GetRoleID(c)
	assert.True(t, ok)
	assert.Equal(t, roleID, rid)
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func TestSetCorsHeadersDefaults(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	setCorsHeaders(c)

	assert.Equal(t, "*", c.Writer.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, c.Writer.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, c.Writer.Header().Get("Access-Control-Allow-Headers"), "session-token")
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTokenValidator(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodOptions, "/", nil)
	assert.True(t, tokenValidator(c, "anything"), "preflight bypasses the token")

	expected := "Bearer secret-token"
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", expected)
	assert.True(t, tokenValidator(c, expected))

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c2.Request.Header.Set("Authorization", "Bearer bad")
	assert.False(t, tokenValidator(c2, expected))
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestDatabaseAndServiceMiddleware(t *testing.T) {
	db := &gorm.DB{}
	svc := referral.New(db)

	r := gin.New()
	r.Use(DatabaseMiddleware(db), ServiceMiddleware(svc))
	r.GET("/testdb", func(c *gin.Context) {
		if GetDB(c) != db || GetService(c) != svc {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/testdb", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetDB(c))
	assert.Nil(t, GetService(c))
}

func TestValidateLoginToken_MissingSessionToken(t *testing.T) {
	w := runValidateLoginTokenRequest(&gorm.DB{}, "", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateLoginToken_MissingDatabase(t *testing.T) {
	w := runValidateLoginTokenRequest(nil, "test-token", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestValidateLoginToken_RedisHit(t *testing.T) {
	mock := setupRedisMock(t)
	mock.ExpectGet("session:valid-token").SetVal("123:2")

	w := runValidateLoginTokenRequest(&gorm.DB{}, "valid-token", func(c *gin.Context) {
		assertIdentity(t, c, 123, model.RoleRegulacao)
		assert.Equal(t, referral.Actor{UserID: 123, Role: model.RoleNameRegulacao}, GetActor(c))
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateLoginToken_RedisFallsBackToDB(t *testing.T) {
	tests := []struct {
		name   string
		cached string
		miss   bool
		roleID uint32
	}{
		{name: "non numeric user", cached: "abc:1", roleID: model.RoleAdmin},
		{name: "missing separator", cached: "123", roleID: model.RoleRegulacao},
		{name: "zero user", cached: "0:1", roleID: model.RoleAdmin},
		{name: "bad role", cached: "456:xyz", roleID: model.RoleRecepcao},
		{name: "key not found", miss: true, roleID: model.RoleRecepcao},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := fmt.Sprintf("fallback-token-%d", i)
			mock := setupRedisMock(t)
			if tt.miss {
				mock.ExpectGet("session:" + token).RedisNil()
			} else {
				mock.ExpectGet("session:" + token).SetVal(tt.cached)
			}
			db, user := newTestDBWithUserSession(t, testSessionParams{roleID: tt.roleID, token: token})

			w := runValidateLoginTokenRequest(db, token, func(c *gin.Context) {
				assertIdentity(t, c, user.ID, user.RoleID)
				c.Status(http.StatusOK)
			})

			assert.Equal(t, http.StatusOK, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestValidateLoginToken_NoRedis(t *testing.T) {
	noRedis(t)
	db, user := newTestDBWithUserSession(t, testSessionParams{roleID: model.RoleAdmin, token: "db-only-token"})

	w := runValidateLoginTokenRequest(db, "db-only-token", func(c *gin.Context) {
		assertIdentity(t, c, user.ID, model.RoleAdmin)
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = runValidateLoginTokenRequest(db, "unknown-token", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateLoginToken_ExpiredSession(t *testing.T) {
	noRedis(t)
	db, _ := newTestDBWithUserSession(t, testSessionParams{roleID: model.RoleAdmin, token: "expired-token", expiresAt: time.Now().Add(-time.Hour)})

	w := runValidateLoginTokenRequest(db, "expired-token", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateLoginToken_DeletedUser(t *testing.T) {
	noRedis(t)
	db, user := newTestDBWithUserSession(t, testSessionParams{roleID: model.RoleAdmin, token: "orphan-token"})
	require.NoError(t, db.Delete(&user).Error)

	w := runValidateLoginTokenRequest(db, "orphan-token", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		roleID *uint32
		want   int
	}{
		{"allowed role", ptrRole(model.RoleAdmin), http.StatusOK},
		{"other allowed role", ptrRole(model.RoleRegulacao), http.StatusOK},
		{"forbidden role", ptrRole(model.RoleRecepcao), http.StatusForbidden},
		{"no role in context", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) {
				c.Set(UserIDKey, uint(7))
				if tt.roleID != nil {
					c.Set(RoleIDKey, *tt.roleID)
				}
				c.Next()
			}, RequireRole(model.RoleAdmin, model.RoleRegulacao), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func ptrRole(r uint32) *uint32 { return &r }

func TestParseCachedSession(t *testing.T) {
	uid, rid, ok := parseCachedSession("42:3")
	assert.True(t, ok)
	assert.Equal(t, uint(42), uid)
	assert.Equal(t, uint32(3), rid)

	for _, bad := range []string{"", "42", "x:1", "0:1", "1:-1", "1:99999999999"} {
		_, _, ok := parseCachedSession(bad)
		assert.False(t, ok, bad)
	}
}
