package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{JWTSecret: testSecret}
}

func signToken(t *testing.T, secret string, userID int64, role model.Role) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthJWT_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 1, model.RoleBuyer))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID int64
	var gotRole string
	h := middleware.AuthJWT(testConfig())(func(c echo.Context) error {
		gotID, _ = c.Get(middleware.CtxUserIDKey).(int64)
		gotRole, _ = c.Get(middleware.CtxUserRoleKey).(string)
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gotID)
	assert.Equal(t, "BUYER", gotRole)
}

func TestAuthJWT_MissingToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.AuthJWT(testConfig())(okHandler)

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", 1, model.RoleBuyer))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.AuthJWT(testConfig())(okHandler)

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	claims := jwt.MapClaims{
		"sub":  int64(1),
		"role": "BUYER",
		"iat":  past.Unix(),
		"exp":  past.Add(time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.AuthJWT(testConfig())(okHandler)

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthJWT_NoTokenPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	//匿名でもそのまま通る。user_idは入らない。
	h := middleware.OptionalAuthJWT(testConfig())(func(c echo.Context) error {
		_, ok := c.Get(middleware.CtxUserIDKey).(int64)
		assert.False(t, ok)
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthJWT_InvalidTokenIsIgnored(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer broken.token.value")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.OptionalAuthJWT(testConfig())(okHandler)

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMasterRoleGuard(t *testing.T) {
	e := echo.New()

	//MASTERは通る
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserRoleKey, "MASTER")

	h := middleware.MasterRoleGuard()(okHandler)
	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	//BUYERは403
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec2)
	c2.Set(middleware.CtxUserRoleKey, "BUYER")

	assert.NoError(t, h(c2))
	assert.Equal(t, http.StatusForbidden, rec2.Code)

	//role未設定も403
	rec3 := httptest.NewRecorder()
	c3 := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec3)

	assert.NoError(t, h(c3))
	assert.Equal(t, http.StatusForbidden, rec3.Code)
}
