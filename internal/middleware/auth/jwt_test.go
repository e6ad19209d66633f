package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func createValidJWT(t *testing.T, userID, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return tokenString
}

func testConfig() JWTConfig {
	return JWTConfig{
		Secret:    testSecret,
		Logger:    zap.NewNop(),
		SkipPaths: []string{"/webhook", "/health"},
	}
}

func runMiddleware(t *testing.T, req *http.Request, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := JWTMiddleware(testConfig())(handler)(c)
	assert.NoError(t, err)
	return rec
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+createValidJWT(t, userID.String(), "test@example.com"))

	rec := runMiddleware(t, req, func(c echo.Context) error {
		user, err := GetUserFromContext(c)
		assert.NoError(t, err)
		assert.Equal(t, userID, user.UserID)
		assert.Equal(t, "test@example.com", user.Email)
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)

	rec := runMiddleware(t, req, func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_AUTH_HEADER")
}

func TestJWTMiddleware_MalformedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Token abc")

	rec := runMiddleware(t, req, func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte("some-other-secret"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	rec := runMiddleware(t, req, func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	rec := runMiddleware(t, req, func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddleware_NonUUIDSubject(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+createValidJWT(t, "service-account", "svc@example.com"))

	rec := runMiddleware(t, req, func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_SUBJECT")
}

func TestJWTMiddleware_SkipPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)

	rec := runMiddleware(t, req, func(c echo.Context) error {
		// No Authorization header required here.
		_, err := GetUserFromContext(c)
		assert.Error(t, err)
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}
