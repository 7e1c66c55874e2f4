package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/heyamigo/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:   "64f000000000000000000001",
		Username: "carol",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func invoke(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := echo.New().NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := JWTAuthMiddleware(testSecret)(next)(c)
	return c, err
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestMissingAuthorizationHeader(t *testing.T) {
	_, err := invoke(t, "")
	assertUnauthorized(t, err)
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	for _, header := range []string{
		"token-without-scheme",
		"Basic dXNlcjpwYXNz",
		"Bearer",
	} {
		_, err := invoke(t, header)
		assertUnauthorized(t, err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token := signToken(t, "other-secret", time.Now().Add(time.Hour))
	_, err := invoke(t, "Bearer "+token)
	assertUnauthorized(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(-time.Hour))
	_, err := invoke(t, "Bearer "+token)
	assertUnauthorized(t, err)
}

func TestValidTokenStoresClaims(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	c, err := invoke(t, "Bearer "+token)
	require.NoError(t, err)

	claims, ok := c.Get(ContextUserKey).(*models.JwtCustomClaims)
	require.True(t, ok)
	assert.Equal(t, "64f000000000000000000001", claims.UserID)
	assert.Equal(t, "carol", claims.Username)
}
