package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/heyamigo/backend/internal/middleware"
	"github.com/heyamigo/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// newTestContext builds an echo context around an optional JSON body
func newTestContext(t *testing.T, method, path string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// authenticate stores JWT claims for the given user on the context, standing
// in for the auth middleware
func authenticate(c echo.Context, u *models.User) {
	c.Set(middleware.ContextUserKey, &models.JwtCustomClaims{
		UserID:           u.ID.Hex(),
		Username:         u.Username,
		RegisteredClaims: jwt.RegisteredClaims{},
	})
}

// decodeBody parses the recorded JSON response
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// httpStatus extracts the status code from a handler error or the recorder
func httpStatus(err error, rec *httptest.ResponseRecorder) int {
	if err == nil {
		return rec.Code
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
