package handlers

import (
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/heyamigo/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func newAuthFixture(t *testing.T) (*fakeUserRepo, *AuthHandler) {
	t.Helper()
	userRepo := newFakeUserRepo()
	h := NewAuthHandler(userRepo, nil, testJWTSecret, t.TempDir())
	return userRepo, h
}

func addCredentialedUser(t *testing.T, repo *fakeUserRepo, username, password string) *models.User {
	t.Helper()
	u := repo.addUser("Test User", username, "female")
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u.Password = string(digest)
	return u
}

func signupBody(username, email string) map[string]any {
	return map[string]any{
		"fullName":        "New User",
		"username":        username,
		"email":           email,
		"number":          "5551234567",
		"password":        "hunter22",
		"confirmPassword": "hunter22",
		"age":             25,
		"gender":          "female",
	}
}

func TestSignup(t *testing.T) {
	repo, h := newAuthFixture(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/signup", signupBody("newbie", "Newbie@Example.com"))
	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created *models.User
	for _, u := range repo.users {
		created = u
	}
	require.NotNil(t, created)
	assert.Equal(t, "newbie@example.com", created.Email, "email is lowercased")
	assert.NotEqual(t, "hunter22", created.Password, "only the digest is stored")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter22")))
}

func TestSignupPasswordMismatch(t *testing.T) {
	_, h := newAuthFixture(t)

	body := signupBody("newbie", "newbie@example.com")
	body["confirmPassword"] = "different"

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/signup", body)
	err := h.Signup(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))
}

func TestSignupDuplicate(t *testing.T) {
	repo, h := newAuthFixture(t)
	repo.addUser("Existing", "taken", "male")

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/signup", signupBody("taken", "fresh@example.com"))
	err := h.Signup(c)
	assert.Equal(t, http.StatusConflict, httpStatus(err, rec))
}

func TestSignupInvalidGender(t *testing.T) {
	_, h := newAuthFixture(t)

	body := signupBody("newbie", "newbie@example.com")
	body["gender"] = "robot"

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/signup", body)
	err := h.Signup(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))
}

func TestLogin(t *testing.T) {
	repo, h := newAuthFixture(t)
	u := addCredentialedUser(t, repo, "carol", "s3cretpw")

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "carol",
		"password": "s3cretpw",
	})
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "carol", body["user"].(map[string]any)["username"])

	// The issued token must round-trip with the signing secret and carry the
	// user's id.
	tokenString := body["token"].(string)
	claims := &models.JwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, u.ID.Hex(), claims.UserID)
	assert.Equal(t, "carol", claims.Username)
}

func TestLoginUnknownUser(t *testing.T) {
	_, h := newAuthFixture(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "nobody",
		"password": "whatever",
	})
	err := h.Login(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(err, rec))
}

func TestLoginWrongPassword(t *testing.T) {
	repo, h := newAuthFixture(t)
	addCredentialedUser(t, repo, "carol", "s3cretpw")

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "carol",
		"password": "wrong",
	})
	err := h.Login(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(err, rec))
}

func TestFirebaseLoginUnconfigured(t *testing.T) {
	_, h := newAuthFixture(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/firebase-login", map[string]any{
		"idToken": "some-token",
	})
	err := h.FirebaseLogin(c)
	assert.Equal(t, http.StatusServiceUnavailable, httpStatus(err, rec))
}
