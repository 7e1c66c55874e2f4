package handlers

import (
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/heyamigo/backend/internal/models"
	"github.com/heyamigo/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client // nil when social login is not configured
	jwtSecret      string
	uploadDir      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *auth.Client, jwtSecret, uploadDir string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		jwtSecret:      jwtSecret,
		uploadDir:      uploadDir,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup handles registration. The request is multipart form data with an
// optional profileImage file; only the bcrypt digest of the password is
// stored.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Password != req.ConfirmPassword {
		return echo.NewHTTPError(http.StatusBadRequest, "Passwords do not match")
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByEmailOrUsername(ctx, strings.ToLower(req.Email), req.Username); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Email or username already exists")
	} else if err != repositories.ErrNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	profileImage := ""
	if file, err := c.FormFile("profileImage"); err == nil {
		profileImage, err = saveUploadedFile(file, h.uploadDir)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store profile image")
		}
	}

	user := &models.User{
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		Number:       req.Number,
		Password:     string(hashedPassword),
		ProfileImage: profileImage,
		Age:          req.Age,
		Gender:       req.Gender,
	}

	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		if err == repositories.ErrDuplicate {
			return echo.NewHTTPError(http.StatusConflict, "Email or username already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
	})
}

// Login handles username/password authentication and issues a 7-day JWT
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid password")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user": echo.Map{
			"id":           user.ID,
			"username":     user.Username,
			"fullName":     user.FullName,
			"email":        user.Email,
			"number":       user.Number,
			"profileImage": user.ProfileImage,
		},
	})
}

// FirebaseLogin verifies a Firebase ID token, creates the account on first
// login and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Social login is not configured")
	}

	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	if err == repositories.ErrNotFound {
		// First social login: provision a minimal account. The generated
		// username keeps the unique index happy until the user picks one.
		username := strings.SplitN(email, "@", 2)[0]
		if len(token.UID) >= 6 {
			username += "-" + token.UID[:6]
		}
		user = &models.User{
			FullName:    name,
			Username:    username,
			Email:       strings.ToLower(email),
			Gender:      "other",
			FirebaseUID: token.UID,
		}
		if err := h.userRepository.CreateUser(ctx, user); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
		}
	} else if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	localJWT, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"token":   localJWT,
		"user": echo.Map{
			"id":           user.ID,
			"username":     user.Username,
			"fullName":     user.FullName,
			"email":        user.Email,
			"profileImage": user.ProfileImage,
		},
	})
}

// generateJWT signs a token for the given user, valid for 7 days
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
