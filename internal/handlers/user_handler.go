package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/heyamigo/backend/internal/models"
	"github.com/heyamigo/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles profile and follow HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers profile routes on the public group and
// mutation routes on the JWT-protected group
func (h *UserHandler) RegisterUserRoutes(public, protected *echo.Group) {
	public.GET("/id/:id", h.GetUserByID)
	public.GET("/:username", h.GetUserProfile)
	protected.PUT("/:id", h.UpdateProfile)
	protected.POST("/follow/:id", h.FollowUser)
}

// GetUserByID returns the public identity fields of an account
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user": echo.Map{
			"id":           user.ID,
			"fullName":     user.FullName,
			"username":     user.Username,
			"email":        user.Email,
			"number":       user.Number,
			"profileImage": user.ProfileImage,
			"createdAt":    user.CreatedAt,
		},
	})
}

// GetUserProfile returns a full profile by username; the password digest is
// excluded from serialization at the model level
func (h *UserHandler) GetUserProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    user,
	})
}

// UpdateProfile applies a partial update of the caller's own mutable profile
// fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if id != viewerID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own profile")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.UpdateProfile(c.Request().Context(), id, &req)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated",
		"user":    user,
	})
}

// FollowUser toggles the mirrored follow edge between the caller and the
// target account
func (h *UserHandler) FollowUser(c echo.Context) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if targetID == viewerID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByID(ctx, targetID); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	viewer, err := h.userRepository.GetUserByID(ctx, viewerID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if viewer.IsFollowing(targetID) {
		if err := h.userRepository.RemoveFollowEdge(ctx, viewerID, targetID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Unfollowed user",
		})
	}

	if err := h.userRepository.AddFollowEdge(ctx, viewerID, targetID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Followed user",
	})
}
