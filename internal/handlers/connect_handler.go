package handlers

import (
	"math/rand"
	"net/http"
	"strconv"

	"github.com/heyamigo/backend/internal/models"
	"github.com/heyamigo/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnectHandler handles the discovery and matching HTTP requests
type ConnectHandler struct {
	userRepository repositories.UserRepository
}

// NewConnectHandler creates a new ConnectHandler
func NewConnectHandler(userRepo repositories.UserRepository) *ConnectHandler {
	return &ConnectHandler{userRepository: userRepo}
}

// RegisterConnectRoutes registers the matching routes; the group must carry
// the JWT middleware
func (h *ConnectHandler) RegisterConnectRoutes(g *echo.Group) {
	g.GET("/random", h.GetRandomUsers)
	g.GET("/search", h.SearchUsers)
	g.POST("/like/:userId", h.LikeUser)
	g.GET("/matches", h.GetMatches)
	g.GET("/liked-by", h.GetLikedBy)
}

// discoverySplit returns the opposite/same gender sample sizes for a
// gendered viewer: 70% opposite, the remainder same, floored
func discoverySplit(limit int) (opposite, same int) {
	opposite = limit * 7 / 10
	return opposite, limit - opposite
}

// oppositeGender maps male to female and back; anything else has no opposite
func oppositeGender(gender string) string {
	switch gender {
	case "male":
		return "female"
	case "female":
		return "male"
	}
	return ""
}

// GetRandomUsers returns up to limit discovery candidates, biased 70/30
// toward the viewer's opposite gender when the viewer is male or female
func (h *ConnectHandler) GetRandomUsers(c echo.Context) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	ctx := c.Request().Context()
	viewer, err := h.userRepository.GetUserByID(ctx, viewerID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var users []models.UserSummary
	if preferred := oppositeGender(viewer.Gender); preferred != "" {
		oppositeCount, sameCount := discoverySplit(limit)

		opposite, err := h.userRepository.SampleUsers(ctx, viewerID, preferred, oppositeCount)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		same, err := h.userRepository.SampleUsers(ctx, viewerID, viewer.Gender, sameCount)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		users = append(opposite, same...)
		rand.Shuffle(len(users), func(i, j int) {
			users[i], users[j] = users[j], users[i]
		})
	} else {
		// Viewer's gender is "other": random mix from the whole pool.
		users, err = h.userRepository.SampleUsers(ctx, viewerID, "", limit)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}

// SearchUsers matches accounts by full name, username or interests,
// case-insensitively, excluding the viewer
func (h *ConnectHandler) SearchUsers(c echo.Context) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	users, err := h.userRepository.SearchUsers(c.Request().Context(), viewerID, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}

// LikeUser toggles the mirrored like edge between the viewer and the target.
// On a fresh like the response carries isMatch, computed from the target's
// likes as they were before this call.
func (h *ConnectHandler) LikeUser(c echo.Context) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if targetID == viewerID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot like yourself")
	}

	ctx := c.Request().Context()
	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
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

	if viewer.HasLiked(targetID) {
		if err := h.userRepository.RemoveLikeEdge(ctx, viewerID, targetID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "User unliked",
			"action":  "unliked",
		})
	}

	// Mutual match iff the target had already liked the viewer back.
	isMatch := target.HasLiked(viewerID)

	if err := h.userRepository.AddLikeEdge(ctx, viewerID, targetID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User liked",
		"action":  "liked",
		"isMatch": isMatch,
	})
}

// GetMatches returns the viewer's mutual likes: accounts present in both
// likes and likedBy, expanded to profile summaries
func (h *ConnectHandler) GetMatches(c echo.Context) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	viewer, err := h.userRepository.GetUserByID(ctx, viewerID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	matchIDs := []primitive.ObjectID{}
	for _, likedID := range viewer.Likes {
		if models.ContainsID(viewer.LikedBy, likedID) {
			matchIDs = append(matchIDs, likedID)
		}
	}

	matches, err := h.userRepository.GetSummariesByIDs(ctx, matchIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(matches),
		"matches": matches,
	})
}

// GetLikedBy returns the accounts that liked the viewer, expanded to
// profile summaries
func (h *ConnectHandler) GetLikedBy(c echo.Context) error {
	viewerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	viewer, err := h.userRepository.GetUserByID(ctx, viewerID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	users, err := h.userRepository.GetSummariesByIDs(ctx, viewer.LikedBy)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}
