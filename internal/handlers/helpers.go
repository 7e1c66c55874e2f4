package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/heyamigo/backend/internal/middleware"
	"github.com/heyamigo/backend/internal/models"
	"github.com/heyamigo/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID resolves the acting account from the JWT claims stored by the
// auth middleware
func currentUserID(c echo.Context) (primitive.ObjectID, error) {
	claims, ok := c.Get(middleware.ContextUserKey).(*models.JwtCustomClaims)
	if !ok {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Invalid identity token")
	}
	return id, nil
}

// pagination reads page/limit query params with defaults and returns the
// offset to skip
func pagination(c echo.Context, defaultLimit int) (page int, limit int, skip int64) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = defaultLimit
	}
	return page, limit, int64((page - 1) * limit)
}

// totalPages computes ceil(total/limit)
func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// summariesByID loads user summaries for the given IDs and keys them by ID,
// for populating authors on feed and comment payloads
func summariesByID(ctx context.Context, repo repositories.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	seen := map[primitive.ObjectID]bool{}
	unique := []primitive.ObjectID{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	summaries, err := repo.GetSummariesByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.UserSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	return byID, nil
}
