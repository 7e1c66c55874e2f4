package handlers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/heyamigo/backend/internal/models"
	"github.com/heyamigo/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// trendingWindow is how far back the trending ranking looks
const trendingWindow = 7 * 24 * time.Hour

// ReelHandler handles HTTP requests related to reels
type ReelHandler struct {
	reelRepository repositories.ReelRepository
	userRepository repositories.UserRepository
}

// NewReelHandler creates a new ReelHandler
func NewReelHandler(reelRepo repositories.ReelRepository, userRepo repositories.UserRepository) *ReelHandler {
	return &ReelHandler{
		reelRepository: reelRepo,
		userRepository: userRepo,
	}
}

// RegisterReelRoutes registers read routes on the public group and mutation
// routes on the JWT-protected group
func (h *ReelHandler) RegisterReelRoutes(public, protected *echo.Group) {
	public.GET("", h.GetReels)
	public.GET("/trending", h.GetTrendingReels)
	public.GET("/search", h.SearchReelsByHashtag)
	public.GET("/:reelId", h.GetReelByID)
	public.GET("/user/:userId", h.GetUserReels)
	public.GET("/:reelId/comments", h.GetReelComments)

	protected.POST("", h.CreateReel)
	protected.POST("/:reelId/like", h.LikeReel)
	protected.POST("/:reelId/comment", h.CommentOnReel)
	protected.POST("/:reelId/share", h.ShareReel)
	protected.DELETE("/:reelId", h.DeleteReel)
}

// CreateReel creates a new reel owned by the authenticated user
func (h *ReelHandler) CreateReel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateReelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reel := &models.Reel{
		User:      userID,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
		Caption:   req.Caption,
		Hashtags:  req.Hashtags,
	}
	if req.Music != nil {
		reel.Music = *req.Music
	}

	ctx := c.Request().Context()
	if err := h.reelRepository.CreateReel(ctx, reel); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	view := models.ReelView{Reel: *reel}
	if owner, err := h.userRepository.GetUserByID(ctx, userID); err == nil {
		view.Author = owner.ToSummary()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Reel created successfully",
		"reel":    view,
	})
}

// GetReels returns the active-reel feed, newest first
func (h *ReelHandler) GetReels(c echo.Context) error {
	page, limit, skip := pagination(c, 10)

	ctx := c.Request().Context()
	reels, total, err := h.reelRepository.ListActive(ctx, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.listResponse(c, reels, total, page, limit)
}

// GetTrendingReels returns active reels from the last 7 days ranked by likes
// then views
func (h *ReelHandler) GetTrendingReels(c echo.Context) error {
	page, limit, skip := pagination(c, 10)
	since := time.Now().Add(-trendingWindow)

	ctx := c.Request().Context()
	reels, total, err := h.reelRepository.Trending(ctx, since, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.listResponse(c, reels, total, page, limit)
}

// SearchReelsByHashtag returns active reels carrying the hashtag, most liked
// first
func (h *ReelHandler) SearchReelsByHashtag(c echo.Context) error {
	hashtag := c.QueryParam("hashtag")
	if hashtag == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Hashtag is required")
	}

	page, limit, skip := pagination(c, 10)

	ctx := c.Request().Context()
	reels, total, err := h.reelRepository.SearchByHashtag(ctx, hashtag, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.listResponse(c, reels, total, page, limit)
}

// GetUserReels returns one user's active reels, newest first
func (h *ReelHandler) GetUserReels(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	page, limit, skip := pagination(c, 10)

	ctx := c.Request().Context()
	reels, total, err := h.reelRepository.ListActiveByUser(ctx, userID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.listResponse(c, reels, total, page, limit)
}

// listResponse populates authors and emits the shared list envelope
func (h *ReelHandler) listResponse(c echo.Context, reels []models.Reel, total int64, page, limit int) error {
	ownerIDs := make([]primitive.ObjectID, len(reels))
	for i, r := range reels {
		ownerIDs[i] = r.User
	}
	authors, err := summariesByID(c.Request().Context(), h.userRepository, ownerIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]models.ReelView, len(reels))
	for i, r := range reels {
		views[i] = models.ReelView{Reel: r, Author: authors[r.User]}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"count":      len(views),
		"total":      total,
		"page":       page,
		"totalPages": totalPages(total, limit),
		"reels":      views,
	})
}

// GetReelByID returns one reel with author and comment authors populated,
// counting the fetch as a view
func (h *ReelHandler) GetReelByID(c echo.Context) error {
	reelID, err := primitive.ObjectIDFromHex(c.Param("reelId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reel ID")
	}

	ctx := c.Request().Context()
	reel, err := h.reelRepository.IncrementViews(ctx, reelID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Reel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ids := []primitive.ObjectID{reel.User}
	for _, cm := range reel.Comments {
		ids = append(ids, cm.User)
	}
	users, err := summariesByID(ctx, h.userRepository, ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comments := make([]models.CommentView, len(reel.Comments))
	for i, cm := range reel.Comments {
		comments[i] = models.CommentView{
			ID:        cm.ID,
			User:      users[cm.User],
			Text:      cm.Text,
			CreatedAt: cm.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"reel": echo.Map{
			"id":            reel.ID,
			"author":        users[reel.User],
			"mediaUrl":      reel.MediaURL,
			"mediaType":     reel.MediaType,
			"caption":       reel.Caption,
			"hashtags":      reel.Hashtags,
			"music":         reel.Music,
			"likes":         reel.Likes,
			"likesCount":    reel.LikesCount,
			"comments":      comments,
			"commentsCount": reel.CommentsCount,
			"sharesCount":   reel.SharesCount,
			"views":         reel.Views,
			"isActive":      reel.IsActive,
			"createdAt":     reel.CreatedAt,
		},
	})
}

// LikeReel toggles the authenticated user's like on a reel; likesCount moves
// in lock-step with the likes set
func (h *ReelHandler) LikeReel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	reelID, err := primitive.ObjectIDFromHex(c.Param("reelId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reel ID")
	}

	liked, likesCount, err := h.reelRepository.ToggleLike(c.Request().Context(), reelID, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Reel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	action, message := "unliked", "Reel unliked"
	if liked {
		action, message = "liked", "Reel liked"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    message,
		"action":     action,
		"likesCount": likesCount,
	})
}

// CommentOnReel appends a comment by the authenticated user to a reel
func (h *ReelHandler) CommentOnReel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	reelID, err := primitive.ObjectIDFromHex(c.Param("reelId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reel ID")
	}

	var req models.ReelCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment text is required")
	}
	if len(text) > models.MaxReelCommentLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment text is too long")
	}

	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	ctx := c.Request().Context()
	commentsCount, err := h.reelRepository.AddComment(ctx, reelID, comment)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Reel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	view := models.CommentView{
		ID:        comment.ID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	if actor, err := h.userRepository.GetUserByID(ctx, userID); err == nil {
		view.User = actor.ToSummary()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":       true,
		"message":       "Comment added",
		"comment":       view,
		"commentsCount": commentsCount,
	})
}

// GetReelComments returns a reel's comments newest first. Totals come from
// the stored counter, not from the slice length.
func (h *ReelHandler) GetReelComments(c echo.Context) error {
	reelID, err := primitive.ObjectIDFromHex(c.Param("reelId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reel ID")
	}

	page, limit, skip := pagination(c, 20)

	ctx := c.Request().Context()
	comments, total, err := h.reelRepository.GetComments(ctx, reelID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Reel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})

	start := int(skip)
	if start > len(comments) {
		start = len(comments)
	}
	end := start + limit
	if end > len(comments) {
		end = len(comments)
	}
	pageComments := comments[start:end]

	ids := make([]primitive.ObjectID, len(pageComments))
	for i, cm := range pageComments {
		ids[i] = cm.User
	}
	users, err := summariesByID(ctx, h.userRepository, ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]models.CommentView, len(pageComments))
	for i, cm := range pageComments {
		views[i] = models.CommentView{
			ID:        cm.ID,
			User:      users[cm.User],
			Text:      cm.Text,
			CreatedAt: cm.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"count":      len(views),
		"total":      total,
		"page":       page,
		"totalPages": totalPages(int64(total), limit),
		"comments":   views,
	})
}

// ShareReel credits one share per user; repeated shares by the same user are
// no-ops that return the current counter
func (h *ReelHandler) ShareReel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	reelID, err := primitive.ObjectIDFromHex(c.Param("reelId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reel ID")
	}

	sharesCount, err := h.reelRepository.Share(c.Request().Context(), reelID, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Reel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Reel shared",
		"sharesCount": sharesCount,
	})
}

// DeleteReel soft-deletes a reel owned by the authenticated user
func (h *ReelHandler) DeleteReel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	reelID, err := primitive.ObjectIDFromHex(c.Param("reelId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reel ID")
	}

	ctx := c.Request().Context()
	reel, err := h.reelRepository.GetReelByID(ctx, reelID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Reel not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if reel.User != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this reel")
	}

	if err := h.reelRepository.SoftDelete(ctx, reelID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Reel deleted successfully",
	})
}
