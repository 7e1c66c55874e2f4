package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/heyamigo/backend/internal/models"
	"github.com/heyamigo/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes; the group must carry the
// JWT middleware so the actor always comes from the token, never the body
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/create", h.CreatePost)
	g.GET("/all", h.GetAllPosts)
	g.POST("/like", h.ToggleLike)
	g.POST("/comment", h.AddComment)
}

// CreatePost creates a new post owned by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		User:  userID,
		Text:  req.Text,
		Image: req.Image,
	}

	ctx := c.Request().Context()
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	view := models.PostView{Post: *post}
	if owner, err := h.userRepository.GetUserByID(ctx, userID); err == nil {
		view.Author = owner.ToSummary()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"post":    view,
	})
}

// GetAllPosts returns the post feed, newest first, with pagination totals
func (h *PostHandler) GetAllPosts(c echo.Context) error {
	page, limit, skip := pagination(c, 10)

	ctx := c.Request().Context()
	posts, err := h.postRepository.ListPosts(ctx, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	total, err := h.postRepository.CountPosts(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ownerIDs := make([]primitive.ObjectID, len(posts))
	for i, p := range posts {
		ownerIDs[i] = p.User
	}
	authors, err := summariesByID(ctx, h.userRepository, ownerIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]models.PostView, len(posts))
	for i, p := range posts {
		views[i] = models.PostView{Post: p, Author: authors[p.User]}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"count":      len(views),
		"total":      total,
		"page":       page,
		"totalPages": totalPages(total, limit),
		"posts":      views,
	})
}

// ToggleLike adds or removes the authenticated user in a post's likes set
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.PostLikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	liked, likes, err := h.postRepository.ToggleLike(c.Request().Context(), postID, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	action := "unliked"
	if liked {
		action = "liked"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"action":  action,
		"likes":   likes,
	})
}

// AddComment appends a comment by the authenticated user to a post
func (h *PostHandler) AddComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.PostCommentRequest
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

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	ctx := c.Request().Context()
	if err := h.postRepository.AddComment(ctx, postID, comment); err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
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
		"success": true,
		"message": "Comment added",
		"comment": view,
	})
}
