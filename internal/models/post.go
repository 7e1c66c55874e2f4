package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a text/image post stored in MongoDB
type Post struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	Text      string               `json:"text" bson:"text"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// PostView is a post with its author expanded to a summary
type PostView struct {
	Post
	Author UserSummary `json:"author"`
}

// CreatePostRequest defines the request body for creating a post
type CreatePostRequest struct {
	Text  string `json:"text" validate:"required,min=1"`
	Image string `json:"image,omitempty"`
}

// PostLikeRequest defines the request body for toggling a post like
type PostLikeRequest struct {
	PostID string `json:"postId" validate:"required"`
}

// PostCommentRequest defines the request body for commenting on a post
type PostCommentRequest struct {
	PostID string `json:"postId" validate:"required"`
	Text   string `json:"text" validate:"required"`
}
