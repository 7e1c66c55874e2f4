package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Music holds the embedded track metadata of a reel
type Music struct {
	TrackName string `json:"trackName" bson:"trackName"`
	Artist    string `json:"artist" bson:"artist"`
	AudioURL  string `json:"audioUrl" bson:"audioUrl"`
}

// Reel represents a short-video document stored in MongoDB.
// LikesCount, CommentsCount and SharesCount are denormalized caches of their
// backing collections and are updated in the same command as the collection
// itself so they never drift. IsActive is a soft-delete flag: every listing
// and search filters on isActive=true.
type Reel struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	User          primitive.ObjectID   `json:"user" bson:"user"`
	MediaURL      string               `json:"mediaUrl" bson:"mediaUrl"`
	MediaType     string               `json:"mediaType" bson:"mediaType"` // video or image
	Caption       string               `json:"caption" bson:"caption"`
	Hashtags      []string             `json:"hashtags" bson:"hashtags"`
	Music         Music                `json:"music" bson:"music"`
	Likes         []primitive.ObjectID `json:"likes,omitempty" bson:"likes"`
	LikesCount    int                  `json:"likesCount" bson:"likesCount"`
	Comments      []Comment            `json:"comments,omitempty" bson:"comments"`
	CommentsCount int                  `json:"commentsCount" bson:"commentsCount"`
	Shares        []primitive.ObjectID `json:"shares,omitempty" bson:"shares"`
	SharesCount   int                  `json:"sharesCount" bson:"sharesCount"`
	Views         int                  `json:"views" bson:"views"`
	IsActive      bool                 `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// ReelView is a reel with its author expanded to a summary
type ReelView struct {
	Reel
	Author UserSummary `json:"author"`
}

// MaxReelCommentLength caps comment text on reels
const MaxReelCommentLength = 500

// CreateReelRequest defines the request body for creating a reel
type CreateReelRequest struct {
	MediaURL  string   `json:"mediaUrl" validate:"required"`
	MediaType string   `json:"mediaType,omitempty" validate:"omitempty,oneof=video image"`
	Caption   string   `json:"caption,omitempty" validate:"omitempty,max=2200"`
	Hashtags  []string `json:"hashtags,omitempty" validate:"omitempty,dive,min=1"`
	Music     *Music   `json:"music,omitempty"`
}

// ReelCommentRequest defines the request body for commenting on a reel
type ReelCommentRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}
