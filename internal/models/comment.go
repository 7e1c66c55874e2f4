package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is an embedded comment on a post or a reel
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// CommentView is a comment with its author expanded to a summary
type CommentView struct {
	ID        primitive.ObjectID `json:"id"`
	User      UserSummary        `json:"user"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"createdAt"`
}
