package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location holds the city/country pair shown on profiles
type Location struct {
	City    string `json:"city" bson:"city"`
	Country string `json:"country" bson:"country"`
}

// Coordinates is the optional geo position of a profile
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// User represents an account document stored in MongoDB.
// Likes/LikedBy and Followers/Following are mirrored edge sets: if A is in
// B.likedBy then B must be in A.likes, and the same for follows. Every toggle
// has to keep both sides in sync.
type User struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	FullName     string               `json:"fullName" bson:"fullName"`
	Username     string               `json:"username" bson:"username"`
	Email        string               `json:"email" bson:"email"`
	Number       string               `json:"number" bson:"number"`
	Password     string               `json:"-" bson:"password"` // bcrypt digest, never serialized
	ProfileImage string               `json:"profileImage" bson:"profileImage"`
	Age          int                  `json:"age,omitempty" bson:"age,omitempty"`
	Gender       string               `json:"gender" bson:"gender"` // male, female or other
	Bio          string               `json:"bio" bson:"bio"`
	Location     Location             `json:"location" bson:"location"`
	Coordinates  *Coordinates         `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	Interests    []string             `json:"interests" bson:"interests"`
	Likes        []primitive.ObjectID `json:"likes" bson:"likes"`
	LikedBy      []primitive.ObjectID `json:"likedBy" bson:"likedBy"`
	Followers    []primitive.ObjectID `json:"followers" bson:"followers"`
	Following    []primitive.ObjectID `json:"following" bson:"following"`
	FirebaseUID  string               `json:"-" bson:"firebaseUid,omitempty"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the lightweight projection embedded in cross-entity
// responses (feed authors, discovery candidates, matches, comment authors).
type UserSummary struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	FullName     string             `json:"fullName" bson:"fullName"`
	Username     string             `json:"username" bson:"username"`
	ProfileImage string             `json:"profileImage" bson:"profileImage"`
	Age          int                `json:"age,omitempty" bson:"age,omitempty"`
	Gender       string             `json:"gender,omitempty" bson:"gender,omitempty"`
	Bio          string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Location     Location           `json:"location" bson:"location"`
	Interests    []string           `json:"interests,omitempty" bson:"interests,omitempty"`
}

// ToSummary projects a full user document to its summary form
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		FullName:     u.FullName,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
		Age:          u.Age,
		Gender:       u.Gender,
		Bio:          u.Bio,
		Location:     u.Location,
		Interests:    u.Interests,
	}
}

// HasLiked reports whether targetID is in the user's likes set
func (u *User) HasLiked(targetID primitive.ObjectID) bool {
	return ContainsID(u.Likes, targetID)
}

// IsFollowing reports whether targetID is in the user's following set
func (u *User) IsFollowing(targetID primitive.ObjectID) bool {
	return ContainsID(u.Following, targetID)
}

// ContainsID reports whether id appears in ids
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// SignupRequest defines the multipart form fields for registration
type SignupRequest struct {
	FullName        string `json:"fullName" form:"fullName" validate:"required,min=2,max=100"`
	Username        string `json:"username" form:"username" validate:"required,min=3,max=30"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Number          string `json:"number" form:"number" validate:"required,min=10,max=15"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required"`
	Age             int    `json:"age" form:"age" validate:"omitempty,min=18,max=100"`
	Gender          string `json:"gender" form:"gender" validate:"required,oneof=male female other"`
}

// LoginRequest defines the request body for username/password login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase social login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateProfileRequest defines the mutable profile fields. Password and the
// relationship sets are never touched by a profile update.
type UpdateProfileRequest struct {
	FullName     string       `json:"fullName,omitempty" validate:"omitempty,min=2,max=100"`
	Number       string       `json:"number,omitempty" validate:"omitempty,min=10,max=15"`
	Bio          string       `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfileImage string       `json:"profileImage,omitempty"`
	Age          int          `json:"age,omitempty" validate:"omitempty,min=18,max=100"`
	Location     *Location    `json:"location,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Interests    []string     `json:"interests,omitempty" validate:"omitempty,dive,min=1"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
