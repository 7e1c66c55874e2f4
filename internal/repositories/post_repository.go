package repositories

import (
	"context"
	"time"

	"github.com/heyamigo/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	ListPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	CountPosts(ctx context.Context) (int64, error)
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (liked bool, likesCount int, err error)
	AddComment(ctx context.Context, postID primitive.ObjectID, comment *models.Comment) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost inserts a new post with empty engagement collections
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	post.Likes = []primitive.ObjectID{}
	post.Comments = []models.Comment{}

	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by its ObjectID
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts retrieves posts newest first with skip/limit pagination
func (r *MongoPostRepository) ListPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the total number of posts
func (r *MongoPostRepository) CountPosts(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// ToggleLike adds userID to the post's likes set if absent, removes it
// otherwise. Each branch is a single filtered update so concurrent toggles
// cannot double-apply.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}},
		opts,
	).Decode(&post)
	if err == nil {
		return true, len(post.Likes), nil
	}
	if err != mongo.ErrNoDocuments {
		return false, 0, err
	}

	// Already liked, or the post does not exist.
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": postID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
		opts,
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return false, 0, ErrNotFound
	}
	if err != nil {
		return false, 0, err
	}
	return false, len(post.Likes), nil
}

// AddComment appends a comment to the post's embedded comment sequence
func (r *MongoPostRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment *models.Comment) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
