package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/heyamigo/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines the interface for account data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	GetSummariesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error)
	SampleUsers(ctx context.Context, exclude primitive.ObjectID, gender string, size int) ([]models.UserSummary, error)
	SearchUsers(ctx context.Context, exclude primitive.ObjectID, query string) ([]models.UserSummary, error)
	AddLikeEdge(ctx context.Context, viewerID, targetID primitive.ObjectID) error
	RemoveLikeEdge(ctx context.Context, viewerID, targetID primitive.ObjectID) error
	AddFollowEdge(ctx context.Context, viewerID, targetID primitive.ObjectID) error
	RemoveFollowEdge(ctx context.Context, viewerID, targetID primitive.ObjectID) error
}

// summaryProjection is the field set exposed on discovery and search results
var summaryProjection = bson.M{
	"fullName":     1,
	"username":     1,
	"profileImage": 1,
	"age":          1,
	"gender":       1,
	"bio":          1,
	"location":     1,
	"interests":    1,
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user document with empty relationship sets
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Interests == nil {
		user.Interests = []string{}
	}
	user.Likes = []primitive.ObjectID{}
	user.LikedBy = []primitive.ObjectID{}
	user.Followers = []primitive.ObjectID{}
	user.Following = []primitive.ObjectID{}

	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// GetUserByID retrieves a user document by its ObjectID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user document by username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmailOrUsername retrieves a user matching either unique field,
// used for the signup conflict check
func (r *MongoUserRepository) GetUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	filter := bson.M{"$or": []bson.M{
		{"email": email},
		{"username": username},
	}}
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user document by its Firebase UID
func (r *MongoUserRepository) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"firebaseUid": uid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetSummariesByIDs retrieves summary projections for a set of user IDs
func (r *MongoUserRepository) GetSummariesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	summaries := []models.UserSummary{}
	if len(ids) == 0 {
		return summaries, nil
	}

	findOptions := options.Find().SetProjection(summaryProjection)
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// UpdateProfile applies a partial update of mutable profile fields and
// returns the updated document. Password and the relationship sets are
// deliberately not part of the update document.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if req.FullName != "" {
		set["fullName"] = req.FullName
	}
	if req.Number != "" {
		set["number"] = req.Number
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if req.ProfileImage != "" {
		set["profileImage"] = req.ProfileImage
	}
	if req.Age != 0 {
		set["age"] = req.Age
	}
	if req.Location != nil {
		set["location"] = req.Location
	}
	if req.Coordinates != nil {
		set["coordinates"] = req.Coordinates
	}
	if req.Interests != nil {
		set["interests"] = req.Interests
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SampleUsers draws up to size random users excluding the given ID, optionally
// restricted to one gender (empty gender means the whole pool). Sampling is
// without replacement via the $sample aggregation stage.
func (r *MongoUserRepository) SampleUsers(ctx context.Context, exclude primitive.ObjectID, gender string, size int) ([]models.UserSummary, error) {
	summaries := []models.UserSummary{}
	if size <= 0 {
		return summaries, nil
	}

	match := bson.M{"_id": bson.M{"$ne": exclude}}
	if gender != "" {
		match["gender"] = gender
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$sample": bson.M{"size": size}},
		{"$project": summaryProjection},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// SearchUsers runs a case-insensitive pattern match over full name, username
// and interest tags, excluding the viewer
func (r *MongoUserRepository) SearchUsers(ctx context.Context, exclude primitive.ObjectID, query string) ([]models.UserSummary, error) {
	pattern := primitive.Regex{Pattern: query, Options: "i"}
	filter := bson.M{
		"_id": bson.M{"$ne": exclude},
		"$or": []bson.M{
			{"fullName": pattern},
			{"username": pattern},
			{"interests": pattern},
		},
	}

	findOptions := options.Find().SetProjection(summaryProjection)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []models.UserSummary{}
	if err = cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// AddLikeEdge adds targetID to viewer.likes and viewerID to target.likedBy.
// If the mirror write fails the forward write is rolled back so the mirror
// invariant survives a partial failure.
func (r *MongoUserRepository) AddLikeEdge(ctx context.Context, viewerID, targetID primitive.ObjectID) error {
	return r.addEdge(ctx, viewerID, targetID, "likes", "likedBy")
}

// RemoveLikeEdge removes targetID from viewer.likes and viewerID from
// target.likedBy, rolling back on partial failure
func (r *MongoUserRepository) RemoveLikeEdge(ctx context.Context, viewerID, targetID primitive.ObjectID) error {
	return r.removeEdge(ctx, viewerID, targetID, "likes", "likedBy")
}

// AddFollowEdge adds targetID to viewer.following and viewerID to
// target.followers
func (r *MongoUserRepository) AddFollowEdge(ctx context.Context, viewerID, targetID primitive.ObjectID) error {
	return r.addEdge(ctx, viewerID, targetID, "following", "followers")
}

// RemoveFollowEdge removes targetID from viewer.following and viewerID from
// target.followers
func (r *MongoUserRepository) RemoveFollowEdge(ctx context.Context, viewerID, targetID primitive.ObjectID) error {
	return r.removeEdge(ctx, viewerID, targetID, "following", "followers")
}

// addEdge writes one mirrored relationship edge across two user documents.
// $addToSet keeps both sides idempotent under concurrent toggles.
func (r *MongoUserRepository) addEdge(ctx context.Context, viewerID, targetID primitive.ObjectID, forward, reverse string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": viewerID},
		bson.M{"$addToSet": bson.M{forward: targetID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{reverse: viewerID}},
	)
	if err != nil {
		// Roll the forward write back rather than leave the mirror broken.
		if _, undoErr := r.collection.UpdateOne(ctx,
			bson.M{"_id": viewerID},
			bson.M{"$pull": bson.M{forward: targetID}},
		); undoErr != nil {
			return fmt.Errorf("mirror write failed: %w (rollback also failed: %v)", err, undoErr)
		}
		return err
	}
	return nil
}

// removeEdge deletes one mirrored relationship edge across two user documents
func (r *MongoUserRepository) removeEdge(ctx context.Context, viewerID, targetID primitive.ObjectID, forward, reverse string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": viewerID},
		bson.M{"$pull": bson.M{forward: targetID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{reverse: viewerID}},
	)
	if err != nil {
		if _, undoErr := r.collection.UpdateOne(ctx,
			bson.M{"_id": viewerID},
			bson.M{"$addToSet": bson.M{forward: targetID}},
		); undoErr != nil {
			return fmt.Errorf("mirror write failed: %w (rollback also failed: %v)", err, undoErr)
		}
		return err
	}
	return nil
}
