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

// ReelRepository defines the interface for reel data operations
type ReelRepository interface {
	CreateReel(ctx context.Context, reel *models.Reel) error
	GetReelByID(ctx context.Context, id primitive.ObjectID) (*models.Reel, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Reel, error)
	ListActive(ctx context.Context, skip, limit int64) ([]models.Reel, int64, error)
	ListActiveByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Reel, int64, error)
	SearchByHashtag(ctx context.Context, tag string, skip, limit int64) ([]models.Reel, int64, error)
	Trending(ctx context.Context, since time.Time, skip, limit int64) ([]models.Reel, int64, error)
	ToggleLike(ctx context.Context, reelID, userID primitive.ObjectID) (liked bool, likesCount int, err error)
	AddComment(ctx context.Context, reelID primitive.ObjectID, comment *models.Comment) (commentsCount int, err error)
	GetComments(ctx context.Context, reelID primitive.ObjectID) ([]models.Comment, int, error)
	Share(ctx context.Context, reelID, userID primitive.ObjectID) (sharesCount int, err error)
	SoftDelete(ctx context.Context, reelID primitive.ObjectID) error
}

// listProjection strips the heavy engagement arrays from list payloads
var listProjection = bson.M{
	"likes":    0,
	"comments": 0,
	"shares":   0,
}

// MongoReelRepository implements ReelRepository for MongoDB
type MongoReelRepository struct {
	collection *mongo.Collection
}

// NewMongoReelRepository creates a new MongoReelRepository
func NewMongoReelRepository(db *mongo.Database) *MongoReelRepository {
	return &MongoReelRepository{collection: db.Collection("reels")}
}

// CreateReel inserts a new reel with zeroed counters and isActive=true
func (r *MongoReelRepository) CreateReel(ctx context.Context, reel *models.Reel) error {
	reel.ID = primitive.NewObjectID()
	reel.CreatedAt = time.Now()
	reel.UpdatedAt = reel.CreatedAt
	if reel.MediaType == "" {
		reel.MediaType = "video"
	}
	if reel.Hashtags == nil {
		reel.Hashtags = []string{}
	}
	reel.Likes = []primitive.ObjectID{}
	reel.Comments = []models.Comment{}
	reel.Shares = []primitive.ObjectID{}
	reel.LikesCount = 0
	reel.CommentsCount = 0
	reel.SharesCount = 0
	reel.Views = 0
	reel.IsActive = true

	_, err := r.collection.InsertOne(ctx, reel)
	return err
}

// GetReelByID retrieves a reel by its ObjectID, soft-deleted ones included
func (r *MongoReelRepository) GetReelByID(ctx context.Context, id primitive.ObjectID) (*models.Reel, error) {
	var reel models.Reel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reel)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reel, nil
}

// IncrementViews bumps the view counter by one and returns the updated reel
func (r *MongoReelRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Reel, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var reel models.Reel
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
		opts,
	).Decode(&reel)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reel, nil
}

// ListActive retrieves active reels newest first, plus the matching total
func (r *MongoReelRepository) ListActive(ctx context.Context, skip, limit int64) ([]models.Reel, int64, error) {
	filter := bson.M{"isActive": true}
	sort := bson.D{{Key: "createdAt", Value: -1}}
	return r.list(ctx, filter, sort, skip, limit)
}

// ListActiveByUser retrieves one user's active reels newest first
func (r *MongoReelRepository) ListActiveByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Reel, int64, error) {
	filter := bson.M{"user": userID, "isActive": true}
	sort := bson.D{{Key: "createdAt", Value: -1}}
	return r.list(ctx, filter, sort, skip, limit)
}

// SearchByHashtag retrieves active reels tagged with the hashtag, most liked
// first, newest breaking ties
func (r *MongoReelRepository) SearchByHashtag(ctx context.Context, tag string, skip, limit int64) ([]models.Reel, int64, error) {
	filter := bson.M{"hashtags": tag, "isActive": true}
	sort := bson.D{{Key: "likesCount", Value: -1}, {Key: "createdAt", Value: -1}}
	return r.list(ctx, filter, sort, skip, limit)
}

// Trending retrieves active reels created since the given time, ranked by
// likes then views
func (r *MongoReelRepository) Trending(ctx context.Context, since time.Time, skip, limit int64) ([]models.Reel, int64, error) {
	filter := bson.M{"isActive": true, "createdAt": bson.M{"$gte": since}}
	sort := bson.D{{Key: "likesCount", Value: -1}, {Key: "views", Value: -1}}
	return r.list(ctx, filter, sort, skip, limit)
}

// list runs a filtered, sorted, paginated find without the engagement arrays
// and counts the documents matching the same filter
func (r *MongoReelRepository) list(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.Reel, int64, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(sort).
		SetProjection(listProjection)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	reels := []models.Reel{}
	if err = cursor.All(ctx, &reels); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return reels, total, nil
}

// ToggleLike adds or removes userID in the likes set, moving likesCount in
// the same command so the counter can never drift from the set.
func (r *MongoReelRepository) ToggleLike(ctx context.Context, reelID, userID primitive.ObjectID) (bool, int, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likesCount": 1})

	var reel models.Reel
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": reelID, "likes": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"likes": userID},
			"$inc":      bson.M{"likesCount": 1},
		},
		opts,
	).Decode(&reel)
	if err == nil {
		return true, reel.LikesCount, nil
	}
	if err != mongo.ErrNoDocuments {
		return false, 0, err
	}

	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": reelID, "likes": userID},
		bson.M{
			"$pull": bson.M{"likes": userID},
			"$inc":  bson.M{"likesCount": -1},
		},
		opts,
	).Decode(&reel)
	if err == mongo.ErrNoDocuments {
		return false, 0, ErrNotFound
	}
	if err != nil {
		return false, 0, err
	}
	return false, reel.LikesCount, nil
}

// AddComment appends a comment and increments commentsCount in one command,
// returning the updated counter
func (r *MongoReelRepository) AddComment(ctx context.Context, reelID primitive.ObjectID, comment *models.Comment) (int, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"commentsCount": 1})

	var reel models.Reel
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": reelID},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$inc":  bson.M{"commentsCount": 1},
		},
		opts,
	).Decode(&reel)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return reel.CommentsCount, nil
}

// GetComments returns the full embedded comment sequence plus the stored
// counter; sorting and pagination happen on the caller's side
func (r *MongoReelRepository) GetComments(ctx context.Context, reelID primitive.ObjectID) ([]models.Comment, int, error) {
	opts := options.FindOne().SetProjection(bson.M{"comments": 1, "commentsCount": 1})
	var reel models.Reel
	err := r.collection.FindOne(ctx, bson.M{"_id": reelID}, opts).Decode(&reel)
	if err == mongo.ErrNoDocuments {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return reel.Comments, reel.CommentsCount, nil
}

// Share credits one share per user: the filtered update only fires the first
// time an actor shares, later calls fall through to a plain read of the
// current counter.
func (r *MongoReelRepository) Share(ctx context.Context, reelID, userID primitive.ObjectID) (int, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"sharesCount": 1})

	var reel models.Reel
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": reelID, "shares": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"shares": userID},
			"$inc":      bson.M{"sharesCount": 1},
		},
		opts,
	).Decode(&reel)
	if err == nil {
		return reel.SharesCount, nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, err
	}

	// Already shared by this user, or missing reel.
	findOpts := options.FindOne().SetProjection(bson.M{"sharesCount": 1})
	err = r.collection.FindOne(ctx, bson.M{"_id": reelID}, findOpts).Decode(&reel)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return reel.SharesCount, nil
}

// SoftDelete flips isActive to false; the document stays in place
func (r *MongoReelRepository) SoftDelete(ctx context.Context, reelID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": reelID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
