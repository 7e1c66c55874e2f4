package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/heyamigo/backend/internal/models"
	"github.com/heyamigo/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory UserRepository honoring the same contract as
// the Mongo implementation, including the mirrored edge invariant.
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUserRepo) addUser(fullName, username, gender string) *models.User {
	u := &models.User{
		ID:        primitive.NewObjectID(),
		FullName:  fullName,
		Username:  username,
		Email:     username + "@example.com",
		Gender:    gender,
		Interests: []string{},
		Likes:     []primitive.ObjectID{},
		LikedBy:   []primitive.ObjectID{},
		Followers: []primitive.ObjectID{},
		Following: []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.Likes = []primitive.ObjectID{}
	user.LikedBy = []primitive.ObjectID{}
	user.Followers = []primitive.ObjectID{}
	user.Following = []primitive.ObjectID{}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetUserByEmailOrUsername(_ context.Context, email, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	for _, u := range f.users {
		if u.FirebaseUID == uid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetSummariesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	summaries := []models.UserSummary{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			summaries = append(summaries, u.ToSummary())
		}
	}
	return summaries, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.Bio != "" {
		u.Bio = req.Bio
	}
	if req.Number != "" {
		u.Number = req.Number
	}
	cp := *u
	return &cp, nil
}

// SampleUsers is deterministic: it returns up to size users matching the
// filter in insertion-independent sorted order, which is enough for testing
// the split logic.
func (f *fakeUserRepo) SampleUsers(_ context.Context, exclude primitive.ObjectID, gender string, size int) ([]models.UserSummary, error) {
	matched := []models.UserSummary{}
	if size <= 0 {
		return matched, nil
	}
	for _, u := range f.users {
		if u.ID == exclude {
			continue
		}
		if gender != "" && u.Gender != gender {
			continue
		}
		matched = append(matched, u.ToSummary())
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })
	if len(matched) > size {
		matched = matched[:size]
	}
	return matched, nil
}

func (f *fakeUserRepo) SearchUsers(_ context.Context, exclude primitive.ObjectID, query string) ([]models.UserSummary, error) {
	matched := []models.UserSummary{}
	for _, u := range f.users {
		if u.ID == exclude {
			continue
		}
		if u.FullName == query || u.Username == query {
			matched = append(matched, u.ToSummary())
		}
	}
	return matched, nil
}

func (f *fakeUserRepo) AddLikeEdge(_ context.Context, viewerID, targetID primitive.ObjectID) error {
	return f.addEdge(viewerID, targetID, like)
}

func (f *fakeUserRepo) RemoveLikeEdge(_ context.Context, viewerID, targetID primitive.ObjectID) error {
	return f.removeEdge(viewerID, targetID, like)
}

func (f *fakeUserRepo) AddFollowEdge(_ context.Context, viewerID, targetID primitive.ObjectID) error {
	return f.addEdge(viewerID, targetID, follow)
}

func (f *fakeUserRepo) RemoveFollowEdge(_ context.Context, viewerID, targetID primitive.ObjectID) error {
	return f.removeEdge(viewerID, targetID, follow)
}

type edgeKind int

const (
	like edgeKind = iota
	follow
)

func (f *fakeUserRepo) addEdge(viewerID, targetID primitive.ObjectID, kind edgeKind) error {
	viewer, ok := f.users[viewerID]
	if !ok {
		return repositories.ErrNotFound
	}
	target, ok := f.users[targetID]
	if !ok {
		return repositories.ErrNotFound
	}
	if kind == like {
		viewer.Likes = addID(viewer.Likes, targetID)
		target.LikedBy = addID(target.LikedBy, viewerID)
	} else {
		viewer.Following = addID(viewer.Following, targetID)
		target.Followers = addID(target.Followers, viewerID)
	}
	return nil
}

func (f *fakeUserRepo) removeEdge(viewerID, targetID primitive.ObjectID, kind edgeKind) error {
	viewer, ok := f.users[viewerID]
	if !ok {
		return repositories.ErrNotFound
	}
	target, ok := f.users[targetID]
	if !ok {
		return repositories.ErrNotFound
	}
	if kind == like {
		viewer.Likes = removeID(viewer.Likes, targetID)
		target.LikedBy = removeID(target.LikedBy, viewerID)
	} else {
		viewer.Following = removeID(viewer.Following, targetID)
		target.Followers = removeID(target.Followers, viewerID)
	}
	return nil
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	if models.ContainsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// fakePostRepo is an in-memory PostRepository
type fakePostRepo struct {
	posts map[primitive.ObjectID]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[primitive.ObjectID]*models.Post{}}
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.Likes = []primitive.ObjectID{}
	post.Comments = []models.Comment{}
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) ListPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	all := []models.Post{}
	for _, p := range f.posts {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, skip, limit), nil
}

func (f *fakePostRepo) CountPosts(_ context.Context) (int64, error) {
	return int64(len(f.posts)), nil
}

func (f *fakePostRepo) ToggleLike(_ context.Context, postID, userID primitive.ObjectID) (bool, int, error) {
	p, ok := f.posts[postID]
	if !ok {
		return false, 0, repositories.ErrNotFound
	}
	if models.ContainsID(p.Likes, userID) {
		p.Likes = removeID(p.Likes, userID)
		return false, len(p.Likes), nil
	}
	p.Likes = addID(p.Likes, userID)
	return true, len(p.Likes), nil
}

func (f *fakePostRepo) AddComment(_ context.Context, postID primitive.ObjectID, comment *models.Comment) error {
	p, ok := f.posts[postID]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Comments = append(p.Comments, *comment)
	return nil
}

// fakeReelRepo is an in-memory ReelRepository keeping counters in lock-step
// with their backing sets, exactly as the Mongo implementation guarantees.
type fakeReelRepo struct {
	reels map[primitive.ObjectID]*models.Reel
}

func newFakeReelRepo() *fakeReelRepo {
	return &fakeReelRepo{reels: map[primitive.ObjectID]*models.Reel{}}
}

func (f *fakeReelRepo) CreateReel(_ context.Context, reel *models.Reel) error {
	reel.ID = primitive.NewObjectID()
	reel.CreatedAt = time.Now()
	if reel.MediaType == "" {
		reel.MediaType = "video"
	}
	reel.Likes = []primitive.ObjectID{}
	reel.Comments = []models.Comment{}
	reel.Shares = []primitive.ObjectID{}
	reel.IsActive = true
	f.reels[reel.ID] = reel
	return nil
}

func (f *fakeReelRepo) GetReelByID(_ context.Context, id primitive.ObjectID) (*models.Reel, error) {
	r, ok := f.reels[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReelRepo) IncrementViews(_ context.Context, id primitive.ObjectID) (*models.Reel, error) {
	r, ok := f.reels[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	r.Views++
	cp := *r
	return &cp, nil
}

func (f *fakeReelRepo) ListActive(_ context.Context, skip, limit int64) ([]models.Reel, int64, error) {
	return f.listWhere(func(r *models.Reel) bool { return r.IsActive }, byCreatedAt, skip, limit)
}

func (f *fakeReelRepo) ListActiveByUser(_ context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Reel, int64, error) {
	return f.listWhere(func(r *models.Reel) bool { return r.IsActive && r.User == userID }, byCreatedAt, skip, limit)
}

func (f *fakeReelRepo) SearchByHashtag(_ context.Context, tag string, skip, limit int64) ([]models.Reel, int64, error) {
	match := func(r *models.Reel) bool {
		if !r.IsActive {
			return false
		}
		for _, h := range r.Hashtags {
			if h == tag {
				return true
			}
		}
		return false
	}
	return f.listWhere(match, byLikesThenCreated, skip, limit)
}

func (f *fakeReelRepo) Trending(_ context.Context, since time.Time, skip, limit int64) ([]models.Reel, int64, error) {
	match := func(r *models.Reel) bool { return r.IsActive && !r.CreatedAt.Before(since) }
	return f.listWhere(match, byLikesThenViews, skip, limit)
}

type reelLess func(a, b models.Reel) bool

func byCreatedAt(a, b models.Reel) bool { return a.CreatedAt.After(b.CreatedAt) }

func byLikesThenCreated(a, b models.Reel) bool {
	if a.LikesCount != b.LikesCount {
		return a.LikesCount > b.LikesCount
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func byLikesThenViews(a, b models.Reel) bool {
	if a.LikesCount != b.LikesCount {
		return a.LikesCount > b.LikesCount
	}
	return a.Views > b.Views
}

func (f *fakeReelRepo) listWhere(match func(*models.Reel) bool, less reelLess, skip, limit int64) ([]models.Reel, int64, error) {
	all := []models.Reel{}
	for _, r := range f.reels {
		if match(r) {
			cp := *r
			cp.Likes = nil
			cp.Comments = nil
			cp.Shares = nil
			all = append(all, cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return less(all[i], all[j]) })
	return paginate(all, skip, limit), int64(len(all)), nil
}

func (f *fakeReelRepo) ToggleLike(_ context.Context, reelID, userID primitive.ObjectID) (bool, int, error) {
	r, ok := f.reels[reelID]
	if !ok {
		return false, 0, repositories.ErrNotFound
	}
	if models.ContainsID(r.Likes, userID) {
		r.Likes = removeID(r.Likes, userID)
		r.LikesCount--
		return false, r.LikesCount, nil
	}
	r.Likes = addID(r.Likes, userID)
	r.LikesCount++
	return true, r.LikesCount, nil
}

func (f *fakeReelRepo) AddComment(_ context.Context, reelID primitive.ObjectID, comment *models.Comment) (int, error) {
	r, ok := f.reels[reelID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	r.Comments = append(r.Comments, *comment)
	r.CommentsCount++
	return r.CommentsCount, nil
}

func (f *fakeReelRepo) GetComments(_ context.Context, reelID primitive.ObjectID) ([]models.Comment, int, error) {
	r, ok := f.reels[reelID]
	if !ok {
		return nil, 0, repositories.ErrNotFound
	}
	comments := make([]models.Comment, len(r.Comments))
	copy(comments, r.Comments)
	return comments, r.CommentsCount, nil
}

func (f *fakeReelRepo) Share(_ context.Context, reelID, userID primitive.ObjectID) (int, error) {
	r, ok := f.reels[reelID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	if !models.ContainsID(r.Shares, userID) {
		r.Shares = addID(r.Shares, userID)
		r.SharesCount++
	}
	return r.SharesCount, nil
}

func (f *fakeReelRepo) SoftDelete(_ context.Context, reelID primitive.ObjectID) error {
	r, ok := f.reels[reelID]
	if !ok {
		return repositories.ErrNotFound
	}
	r.IsActive = false
	return nil
}

func paginate[T any](items []T, skip, limit int64) []T {
	start := int(skip)
	if start > len(items) {
		start = len(items)
	}
	end := start + int(limit)
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
