package service

import (
	"context"
	stderrors "errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/realtime"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/pkg/blob"
	"github.com/d60-Lab/mingle/pkg/errors"
	"github.com/d60-Lab/mingle/pkg/logger"
)

const (
	maxPostLen    = 280
	maxCommentLen = 500

	defaultPostPageSize    = 10
	defaultCommentPageSize = 10
)

type PostService interface {
	Create(ctx context.Context, author *model.User, text, image string) (*PostView, error)
	Get(ctx context.Context, id string) (*PostView, error)
	Feed(ctx context.Context, page, limit int) ([]PostView, Pagination, error)
	ListByUsername(ctx context.Context, username string, page, limit int) ([]PostView, Pagination, error)
	Delete(ctx context.Context, id string, requester *model.User) error

	Like(ctx context.Context, id string, requester *model.User) (*PostView, error)
	Unlike(ctx context.Context, id string, requester *model.User) (*PostView, error)

	AddComment(ctx context.Context, postID string, author *model.User, text string) (*CommentView, error)
	Comments(ctx context.Context, postID string, page, limit int) ([]CommentView, Pagination, error)
	DeleteComment(ctx context.Context, postID, commentID string, requester *model.User) error
}

type postService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	blobs     blob.Store
	publisher realtime.Publisher
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, blobs blob.Store, publisher realtime.Publisher) PostService {
	return &postService{postRepo: postRepo, userRepo: userRepo, blobs: blobs, publisher: publisher}
}

func (s *postService) Create(ctx context.Context, author *model.User, text, image string) (*PostView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.ErrPostTextRequired
	}
	if utf8.RuneCountInString(text) > maxPostLen {
		return nil, errors.ErrPostTooLong
	}

	p := &model.Post{UserID: author.ID, Text: text, Image: image}
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	view := PostView{
		ID:        p.ID,
		Text:      p.Text,
		Image:     p.Image,
		User:      author.Brief(),
		Likes:     []string{},
		Comments:  []CommentView{},
		CreatedAt: p.CreatedAt,
	}
	return &view, nil
}

func (s *postService) Get(ctx context.Context, id string) (*PostView, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.ErrPostNotFound
	}
	views, err := s.buildViews(ctx, []*model.Post{p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *postService) Feed(ctx context.Context, page, limit int) ([]PostView, Pagination, error) {
	page, limit = clampPage(page, limit, defaultPostPageSize)
	posts, err := s.postRepo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, Pagination{}, err
	}
	views, err := s.buildViews(ctx, posts)
	if err != nil {
		return nil, Pagination{}, err
	}
	return views, paginate(page, limit, total), nil
}

func (s *postService) ListByUsername(ctx context.Context, username string, page, limit int) ([]PostView, Pagination, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, Pagination{}, err
	}
	if u == nil {
		return nil, Pagination{}, errors.ErrUserNotFound
	}
	page, limit = clampPage(page, limit, defaultPostPageSize)
	posts, err := s.postRepo.ListByUser(ctx, u.ID, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.postRepo.CountByUser(ctx, u.ID)
	if err != nil {
		return nil, Pagination{}, err
	}
	views, err := s.buildViews(ctx, posts)
	if err != nil {
		return nil, Pagination{}, err
	}
	return views, paginate(page, limit, total), nil
}

func (s *postService) Delete(ctx context.Context, id string, requester *model.User) error {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return errors.ErrPostNotFound
	}
	if p.UserID != requester.ID {
		return errors.ErrPostDeleteDenied
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	// The row is gone; a stale blob is an accepted leak, not a failure.
	if p.Image != "" {
		if err := s.blobs.Remove(p.Image); err != nil {
			logger.Warn("post image removal failed", zap.String("post", id), zap.Error(err))
		}
	}
	return nil
}

func (s *postService) Like(ctx context.Context, id string, requester *model.User) (*PostView, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.ErrPostNotFound
	}
	if err := s.postRepo.AddLike(ctx, id, requester.ID); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateLike) {
			return nil, errors.ErrAlreadyLiked
		}
		return nil, err
	}
	views, err := s.buildViews(ctx, []*model.Post{p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *postService) Unlike(ctx context.Context, id string, requester *model.User) (*PostView, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.ErrPostNotFound
	}
	removed, err := s.postRepo.RemoveLike(ctx, id, requester.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, errors.ErrNotLiked
	}
	views, err := s.buildViews(ctx, []*model.Post{p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *postService) AddComment(ctx context.Context, postID string, author *model.User, text string) (*CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.ErrCommentTextRequired
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return nil, errors.ErrCommentTooLong
	}

	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.ErrPostNotFound
	}

	c := &model.Comment{PostID: postID, UserID: author.ID, Text: text}
	if err := s.postRepo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	view := CommentView{ID: c.ID, User: author.Brief(), Text: c.Text, CreatedAt: c.CreatedAt}

	count, err := s.postRepo.CountComments(ctx, postID)
	if err != nil {
		// The append already succeeded; report it as such.
		logger.Warn("comment count after append failed", zap.String("post", postID), zap.Error(err))
		count = 0
	}
	s.publisher.Broadcast(realtime.EventNewComment, realtime.NewCommentPayload{
		PostID:       postID,
		Comment:      view,
		CommentCount: count,
	})
	return &view, nil
}

func (s *postService) Comments(ctx context.Context, postID string, page, limit int) ([]CommentView, Pagination, error) {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, Pagination{}, err
	}
	if p == nil {
		return nil, Pagination{}, errors.ErrPostNotFound
	}
	page, limit = clampPage(page, limit, defaultCommentPageSize)
	comments, err := s.postRepo.ListComments(ctx, postID, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.postRepo.CountComments(ctx, postID)
	if err != nil {
		return nil, Pagination{}, err
	}
	views, err := s.buildCommentViews(ctx, comments)
	if err != nil {
		return nil, Pagination{}, err
	}
	return views, paginate(page, limit, total), nil
}

func (s *postService) DeleteComment(ctx context.Context, postID, commentID string, requester *model.User) error {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p == nil {
		return errors.ErrPostNotFound
	}
	c, err := s.postRepo.GetComment(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if c == nil {
		return errors.ErrCommentNotFound
	}
	// Either the comment's author or the post's owner may delete.
	if c.UserID != requester.ID && p.UserID != requester.ID {
		return errors.ErrCommentDeleteDenied
	}
	return s.postRepo.DeleteComment(ctx, postID, commentID)
}

// buildViews populates posts with author briefs, like sets and full comment
// lists in three batched queries.
func (s *postService) buildViews(ctx context.Context, posts []*model.Post) ([]PostView, error) {
	return buildPostViews(ctx, s.userRepo, s.postRepo, posts)
}

func (s *postService) buildCommentViews(ctx context.Context, comments []*model.Comment) ([]CommentView, error) {
	return buildCommentViews(ctx, s.userRepo, comments)
}

func buildPostViews(ctx context.Context, userRepo repository.UserRepository, postRepo repository.PostRepository, posts []*model.Post) ([]PostView, error) {
	if len(posts) == 0 {
		return []PostView{}, nil
	}
	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likes, err := postRepo.ListLikeUserIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := postRepo.ListCommentsForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	userIDs := make(map[string]struct{})
	for _, p := range posts {
		userIDs[p.UserID] = struct{}{}
	}
	for _, cs := range comments {
		for _, c := range cs {
			userIDs[c.UserID] = struct{}{}
		}
	}
	briefs, err := loadBriefs(ctx, userRepo, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		likeIDs := likes[p.ID]
		if likeIDs == nil {
			likeIDs = []string{}
		}
		commentViews := make([]CommentView, 0, len(comments[p.ID]))
		for _, c := range comments[p.ID] {
			commentViews = append(commentViews, CommentView{
				ID:        c.ID,
				User:      briefs[c.UserID],
				Text:      c.Text,
				CreatedAt: c.CreatedAt,
			})
		}
		views[i] = PostView{
			ID:        p.ID,
			Text:      p.Text,
			Image:     p.Image,
			User:      briefs[p.UserID],
			Likes:     likeIDs,
			Comments:  commentViews,
			CreatedAt: p.CreatedAt,
		}
	}
	return views, nil
}

func buildCommentViews(ctx context.Context, userRepo repository.UserRepository, comments []*model.Comment) ([]CommentView, error) {
	if len(comments) == 0 {
		return []CommentView{}, nil
	}
	userIDs := make(map[string]struct{})
	for _, c := range comments {
		userIDs[c.UserID] = struct{}{}
	}
	briefs, err := loadBriefs(ctx, userRepo, userIDs)
	if err != nil {
		return nil, err
	}
	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = CommentView{ID: c.ID, User: briefs[c.UserID], Text: c.Text, CreatedAt: c.CreatedAt}
	}
	return views, nil
}

func loadBriefs(ctx context.Context, userRepo repository.UserRepository, idSet map[string]struct{}) (map[string]model.UserBrief, error) {
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	briefs := make(map[string]model.UserBrief, len(users))
	for _, u := range users {
		briefs[u.ID] = u.Brief()
	}
	return briefs, nil
}
