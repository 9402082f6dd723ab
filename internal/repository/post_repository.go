package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/mingle/internal/model"
)

// ErrDuplicateLike is returned when the (post, user) like pair already exists.
var ErrDuplicateLike = errors.New("post already liked by user")

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*model.Post, error)
	Count(ctx context.Context) (int64, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Post, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Search(ctx context.Context, q string, offset, limit int) ([]*model.Post, error)
	CountSearch(ctx context.Context, q string) (int64, error)

	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) (bool, error)
	ListLikeUserIDs(ctx context.Context, postIDs []string) (map[string][]string, error)

	AddComment(ctx context.Context, c *model.Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*model.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
	ListComments(ctx context.Context, postID string, offset, limit int) ([]*model.Comment, error)
	ListCommentsForPosts(ctx context.Context, postIDs []string) (map[string][]*model.Comment, error)
	CountComments(ctx context.Context, postID string) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes the post and its embedded comment/like rows in one
// transaction so the aggregate never survives partially.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Post{}).Error
	})
}

func (r *postRepository) List(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) Search(ctx context.Context, q string, offset, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Where("LOWER(text) LIKE ?", searchPattern(q)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountSearch(ctx context.Context, q string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("LOWER(text) LIKE ?", searchPattern(q)).
		Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID string) error {
	l := &model.PostLike{ID: uuid.New().String(), PostID: postID, UserID: userID, CreatedAt: time.Now()}
	err := r.db.WithContext(ctx).Create(l).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateLike
	}
	return err
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.PostLike{})
	return res.RowsAffected > 0, res.Error
}

func (r *postRepository) ListLikeUserIDs(ctx context.Context, postIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var likes []model.PostLike
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at ASC").
		Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, l := range likes {
		out[l.PostID] = append(out[l.PostID], l.UserID)
	}
	return out, nil
}

func (r *postRepository) AddComment(ctx context.Context, c *model.Comment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *postRepository) GetComment(ctx context.Context, postID, commentID string) (*model.Comment, error) {
	var c model.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *postRepository) DeleteComment(ctx context.Context, postID, commentID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		Delete(&model.Comment{}).Error
}

func (r *postRepository) ListComments(ctx context.Context, postID string, offset, limit int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *postRepository) ListCommentsForPosts(ctx context.Context, postIDs []string) (map[string][]*model.Comment, error) {
	out := make(map[string][]*model.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var comments []*model.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	for _, c := range comments {
		out[c.PostID] = append(out[c.PostID], c)
	}
	return out, nil
}

func (r *postRepository) CountComments(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&cnt).Error
	return cnt, err
}
