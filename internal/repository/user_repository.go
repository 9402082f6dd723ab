package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/mingle/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameTakenByOther(ctx context.Context, username, selfID string) (bool, error)
	Update(ctx context.Context, u *model.User) error
	Search(ctx context.Context, q string, offset, limit int) ([]*model.User, error)
	CountSearch(ctx context.Context, q string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UsernameTakenByOther(ctx context.Context, username, selfID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ? AND id <> ?", username, selfID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func searchPattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

func (r *userRepository) searchScope(ctx context.Context, q string) *gorm.DB {
	p := searchPattern(q)
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", p, p, p)
}

func (r *userRepository) Search(ctx context.Context, q string, offset, limit int) ([]*model.User, error) {
	var users []*model.User
	err := r.searchScope(ctx, q).
		Order("username ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepository) CountSearch(ctx context.Context, q string) (int64, error) {
	var cnt int64
	err := r.searchScope(ctx, q).Count(&cnt).Error
	return cnt, err
}
