package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/pkg/errors"
)

const (
	defaultSearchPageSize = 10
	// globalSearchCap bounds each entity slice in the combined search.
	globalSearchCap = 3
)

type GlobalSearchResult struct {
	Users        []*model.User `json:"users"`
	Posts        []PostView    `json:"posts"`
	TotalResults int           `json:"totalResults"`
}

// SearchService 大小写不敏感的子串检索
type SearchService interface {
	Users(ctx context.Context, q string, page, limit int) ([]*model.User, Pagination, error)
	Posts(ctx context.Context, q string, page, limit int) ([]PostView, Pagination, error)
	Global(ctx context.Context, q string, limit int) (*GlobalSearchResult, error)
}

type searchService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

func NewSearchService(userRepo repository.UserRepository, postRepo repository.PostRepository) SearchService {
	return &searchService{userRepo: userRepo, postRepo: postRepo}
}

func (s *searchService) Users(ctx context.Context, q string, page, limit int) ([]*model.User, Pagination, error) {
	if strings.TrimSpace(q) == "" {
		return nil, Pagination{}, errors.ErrQueryRequired
	}
	page, limit = clampPage(page, limit, defaultSearchPageSize)
	users, err := s.userRepo.Search(ctx, q, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.userRepo.CountSearch(ctx, q)
	if err != nil {
		return nil, Pagination{}, err
	}
	return users, paginate(page, limit, total), nil
}

func (s *searchService) Posts(ctx context.Context, q string, page, limit int) ([]PostView, Pagination, error) {
	if strings.TrimSpace(q) == "" {
		return nil, Pagination{}, errors.ErrQueryRequired
	}
	page, limit = clampPage(page, limit, defaultSearchPageSize)
	posts, err := s.postRepo.Search(ctx, q, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.postRepo.CountSearch(ctx, q)
	if err != nil {
		return nil, Pagination{}, err
	}
	views, err := buildPostViews(ctx, s.userRepo, s.postRepo, posts)
	if err != nil {
		return nil, Pagination{}, err
	}
	return views, paginate(page, limit, total), nil
}

func (s *searchService) Global(ctx context.Context, q string, limit int) (*GlobalSearchResult, error) {
	if strings.TrimSpace(q) == "" {
		return nil, errors.ErrQueryRequired
	}
	if limit < 1 {
		limit = 5
	}

	users, err := s.userRepo.Search(ctx, q, 0, limit)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.Search(ctx, q, 0, limit)
	if err != nil {
		return nil, err
	}
	views, err := buildPostViews(ctx, s.userRepo, s.postRepo, posts)
	if err != nil {
		return nil, err
	}

	total := len(users) + len(views)
	if len(users) > globalSearchCap {
		users = users[:globalSearchCap]
	}
	if len(views) > globalSearchCap {
		views = views[:globalSearchCap]
	}
	if users == nil {
		users = []*model.User{}
	}
	return &GlobalSearchResult{Users: users, Posts: views, TotalResults: total}, nil
}
