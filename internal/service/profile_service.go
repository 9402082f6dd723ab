package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/pkg/errors"
)

type UpdateProfileInput struct {
	FirstName      string
	LastName       string
	Username       string // optional change
	Bio            string
	Interests      []string
	ProfilePicture string // optional
}

type ProfileService interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error)
	SetPicture(ctx context.Context, userID, path string) (*model.User, error)
}

type profileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.ErrProfileNotFound
	}
	return u, nil
}

func (s *profileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error) {
	if len(in.Interests) == 0 {
		return nil, errors.ErrInterestsEmpty
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.ErrUserNotFound
	}

	if username := strings.TrimSpace(in.Username); username != "" && username != u.Username {
		if len(username) < 3 || len(username) > 30 || !usernameRe.MatchString(username) {
			return nil, errors.InvalidInput("Username can only contain letters, numbers, and underscores")
		}
		taken, err := s.userRepo.UsernameTakenByOther(ctx, username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errors.ErrUsernameTaken
		}
		u.Username = username
	}

	u.FirstName = strings.TrimSpace(in.FirstName)
	u.LastName = strings.TrimSpace(in.LastName)
	u.Bio = in.Bio
	u.Interests = in.Interests
	if in.ProfilePicture != "" {
		u.ProfilePicture = in.ProfilePicture
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *profileService) SetPicture(ctx context.Context, userID, path string) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.ErrUserNotFound
	}
	u.ProfilePicture = path
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
