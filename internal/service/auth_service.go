package service

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/mingle/internal/model"
	"github.com/d60-Lab/mingle/internal/repository"
	"github.com/d60-Lab/mingle/pkg/errors"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type RegisterInput struct {
	FirstName      string
	LastName       string
	Username       string
	Email          string
	Password       string
	Bio            string
	Interests      []string
	ProfilePicture string
}

// AuthService is the in-repo principal resolver: it issues bearer tokens at
// register/login and verifies them for the auth middleware.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	// ResolveToken verifies a bearer token and loads its principal.
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, secret string, tokenTTL time.Duration) AuthService {
	return &authService{userRepo: userRepo, secret: []byte(secret), tokenTTL: tokenTTL}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	username := strings.TrimSpace(in.Username)
	if len(username) < 3 || len(username) > 30 || !usernameRe.MatchString(username) {
		return nil, "", errors.InvalidInput("Username can only contain letters, numbers, and underscores")
	}
	if len(in.Interests) == 0 {
		return nil, "", errors.ErrInterestsEmpty
	}
	if len(in.Password) < 6 {
		return nil, "", errors.InvalidInput("Password must be at least 6 characters")
	}

	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", errors.ErrUsernameTaken
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", errors.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Username:       username,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Password:       string(hash),
		Bio:            in.Bio,
		Interests:      in.Interests,
		ProfilePicture: in.ProfilePicture,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		// Pre-checks raced with another registration; the unique indexes win.
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", errors.ErrUsernameTaken
		}
		return nil, "", err
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", errors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", errors.ErrInvalidCredentials
	}
	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *authService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, errors.ErrInvalidToken
	}
	u, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.Unauthorized("User not found")
	}
	return u, nil
}

func (s *authService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
