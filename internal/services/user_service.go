// File: internal/services/user_service.go
package services

import (
	"context"
	"errors"

	"github.com/iyunix/go-chatpal/internal/auth"
	"github.com/iyunix/go-chatpal/internal/domain"
	"github.com/iyunix/go-chatpal/internal/repository"
)

var (
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserService handles registration and login.
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	logger    Logger
}

func NewUserService(userRepo repository.UserRepository, jwtSecret string, logger Logger) *UserService {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	user := &domain.User{Username: username}
	if err := user.IsValid(); err != nil {
		return nil, err
	}
	if err := user.HashPassword(password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", created.ID, "username", created.Username)
	return created, nil
}

// Login verifies the credentials and returns a signed session token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := user.ValidatePassword(password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(user.ID, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}
