package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ymayank97/EduGenix/internal/models"
	"github.com/ymayank97/EduGenix/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Service authenticates callers against the seeded user table. The core
// trusts the principal it returns and never re-validates credentials.
type Service interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type service struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

func NewService(userRepo repository.UserRepository, logger zerolog.Logger) Service {
	return &service{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
