package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/exercisetracker/exercise-api/internal/api/metrics"
	"github.com/exercisetracker/exercise-api/internal/core/domain"
	"github.com/exercisetracker/exercise-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// CreateUser stores a new user. Duplicate usernames are allowed.
func (s *UserService) CreateUser(ctx context.Context, username string) (*domain.User, error) {
	created, err := s.repo.Create(ctx, &domain.User{Username: username})
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("create_user").Inc()
		s.logger.Error().Err(err).Str("username", username).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", created.ID.Hex()).Msg("user created")
	return created, nil
}

// ListUsers returns every user. The result is never nil.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("list_users").Inc()
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}
