package ports

import (
	"context"

	"github.com/exercisetracker/exercise-api/internal/core/domain"
)

type UserService interface {
	CreateUser(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
