package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/exercisetracker/exercise-api/internal/core/domain"
	"github.com/exercisetracker/exercise-api/internal/core/ports"
)

type stubUserService struct {
	createFn func(ctx context.Context, username string) (*domain.User, error)
	listFn   func(ctx context.Context) ([]*domain.User, error)
}

func (s *stubUserService) CreateUser(ctx context.Context, username string) (*domain.User, error) {
	return s.createFn(ctx, username)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

type stubExerciseService struct {
	createFn func(ctx context.Context, in ports.CreateExerciseInput) (*ports.ExerciseResult, error)
	logFn    func(ctx context.Context, in ports.ExerciseLogInput) (*ports.ExerciseLog, error)
}

func (s *stubExerciseService) CreateExercise(ctx context.Context, in ports.CreateExerciseInput) (*ports.ExerciseResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubExerciseService) GetLog(ctx context.Context, in ports.ExerciseLogInput) (*ports.ExerciseLog, error) {
	return s.logFn(ctx, in)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}
