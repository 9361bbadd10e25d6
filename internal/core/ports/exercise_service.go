package ports

import (
	"context"
	"time"
)

// CreateExerciseInput is the DTO passed from the transport layer to ExerciseService.
type CreateExerciseInput struct {
	UserID      string
	Description string
	Duration    string
	Date        *time.Time // nil = now
	// IdempotencyKey is optional; a repeated key returns the first result.
	IdempotencyKey string
}

// ExerciseResult is the denormalized view returned after creating an exercise.
type ExerciseResult struct {
	UserID      string
	Username    string
	Description string
	Duration    string
	Date        time.Time
	// Replayed is true when the IdempotencyKey matched an earlier exercise.
	Replayed bool
}

// ExerciseLogInput carries the log query parameters.
type ExerciseLogInput struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// ExerciseLogItem is a single entry in an exercise log.
type ExerciseLogItem struct {
	Description string
	Duration    string
	Date        time.Time
}

// ExerciseLog is the denormalized exercise log of a user.
type ExerciseLog struct {
	UserID   string
	Username string
	Count    int
	Log      []ExerciseLogItem
}

// ExerciseService defines use-case operations for exercises.
type ExerciseService interface {
	CreateExercise(ctx context.Context, input CreateExerciseInput) (*ExerciseResult, error)
	GetLog(ctx context.Context, input ExerciseLogInput) (*ExerciseLog, error)
}
