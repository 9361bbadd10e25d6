package ports

import (
	"context"
	"time"

	"github.com/exercisetracker/exercise-api/internal/core/domain"
)

// ExerciseFilter carries the query parameters of the exercise log.
type ExerciseFilter struct {
	UserID string
	From   time.Time // optional: date >= From
	To     time.Time // optional: date <= To
	Limit  int       // 0 = no limit
}

// ExerciseRepository defines persistence operations for exercises.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	FindByID(ctx context.Context, id string) (*domain.Exercise, error)
	// List returns the user's exercises matching filter, oldest first.
	List(ctx context.Context, filter ExerciseFilter) ([]*domain.Exercise, error)
}

// IdempotencyStore remembers which exercise a client-supplied key produced.
type IdempotencyStore interface {
	// Reserve claims an unseen key and reports reserved=true. For a key that is
	// already held it returns the recorded exercise ID, or "" while the request
	// holding it has not finished.
	Reserve(ctx context.Context, key string) (reserved bool, exerciseID string, err error)
	// Remember records the exercise created under a reserved key.
	Remember(ctx context.Context, key, exerciseID string) error
	// Release frees a reserved key whose request failed.
	Release(ctx context.Context, key string) error
}
