package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/exercisetracker/exercise-api/internal/api/metrics"
	"github.com/exercisetracker/exercise-api/internal/core/domain"
	"github.com/exercisetracker/exercise-api/internal/core/ports"
)

// Option configures an ExerciseService.
type Option func(*ExerciseService)

// WithClock overrides the time source used for default exercise dates.
func WithClock(now func() time.Time) Option {
	return func(s *ExerciseService) { s.now = now }
}

// WithIdempotencyStore enables Idempotency-Key replay on CreateExercise.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *ExerciseService) { s.idem = store }
}

type ExerciseService struct {
	users     ports.UserRepository
	exercises ports.ExerciseRepository
	idem      ports.IdempotencyStore
	now       func() time.Time
	logger    zerolog.Logger
}

func NewExerciseService(
	users ports.UserRepository,
	exercises ports.ExerciseRepository,
	logger zerolog.Logger,
	opts ...Option,
) *ExerciseService {
	s := &ExerciseService{
		users:     users,
		exercises: exercises,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateExercise records an exercise for an existing user. It returns
// domain.ErrUserNotFound when the user does not exist and
// domain.ErrRequestInProgress when its idempotency key is held by an
// unfinished request.
func (s *ExerciseService) CreateExercise(ctx context.Context, in ports.CreateExerciseInput) (*ports.ExerciseResult, error) {
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		metrics.StoreErrorsTotal.WithLabelValues("find_user").Inc()
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to look up user")
		return nil, fmt.Errorf("create exercise: find user: %w", err)
	}

	key := idempotencyKey(in)
	reserved := false
	if key != "" && s.idem != nil {
		ok, existingID, err := s.idem.Reserve(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency reserve failed, processing anyway")
		case ok:
			reserved = true
		case existingID == "":
			return nil, domain.ErrRequestInProgress
		default:
			if replay := s.replay(ctx, in, user, existingID); replay != nil {
				return replay, nil
			}
		}
	}

	date := s.now().UTC()
	if in.Date != nil {
		date = in.Date.UTC()
	}

	exercise := &domain.Exercise{
		UserID:      in.UserID,
		Description: in.Description,
		Duration:    in.Duration,
		Date:        date,
	}
	if err := exercise.Validate(); err != nil {
		s.release(ctx, key, reserved)
		return nil, fmt.Errorf("create exercise: %w", err)
	}

	saved, err := s.exercises.Create(ctx, exercise)
	if err != nil {
		s.release(ctx, key, reserved)
		metrics.StoreErrorsTotal.WithLabelValues("create_exercise").Inc()
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to save exercise")
		return nil, fmt.Errorf("create exercise: %w", err)
	}

	if reserved {
		if err := s.idem.Remember(ctx, key, saved.ID.Hex()); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	metrics.ExercisesCreatedTotal.Inc()
	s.logger.Info().Str("user_id", in.UserID).Str("exercise_id", saved.ID.Hex()).Msg("exercise created")

	return toExerciseResult(saved, user.Username, false), nil
}

// idempotencyKey scopes the client key to the user so two users can reuse a key.
func idempotencyKey(in ports.CreateExerciseInput) string {
	if in.IdempotencyKey == "" {
		return ""
	}
	return in.UserID + ":" + in.IdempotencyKey
}

// replay loads the exercise recorded for the key. A nil result means the
// request is processed normally.
func (s *ExerciseService) replay(ctx context.Context, in ports.CreateExerciseInput, user *domain.User, id string) *ports.ExerciseResult {
	existing, err := s.exercises.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotent exercise missing, processing anyway")
		return nil
	}
	if existing.UserID != in.UserID {
		return nil
	}

	s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("exercise_id", id).Msg("idempotent replay")
	return toExerciseResult(existing, user.Username, true)
}

func (s *ExerciseService) release(ctx context.Context, key string, reserved bool) {
	if !reserved {
		return
	}
	if err := s.idem.Release(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to release idempotency key")
	}
}

// GetLog returns the user's exercises filtered by date range and limit.
// The user is not resolved; Username is always domain.LogUsername.
func (s *ExerciseService) GetLog(ctx context.Context, in ports.ExerciseLogInput) (*ports.ExerciseLog, error) {
	filter := ports.ExerciseFilter{UserID: in.UserID}
	if in.From != nil {
		filter.From = in.From.UTC()
	}
	if in.To != nil {
		filter.To = in.To.UTC()
	}
	if in.Limit > 0 {
		filter.Limit = in.Limit
	}

	exercises, err := s.exercises.List(ctx, filter)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("list_exercises").Inc()
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to retrieve exercise log")
		return nil, fmt.Errorf("exercise log: %w", err)
	}

	items := make([]ports.ExerciseLogItem, len(exercises))
	for i, e := range exercises {
		items[i] = ports.ExerciseLogItem{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.Date,
		}
	}
	metrics.LogEntriesReturned.Observe(float64(len(items)))

	return &ports.ExerciseLog{
		UserID:   in.UserID,
		Username: domain.LogUsername,
		Count:    len(items),
		Log:      items,
	}, nil
}

func toExerciseResult(e *domain.Exercise, username string, replayed bool) *ports.ExerciseResult {
	return &ports.ExerciseResult{
		UserID:      e.UserID,
		Username:    username,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date,
		Replayed:    replayed,
	}
}
