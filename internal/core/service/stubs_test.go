package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/exercisetracker/exercise-api/internal/core/domain"
	"github.com/exercisetracker/exercise-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	byID      map[string]*domain.User
	order     []string
	createErr error
	findErr   error
	listErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *u
	clone.ID = primitive.NewObjectID()
	r.byID[clone.ID.Hex()] = &clone
	r.order = append(r.order, clone.ID.Hex())
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.User
	for _, id := range r.order {
		clone := *r.byID[id]
		out = append(out, &clone)
	}
	return out, nil
}

type stubExerciseRepo struct {
	byID       map[string]*domain.Exercise
	createErr  error
	listErr    error
	lastFilter ports.ExerciseFilter
}

func newStubExerciseRepo() *stubExerciseRepo {
	return &stubExerciseRepo{byID: make(map[string]*domain.Exercise)}
}

func (r *stubExerciseRepo) Create(_ context.Context, e *domain.Exercise) (*domain.Exercise, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *e
	clone.ID = primitive.NewObjectID()
	r.byID[clone.ID.Hex()] = &clone
	out := clone
	return &out, nil
}

func (r *stubExerciseRepo) FindByID(_ context.Context, id string) (*domain.Exercise, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}
	clone := *e
	return &clone, nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubExerciseRepo) List(_ context.Context, f ports.ExerciseFilter) ([]*domain.Exercise, error) {
	r.lastFilter = f
	if r.listErr != nil {
		return nil, r.listErr
	}

	var matched []*domain.Exercise
	for _, e := range r.byID {
		if e.UserID != f.UserID {
			continue
		}
		if !f.From.IsZero() && e.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Date.After(f.To) {
			continue
		}
		clone := *e
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })

	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (r *stubExerciseRepo) count() int { return len(r.byID) }

type stubIdempotency struct {
	keys       map[string]string
	reserveErr error
	released   []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

// Reserve holds an unseen key with an empty value until Remember fills it.
func (s *stubIdempotency) Reserve(_ context.Context, key string) (bool, string, error) {
	if s.reserveErr != nil {
		return false, "", s.reserveErr
	}
	if id, ok := s.keys[key]; ok {
		return false, id, nil
	}
	s.keys[key] = ""
	return true, "", nil
}

func (s *stubIdempotency) Remember(_ context.Context, key, exerciseID string) error {
	s.keys[key] = exerciseID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}
