package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/exercisetracker/exercise-api/internal/core/domain"
	"github.com/exercisetracker/exercise-api/internal/core/ports"
)

const collectionExercises = "exercises"

type ExerciseRepository struct {
	col *mongo.Collection
}

func NewExerciseRepository(db *mongo.Database) *ExerciseRepository {
	return &ExerciseRepository{col: db.Collection(collectionExercises)}
}

// Create inserts a new exercise document and returns it with the generated _id.
func (r *ExerciseRepository) Create(ctx context.Context, e *domain.Exercise) (*domain.Exercise, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *e
	doc.Date = doc.Date.UTC()
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}
	if doc.ID, err = insertedID(res); err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}
	return &doc, nil
}

// FindByID retrieves an exercise by its hex ObjectID.
func (r *ExerciseRepository) FindByID(ctx context.Context, id string) (*domain.Exercise, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Exercise
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExerciseNotFound
		}
		return nil, fmt.Errorf("find exercise: %w", err)
	}
	return &e, nil
}

// List returns the exercises of filter.UserID, oldest first.
func (r *ExerciseRepository) List(ctx context.Context, filter ports.ExerciseFilter) ([]*domain.Exercise, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, logQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find exercises: %w", err)
	}

	exercises := []*domain.Exercise{}
	if err := cur.All(ctx, &exercises); err != nil {
		return nil, fmt.Errorf("decode exercises: %w", err)
	}
	return exercises, nil
}

// logQuery builds the Mongo filter document for an exercise log request.
func logQuery(f ports.ExerciseFilter) bson.M {
	q := bson.M{"user_id": f.UserID}

	date := bson.M{}
	if !f.From.IsZero() {
		date["$gte"] = f.From.UTC()
	}
	if !f.To.IsZero() {
		date["$lte"] = f.To.UTC()
	}
	if len(date) > 0 {
		q["date"] = date
	}
	return q
}

// EnsureIndexes creates the index backing the exercise log query.
func (r *ExerciseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
	})
	return err
}
