package mongo

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "workout_plans"

// mongoPlanRepository implements repository.WorkoutPlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new workout plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.WorkoutPlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// FindByID retrieves a single plan by its ID.
func (r *mongoPlanRepository) FindByID(ctx context.Context, id string) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindByUserID retrieves all plans for a user, newest first.
func (r *mongoPlanRepository) FindByUserID(ctx context.Context, userID string) ([]domain.WorkoutPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.WorkoutPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	// Empty slice when no plans exist, not an error.
	return plans, nil
}

// FindActiveByUserID retrieves the user's active plan. The partial
// unique index guarantees at most one matches.
func (r *mongoPlanRepository) FindActiveByUserID(ctx context.Context, userID string) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	filter := bson.M{"userId": userID, "status": domain.PlanActive}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Save persists the plan with the same version scheme as the
// conversation repository. The one-active-plan-per-user invariant is
// enforced by the partial unique index: activating a second plan makes
// the replace raise a duplicate key error, surfaced as ErrConflict.
func (r *mongoPlanRepository) Save(ctx context.Context, plan *domain.WorkoutPlan) error {
	if plan.ID == "" || plan.UserID == "" {
		return errors.New("plan requires id and userId")
	}

	if plan.Version <= 1 {
		plan.Version = 1
		_, err := r.collection.InsertOne(ctx, plan)
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}

	filter := bson.M{"_id": plan.ID, "version": plan.Version - 1}
	result, err := r.collection.ReplaceOne(ctx, filter, plan)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": plan.ID})
		if countErr == nil && count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}
	return nil
}

// Delete removes a plan by ID.
func (r *mongoPlanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// At most one active plan per user, enforced transactionally
			// by the database rather than a repository query.
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.PlanActive}),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
