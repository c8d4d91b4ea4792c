package mongo

import (
	"alcyxob/runplan/internal/domain"
	"alcyxob/runplan/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan document with version 1.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.PlanDocument) (primitive.ObjectID, error) {
	if plan.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires an ownerId")
	}
	plan.ID = primitive.NewObjectID()
	plan.Version = 1
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan document by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanDocument, error) {
	var plan domain.PlanDocument
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByOwnerID retrieves all plans belonging to a runner, newest first.
func (r *mongoPlanRepository) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.PlanDocument, error) {
	var plans []domain.PlanDocument
	filter := bson.M{"ownerId": ownerID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update writes the full document back if and only if the stored version
// still matches expectedVersion, incrementing the counter atomically. A
// stale expectedVersion yields ErrVersionConflict so the caller can reload
// and recompute instead of clobbering a concurrent write.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.PlanDocument, expectedVersion int64) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}

	filter := bson.M{"_id": plan.ID, "version": expectedVersion}
	updateDoc := bson.M{
		"$set": bson.M{
			"formatVersion": plan.FormatVersion,
			"startDate":     plan.StartDate,
			"raceDate":      plan.RaceDate,
			"days":          plan.Days,
			"weeklyView":    plan.WeeklyView,
			"plan":          plan.LegacyPlan,
			"phaseTimeline": plan.Timeline,
			"migration":     plan.Migration,
			"updatedAt":     time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Distinguish a missing plan from a lost race on the version.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": plan.ID})
		if countErr == nil && count > 0 {
			return repository.ErrVersionConflict
		}
		return repository.ErrNotFound
	}
	plan.Version = expectedVersion + 1
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Index creation failure is not fatal; queries fall back to scans.
	}
}
