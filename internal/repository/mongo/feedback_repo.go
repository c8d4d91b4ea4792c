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

const feedbackCollectionName = "workout_feedback"

// mongoFeedbackRepository implements repository.FeedbackRepository
type mongoFeedbackRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedbackRepository creates a new feedback repository.
func NewMongoFeedbackRepository(db *mongo.Database) repository.FeedbackRepository {
	return &mongoFeedbackRepository{
		collection: db.Collection(feedbackCollectionName),
	}
}

// Append inserts one feedback entry. Feedback is append-only; there is no
// corresponding update or delete.
func (r *mongoFeedbackRepository) Append(ctx context.Context, feedback *domain.WorkoutFeedback) (primitive.ObjectID, error) {
	if feedback.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("feedback requires a planId")
	}
	if feedback.WeekNumber < 1 {
		return primitive.NilObjectID, errors.New("feedback requires a positive week number")
	}
	feedback.ID = primitive.NewObjectID()
	if feedback.LoggedAt.IsZero() {
		feedback.LoggedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted feedback ID")
	}
	return insertedID, nil
}

// KeyWorkoutsInWindow returns key-workout feedback for a plan within an
// inclusive week range, oldest first.
func (r *mongoFeedbackRepository) KeyWorkoutsInWindow(ctx context.Context, planID primitive.ObjectID, fromWeek, toWeek int) ([]domain.WorkoutFeedback, error) {
	var entries []domain.WorkoutFeedback
	filter := bson.M{
		"planId":       planID,
		"isKeyWorkout": true,
		"weekNumber":   bson.M{"$gte": fromWeek, "$lte": toWeek},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}, {Key: "loggedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureFeedbackIndexes creates necessary indexes. Call during startup.
func EnsureFeedbackIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "weekNumber", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "isKeyWorkout", Value: 1}, {Key: "weekNumber", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal on startup.
	}
}
