package repository

import (
	"alcyxob/runplan/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound        = RepositoryError("not found")
	ErrVersionConflict = RepositoryError("version conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// PlanRepository stores one document per plan. Update is a compare-and-swap
// on the document's version counter: a write against a stale version
// returns ErrVersionConflict, which serializes concurrent migrations of
// the same plan.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.PlanDocument) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanDocument, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.PlanDocument, error)
	Update(ctx context.Context, plan *domain.PlanDocument, expectedVersion int64) error
}

// FeedbackRepository appends and queries workout feedback. Entries are
// append-only; there is no update or delete.
type FeedbackRepository interface {
	Append(ctx context.Context, feedback *domain.WorkoutFeedback) (primitive.ObjectID, error)
	KeyWorkoutsInWindow(ctx context.Context, planID primitive.ObjectID, fromWeek, toWeek int) ([]domain.WorkoutFeedback, error)
}
