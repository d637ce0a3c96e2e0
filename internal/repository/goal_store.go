package repository

import (
	"context"

	"praktikmaal_backend/internal/model"
)

// GoalStore is the persistence seam for the goal collection. Implementations
// are stateless translation layers to a durable store; the in-memory
// collection is owned by the goal service, never cached here.
//
// Contract:
//   - List returns the user's goals newest-first by creation time.
//   - Create assigns the id, defaults status to red and reflection to "",
//     and stamps both timestamps. The returned record is canonical.
//   - Update applies only the fields present in changes and always refreshes
//     updatedAt. A missing id yields util.ErrGoalNotFound.
//   - Delete of a nonexistent id yields util.ErrGoalNotFound from every
//     implementation.
type GoalStore interface {
	List(ctx context.Context, userID uint) ([]model.Goal, error)
	Create(ctx context.Context, userID uint, fields model.Goal) (*model.Goal, error)
	Update(ctx context.Context, userID uint, id string, changes model.GoalChanges) (*model.Goal, error)
	Delete(ctx context.Context, userID uint, id string) error
}
