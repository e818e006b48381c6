// Package ports defines the interfaces the application layer depends
// on. Infrastructure supplies the implementations.
package ports

import (
	"context"

	"deepthinker-backend/domain/core/aggregates"
	"deepthinker-backend/domain/core/entities"
	"deepthinker-backend/domain/core/valueobjects"
)

// ThoughtRepository persists individual thoughts
type ThoughtRepository interface {
	// Save persists a thought, creating or overwriting it
	Save(ctx context.Context, thought *entities.Thought) error

	// SaveBatch persists several thoughts in one round trip
	SaveBatch(ctx context.Context, thoughts []*entities.Thought) error

	// FindByID loads a thought from a canvas
	FindByID(ctx context.Context, canvasID valueobjects.CanvasID, id valueobjects.ThoughtID) (*entities.Thought, error)

	// FindByCanvas loads every thought on a canvas
	FindByCanvas(ctx context.Context, canvasID valueobjects.CanvasID) ([]*entities.Thought, error)

	// Delete removes a thought from a canvas
	Delete(ctx context.Context, canvasID valueobjects.CanvasID, id valueobjects.ThoughtID) error
}

// CanvasRepository persists canvas aggregates
type CanvasRepository interface {
	// Save persists canvas metadata
	Save(ctx context.Context, canvas *aggregates.Canvas) error

	// FindByID loads a canvas together with its thoughts
	FindByID(ctx context.Context, userID string, id valueobjects.CanvasID) (*aggregates.Canvas, error)

	// FindByUser lists a user's canvases without loading thoughts
	FindByUser(ctx context.Context, userID string) ([]*aggregates.Canvas, error)

	// Delete removes a canvas and its thoughts
	Delete(ctx context.Context, userID string, id valueobjects.CanvasID) error
}

// UserRepository persists user accounts, including their token ledger
type UserRepository interface {
	// Save persists a user, creating or overwriting it
	Save(ctx context.Context, user *entities.User) error

	// FindByID loads a user by their identifier
	FindByID(ctx context.Context, id string) (*entities.User, error)

	// FindByEmail loads a user by email address
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
}
