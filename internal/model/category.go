package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CategoryStore defines persistence operations for categories, scoped to
// the owning user.
type CategoryStore interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, category Category) (Category, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Category groups notes under a user-defined name. Description is
// nullable; an absent description is stored as NULL, never as "".
type Category struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
}
