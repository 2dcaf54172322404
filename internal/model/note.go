package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NoteStore defines persistence operations for notes. Every query is
// scoped to the owning user; a note is never visible to another user.
type NoteStore interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]Note, error)
	Search(ctx context.Context, ownerID uuid.UUID, term string) ([]Note, error)
	Create(ctx context.Context, note Note) (Note, error)
	Update(ctx context.Context, note Note) (Note, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Note represents a short text note, optionally tagged with one category.
// Content and CategoryID are nullable; a nil CategoryID means "no category".
type Note struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Title      string
	Content    *string
	CategoryID *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
