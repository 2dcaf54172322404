// Package store holds the per-user in-memory collections driven by the
// HTTP layer. Each store mirrors the backend incrementally: mutations
// merge the returned row into the local collection instead of re-fetching,
// and every operation toggles a shared loading flag and error slot.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/notekeeper-server/internal/model"
)

// Notes is a stateful view over one user's notes.
type Notes struct {
	repo   model.NoteStore
	userID uuid.UUID

	mu      sync.Mutex
	items   []model.Note
	loading bool
	err     error
}

// NewNotes creates a note store scoped to the given user.
func NewNotes(repo model.NoteStore, userID uuid.UUID) *Notes {
	return &Notes{
		repo:   repo,
		userID: userID,
	}
}

// List fetches the user's notes, newest first, optionally filtered to one
// category, and replaces the in-memory collection.
func (s *Notes) List(ctx context.Context, categoryID *uuid.UUID) ([]model.Note, error) {
	s.begin()
	defer s.finish()

	if s.userID == uuid.Nil {
		s.fail(model.ErrUnauthenticated)
		return nil, model.ErrUnauthenticated
	}

	notes, err := s.repo.GetByOwner(ctx, s.userID, categoryID)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.items = notes
	s.mu.Unlock()

	return notes, nil
}

// Search fetches the user's notes whose title or content contains the
// term, newest first, and replaces the in-memory collection. An empty
// term is not special-cased here; call List instead.
func (s *Notes) Search(ctx context.Context, term string) ([]model.Note, error) {
	s.begin()
	defer s.finish()

	if s.userID == uuid.Nil {
		s.fail(model.ErrUnauthenticated)
		return nil, model.ErrUnauthenticated
	}

	notes, err := s.repo.Search(ctx, s.userID, term)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.items = notes
	s.mu.Unlock()

	return notes, nil
}

// Create persists a note and prepends the returned row to the collection.
func (s *Notes) Create(ctx context.Context, title string, content *string, categoryID *uuid.UUID) (model.Note, error) {
	s.begin()
	defer s.finish()

	note, err := s.repo.Create(ctx, model.Note{
		ID:         uuid.New(),
		OwnerID:    s.userID,
		Title:      title,
		Content:    content,
		CategoryID: categoryID,
	})
	if err != nil {
		s.fail(err)
		return model.Note{}, err
	}

	s.mu.Lock()
	s.items = append([]model.Note{note}, s.items...)
	s.mu.Unlock()

	return note, nil
}

// Edit persists changes to a note and replaces it in the collection by ID.
func (s *Notes) Edit(ctx context.Context, id uuid.UUID, title string, content *string, categoryID *uuid.UUID) (model.Note, error) {
	s.begin()
	defer s.finish()

	note, err := s.repo.Update(ctx, model.Note{
		ID:         id,
		OwnerID:    s.userID,
		Title:      title,
		Content:    content,
		CategoryID: categoryID,
	})
	if err != nil {
		s.fail(err)
		return model.Note{}, err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = note
		}
	}
	s.mu.Unlock()

	return note, nil
}

// Delete removes a note and filters it out of the collection. Deleting an
// absent ID is a no-op.
func (s *Notes) Delete(ctx context.Context, id uuid.UUID) error {
	s.begin()
	defer s.finish()

	if err := s.repo.Delete(ctx, s.userID, id); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, note := range s.items {
		if note.ID != id {
			kept = append(kept, note)
		}
	}
	s.items = kept
	s.mu.Unlock()

	return nil
}

// Items returns a snapshot of the in-memory collection.
func (s *Notes) Items() []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Note(nil), s.items...)
}

// Loading reports whether an operation is in flight.
func (s *Notes) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error recorded by the last failed operation.
func (s *Notes) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Notes) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
}

func (s *Notes) finish() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Notes) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
