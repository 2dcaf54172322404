package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/notekeeper-server/internal/model"
)

// Categories is a stateful view over one user's categories.
type Categories struct {
	repo   model.CategoryStore
	userID uuid.UUID

	mu      sync.Mutex
	items   []model.Category
	loading bool
	err     error
}

// NewCategories creates a category store scoped to the given user.
func NewCategories(repo model.CategoryStore, userID uuid.UUID) *Categories {
	return &Categories{
		repo:   repo,
		userID: userID,
	}
}

// List fetches the user's categories and replaces the in-memory
// collection. Without a resolved user the store records the failure and
// never issues a query.
func (s *Categories) List(ctx context.Context) ([]model.Category, error) {
	s.begin()
	defer s.finish()

	if s.userID == uuid.Nil {
		s.fail(model.ErrUnauthenticated)
		return nil, model.ErrUnauthenticated
	}

	categories, err := s.repo.GetByOwner(ctx, s.userID)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.items = categories
	s.mu.Unlock()

	return categories, nil
}

// Create persists a category and appends the returned row to the
// collection. An empty description is stored as NULL, never as "".
func (s *Categories) Create(ctx context.Context, name, description string) (model.Category, error) {
	s.begin()
	defer s.finish()

	category, err := s.repo.Create(ctx, model.Category{
		ID:          uuid.New(),
		OwnerID:     s.userID,
		Name:        name,
		Description: normalizeDescription(description),
	})
	if err != nil {
		s.fail(err)
		return model.Category{}, err
	}

	s.mu.Lock()
	s.items = append(s.items, category)
	s.mu.Unlock()

	return category, nil
}

// Edit persists changes to a category and replaces it in the collection
// by ID. Description normalization matches Create.
func (s *Categories) Edit(ctx context.Context, id uuid.UUID, name, description string) (model.Category, error) {
	s.begin()
	defer s.finish()

	category, err := s.repo.Update(ctx, model.Category{
		ID:          id,
		OwnerID:     s.userID,
		Name:        name,
		Description: normalizeDescription(description),
	})
	if err != nil {
		s.fail(err)
		return model.Category{}, err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = category
		}
	}
	s.mu.Unlock()

	return category, nil
}

// Delete removes a category and filters it out of the collection.
// Deleting an absent ID is a no-op.
func (s *Categories) Delete(ctx context.Context, id uuid.UUID) error {
	s.begin()
	defer s.finish()

	if err := s.repo.Delete(ctx, s.userID, id); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, category := range s.items {
		if category.ID != id {
			kept = append(kept, category)
		}
	}
	s.items = kept
	s.mu.Unlock()

	return nil
}

// Items returns a snapshot of the in-memory collection.
func (s *Categories) Items() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.items...)
}

// Loading reports whether an operation is in flight.
func (s *Categories) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error recorded by the last failed operation.
func (s *Categories) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Categories) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
}

func (s *Categories) finish() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Categories) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func normalizeDescription(description string) *string {
	if description == "" {
		return nil
	}
	return &description
}
