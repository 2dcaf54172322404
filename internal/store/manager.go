package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/notekeeper-server/internal/model"
)

// Manager hands out one note store and one category store per user, so
// incremental merges survive across requests from the same user.
type Manager struct {
	noteRepo     model.NoteStore
	categoryRepo model.CategoryStore

	mu         sync.Mutex
	notes      map[uuid.UUID]*Notes
	categories map[uuid.UUID]*Categories
}

// NewManager creates a store manager over the given repositories.
func NewManager(noteRepo model.NoteStore, categoryRepo model.CategoryStore) *Manager {
	return &Manager{
		noteRepo:     noteRepo,
		categoryRepo: categoryRepo,
		notes:        make(map[uuid.UUID]*Notes),
		categories:   make(map[uuid.UUID]*Categories),
	}
}

// Notes returns the note store for the given user, creating it on first use.
func (m *Manager) Notes(userID uuid.UUID) *Notes {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.notes[userID]
	if !ok {
		st = NewNotes(m.noteRepo, userID)
		m.notes[userID] = st
	}
	return st
}

// Categories returns the category store for the given user, creating it
// on first use.
func (m *Manager) Categories(userID uuid.UUID) *Categories {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.categories[userID]
	if !ok {
		st = NewCategories(m.categoryRepo, userID)
		m.categories[userID] = st
	}
	return st
}
