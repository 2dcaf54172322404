package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/notekeeper-server/internal/model"
)

type MockNoteStore struct {
	mock.Mock
}

func (m *MockNoteStore) GetByOwner(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]model.Note, error) {
	args := m.Called(ctx, ownerID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Note), args.Error(1)
}

func (m *MockNoteStore) Search(ctx context.Context, ownerID uuid.UUID, term string) ([]model.Note, error) {
	args := m.Called(ctx, ownerID, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Note), args.Error(1)
}

func (m *MockNoteStore) Create(ctx context.Context, note model.Note) (model.Note, error) {
	args := m.Called(ctx, note)
	return args.Get(0).(model.Note), args.Error(1)
}

func (m *MockNoteStore) Update(ctx context.Context, note model.Note) (model.Note, error) {
	args := m.Called(ctx, note)
	return args.Get(0).(model.Note), args.Error(1)
}

func (m *MockNoteStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func TestNotes_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	existing := []model.Note{
		{ID: uuid.New(), OwnerID: userID, Title: "newest"},
		{ID: uuid.New(), OwnerID: userID, Title: "oldest"},
	}

	repo := new(MockNoteStore)
	repo.On("GetByOwner", ctx, userID, (*uuid.UUID)(nil)).Return(existing, nil)

	s := NewNotes(repo, userID)

	got, err := s.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, existing, got)
	assert.Equal(t, existing, s.Items())
	assert.False(t, s.Loading())
	assert.NoError(t, s.Err())

	repo.AssertExpectations(t)
}

func TestNotes_List_unauthenticated(t *testing.T) {
	repo := new(MockNoteStore)

	s := NewNotes(repo, uuid.Nil)

	_, err := s.List(context.Background(), nil)
	require.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.ErrorIs(t, s.Err(), model.ErrUnauthenticated)

	repo.AssertNotCalled(t, "GetByOwner", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotes_List_repoError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repoErr := errors.New("connection reset")

	repo := new(MockNoteStore)
	repo.On("GetByOwner", ctx, userID, (*uuid.UUID)(nil)).Return(nil, repoErr)

	s := NewNotes(repo, userID)

	_, err := s.List(ctx, nil)
	require.ErrorIs(t, err, repoErr)
	assert.ErrorIs(t, s.Err(), repoErr)
	assert.False(t, s.Loading())
}

func TestNotes_Search_replacesItems(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	all := []model.Note{
		{ID: uuid.New(), Title: "groceries"},
		{ID: uuid.New(), Title: "meeting notes"},
	}
	matched := []model.Note{all[1]}

	repo := new(MockNoteStore)
	repo.On("GetByOwner", ctx, userID, (*uuid.UUID)(nil)).Return(all, nil)
	repo.On("Search", ctx, userID, "meeting").Return(matched, nil)

	s := NewNotes(repo, userID)

	_, err := s.List(ctx, nil)
	require.NoError(t, err)

	got, err := s.Search(ctx, "meeting")
	require.NoError(t, err)
	assert.Equal(t, matched, got)
	assert.Equal(t, matched, s.Items())
}

func TestNotes_Create_prepends(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	existing := []model.Note{
		{ID: uuid.New(), OwnerID: userID, Title: "old"},
	}
	content := "fresh content"

	repo := new(MockNoteStore)
	repo.On("GetByOwner", ctx, userID, (*uuid.UUID)(nil)).Return(existing, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(n model.Note) bool {
		return n.OwnerID == userID && n.Title == "new" && n.Content != nil && *n.Content == content
	})).Return(model.Note{ID: uuid.New(), OwnerID: userID, Title: "new", Content: &content}, nil)

	s := NewNotes(repo, userID)

	_, err := s.List(ctx, nil)
	require.NoError(t, err)

	created, err := s.Create(ctx, "new", &content, nil)
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, existing[0].ID, items[1].ID)
}

func TestNotes_Edit_replacesByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	noteID := uuid.New()

	existing := []model.Note{
		{ID: noteID, OwnerID: userID, Title: "draft"},
		{ID: uuid.New(), OwnerID: userID, Title: "other"},
	}
	updated := model.Note{ID: noteID, OwnerID: userID, Title: "final"}

	repo := new(MockNoteStore)
	repo.On("GetByOwner", ctx, userID, (*uuid.UUID)(nil)).Return(existing, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(n model.Note) bool {
		return n.ID == noteID && n.Title == "final"
	})).Return(updated, nil)

	s := NewNotes(repo, userID)

	_, err := s.List(ctx, nil)
	require.NoError(t, err)

	_, err = s.Edit(ctx, noteID, "final", nil, nil)
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "final", items[0].Title)
	assert.Equal(t, "other", items[1].Title)
}

func TestNotes_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	noteID := uuid.New()

	existing := []model.Note{
		{ID: noteID, OwnerID: userID, Title: "doomed"},
		{ID: uuid.New(), OwnerID: userID, Title: "survivor"},
	}

	repo := new(MockNoteStore)
	repo.On("GetByOwner", ctx, userID, (*uuid.UUID)(nil)).Return(existing, nil)
	repo.On("Delete", ctx, userID, noteID).Return(nil)

	s := NewNotes(repo, userID)

	_, err := s.List(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, noteID))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "survivor", items[0].Title)
}

func TestNotes_Delete_absentID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	absent := uuid.New()

	existing := []model.Note{
		{ID: uuid.New(), OwnerID: userID, Title: "kept"},
	}

	repo := new(MockNoteStore)
	repo.On("GetByOwner", ctx, userID, (*uuid.UUID)(nil)).Return(existing, nil)
	repo.On("Delete", ctx, userID, absent).Return(nil)

	s := NewNotes(repo, userID)

	_, err := s.List(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, absent))
	assert.Len(t, s.Items(), 1)
}

func TestNotes_errorClearedOnNextOperation(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := new(MockNoteStore)
	repo.On("Search", ctx, userID, "boom").Return(nil, errors.New("boom")).Once()
	repo.On("GetByOwner", ctx, userID, (*uuid.UUID)(nil)).Return([]model.Note{}, nil)

	s := NewNotes(repo, userID)

	_, err := s.Search(ctx, "boom")
	require.Error(t, err)
	require.Error(t, s.Err())

	_, err = s.List(ctx, nil)
	require.NoError(t, err)
	assert.NoError(t, s.Err())
}
