package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/notekeeper-server/internal/api/http/context"
	"github.com/dtroode/notekeeper-server/internal/model"
	"github.com/dtroode/notekeeper-server/internal/store"
	"github.com/dtroode/notekeeper-server/internal/testutil"
)

func newCategoryHandler(repo *MockCategoryRepo) *Category {
	return NewCategory(store.NewManager(new(MockNoteRepo), repo), httpctx.NewManager(), testutil.MakeNoopLogger())
}

func TestCategory_List(t *testing.T) {
	userID := uuid.New()
	categories := []model.Category{
		{ID: uuid.New(), OwnerID: userID, Name: "personal"},
		{ID: uuid.New(), OwnerID: userID, Name: "work"},
	}

	repo := new(MockCategoryRepo)
	repo.On("GetByOwner", mock.Anything, userID).Return(categories, nil)

	h := newCategoryHandler(repo)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/categories", nil), userID)
	w := httptest.NewRecorder()
	h.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []CategoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "personal", resp[0].Name)
}

func TestCategory_List_unauthorized(t *testing.T) {
	h := newCategoryHandler(new(MockCategoryRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCategory_Create_emptyDescriptionPersistedAsNull(t *testing.T) {
	userID := uuid.New()

	repo := new(MockCategoryRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.OwnerID == userID && c.Name == "misc" && c.Description == nil
	})).Return(model.Category{ID: uuid.New(), OwnerID: userID, Name: "misc"}, nil)

	h := newCategoryHandler(repo)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/categories",
		jsonBody(t, CategoryRequest{Name: "misc"})), userID)
	w := httptest.NewRecorder()
	h.Create(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp CategoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Description)

	repo.AssertExpectations(t)
}

func TestCategory_Update_emptyDescriptionPersistedAsNull(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	repo := new(MockCategoryRepo)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.ID == categoryID && c.Name == "renamed" && c.Description == nil
	})).Return(model.Category{ID: categoryID, OwnerID: userID, Name: "renamed"}, nil)

	h := newCategoryHandler(repo)

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/categories/"+categoryID.String(),
		jsonBody(t, CategoryRequest{Name: "renamed"})), userID)
	req = withURLParam(req, "id", categoryID.String())

	w := httptest.NewRecorder()
	h.Update(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestCategory_Create_missingName(t *testing.T) {
	h := newCategoryHandler(new(MockCategoryRepo))

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/categories",
		jsonBody(t, CategoryRequest{})), uuid.New())
	w := httptest.NewRecorder()
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategory_Delete(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	repo := new(MockCategoryRepo)
	repo.On("Delete", mock.Anything, userID, categoryID).Return(nil)

	h := newCategoryHandler(repo)

	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/categories/"+categoryID.String(), nil), userID)
	req = withURLParam(req, "id", categoryID.String())

	w := httptest.NewRecorder()
	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}
