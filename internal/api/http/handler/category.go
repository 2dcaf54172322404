package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/notekeeper-server/internal/logger"
	"github.com/dtroode/notekeeper-server/internal/model"
	"github.com/dtroode/notekeeper-server/internal/store"
)

// Category handles category endpoints through the per-user category store.
type Category struct {
	stores         *store.Manager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewCategory creates a new Category handler.
func NewCategory(stores *store.Manager, contextManager model.ContextManager, logger *logger.Logger) *Category {
	return &Category{
		stores:         stores,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Category) store(r *http.Request) (*store.Categories, bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		return nil, false
	}
	return h.stores.Categories(userID), true
}

// List handles GET /api/categories.
func (h *Category) List(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	categories, err := s.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCategoryResponses(categories))
}

// Create handles POST /api/categories.
func (h *Category) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	category, err := s.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		h.logger.Error("category create failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newCategoryResponse(category))
}

// Update handles PUT /api/categories/{id}.
func (h *Category) Update(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid category id"))
		return
	}

	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	category, err := s.Edit(r.Context(), id, req.Name, req.Description)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newCategoryResponse(category))
}

// Delete handles DELETE /api/categories/{id}. Notes keep existing with
// their category reference cleared.
func (h *Category) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid category id"))
		return
	}

	if err := s.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
