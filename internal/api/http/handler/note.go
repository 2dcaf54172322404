package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/notekeeper-server/internal/logger"
	"github.com/dtroode/notekeeper-server/internal/model"
	"github.com/dtroode/notekeeper-server/internal/store"
)

// Note handles note endpoints through the per-user note store.
type Note struct {
	stores         *store.Manager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewNote creates a new Note handler.
func NewNote(stores *store.Manager, contextManager model.ContextManager, logger *logger.Logger) *Note {
	return &Note{
		stores:         stores,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Note) store(r *http.Request) (*store.Notes, bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		return nil, false
	}
	return h.stores.Notes(userID), true
}

// List handles GET /api/notes. A q parameter switches to search; an
// empty q behaves the same as no q at all. A category parameter filters
// to one category.
func (h *Note) List(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	var (
		notes []model.Note
		err   error
	)

	if term := r.URL.Query().Get("q"); term != "" {
		notes, err = s.Search(r.Context(), term)
	} else {
		var categoryID *uuid.UUID
		if raw := r.URL.Query().Get("category"); raw != "" {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				writeJSON(w, http.StatusBadRequest, errorBody("invalid category id"))
				return
			}
			categoryID = &id
		}
		notes, err = s.List(r.Context(), categoryID)
	}
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newNoteResponses(notes))
}

// Create handles POST /api/notes.
func (h *Note) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	var req NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	note, err := s.Create(r.Context(), req.Title, req.Content, req.CategoryID)
	if err != nil {
		h.logger.Error("note create failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newNoteResponse(note))
}

// Update handles PUT /api/notes/{id}.
func (h *Note) Update(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}

	var req NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	note, err := s.Edit(r.Context(), id, req.Title, req.Content, req.CategoryID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newNoteResponse(note))
}

// Delete handles DELETE /api/notes/{id}. Deleting an unknown ID still
// responds 204.
func (h *Note) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}

	if err := s.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
