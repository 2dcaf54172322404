package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dtroode/notekeeper-server/internal/logger"
	"github.com/dtroode/notekeeper-server/internal/model"
	"github.com/dtroode/notekeeper-server/internal/session"
	"github.com/dtroode/notekeeper-server/internal/store"
)

// Session handles session introspection and the auth-state event stream.
type Session struct {
	authService    AuthService
	broker         *session.Broker
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewSession creates a new Session handler.
func NewSession(
	authService AuthService,
	broker *session.Broker,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Session {
	return &Session{
		authService:    authService,
		broker:         broker,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Get handles GET /api/session, describing the signed-in user.
func (h *Session) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	s, err := store.Attach(r.Context(), h.authService, h.broker, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	defer s.Close()

	writeJSON(w, http.StatusOK, newSessionResponse(s.Current()))
}

// Events handles GET /api/session/events, streaming the user's
// auth-state changes as server-sent events until the client disconnects.
func (h *Session) Events(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorBody("streaming unsupported"))
		return
	}

	s, err := store.Attach(r.Context(), h.authService, h.broker, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	defer s.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-s.Events():
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("session event encode failed", "error", err.Error())
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
			flusher.Flush()
		}
	}
}
