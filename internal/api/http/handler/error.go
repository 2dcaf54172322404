package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dtroode/notekeeper-server/internal/model"
)

// handleError maps domain errors to HTTP status codes and writes the
// JSON error body. Unknown errors are reported as 500 without leaking
// their message.
func handleError(w http.ResponseWriter, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, model.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrUnauthenticated),
		errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMismatch):
		writeJSON(w, http.StatusUnauthorized, errorBody(err.Error()))
	case errors.Is(err, model.ErrResetTokenExpired),
		errors.Is(err, model.ErrResetTokenConsumed):
		writeJSON(w, http.StatusGone, errorBody(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
	}
}
