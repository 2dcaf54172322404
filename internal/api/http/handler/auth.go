package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/notekeeper-server/internal/logger"
	"github.com/dtroode/notekeeper-server/internal/model"
	"github.com/dtroode/notekeeper-server/internal/session"
	"github.com/dtroode/notekeeper-server/internal/store"
)

// AuthService defines the authentication operations the handlers need.
type AuthService interface {
	store.AuthService
	CompletePasswordReset(ctx context.Context, token, newPassword string) error
}

// TokenService defines token rotation operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
}

// Auth handles authentication endpoints. Each request that signs a user
// in or resolves an existing identity runs through a session store, so
// the loading and error bookkeeping matches the rest of the app.
type Auth struct {
	authService    AuthService
	tokenService   TokenService
	broker         *session.Broker
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(
	authService AuthService,
	tokenService TokenService,
	broker *session.Broker,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		tokenService:   tokenService,
		broker:         broker,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register handles POST /api/auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	s := store.NewSession(h.authService, h.broker)
	defer s.Close()

	sess, err := s.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		h.logger.Error("registration failed", "email", req.Email, "error", err.Error())
		handleError(w, err)
		return
	}

	setSessionCookies(w, r, sess)
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

// Login handles POST /api/auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	s := store.NewSession(h.authService, h.broker)
	defer s.Close()

	sess, err := s.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("login failed", "email", req.Email, "error", err.Error())
		handleError(w, err)
		return
	}

	setSessionCookies(w, r, sess)
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

// Logout handles POST /api/auth/logout. The cookies are always cleared,
// even when no refresh token was presented.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(model.CookieRefreshToken); err == nil && cookie.Value != "" {
		if err := h.authService.SignOut(r.Context(), cookie.Value); err != nil {
			h.logger.Error("logout revocation failed", "error", err.Error())
		}
	}

	clearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /api/auth/refresh, rotating the token pair.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(model.CookieRefreshToken)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody("missing refresh token"))
		return
	}

	accessToken, refreshToken, err := h.tokenService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		clearSessionCookies(w)
		handleError(w, err)
		return
	}

	setTokenCookies(w, r, accessToken, refreshToken, time.Now().Add(accessCookieTTL))
	w.WriteHeader(http.StatusNoContent)
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *Auth) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	s := store.NewSession(h.authService, h.broker)
	defer s.Close()

	if err := s.ResetPassword(r.Context(), req.Email); err != nil {
		h.logger.Error("password reset dispatch failed", "email", req.Email, "error", err.Error())
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// ResetPassword handles POST /api/auth/reset-password, completing a
// recovery flow. All existing sessions of the user are revoked, so the
// presented cookies are cleared as well.
func (h *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	if err := h.authService.CompletePasswordReset(r.Context(), req.Token, req.Password); err != nil {
		h.logger.Error("password reset failed", "error", err.Error())
		handleError(w, err)
		return
	}

	clearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateProfile handles PUT /api/profile.
func (h *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	var req ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	s, err := store.Attach(r.Context(), h.authService, h.broker, userID)
	if err != nil {
		handleError(w, err)
		return
	}
	defer s.Close()

	sess, err := s.UpdateProfile(r.Context(), model.ProfileUpdate{
		DisplayName: req.DisplayName,
		Username:    req.Username,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
	})
	if err != nil {
		h.logger.Error("profile update failed", "user_id", userID.String(), "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}
