package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/notekeeper-server/internal/model"
)

// SessionService loads the stored session of a user.
type SessionService interface {
	GetSession(ctx context.Context, userID uuid.UUID) (model.Session, error)
}

// CookieResolver resolves sessions from the access-token cookie. A
// missing or invalid token is plain "not authenticated"; only a failure
// to load a validly identified user's session is an error.
type CookieResolver struct {
	tokenService   TokenService
	sessionService SessionService
}

// NewCookieResolver creates a new CookieResolver.
func NewCookieResolver(tokenService TokenService, sessionService SessionService) *CookieResolver {
	return &CookieResolver{tokenService: tokenService, sessionService: sessionService}
}

// Resolve implements SessionResolver.
func (c *CookieResolver) Resolve(r *http.Request) (model.Session, bool, error) {
	cookie, err := r.Cookie(model.CookieAccessToken)
	if err != nil || cookie.Value == "" {
		return model.Session{}, false, nil
	}

	userID, err := c.tokenService.GetUserID(r.Context(), cookie.Value)
	if err != nil || userID == uuid.Nil {
		return model.Session{}, false, nil
	}

	sess, err := c.sessionService.GetSession(r.Context(), userID)
	if err != nil {
		return model.Session{}, false, err
	}

	return sess, true, nil
}
