package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cookie names used to persist the session token pair across navigations.
const (
	CookieAccessToken  = "nk_access_token"
	CookieRefreshToken = "nk_refresh_token"
)

// DefaultDisplayName is the last-resort display name for a session whose
// metadata, email and ID all failed to produce one.
const DefaultDisplayName = "user"

// Session represents the authenticated identity and token state for the
// current user. A zero-value Session means no user is signed in.
type Session struct {
	UserID       uuid.UUID
	Email        string
	Metadata     map[string]string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Active reports whether the session belongs to a signed-in user.
func (s Session) Active() bool {
	return s.UserID != uuid.Nil
}

// DisplayName resolves a name to show for the session, in priority order:
// explicit metadata display name, the email local part, the first eight
// characters of the user ID, then DefaultDisplayName. Returns the empty
// string when no user is signed in.
func (s Session) DisplayName() string {
	if !s.Active() {
		return ""
	}
	if name := s.Metadata[MetadataDisplayName]; name != "" {
		return name
	}
	if local := strings.Split(s.Email, "@")[0]; local != "" {
		return local
	}
	if id := s.UserID.String(); len(id) >= 8 {
		return id[:8]
	}
	return DefaultDisplayName
}

// SessionEventType enumerates auth-state changes published by the session
// event broker.
type SessionEventType string

const (
	// SessionSignedIn is published after a successful sign-in or sign-up.
	SessionSignedIn SessionEventType = "signed_in"
	// SessionSignedOut is published after a sign-out or full revocation.
	SessionSignedOut SessionEventType = "signed_out"
	// SessionTokenRefreshed is published after a token pair rotation.
	SessionTokenRefreshed SessionEventType = "token_refreshed"
	// SessionProfileUpdated is published after a profile metadata change.
	SessionProfileUpdated SessionEventType = "profile_updated"
)

// SessionEvent describes a single auth-state change for one user.
type SessionEvent struct {
	Type    SessionEventType `json:"type"`
	UserID  uuid.UUID        `json:"user_id"`
	Session Session          `json:"-"`
}
