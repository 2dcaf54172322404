package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/notekeeper-server/internal/model"
	"github.com/dtroode/notekeeper-server/internal/session"
)

// AuthService is the session store's view of the auth service.
type AuthService interface {
	SignUp(ctx context.Context, email, password, displayName string) (model.Session, error)
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	ResetPassword(ctx context.Context, email string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.Session, error)
	GetSession(ctx context.Context, userID uuid.UUID) (model.Session, error)
}

// Session tracks the current authenticated session. Besides explicit
// calls, the store follows auth-state changes published by the broker
// (sign-in elsewhere, token refresh, sign-out) until Close is called.
// Close tears the subscription down exactly once.
type Session struct {
	auth   AuthService
	broker *session.Broker

	mu      sync.Mutex
	current model.Session
	loading bool
	err     error

	sub       *session.Subscription
	events    chan model.SessionEvent
	watchDone chan struct{}
	closeOnce sync.Once
}

// NewSession creates an unauthenticated session store.
func NewSession(auth AuthService, broker *session.Broker) *Session {
	return &Session{
		auth:   auth,
		broker: broker,
		events: make(chan model.SessionEvent, 16),
	}
}

// Attach creates a session store for an already-authenticated user,
// resolving the stored session and subscribing to its changes.
func Attach(ctx context.Context, auth AuthService, broker *session.Broker, userID uuid.UUID) (*Session, error) {
	s := NewSession(auth, broker)

	s.begin()
	defer s.finish()

	current, err := auth.GetSession(ctx, userID)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.current = current
	s.mu.Unlock()

	s.watch(userID)

	return s, nil
}

// SignUp registers a new user and tracks the resulting session.
func (s *Session) SignUp(ctx context.Context, email, password, displayName string) (model.Session, error) {
	s.begin()
	defer s.finish()

	sess, err := s.auth.SignUp(ctx, email, password, displayName)
	if err != nil {
		s.fail(err)
		return model.Session{}, err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	s.watch(sess.UserID)

	return sess, nil
}

// SignIn authenticates and tracks the resulting session.
func (s *Session) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	s.begin()
	defer s.finish()

	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.fail(err)
		return model.Session{}, err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	s.watch(sess.UserID)

	return sess, nil
}

// SignOut revokes the tracked session.
func (s *Session) SignOut(ctx context.Context) error {
	s.begin()
	defer s.finish()

	s.mu.Lock()
	refreshToken := s.current.RefreshToken
	s.mu.Unlock()

	if err := s.auth.SignOut(ctx, refreshToken); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.current = model.Session{}
	s.mu.Unlock()

	return nil
}

// ResetPassword dispatches a recovery link for the email.
func (s *Session) ResetPassword(ctx context.Context, email string) error {
	s.begin()
	defer s.finish()

	if err := s.auth.ResetPassword(ctx, email); err != nil {
		s.fail(err)
		return err
	}

	return nil
}

// UpdateProfile merges profile fields into the tracked session's metadata.
func (s *Session) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.Session, error) {
	s.begin()
	defer s.finish()

	s.mu.Lock()
	userID := s.current.UserID
	s.mu.Unlock()

	if userID == uuid.Nil {
		s.fail(model.ErrUnauthenticated)
		return model.Session{}, model.ErrUnauthenticated
	}

	sess, err := s.auth.UpdateProfile(ctx, userID, update)
	if err != nil {
		s.fail(err)
		return model.Session{}, err
	}

	s.mu.Lock()
	s.current.Email = sess.Email
	s.current.Metadata = sess.Metadata
	current := s.current
	s.mu.Unlock()

	return current, nil
}

// Current returns the tracked session; the zero value when signed out.
func (s *Session) Current() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// DisplayName resolves the display name of the tracked session, or ""
// when no session is active.
func (s *Session) DisplayName() string {
	return s.Current().DisplayName()
}

// Loading reports whether an operation is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error recorded by the last failed operation.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
}

func (s *Session) finish() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Events exposes the auth-state changes observed by this store. The
// channel closes when the store is closed.
func (s *Session) Events() <-chan model.SessionEvent {
	return s.events
}

// Close tears down the broker subscription. Safe to call more than once;
// the subscription is unsubscribed exactly once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		sub := s.sub
		done := s.watchDone
		s.mu.Unlock()

		if sub == nil {
			close(s.events)
			return
		}
		sub.Close()
		<-done
	})
}

// watch applies broker events to the tracked session until the
// subscription closes. Only the first authenticated user is watched; the
// store is scoped to one identity for its lifetime.
func (s *Session) watch(userID uuid.UUID) {
	s.mu.Lock()
	if s.sub != nil {
		s.mu.Unlock()
		return
	}
	sub := s.broker.Subscribe(userID)
	done := make(chan struct{})
	s.sub = sub
	s.watchDone = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer close(s.events)
		for event := range sub.C {
			s.apply(event)
			select {
			case s.events <- event:
			default:
			}
		}
	}()
}

func (s *Session) apply(event model.SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Type {
	case model.SessionSignedOut:
		s.current = model.Session{}
	case model.SessionSignedIn, model.SessionProfileUpdated:
		s.current.UserID = event.Session.UserID
		s.current.Email = event.Session.Email
		s.current.Metadata = event.Session.Metadata
	case model.SessionTokenRefreshed:
		// token state lives with the client; nothing to merge
	}
}
