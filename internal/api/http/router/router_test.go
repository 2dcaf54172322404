package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/notekeeper-server/internal/api/http/context"
	"github.com/dtroode/notekeeper-server/internal/mailer"
	"github.com/dtroode/notekeeper-server/internal/model"
	"github.com/dtroode/notekeeper-server/internal/service"
	"github.com/dtroode/notekeeper-server/internal/session"
	"github.com/dtroode/notekeeper-server/internal/store"
	"github.com/dtroode/notekeeper-server/internal/testutil"
	"github.com/dtroode/notekeeper-server/internal/token"
)

// In-memory store fakes backing a full router for end-to-end tests.

type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]model.User)}
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return user, nil
}

func (s *memUserStore) UpdateMetadata(_ context.Context, id uuid.UUID, metadata map[string]string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	u.Metadata = metadata
	s.users[id] = u
	return u, nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

type memRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
}

func newMemRefreshTokenStore() *memRefreshTokenStore {
	return &memRefreshTokenStore{tokens: make(map[string]model.RefreshToken)}
}

func (s *memRefreshTokenStore) Create(_ context.Context, token model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.JTI] = token
	return nil
}

func (s *memRefreshTokenStore) GetByJTI(_ context.Context, jti string) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.tokens[jti]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return rt, nil
}

func (s *memRefreshTokenStore) RevokeByJTI(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.tokens[jti]
	if !ok {
		return model.ErrNotFound
	}
	now := rt.IssuedAt
	rt.RevokedAt = &now
	s.tokens[jti] = rt
	return nil
}

func (s *memRefreshTokenStore) RevokeAllByUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for jti, rt := range s.tokens {
		if rt.UserID == userID {
			now := rt.IssuedAt
			rt.RevokedAt = &now
			s.tokens[jti] = rt
		}
	}
	return nil
}

type memResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]model.ResetToken
}

func newMemResetTokenStore() *memResetTokenStore {
	return &memResetTokenStore{tokens: make(map[string]model.ResetToken)}
}

func (s *memResetTokenStore) Create(_ context.Context, token model.ResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = token
	return nil
}

func (s *memResetTokenStore) GetByToken(_ context.Context, token string) (model.ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.tokens[token]
	if !ok {
		return model.ResetToken{}, model.ErrNotFound
	}
	return rt, nil
}

func (s *memResetTokenStore) Consume(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.tokens[token]
	if !ok {
		return model.ErrNotFound
	}
	if rt.ConsumedAt != nil {
		return model.ErrResetTokenConsumed
	}
	now := rt.CreatedAt
	rt.ConsumedAt = &now
	s.tokens[token] = rt
	return nil
}

type memNoteStore struct {
	mu    sync.Mutex
	notes []model.Note
}

func (s *memNoteStore) GetByOwner(_ context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Note
	for _, n := range s.notes {
		if n.OwnerID != ownerID {
			continue
		}
		if categoryID != nil && (n.CategoryID == nil || *n.CategoryID != *categoryID) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *memNoteStore) Search(_ context.Context, ownerID uuid.UUID, term string) ([]model.Note, error) {
	return s.GetByOwner(context.Background(), ownerID, nil)
}

func (s *memNoteStore) Create(_ context.Context, note model.Note) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append([]model.Note{note}, s.notes...)
	return note, nil
}

func (s *memNoteStore) Update(_ context.Context, note model.Note) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notes {
		if n.ID == note.ID && n.OwnerID == note.OwnerID {
			s.notes[i] = note
			return note, nil
		}
	}
	return model.Note{}, model.ErrNotFound
}

func (s *memNoteStore) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.notes[:0]
	for _, n := range s.notes {
		if n.ID != id || n.OwnerID != ownerID {
			kept = append(kept, n)
		}
	}
	s.notes = kept
	return nil
}

type memCategoryStore struct {
	mu         sync.Mutex
	categories []model.Category
}

func (s *memCategoryStore) GetByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Category
	for _, c := range s.categories {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memCategoryStore) Create(_ context.Context, category model.Category) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, category)
	return category, nil
}

func (s *memCategoryStore) Update(_ context.Context, category model.Category) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.categories {
		if c.ID == category.ID && c.OwnerID == category.OwnerID {
			s.categories[i] = category
			return category, nil
		}
	}
	return model.Category{}, model.ErrNotFound
}

func (s *memCategoryStore) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id || c.OwnerID != ownerID {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	broker := session.NewBroker()
	t.Cleanup(broker.Stop)

	authService := service.NewAuth(
		newMemUserStore(),
		newMemResetTokenStore(),
		newMemRefreshTokenStore(),
		token.NewJWT("test-secret"),
		mailer.NewLog(lg),
		broker,
		"http://localhost:8080",
		lg,
	)
	stores := store.NewManager(&memNoteStore{}, &memCategoryStore{})

	r := New(authService, stores, broker, httpctx.NewManager(), nil, false, lg)
	return r.Register()
}

func registerUser(t *testing.T, router http.Handler, email string) []*http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": "password123"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	return w.Result().Cookies()
}

func TestRouter_healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_registerThenCRUDNotes(t *testing.T) {
	router := newTestRouter(t)
	cookies := registerUser(t, router, "ada@example.com")

	// Create a note with the session cookies.
	body, err := json.Marshal(map[string]string{"title": "first note"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/notes", bytes.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	// List comes back with the created note.
	req = httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var notes []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "first note", notes[0]["title"])
}

func TestRouter_apiRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_pagesRedirectWithoutSession(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))
}

func TestRouter_loginPageRedirectsAuthenticated(t *testing.T) {
	router := newTestRouter(t)
	cookies := registerUser(t, router, "ada@example.com")

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRouter_loginPageRendersAnonymously(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_sessionEndpoint(t *testing.T) {
	router := newTestRouter(t)
	cookies := registerUser(t, router, "ada@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ada", resp["display_name"])
}
