package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpcontext "github.com/dtroode/notekeeper-server/internal/api/http/context"
	"github.com/dtroode/notekeeper-server/internal/model"
	"github.com/dtroode/notekeeper-server/internal/testutil"
)

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestAuthenticate_Handle(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		accessCookie   string
		tokenSvcUserID uuid.UUID
		tokenSvcErr    error
		wantStatus     int
		wantNextCalled bool
	}{
		{
			name:           "missing token",
			wantStatus:     http.StatusUnauthorized,
			wantNextCalled: false,
		},
		{
			name:           "invalid bearer token",
			authHeader:     "Bearer invalid",
			tokenSvcUserID: uuid.Nil,
			tokenSvcErr:    model.ErrTokenExpired,
			wantStatus:     http.StatusUnauthorized,
			wantNextCalled: false,
		},
		{
			name:           "nil user id from token",
			authHeader:     "Bearer token",
			tokenSvcUserID: uuid.Nil,
			wantStatus:     http.StatusUnauthorized,
			wantNextCalled: false,
		},
		{
			name:           "valid bearer token",
			authHeader:     "Bearer token",
			tokenSvcUserID: userID,
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "valid cookie token",
			accessCookie:   "cookie-token",
			tokenSvcUserID: userID,
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := new(MockTokenService)
			if tt.authHeader != "" || tt.accessCookie != "" {
				svc.On("GetUserID", mock.Anything, mock.AnythingOfType("string")).
					Return(tt.tokenSvcUserID, tt.tokenSvcErr)
			}

			cm := httpcontext.NewManager()
			m := NewAuthenticate(svc, cm, testutil.MakeNoopLogger())

			nextCalled := false
			var gotUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = cm.GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.accessCookie != "" {
				req.AddCookie(&http.Cookie{Name: model.CookieAccessToken, Value: tt.accessCookie})
			}

			w := httptest.NewRecorder()
			m.Handle(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			if tt.wantNextCalled {
				assert.Equal(t, tt.tokenSvcUserID, gotUserID)
			}
		})
	}
}
