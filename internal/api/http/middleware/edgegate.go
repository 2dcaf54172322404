package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dtroode/notekeeper-server/internal/logger"
	"github.com/dtroode/notekeeper-server/internal/model"
)

// Page routes reachable without a session. Everything else is protected.
var publicRoutes = []string{
	"/auth/login",
	"/auth/register",
	"/auth/forgot-password",
	"/auth/reset-password",
	"/auth/callback",
}

const loginPath = "/auth/login"

// SessionResolver resolves the session presented by a request, usually
// from its cookies. A zero session with ok=false means the request is
// unauthenticated; an error means resolution itself failed.
type SessionResolver interface {
	Resolve(r *http.Request) (sess model.Session, ok bool, err error)
}

// EdgeGate runs ahead of page rendering and redirects based on session
// presence. Protected paths without a session go to the login page;
// the login and register pages with a session go to the root. Any
// resolution failure counts as "not authenticated" — the gate never
// fails open.
type EdgeGate struct {
	resolver   SessionResolver
	rootPublic bool
	logger     *logger.Logger
}

// NewEdgeGate creates a new EdgeGate middleware instance. rootPublic
// opts the root path out of the protected-by-default policy.
func NewEdgeGate(resolver SessionResolver, rootPublic bool, logger *logger.Logger) *EdgeGate {
	return &EdgeGate{resolver: resolver, rootPublic: rootPublic, logger: logger}
}

// Handle classifies the path and redirects or passes through. A resolved
// session is stored in the request context for downstream handlers.
func (m *EdgeGate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, authenticated := m.resolve(r)

		path := r.URL.Path

		if authenticated {
			if path == "/auth/login" || path == "/auth/register" {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(SessionToContext(r.Context(), sess)))
			return
		}

		if isPublicPath(path) || (path == "/" && m.rootPublic) {
			next.ServeHTTP(w, r)
			return
		}

		http.Redirect(w, r, loginPath, http.StatusFound)
	})
}

// resolve asks the resolver for the request's session, treating errors
// and panics as "not authenticated".
func (m *EdgeGate) resolve(r *http.Request) (sess model.Session, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Error("session resolution panicked", "path", r.URL.Path, "panic", rec)
			sess, ok = model.Session{}, false
		}
	}()

	sess, ok, err := m.resolver.Resolve(r)
	if err != nil {
		m.logger.Error("session resolution failed", "path", r.URL.Path, "error", err.Error())
		return model.Session{}, false
	}
	return sess, ok
}

func isPublicPath(path string) bool {
	for _, route := range publicRoutes {
		if path == route || strings.HasPrefix(path, route+"/") {
			return true
		}
	}
	return false
}

type sessionContextKey struct{}

// SessionToContext stores a resolved session on the context.
func SessionToContext(ctx context.Context, sess model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext retrieves the session stored by the edge gate.
func SessionFromContext(ctx context.Context) (model.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(model.Session)
	return sess, ok && sess.Active()
}
