package middleware

import "net/http"

// RequireAuth re-confirms at the page level that a session was resolved,
// redirecting to redirectTo when none is present. An empty redirectTo
// defaults to the login page. onAuthenticated, when set, is invoked with
// the request before the page renders.
func RequireAuth(redirectTo string, onAuthenticated func(r *http.Request)) func(http.Handler) http.Handler {
	if redirectTo == "" {
		redirectTo = loginPath
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SessionFromContext(r.Context()); !ok {
				http.Redirect(w, r, redirectTo, http.StatusFound)
				return
			}
			if onAuthenticated != nil {
				onAuthenticated(r)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectAuthenticated sends requests that carry a session to the given
// target. Used on the login and register pages so signed-in users never
// see the auth forms.
func RedirectAuthenticated(to string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SessionFromContext(r.Context()); ok {
				http.Redirect(w, r, to, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
