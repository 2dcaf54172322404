package handler

import (
	"net/http"
	"time"

	"github.com/dtroode/notekeeper-server/internal/model"
)

const (
	accessCookieTTL  = 15 * time.Minute
	refreshCookieTTL = 30 * 24 * time.Hour
)

// setSessionCookies persists the token pair as HttpOnly cookies so the
// session survives page navigations.
func setSessionCookies(w http.ResponseWriter, r *http.Request, sess model.Session) {
	setTokenCookies(w, r, sess.AccessToken, sess.RefreshToken, sess.ExpiresAt)
}

func setTokenCookies(w http.ResponseWriter, r *http.Request, accessToken, refreshToken string, accessExpires time.Time) {
	secure := r.TLS != nil

	http.SetCookie(w, &http.Cookie{
		Name:     model.CookieAccessToken,
		Value:    accessToken,
		Path:     "/",
		Expires:  accessExpires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     model.CookieRefreshToken,
		Value:    refreshToken,
		Path:     "/",
		Expires:  time.Now().Add(refreshCookieTTL),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookies expires both token cookies.
func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{model.CookieAccessToken, model.CookieRefreshToken} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
