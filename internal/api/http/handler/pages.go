package handler

import (
	"html/template"
	"net/http"

	"github.com/dtroode/notekeeper-server/internal/api/http/middleware"
	"github.com/dtroode/notekeeper-server/internal/logger"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} — Notekeeper</title></head>
<body>
<main id="app" data-page="{{.Page}}"{{if .DisplayName}} data-user="{{.DisplayName}}"{{end}}></main>
</body>
</html>
`))

type pageData struct {
	Title       string
	Page        string
	DisplayName string
}

// Pages serves the HTML shells the client app boots from.
type Pages struct {
	logger *logger.Logger
}

// NewPages creates a new Pages handler.
func NewPages(logger *logger.Logger) *Pages {
	return &Pages{logger: logger}
}

func (h *Pages) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Error("page render failed", "page", data.Page, "error", err.Error())
	}
}

// Home serves the notes workspace page.
func (h *Pages) Home(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Notes", Page: "home"}
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		data.DisplayName = sess.DisplayName()
	}
	h.render(w, data)
}

// Login serves the sign-in page.
func (h *Pages) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, pageData{Title: "Sign in", Page: "login"})
}

// Register serves the sign-up page.
func (h *Pages) Register(w http.ResponseWriter, r *http.Request) {
	h.render(w, pageData{Title: "Sign up", Page: "register"})
}

// ForgotPassword serves the recovery-request page.
func (h *Pages) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.render(w, pageData{Title: "Forgot password", Page: "forgot-password"})
}

// ResetPassword serves the recovery-completion page.
func (h *Pages) ResetPassword(w http.ResponseWriter, r *http.Request) {
	h.render(w, pageData{Title: "Reset password", Page: "reset-password"})
}
