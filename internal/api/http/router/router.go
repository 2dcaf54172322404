// Package router assembles the HTTP surface: the JSON API under /api,
// the page shells behind the edge gate, and the operational endpoints.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/notekeeper-server/internal/api/http/handler"
	"github.com/dtroode/notekeeper-server/internal/api/http/middleware"
	"github.com/dtroode/notekeeper-server/internal/logger"
	"github.com/dtroode/notekeeper-server/internal/model"
	"github.com/dtroode/notekeeper-server/internal/service"
	"github.com/dtroode/notekeeper-server/internal/session"
	"github.com/dtroode/notekeeper-server/internal/store"
)

// Router wires handlers and middleware into one http.Handler.
type Router struct {
	authService    *service.Auth
	stores         *store.Manager
	broker         *session.Broker
	contextManager model.ContextManager
	allowedOrigins []string
	rootPublic     bool
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	stores *store.Manager,
	broker *session.Broker,
	contextManager model.ContextManager,
	allowedOrigins []string,
	rootPublic bool,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		stores:         stores,
		broker:         broker,
		contextManager: contextManager,
		allowedOrigins: allowedOrigins,
		rootPublic:     rootPublic,
		logger:         logger,
	}
}

// Register builds the route tree.
func (rt *Router) Register() http.Handler {
	tokenService := rt.authService.Tokens()

	logging := middleware.NewLogging(rt.logger)
	authenticate := middleware.NewAuthenticate(tokenService, rt.contextManager, rt.logger)
	resolver := middleware.NewCookieResolver(tokenService, rt.authService)
	edgeGate := middleware.NewEdgeGate(resolver, rt.rootPublic, rt.logger)

	authHandler := handler.NewAuth(rt.authService, tokenService, rt.broker, rt.contextManager, rt.logger)
	sessionHandler := handler.NewSession(rt.authService, rt.broker, rt.contextManager, rt.logger)
	noteHandler := handler.NewNote(rt.stores, rt.contextManager, rt.logger)
	categoryHandler := handler.NewCategory(rt.stores, rt.contextManager, rt.logger)
	pages := handler.NewPages(rt.logger)

	allowed := rt.allowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))
	r.Use(httprate.Limit(100, time.Minute))
	r.Use(logging.Handle)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate.Handle)

			r.Get("/session", sessionHandler.Get)
			r.Get("/session/events", sessionHandler.Events)
			r.Put("/profile", authHandler.UpdateProfile)

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", noteHandler.List)
				r.Post("/", noteHandler.Create)
				r.Put("/{id}", noteHandler.Update)
				r.Delete("/{id}", noteHandler.Delete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.List)
				r.Post("/", categoryHandler.Create)
				r.Put("/{id}", categoryHandler.Update)
				r.Delete("/{id}", categoryHandler.Delete)
			})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(edgeGate.Handle)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectAuthenticated("/"))
			r.Get("/auth/login", pages.Login)
			r.Get("/auth/register", pages.Register)
		})

		r.Get("/auth/forgot-password", pages.ForgotPassword)
		r.Get("/auth/reset-password", pages.ResetPassword)

		r.Group(func(r chi.Router) {
			// The root page is protected unless the integrator opted
			// into the public-root carve-out.
			if !rt.rootPublic {
				r.Use(middleware.RequireAuth("", nil))
			}
			r.Get("/", pages.Home)
		})
	})

	return r
}
