package rest

import (
	"net/http"

	"deepthinker-backend/infrastructure/di"
	"deepthinker-backend/interfaces/http/rest/handlers"
	"deepthinker-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.container.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.deepthinker.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Session-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	authenticator := middleware.NewAuthenticator(
		rt.container.JWTValidator,
		rt.container.IPLimiter,
		rt.container.UserLimiter,
		rt.logger,
	)

	userHandler := handlers.NewUserHandler(
		rt.container.Handlers.RegisterUser,
		rt.container.Handlers.UpdateOnboarding,
		rt.container.QueryBus,
		rt.logger,
	)
	canvasHandler := handlers.NewCanvasHandler(
		rt.container.Handlers.CreateCanvas,
		rt.container.QueryBus,
		rt.logger,
	)
	thoughtHandler := handlers.NewThoughtHandler(
		rt.container.Handlers.CreateThought,
		rt.container.Handlers.UpdateThought,
		rt.container.Handlers.ConnectThoughts,
		rt.container.CommandBus,
		rt.container.QueryBus,
		rt.logger,
	)
	generationHandler := handlers.NewGenerationHandler(
		rt.container.Handlers.GenerateThought,
		rt.container.Handlers.RewriteThought,
		rt.container.Handlers.Chat,
		rt.container.Tracer,
		rt.logger,
	)

	router.Route("/api/v1", func(r chi.Router) {
		// Account routes require a real identity, never an anonymous session
		r.Route("/users", func(r chi.Router) {
			r.Use(authenticator.RequireUser)
			r.Post("/", userHandler.Register)
			r.Get("/me", userHandler.Me)
			r.Put("/me/onboarding", userHandler.UpdateOnboarding)
			r.Get("/me/quota", userHandler.Quota)
		})

		// Everything below accepts either a JWT or an anonymous session
		r.Group(func(r chi.Router) {
			r.Use(authenticator.AllowSession)

			r.Route("/canvases", func(r chi.Router) {
				r.Post("/", canvasHandler.Create)
				r.Get("/", canvasHandler.List)
				r.Get("/{canvasID}", canvasHandler.Get)
			})

			r.Route("/thoughts", func(r chi.Router) {
				r.Post("/", thoughtHandler.Create)
				r.Get("/", thoughtHandler.List)
				r.Get("/{thoughtID}", thoughtHandler.Get)
				r.Put("/{thoughtID}", thoughtHandler.Update)
				r.Delete("/{thoughtID}", thoughtHandler.Delete)
				r.Post("/{thoughtID}/connect", thoughtHandler.Connect)
				r.Post("/{thoughtID}/generate", generationHandler.Generate)
				r.Post("/{thoughtID}/rewrite", generationHandler.Rewrite)
			})

			r.Post("/chat", generationHandler.Chat)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports whether the container finished wiring
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.container.ThoughtRepo == nil || rt.container.QuotaLedger == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
