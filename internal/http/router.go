package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/crm-api/internal/auth"
	"github.com/redmonkez12/crm-api/internal/catalog"
	"github.com/redmonkez12/crm-api/internal/config"
	"github.com/redmonkez12/crm-api/internal/httputil"
	"github.com/redmonkez12/crm-api/internal/logging"
	"github.com/redmonkez12/crm-api/internal/user"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	Users          *user.Handler
	Catalog        *catalog.Handler
	DB             Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length", logging.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, "not found", httputil.CodeNotFound, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, "method not allowed", httputil.CodeMethodNotAllowed, http.StatusMethodNotAllowed)
	})

	r.Get("/health", handleHealth(h.DB))

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", "/swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.With(h.AuthMiddleware.RequireAuth).Get("/me", h.Auth.Me)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(h.AuthMiddleware.RequireAuth)
		r.Get("/me", h.Users.Me)
		r.Patch("/me", h.Users.UpdateMe)
	})

	r.Route("/catalogs", func(r chi.Router) {
		// Reads are public
		r.Get("/", h.Catalog.List)
		r.Get("/active", h.Catalog.ListActive)
		r.Get("/{id}", h.Catalog.Get)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware.RequireAuth)
			r.Post("/", h.Catalog.Create)
			r.Patch("/{id}", h.Catalog.Update)
			r.Delete("/{id}", h.Catalog.Delete)
		})
	})

	return r
}

// handleHealth reports whether the API and its database are reachable
// @Summary      Health check
// @Description  Check if the API is running and the database answers
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /health [get]
func handleHealth(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logging.GetLoggerFromContext(r.Context()).WithError(err).Error("health check failed")
			httputil.RespondJSON(w, map[string]string{"status": "database unavailable"}, http.StatusServiceUnavailable)
			return
		}

		httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
	}
}
