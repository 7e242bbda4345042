package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/itsDrac/authgate/internal/dependency"
	"github.com/itsDrac/authgate/internal/handlers"
	"github.com/itsDrac/authgate/internal/middleware"
)

// NewRouter mounts every route and its authentication chain.
func NewRouter(deps *dependency.Dependencies) *chi.Mux {
	cfg := deps.Config
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.WebsiteURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "X-HMAC-Signature"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	rateLimit := middleware.NewRateLimit(deps.Limiter, middleware.IPKeyExtractor)
	hmac := middleware.NewHMACVerifier(cfg.HMACSecretKey, cfg.HMACTTL)

	public := middleware.Chain(rateLimit, middleware.NewStaticBearer(cfg.BearerAccessToken), hmac)
	access := middleware.Chain(rateLimit, middleware.AuthorizeAccess(deps.JWT, cfg.EnableCookies), hmac, middleware.RequireUserID)
	refresh := middleware.Chain(rateLimit, middleware.AuthorizeRefresh(deps.JWT, cfg.EnableCookies), hmac, middleware.RequireUserID)

	r.Route(cfg.APIBase(), func(r chi.Router) {
		r.Get("/health", deps.HealthHandler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Method(http.MethodPost, "/signup", public.ThenFunc(deps.AuthHandler.Signup))
			r.Method(http.MethodPost, "/login", public.ThenFunc(deps.AuthHandler.Login))
		})

		r.Route("/user", func(r chi.Router) {
			r.Method(http.MethodGet, "/me", access.ThenFunc(deps.UserHandler.Me))
			r.Method(http.MethodPatch, "/change-password", access.ThenFunc(deps.UserHandler.ChangePassword))
			r.Method(http.MethodGet, "/refresh-token", refresh.ThenFunc(deps.UserHandler.RefreshToken))
		})
	})

	return r
}
