package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldnotes-dev/fieldnotes/backend/internal/handler"
	"github.com/fieldnotes-dev/fieldnotes/shared/config"
	"github.com/fieldnotes-dev/fieldnotes/shared/middleware"
	"github.com/fieldnotes-dev/fieldnotes/shared/middleware/metrics"
	"github.com/fieldnotes-dev/fieldnotes/shared/middleware/ratelimiter"
)

const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// New assembles the full middleware stack and route table.
func New(h *handler.Handler, auth *middleware.Auth, cfg *config.Public) http.Handler {
	r := chi.NewRouter()

	r.Use(chi_middleware.RequestID)
	r.Use(chi_middleware.RealIP)
	r.Use(chi_middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeadersWithCSP(cfg.SecureCookies, apiCSP))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Brute-force protection on the auth endpoints: one request per
	// second per IP, and per target email for the code-sensitive ones.
	ipLimiter := ratelimiter.OnceInSecond()
	emailLimiter := ratelimiter.OnceInSecond()

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ipLimiter, middleware.GetIP))
			r.Post("/auth/login", h.Login)
			r.Post("/auth/logout", h.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(emailLimiter, middleware.GetEmailFromBody))
				r.Post("/auth/register", h.Register)
				r.Post("/auth/confirm", h.ConfirmEmail)
			})
		})

		// Registered for every method: the handler runs its own
		// auth-then-method validation sequence.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth())
			r.HandleFunc("/messages", h.SendMessage)
		})

		r.Get("/settings", h.GetSettings)
		r.Get("/profiles/{username}", h.GetProfile)
		r.Get("/research/{research}", h.GetResearch)
		r.Get("/media/*", h.ServeMedia)

		r.Group(func(r chi.Router) {
			r.Use(auth.NeedAuth())
			r.Post("/research", h.CreateResearch)
			r.Post("/research/{research}/updates", h.UpsertResearchUpdate)
			r.Delete("/research/{research}/updates/{update}", h.DeleteResearchUpdate)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.AdminOnly())
			r.Put("/admin/settings", h.UpdateSettings)
		})
	})

	return r
}
