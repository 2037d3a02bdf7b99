package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"special-requests/internal/config"
	"special-requests/internal/handlers"
	"special-requests/internal/middleware"
	"special-requests/internal/models"
	"special-requests/internal/service"
)

// Services are the application services the routes are served from.
type Services struct {
	Auth      *service.AuthService
	Admin     *service.AdminDashboard
	Submitter *service.SubmitterDashboard
}

func New(log zerolog.Logger, cfg config.Config, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"X-Total-Count", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	if cfg.RatePerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RatePerMinute, time.Minute))
	}

	// Health + metrics
	r.Get("/healthz", handlers.Health(cfg.Store))
	r.Handle("/metrics", promhttp.Handler())

	ah := handlers.NewAuthHTTP(svc.Auth, log, cfg.Env != "dev")
	admin := handlers.NewAdminTicketHTTP(svc.Admin, log)
	reports := handlers.NewReportsHTTP(svc.Admin)
	sub := handlers.NewSubmitterTicketHTTP(svc.Submitter, log)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.WithAuth(log, cfg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", ah.Login())
			r.Post("/register", ah.Register())
			r.Post("/logout", ah.Logout())
			r.With(middleware.RequireAuth).Get("/me", ah.Me())
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/items", sub.SearchItems())
			r.Route("/requests", func(r chi.Router) {
				r.Get("/", sub.List())
				r.Post("/", sub.Submit())
				r.Get("/{id}", sub.Get())
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin))

				r.Route("/requests", func(r chi.Router) {
					r.Get("/", admin.List())
					r.Get("/summary", admin.Summary())
					r.Get("/{id}", admin.Get())
					r.Patch("/{id}/status", admin.UpdateStatus())
				})
				r.Get("/reports/status", reports.StatusCounts())
			})
		})
	})

	return r
}
