package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/admisionuni/simulacro-intranet/internal/auth"
	"github.com/admisionuni/simulacro-intranet/internal/config"
	httpmiddleware "github.com/admisionuni/simulacro-intranet/internal/http/middleware"
	"github.com/admisionuni/simulacro-intranet/internal/metrics"
	"github.com/admisionuni/simulacro-intranet/internal/session"
)

// NewRouter devuelve el router configurado.
func NewRouter(cfg *config.Config, sessions *session.Manager, tokens *auth.TokenManager, client admissionsClient, m *metrics.Metrics) http.Handler {
	h := NewHandler(cfg, sessions, tokens, client, m)

	publicLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst)
	sessionLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitSession.RequestsPerSecond, cfg.RateLimitSession.Burst)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Metrics(m))
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.SessionContext(tokens, sessions))

		// Superficie pública: entrada al wizard y catálogos.
		api.Group(func(pub chi.Router) {
			pub.Use(httpmiddleware.IPRateLimit(publicLimiter))
			pub.Get("/exam-simulations", h.ExamSimulations)
			pub.Post("/auth/search", h.SearchApplicant)
			pub.Post("/applicants", h.CreateApplicant)
			pub.Get("/genders", h.Genders)
			pub.Get("/ubigeos/departments", h.Departments)
			pub.Get("/ubigeos/provinces", h.Provinces)
			pub.Get("/ubigeos/districts", h.Districts)
			// La decisión de navegación es pública: sin sesión responde
			// "redirigir al landing", no 401.
			pub.Get("/session/navigation", h.Navigation)
		})

		// Superficie custodiada por el token de sesión.
		api.Group(func(priv chi.Router) {
			priv.Use(httpmiddleware.RequireSession)
			priv.Use(httpmiddleware.SessionRateLimit(sessionLimiter))

			// Logout y reinicio funcionan incluso con sesión expirada.
			priv.Post("/auth/logout", h.Logout)
			priv.Post("/session/restart", h.RestartSession)

			priv.Group(func(valid chi.Router) {
				valid.Use(httpmiddleware.RequireValidSession)
				valid.Get("/session", h.SessionInfo)
				valid.Put("/applicants/{uuid}", h.UpdateApplicant)
				valid.Get("/applicants/{uuid}/status", h.ProcessStatus)
				valid.Post("/applicants/{uuid}/photo", h.UploadPhoto)
				valid.Get("/applicants/{uuid}/photo-status", h.PhotoReview)
				valid.Post("/applicants/confirm", h.Confirm)
			})
		})
	})

	return r
}
