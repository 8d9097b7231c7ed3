package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/splits-network/splits-sub003/internal/infrastructure/http/handlers"
	"github.com/splits-network/splits-sub003/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	HealthHandler       *handlers.HealthHandler
	CandidatesHandler   *handlers.CandidatesHandler
	ApplicationsHandler *handlers.ApplicationsHandler
	PlacementsHandler   *handlers.PlacementsHandler
	ListingsHandler     *handlers.ListingsHandler
	Actor               *middleware.ActorResolver
	Log                 zerolog.Logger
	Secure              func(http.Handler) http.Handler
	CORS                func(http.Handler) http.Handler
	IPRateLimit         func(http.Handler) http.Handler
	ActorRateLimit      func(http.Handler) http.Handler
	Metrics             bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	r.Use(chimid.SetHeader("Content-Type", "application/json"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Everything below requires a resolved actor.
	r.Group(func(r chi.Router) {
		r.Use(cfg.Actor.Handler)
		if cfg.ActorRateLimit != nil {
			r.Use(cfg.ActorRateLimit)
		}

		r.Route("/candidates", func(r chi.Router) {
			r.Get("/", cfg.ListingsHandler.Candidates)
			r.Get("/{id}", cfg.CandidatesHandler.Get)
			r.Get("/{id}/sourcer", cfg.CandidatesHandler.GetSourcer)
			r.Post("/{id}/sourcer", cfg.CandidatesHandler.EstablishSourcer)
			r.Get("/{id}/can-work", cfg.CandidatesHandler.CanWork)
			r.Post("/{id}/outreach", cfg.CandidatesHandler.RecordOutreach)
		})
		r.Post("/outreach/{id}/engagement", cfg.CandidatesHandler.RecordEngagement)

		r.Route("/applications", func(r chi.Router) {
			r.Get("/", cfg.ListingsHandler.Applications)
			r.Post("/", cfg.ApplicationsHandler.Create)
			r.Get("/{id}", cfg.ApplicationsHandler.Get)
			r.Post("/{id}/transition", cfg.ApplicationsHandler.Transition)
			r.Post("/{id}/accept", cfg.ApplicationsHandler.Accept)
			r.Get("/{id}/history", cfg.ApplicationsHandler.History)
		})

		r.Route("/placements", func(r chi.Router) {
			r.Get("/", cfg.ListingsHandler.Placements)
			r.Post("/", cfg.PlacementsHandler.Create)
			r.Post("/splits/preview", cfg.PlacementsHandler.PreviewSplits)
			r.Get("/{id}", cfg.PlacementsHandler.Get)
			r.Post("/{id}/collaborators", cfg.PlacementsHandler.AddCollaborator)
		})

		r.Get("/jobs", cfg.ListingsHandler.Jobs)
		r.Get("/companies", cfg.ListingsHandler.Companies)
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
