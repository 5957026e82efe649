package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"holma/internal/core"
)

// RouterConfig tunes the HTTP surface around the handler.
type RouterConfig struct {
	Logger *slog.Logger
	// JWTSecret enables bearer authentication on /app when non-empty.
	JWTSecret  string
	CORSOrigin string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// NewRouter wires middleware, health, metrics and the /app resources.
func NewRouter(svc *core.Service, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(WithRequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	handler := NewHandler(svc, logger)
	r.Route("/app", func(r chi.Router) {
		r.Use(CORS(cfg.CORSOrigin))
		if cfg.JWTSecret != "" {
			r.Use(RequireAuth(NewTokenValidator(cfg.JWTSecret), logger))
		}
		handler.Register(r)
	})
	return r
}
