package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig bundles handler dependencies.
type RouterConfig struct {
	SearchHandler        *SearchHandler
	TripHandler          *TripHandler
	TaxHandler           *TaxHandler
	ServiceRecordHandler *ServiceRecordHandler
	VehicleHandler       *VehicleHandler
	StatsHandler         *StatsHandler
	HealthHandler        *HealthHandler

	APIBasePath string
	Middlewares []func(http.Handler) http.Handler
	// AuthMiddleware guards every route except /health and /metrics.
	AuthMiddleware    func(http.Handler) http.Handler
	PrometheusHandler http.Handler
}

// NewRouter wires handlers and middlewares.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))

	for _, mw := range cfg.Middlewares {
		if mw == nil {
			continue
		}
		r.Use(mw)
	}

	apiBasePath := normalizeAPIBasePath(cfg.APIBasePath)
	if apiBasePath == "" {
		apiBasePath = "/"
	}
	r.Route(apiBasePath, func(api chi.Router) {
		if cfg.HealthHandler != nil {
			api.Get("/health", cfg.HealthHandler.ServeHTTP)
		}
		if cfg.PrometheusHandler != nil {
			api.Method(http.MethodGet, "/metrics", cfg.PrometheusHandler)
		}

		api.Group(func(authed chi.Router) {
			if cfg.AuthMiddleware != nil {
				authed.Use(cfg.AuthMiddleware)
			}
			if cfg.SearchHandler != nil {
				cfg.SearchHandler.RegisterRoutes(authed)
			}
			if cfg.TripHandler != nil {
				cfg.TripHandler.RegisterRoutes(authed)
			}
			if cfg.TaxHandler != nil {
				cfg.TaxHandler.RegisterRoutes(authed)
			}
			if cfg.ServiceRecordHandler != nil {
				cfg.ServiceRecordHandler.RegisterRoutes(authed)
			}
			if cfg.VehicleHandler != nil {
				cfg.VehicleHandler.RegisterRoutes(authed)
			}
			if cfg.StatsHandler != nil {
				cfg.StatsHandler.RegisterRoutes(authed)
			}
		})
	})
	return r
}
