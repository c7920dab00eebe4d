package handler

import (
	"net/http"
	"time"

	"github.com/lpj-studios/shop-assistant-go/internal/infra/observability"
	"github.com/lpj-studios/shop-assistant-go/internal/port"
	"github.com/lpj-studios/shop-assistant-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract of the LPJ storefront chat widget.
func NewRouter(svc *service.ChatService, catalog port.ProductSource, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(catalog))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", chatHandler(svc, logger))
		r.Get("/products", productsHandler(catalog, logger))
		r.Get("/metrics/assistant", assistantMetricsHandler(metrics, logger))
	})

	return r
}

// ============================================================
// Probes
// ============================================================

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// readyzHandler reports ready only once the catalog cache holds a
// snapshot, so a cold instance is not routed traffic it would answer
// with degraded replies.
func readyzHandler(catalog port.ProductSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !catalog.Loaded() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "warming"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
