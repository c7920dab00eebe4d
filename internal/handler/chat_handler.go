package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/observability"
	"github.com/lpj-studios/shop-assistant-go/internal/port"
	"github.com/lpj-studios/shop-assistant-go/internal/service"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// chatHandler answers one storefront chat message.
// POST /v1/chat
func chatHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/chat")
		defer span.End()

		var req domain.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := svc.Chat(ctx, req.Message)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(
			attribute.String("chat.intent", string(result.Intent)),
			attribute.Bool("chat.degraded", result.Degraded),
		)

		writeJSON(w, http.StatusOK, domain.ChatResponse{
			ReplyID:  uuid.New().String(),
			Response: result.Answer,
			Intent:   result.Intent,
			Products: result.Products,
		})
	}
}

// productsHandler exposes the cached catalog snapshot.
// GET /v1/products
func productsHandler(catalog port.ProductSource, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/products")
		defer span.End()

		products, err := catalog.Products(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("products.count", len(products)))

		writeJSON(w, http.StatusOK, map[string]any{
			"products": products,
			"count":    len(products),
		})
	}
}

// assistantMetricsHandler serves the aggregated usage snapshot.
// GET /v1/metrics/assistant
func assistantMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := metrics.GetAssistantSnapshot()
		logger.Debug("assistant metrics requested",
			zap.Int64("total_requests", snapshot.TotalRequests),
		)
		writeJSON(w, http.StatusOK, snapshot)
	}
}
