// Package service holds the core decision logic: the intent classifier,
// the response composer and the chat orchestrator that sequences them.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/observability"
	"github.com/lpj-studios/shop-assistant-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service/chat")

// maxResponseProducts caps how many representative products the chat
// endpoint returns alongside the generated answer.
const maxResponseProducts = 5

// Canned user-safe messages for the two locally recovered failure modes.
const (
	overloadedMessage  = "Unser KI-Assistent ist momentan überlastet. Bitte versuche es in wenigen Sekunden erneut oder stelle eine spezifischere Frage."
	catalogDownMessage = "Unser Produktkatalog ist momentan nicht erreichbar. Bitte versuche es in wenigen Minuten erneut."
)

// ChatService is the top-level request handler: it sequences the catalog
// read, the classification, the prompt composition and the model call.
// All steps run sequentially per request; there is no fan-out.
type ChatService struct {
	catalog  port.ProductSource
	model    port.ModelCaller
	composer *Composer
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewChatService creates the chat service with all dependencies injected.
func NewChatService(
	catalog port.ProductSource,
	model port.ModelCaller,
	composer *Composer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		catalog:  catalog,
		model:    model,
		composer: composer,
		metrics:  metrics,
		logger:   logger,
	}
}

// Chat answers one user message.
//
// Failure policy: upstream catalog errors and model capacity errors are
// both recovered locally into canned user-safe replies (Degraded=true) —
// only validation errors and hard model failures propagate to the handler.
func (s *ChatService) Chat(ctx context.Context, message string) (*domain.ChatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "ChatService.Chat")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("chat", time.Since(start))
	}()

	if strings.TrimSpace(message) == "" {
		s.metrics.IncrRequest("invalid")
		return nil, &domain.ErrValidation{Field: "message", Message: "message is required"}
	}

	tag := Classify(message)
	span.SetAttributes(attribute.String("chat.intent", string(tag)))
	s.metrics.IncrIntent(tag)
	s.logger.Info("chat message received",
		zap.String("intent", string(tag)),
		zap.Int("message_length", len(message)),
	)

	products, err := s.catalog.Products(ctx)
	if err != nil {
		var unavailable *domain.ErrCatalogUnavailable
		if errors.As(err, &unavailable) {
			s.logger.Error("catalog unavailable, sending degraded reply", zap.Error(err))
			s.metrics.IncrRequest("degraded")
			return &domain.ChatResult{
				Answer:   catalogDownMessage,
				Intent:   tag,
				Degraded: true,
			}, nil
		}
		s.metrics.IncrRequest("error")
		return nil, err
	}

	prompt := s.composer.Compose(tag, products, message)
	s.logger.Debug("prompt composed",
		zap.String("intent", string(tag)),
		zap.Int("products_total", len(products)),
		zap.Int("products_in_prompt", len(prompt.Products)),
	)

	modelStart := time.Now()
	reply, err := s.model.Generate(ctx, prompt.Text)
	s.metrics.RecordRequestDuration("gemini", time.Since(modelStart))
	if err != nil {
		var overloadedErr *domain.ErrModelOverloaded
		if errors.As(err, &overloadedErr) {
			s.logger.Warn("model overloaded, sending retry-later reply", zap.Error(err))
			s.metrics.IncrRequest("degraded")
			return &domain.ChatResult{
				Answer:   overloadedMessage,
				Intent:   tag,
				Products: representative(products),
				Degraded: true,
			}, nil
		}
		s.logger.Error("model call failed", zap.Error(err))
		s.metrics.IncrExternalError("gemini")
		s.metrics.IncrRequest("error")
		return nil, err
	}

	s.metrics.RecordTokens(reply.Tokens.PromptTokens, reply.Tokens.CompletionTokens)
	s.metrics.IncrRequest("success")

	return &domain.ChatResult{
		Answer:   reply.Text,
		Intent:   tag,
		Products: representative(products),
		Tokens:   reply.Tokens,
	}, nil
}

// representative picks the products returned alongside the answer: the
// first few of the full snapshot, in catalog order.
func representative(products []domain.Product) []domain.Product {
	if len(products) > maxResponseProducts {
		return products[:maxResponseProducts]
	}
	return products
}
