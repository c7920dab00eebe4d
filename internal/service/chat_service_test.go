package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/observability"

	"go.uber.org/zap"
)

type mockProductSource struct {
	products []domain.Product
	err      error
}

func (m *mockProductSource) Products(_ context.Context) ([]domain.Product, error) {
	return m.products, m.err
}

func (m *mockProductSource) Loaded() bool {
	return m.err == nil
}

type mockModelCaller struct {
	reply      *domain.ModelReply
	err        error
	lastPrompt string
	calls      int
}

func (m *mockModelCaller) Generate(_ context.Context, prompt string) (*domain.ModelReply, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

func blanketProducts(n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, domain.Product{
			ID:     fmt.Sprintf("gid://shopify/Product/%d", i+1),
			Title:  fmt.Sprintf("Decke %d", i+1),
			Handle: fmt.Sprintf("decke-%d", i+1),
			PriceRange: domain.PriceRange{
				Min: domain.Money{Amount: "349.00", CurrencyCode: "EUR"},
				Max: domain.Money{Amount: "349.00", CurrencyCode: "EUR"},
			},
			Variants: []domain.Variant{
				{ID: "v1", Title: "Rot", AvailableForSale: true},
			},
		})
	}
	return products
}

func newTestChatService(catalog *mockProductSource, model *mockModelCaller) *ChatService {
	return NewChatService(
		catalog,
		model,
		NewComposer("test-shop.myshopify.com"),
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

func TestChatSuccess(t *testing.T) {
	model := &mockModelCaller{
		reply: &domain.ModelReply{
			Text:   "<p>Unsere Decken gibt es in vielen Farben.</p>",
			Tokens: domain.TokenUsage{PromptTokens: 120, CompletionTokens: 40, TotalTokens: 160},
		},
	}
	svc := newTestChatService(&mockProductSource{products: blanketProducts(3)}, model)

	result, err := svc.Chat(context.Background(), "Welche Farben habt ihr?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Answer != model.reply.Text {
		t.Errorf("expected model answer, got %q", result.Answer)
	}
	if result.Intent != domain.TagColors {
		t.Errorf("expected intent %q, got %q", domain.TagColors, result.Intent)
	}
	if result.Degraded {
		t.Error("expected non-degraded result")
	}
	if result.Tokens.TotalTokens != 160 {
		t.Errorf("expected token usage to be carried through, got %+v", result.Tokens)
	}
	if len(result.Products) != 3 {
		t.Errorf("expected 3 products, got %d", len(result.Products))
	}
	if !strings.Contains(model.lastPrompt, "Welche Farben habt ihr?") {
		t.Error("expected user message in the prompt")
	}
}

func TestChatEmptyMessage(t *testing.T) {
	model := &mockModelCaller{}
	svc := newTestChatService(&mockProductSource{products: blanketProducts(1)}, model)

	for _, message := range []string{"", "   ", "\n\t"} {
		_, err := svc.Chat(context.Background(), message)
		var validationErr *domain.ErrValidation
		if !errors.As(err, &validationErr) {
			t.Fatalf("message %q: expected ErrValidation, got %v", message, err)
		}
		if validationErr.Field != "message" {
			t.Errorf("expected field %q, got %q", "message", validationErr.Field)
		}
	}
	if model.calls != 0 {
		t.Errorf("model must not be called for invalid input, got %d calls", model.calls)
	}
}

func TestChatCatalogUnavailableDegrades(t *testing.T) {
	catalog := &mockProductSource{err: &domain.ErrCatalogUnavailable{Err: errors.New("upstream down")}}
	model := &mockModelCaller{}
	svc := newTestChatService(catalog, model)

	result, err := svc.Chat(context.Background(), "Welche Farben habt ihr?")
	if err != nil {
		t.Fatalf("catalog outage must not surface as an error, got %v", err)
	}
	if !result.Degraded {
		t.Error("expected degraded result")
	}
	if result.Answer != catalogDownMessage {
		t.Errorf("expected canned catalog message, got %q", result.Answer)
	}
	if model.calls != 0 {
		t.Errorf("model must not be called without catalog data, got %d calls", model.calls)
	}
}

func TestChatModelOverloadedDegrades(t *testing.T) {
	model := &mockModelCaller{err: &domain.ErrModelOverloaded{Err: errors.New("429")}}
	svc := newTestChatService(&mockProductSource{products: blanketProducts(2)}, model)

	result, err := svc.Chat(context.Background(), "Was macht eure Produkte besonders?")
	if err != nil {
		t.Fatalf("overload must not surface as an error, got %v", err)
	}
	if !result.Degraded {
		t.Error("expected degraded result")
	}
	if result.Answer != overloadedMessage {
		t.Errorf("expected canned overload message, got %q", result.Answer)
	}
	if len(result.Products) != 2 {
		t.Errorf("overload reply should still carry products, got %d", len(result.Products))
	}
}

func TestChatModelHardErrorPropagates(t *testing.T) {
	model := &mockModelCaller{err: &domain.ErrExternalService{Service: "gemini", Err: errors.New("boom")}}
	svc := newTestChatService(&mockProductSource{products: blanketProducts(1)}, model)

	_, err := svc.Chat(context.Background(), "Welche Größen gibt es?")
	var serviceErr *domain.ErrExternalService
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if serviceErr.Service != "gemini" {
		t.Errorf("expected service %q, got %q", "gemini", serviceErr.Service)
	}
}

func TestChatCapsResponseProducts(t *testing.T) {
	model := &mockModelCaller{reply: &domain.ModelReply{Text: "ok"}}
	svc := newTestChatService(&mockProductSource{products: blanketProducts(12)}, model)

	result, err := svc.Chat(context.Background(), "Welche Farben habt ihr?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Products) != maxResponseProducts {
		t.Errorf("expected %d products, got %d", maxResponseProducts, len(result.Products))
	}
	if result.Products[0].Handle != "decke-1" {
		t.Errorf("expected catalog order to be preserved, got %q first", result.Products[0].Handle)
	}
}

func TestChatCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestChatService(&mockProductSource{products: blanketProducts(1)}, &mockModelCaller{})
	_, err := svc.Chat(ctx, "Welche Farben habt ihr?")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
