package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
	"github.com/lpj-studios/shop-assistant-go/internal/handler"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/observability"
	"github.com/lpj-studios/shop-assistant-go/internal/service"

	"go.uber.org/zap"
)

type stubCatalog struct {
	products []domain.Product
	err      error
	loaded   bool
}

func (s *stubCatalog) Products(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) Loaded() bool {
	return s.loaded
}

type stubModel struct {
	reply *domain.ModelReply
	err   error
}

func (s *stubModel) Generate(_ context.Context, _ string) (*domain.ModelReply, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

func newTestRouter(catalog *stubCatalog, model *stubModel) http.Handler {
	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	svc := service.NewChatService(catalog, model, service.NewComposer("test-shop.myshopify.com"), metrics, logger)
	return handler.NewRouter(svc, catalog, metrics, logger)
}

func loadedCatalog() *stubCatalog {
	return &stubCatalog{
		loaded: true,
		products: []domain.Product{
			{ID: "1", Title: "Mountain Plaid", Handle: "lpj-mountainplaid"},
		},
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(loadedCatalog(), &stubModel{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter(loadedCatalog(), &stubModel{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyzWarming(t *testing.T) {
	router := newTestRouter(&stubCatalog{loaded: false}, &stubModel{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 while warming, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := newTestRouter(loadedCatalog(), &stubModel{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestChatEndpoint(t *testing.T) {
	model := &stubModel{reply: &domain.ModelReply{Text: "<p>Viele Farben!</p>"}}
	router := newTestRouter(loadedCatalog(), model)

	body := bytes.NewBufferString(`{"message": "Welche Farben habt ihr?"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", body)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp domain.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Response != "<p>Viele Farben!</p>" {
		t.Errorf("unexpected answer: %q", resp.Response)
	}
	if resp.Intent != domain.TagColors {
		t.Errorf("expected intent %q, got %q", domain.TagColors, resp.Intent)
	}
	if resp.ReplyID == "" {
		t.Error("expected a generated reply id")
	}
	if len(resp.Products) != 1 {
		t.Errorf("expected 1 product, got %d", len(resp.Products))
	}
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	router := newTestRouter(loadedCatalog(), &stubModel{})

	body := bytes.NewBufferString(`{"message": ""}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", body)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestChatEndpointInvalidBody(t *testing.T) {
	router := newTestRouter(loadedCatalog(), &stubModel{})

	body := bytes.NewBufferString(`{not json`)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", body)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestChatEndpointModelFailure(t *testing.T) {
	model := &stubModel{err: &domain.ErrExternalService{Service: "gemini", Err: errors.New("boom")}}
	router := newTestRouter(loadedCatalog(), model)

	body := bytes.NewBufferString(`{"message": "Welche Farben habt ihr?"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", body)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestChatEndpointCatalogOutageStays200(t *testing.T) {
	catalog := &stubCatalog{loaded: false, err: &domain.ErrCatalogUnavailable{Err: errors.New("upstream down")}}
	router := newTestRouter(catalog, &stubModel{})

	body := bytes.NewBufferString(`{"message": "Welche Farben habt ihr?"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", body)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("catalog outage must degrade, not fail: got %d", rec.Code)
	}
	var resp domain.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Response == "" {
		t.Error("expected a canned fallback answer")
	}
}

func TestProductsEndpoint(t *testing.T) {
	router := newTestRouter(loadedCatalog(), &stubModel{})

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Products []domain.Product `json:"products"`
		Count    int              `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Count != 1 || len(resp.Products) != 1 {
		t.Errorf("expected 1 product, got count=%d len=%d", resp.Count, len(resp.Products))
	}
}

func TestProductsEndpointUnavailable(t *testing.T) {
	catalog := &stubCatalog{err: &domain.ErrCatalogUnavailable{Err: errors.New("upstream down")}}
	router := newTestRouter(catalog, &stubModel{})

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestAssistantMetricsEndpoint(t *testing.T) {
	model := &stubModel{reply: &domain.ModelReply{
		Text:   "ok",
		Tokens: domain.TokenUsage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
	}}
	router := newTestRouter(loadedCatalog(), model)

	body := bytes.NewBufferString(`{"message": "Welche Farben habt ihr?"}`)
	chatReq := httptest.NewRequest(http.MethodPost, "/v1/chat", body)
	router.ServeHTTP(httptest.NewRecorder(), chatReq)

	req := httptest.NewRequest(http.MethodGet, "/v1/metrics/assistant", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snapshot domain.AssistantMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if snapshot.TotalRequests != 1 {
		t.Errorf("expected 1 recorded request, got %d", snapshot.TotalRequests)
	}
}
