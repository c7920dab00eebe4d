package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1"

// GeminiClient calls the Gemini generateContent endpoint.
type GeminiClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
}

// NewGeminiClient creates a GeminiClient. The bulkhead caps concurrent
// generate calls so a burst of chat traffic cannot exhaust the API quota
// in one sweep.
func NewGeminiClient(httpClient *http.Client, apiKey, model string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *GeminiClient {
	return &GeminiClient{
		httpClient: httpClient,
		baseURL:    geminiBaseURL,
		apiKey:     apiKey,
		model:      model,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
	}
}

// WithBaseURL overrides the API base URL (tests).
func (c *GeminiClient) WithBaseURL(url string) *GeminiClient {
	c.baseURL = url
	return c
}

// generateRequest is the generateContent request envelope.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the subset of the generateContent reply we read.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// overloaded reports whether the failure is a capacity error rather than a
// hard fault. Gemini signals this as 429/503 or RESOURCE_EXHAUSTED /
// UNAVAILABLE / "model is overloaded" in the error body.
func overloaded(statusCode int, apiErr *apiError) bool {
	if statusCode == http.StatusTooManyRequests || statusCode == http.StatusServiceUnavailable {
		return true
	}
	if apiErr == nil {
		return false
	}
	switch apiErr.Status {
	case "RESOURCE_EXHAUSTED", "UNAVAILABLE":
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "overloaded")
}

// errOverload marks a terminal capacity failure inside the retry loop.
type errOverload struct{ err error }

func (e *errOverload) Error() string { return e.err.Error() }

// Generate sends the assembled prompt and returns the generated text plus
// token usage. Capacity errors come back as *domain.ErrModelOverloaded so
// the orchestrator can substitute a retry-later message; everything else is
// *domain.ErrExternalService.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*domain.ModelReply, error) {
	ctx, span := tracer.Start(ctx, "GeminiClient.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", c.model),
		attribute.Int("prompt.length", len(prompt)),
	)

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.bulkhead.Release()

	var genResp generateResponse

	_, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := json.Marshal(generateRequest{
				Contents: []content{{Parts: []part{{Text: prompt}}}},
			})
			if err != nil {
				return fmt.Errorf("marshal generate request: %w", err)
			}

			url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("create http request: %w", err)
			}
			httpReq.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(httpReq)
			if err != nil {
				return fmt.Errorf("http call to gemini: %w", err)
			}
			defer resp.Body.Close()

			genResp = generateResponse{}
			if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
				return fmt.Errorf("decode gemini response: %w", err)
			}

			if resp.StatusCode != http.StatusOK || genResp.Error != nil {
				failure := fmt.Errorf("gemini returned status %d", resp.StatusCode)
				if genResp.Error != nil {
					failure = fmt.Errorf("gemini error [%s]: %s", genResp.Error.Status, genResp.Error.Message)
				}
				if overloaded(resp.StatusCode, genResp.Error) {
					return &errOverload{err: failure}
				}
				return failure
			}
			return nil
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return nil, nil
	})

	if err != nil {
		if ov, ok := err.(*errOverload); ok {
			return nil, &domain.ErrModelOverloaded{Err: ov.err}
		}
		return nil, &domain.ErrExternalService{Service: "gemini", Err: err}
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, &domain.ErrExternalService{Service: "gemini", Err: fmt.Errorf("empty candidate list")}
	}

	return &domain.ModelReply{
		Text: genResp.Candidates[0].Content.Parts[0].Text,
		Tokens: domain.TokenUsage{
			PromptTokens:     genResp.UsageMetadata.PromptTokenCount,
			CompletionTokens: genResp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      genResp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}
