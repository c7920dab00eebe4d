package domain

// ============================================================
// Chat — request/response between the storefront widget and the service
// ============================================================

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is what the chat endpoint returns to the storefront widget.
// Field names follow the existing widget contract: "response" carries the
// generated answer, "products" up to 5 representative products so the widget
// can render cards alongside the text.
type ChatResponse struct {
	ReplyID  string      `json:"replyId"`
	Response string      `json:"response"`
	Intent   CategoryTag `json:"intent"`
	Products []Product   `json:"products"`
}

// ChatResult is the service-level result before it is mapped to the API
// response shape.
type ChatResult struct {
	Answer   string
	Intent   CategoryTag
	Products []Product
	Degraded bool // catalog was unavailable; Answer is the canned fallback
	Tokens   TokenUsage
}

// TokenUsage tracks LLM token consumption for cost monitoring.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ModelReply is the language model's generated text plus usage accounting.
type ModelReply struct {
	Text   string
	Tokens TokenUsage
}

// ============================================================
// CategoryTag — how a given question should be answered
// ============================================================

// CategoryTag selects which product filtering and which prompt template the
// composer applies. Produced fresh per request by the classifier.
type CategoryTag string

const (
	TagColors            CategoryTag = "colors"
	TagSheepWoolBlankets CategoryTag = "sheep_wool_blankets"
	TagWoolMixBlankets   CategoryTag = "wool_mix_blankets"
	TagCashmereBlankets  CategoryTag = "cashmere_blankets"
	TagWoolBlankets      CategoryTag = "wool_blankets"
	TagSpecial           CategoryTag = "special"
	TagSizes             CategoryTag = "sizes"
	TagPrice             CategoryTag = "price"
	TagMaterial          CategoryTag = "material"
	TagDetailed          CategoryTag = "detailed"
	TagRugs              CategoryTag = "rugs"
	TagRugColors         CategoryTag = "rug_colors"
)

// Prompt is the assembled instruction payload for the language model:
// which products survived filtering and the full prompt text built from the
// category template + rendered product context + the user's question.
type Prompt struct {
	Tag      CategoryTag
	Products []Product
	Text     string
}

// AssistantMetrics is the aggregated snapshot served by
// GET /v1/metrics/assistant.
type AssistantMetrics struct {
	TotalRequests       int64   `json:"totalRequests"`
	ErrorRate           float64 `json:"errorRate"`
	AvgTokensPerRequest float64 `json:"avgTokensPerRequest"`
	EstimatedCostUsd    float64 `json:"estimatedCostUsd"`
	CacheHitRate        float64 `json:"cacheHitRate"`
	Period              string  `json:"period"`
}
