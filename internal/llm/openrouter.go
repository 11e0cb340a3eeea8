package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	ProviderOpenRouter     = "openrouter"
	DefaultOpenRouterModel = "mistralai/mixtral-8x7b-instruct"

	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"

	openRouterBaseURL = "https://openrouter.ai/api/v1"
	openRouterTimeout = 60 * time.Second
	modelListTimeout  = 30 * time.Second

	// Attribution headers OpenRouter uses for app rankings
	openRouterReferer = "https://github.com/dshills/repolens"
	openRouterTitle   = "RepoLens"
)

// fallbackModels is returned when the live model listing is unreachable.
var fallbackModels = []string{
	"mistralai/mixtral-8x7b-instruct",
	"anthropic/claude-3-haiku",
	"meta-llama/llama-3-8b-instruct",
	"microsoft/wizardlm-2-8x22b",
}

// OpenRouterClient implements Generator against the OpenRouter
// chat-completions API.
type OpenRouterClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenRouterClient creates an OpenRouter-backed generator. An empty
// apiKey falls back to the OPENROUTER_API_KEY environment variable; an
// empty model selects the default.
func NewOpenRouterClient(apiKey, model string) (*OpenRouterClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvOpenRouterAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoAPIKey, EnvOpenRouterAPIKey)
	}
	if model == "" {
		model = DefaultOpenRouterModel
	}

	return &OpenRouterClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: openRouterBaseURL,
		httpClient: &http.Client{
			Timeout: openRouterTimeout,
		},
	}, nil
}

func (c *OpenRouterClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}

	cfg := DefaultRetryConfig()
	text, err := retryWithBackoff(ctx, cfg, func() (string, error) {
		return c.callAPI(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}
	return text, nil
}

func (c *OpenRouterClient) callAPI(ctx context.Context, req GenerateRequest) (string, error) {
	reqBody := map[string]any{
		"model":             c.model,
		"messages":          req.messages(),
		"max_tokens":        req.MaxTokens,
		"temperature":       req.Temperature,
		"top_p":             0.9,
		"frequency_penalty": 0.1,
		"presence_penalty":  0.1,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("HTTP-Referer", openRouterReferer)
	httpReq.Header.Set("X-Title", openRouterTitle)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}

// Models returns the model identifiers the account can use. Listing
// failures degrade to a fixed fallback list rather than an error.
func (c *OpenRouterClient) Models(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, modelListTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return append([]string(nil), fallbackModels...)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return append([]string(nil), fallbackModels...)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return append([]string(nil), fallbackModels...)
	}

	var apiResp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return append([]string(nil), fallbackModels...)
	}

	models := make([]string, 0, len(apiResp.Data))
	for _, m := range apiResp.Data {
		models = append(models, m.ID)
	}
	if len(models) == 0 {
		return append([]string(nil), fallbackModels...)
	}
	return models
}

func (c *OpenRouterClient) Provider() string {
	return ProviderOpenRouter
}

func (c *OpenRouterClient) Model() string {
	return c.model
}

func (c *OpenRouterClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
