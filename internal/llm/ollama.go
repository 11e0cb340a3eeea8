package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	ProviderOllama     = "ollama"
	DefaultOllamaModel = "llama3"

	EnvOllamaModel = "OLLAMA_MODEL"
	EnvOllamaURL   = "OLLAMA_API_URL"

	defaultOllamaBaseURL = "http://localhost:11434"

	// Local generation can be slow on first model load
	ollamaTimeout = 5 * time.Minute
)

// ollamaChatRequest is the non-streaming /api/chat request body.
type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []Message     `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	TopP        float32 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

// OllamaClient implements Generator against a local Ollama server.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaClient creates an Ollama-backed generator. Empty arguments
// select the default model and the local server URL.
func NewOllamaClient(model, baseURL string) *OllamaClient {
	if model == "" {
		model = DefaultOllamaModel
	}
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &OllamaClient{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: ollamaTimeout,
		},
	}
}

func (c *OllamaClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
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

func (c *OllamaClient) callAPI(ctx context.Context, req GenerateRequest) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model:    c.model,
		Messages: req.messages(),
		Stream:   false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			TopP:        0.9,
			NumPredict:  req.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

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

	var apiResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return strings.TrimSpace(apiResp.Message.Content), nil
}

func (c *OllamaClient) Provider() string {
	return ProviderOllama
}

func (c *OllamaClient) Model() string {
	return c.model
}

func (c *OllamaClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
