package llm

import (
	"context"
	"errors"
	"strings"
)

// Common errors
var (
	ErrNoAPIKey            = errors.New("no API key configured")
	ErrProviderFailed      = errors.New("generation provider failed")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrEmptyPrompt         = errors.New("prompt cannot be empty")
)

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn in provider wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest carries a single completion call. System may be empty;
// User must not be.
type GenerateRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Generator produces text from structured prompts. Implementations are
// safe for sequential use by one session; the caller owns retry-free
// error handling (a failed call degrades, it is not retried above this
// interface).
type Generator interface {
	// Generate returns the model's reply, whitespace-trimmed. An empty
	// reply with a nil error is possible and the caller must treat it
	// as "no answer".
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// Provider returns the provider name
	Provider() string

	// Model returns the model name
	Model() string

	// Close releases any resources held by the generator
	Close() error
}

func (r GenerateRequest) messages() []Message {
	var msgs []Message
	if r.System != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: r.System})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: r.User})
	return msgs
}

func validateRequest(r GenerateRequest) error {
	if strings.TrimSpace(r.User) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// Ping sends a canary prompt through the generator and reports whether
// the provider is reachable and answering coherently.
func Ping(ctx context.Context, g Generator) (bool, string) {
	resp, err := g.Generate(ctx, GenerateRequest{
		User:        "Hello! Please respond with 'API connection successful'",
		MaxTokens:   50,
		Temperature: 0.1,
	})
	switch {
	case err != nil:
		return false, "API connection failed: " + err.Error()
	case strings.Contains(resp, "API connection successful"):
		return true, "API connection successful"
	case resp != "":
		return true, "API connected but unexpected response: " + resp
	default:
		return false, "API connection failed: empty response"
	}
}
