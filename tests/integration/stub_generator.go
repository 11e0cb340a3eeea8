package integration

import (
	"context"
	"sync"

	"github.com/dshills/repolens/internal/llm"
)

// stubGenerator is a deterministic in-process llm.Generator. It records
// every request so tests can assert on the prompts the pipeline
// assembles. Safe for concurrent use; the summarizer fans out.
type stubGenerator struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []llm.GenerateRequest
}

func newStubGenerator(reply string) *stubGenerator {
	return &stubGenerator{reply: reply}
}

func (g *stubGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *stubGenerator) Provider() string { return "stub" }
func (g *stubGenerator) Model() string    { return "stub-model" }
func (g *stubGenerator) Close() error     { return nil }

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

func (g *stubGenerator) lastRequest() (llm.GenerateRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.requests) == 0 {
		return llm.GenerateRequest{}, false
	}
	return g.requests[len(g.requests)-1], true
}
