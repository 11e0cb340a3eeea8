// Package llm wraps the text-generation providers behind the Generator
// interface: OpenRouter for hosted models and Ollama for local ones.
//
// Both providers speak plain chat-completion HTTP with a bounded timeout
// and exponential-backoff retry. Callers treat the generator as opaque:
// they hand over a system prompt, a user prompt, and sampling knobs, and
// get back trimmed text or an error. Nothing above this package retries;
// a failed or empty generation degrades to a fixed fallback message at
// the call site.
//
// Provider selection follows the environment (NewFromEnv): an explicit
// REPOLENS_LLM_PROVIDER wins, then the presence of OPENROUTER_API_KEY,
// then a local Ollama server as the no-configuration default.
package llm
