// Package provider implements text-generation providers, their health
// registry, and the failover router.
package provider

import "context"

// Message represents a chat message sent to a provider.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// GenerateRequest is a provider-agnostic generation request.
type GenerateRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// Result is the outcome of a routed generation call.
type Result struct {
	Text      string
	Provider  string
	LatencyMs int64
	// Fallback is true when every provider failed and the canned reply
	// was returned instead of generated text.
	Fallback bool
}

// Provider is a single text-generation backend.
type Provider interface {
	// Name returns the configured provider name, unique per router.
	Name() string

	// Generate produces a completion for the request.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Helper constructors for chat messages.

// SystemMessage creates a system prompt message.
func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}
