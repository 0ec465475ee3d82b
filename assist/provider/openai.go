package provider

import (
	"context"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Config describes one OpenAI-compatible text-generation backend. DeepSeek
// and Ollama expose the same chat-completion API behind a base URL.
type Config struct {
	Name        string // unique name used in priority order and analytics
	APIKey      string
	BaseURL     string // empty for the default OpenAI endpoint
	Model       string
	MaxTokens   int     // default: 1024
	Temperature float32 // default: 0.7
}

// openAIProvider implements Provider over the OpenAI chat-completion API.
type openAIProvider struct {
	name        string
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIProvider creates a provider backed by an OpenAI-compatible API.
func NewOpenAIProvider(cfg Config) (Provider, error) {
	if cfg.Name == "" {
		return nil, errors.New("provider name is required")
	}
	if cfg.Model == "" {
		return nil, errors.Errorf("model is required for provider %s", cfg.Name)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &openAIProvider{
		name:        cfg.Name,
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (p *openAIProvider) Name() string {
	return p.name
}

func (p *openAIProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	maxTokens := p.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	temperature := p.temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertMessages(req.Messages),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", errors.Wrapf(err, "chat completion failed for provider %s", p.name)
	}
	if len(resp.Choices) == 0 {
		return "", errors.Errorf("empty response from provider %s", p.name)
	}

	return resp.Choices[0].Message.Content, nil
}

func convertMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case "system":
			role = openai.ChatMessageRoleSystem
		case "assistant":
			role = openai.ChatMessageRoleAssistant
		}
		out[i] = openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		}
	}
	return out
}

// Ensure openAIProvider implements Provider
var _ Provider = (*openAIProvider)(nil)
