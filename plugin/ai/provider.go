// Package ai is the generation boundary: prompt-templated calls to the
// LLM provider with typed retry classification and deterministic
// static fallbacks. Callers never see a raw provider failure.
package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/hrygo/designgenie/internal/profile"
)

// Config holds the AI provider configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries int
	// Timeout bounds each individual attempt, not the whole call.
	Timeout time.Duration
	// RetryBaseDelay seeds the backoff schedule.
	RetryBaseDelay time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://api.openai.com/v1",
		Model:          "gpt-4o-mini",
		MaxRetries:     3,
		Timeout:        15 * time.Second,
		RetryBaseDelay: time.Second,
	}
}

// ConfigFromProfile builds the provider config from the server profile.
func ConfigFromProfile(p *profile.Profile) *Config {
	cfg := DefaultConfig()
	if p.AIBaseURL != "" {
		cfg.BaseURL = p.AIBaseURL
	}
	if p.AIModel != "" {
		cfg.Model = p.AIModel
	}
	if p.AIMaxRetries > 0 {
		cfg.MaxRetries = p.AIMaxRetries
	}
	if p.AITimeout > 0 {
		cfg.Timeout = p.AITimeout
	}
	cfg.APIKey = p.AIAPIKey
	return cfg
}

// ChatCompleter is the slice of the OpenAI client the provider uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Provider performs structured generation calls against the LLM.
type Provider struct {
	client ChatCompleter
	config *Config
}

// NewProvider creates a new AI provider.
func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// NewProviderWithClient creates a provider over an explicit client.
func NewProviderWithClient(cfg *Config, client ChatCompleter) *Provider {
	p := NewProvider(cfg)
	p.client = client
	return p
}

// complete performs one chat completion attempt bounded by the
// per-attempt timeout.
func (p *Provider) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// generateJSON runs completions expected to yield a single JSON
// object and decodes it into out, retrying up to MaxRetries attempts
// in total. Provider failures and syntactically invalid payloads draw
// from the same attempt budget; retryable provider failures back off
// exponentially, with the delay growth depending on the typed
// classification of the failure.
func (p *Provider) generateJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	var lastErr error
	delay := p.config.RetryBaseDelay
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		raw, err := p.complete(ctx, systemPrompt, userPrompt)
		if err != nil {
			class := classify(err)
			if class == retryNone {
				return err
			}
			lastErr = err
			if attempt == p.config.MaxRetries-1 {
				break
			}

			slog.Debug("generation attempt failed, retrying",
				"attempt", attempt+1, "class", class, "delay", delay, "error", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			switch class {
			case retryTimeout:
				delay = delay * 3 / 2
			default:
				delay *= 2
			}
			continue
		}

		if err := json.Unmarshal([]byte(extractJSON(raw)), out); err != nil {
			lastErr = err
			slog.Debug("generation returned unparseable JSON, retrying",
				"attempt", attempt+1, "error", err)
			continue
		}
		return nil
	}
	return lastErr
}

// extractJSON strips markdown code fences the model may wrap around
// its JSON output.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
