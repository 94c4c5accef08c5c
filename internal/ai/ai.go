// Package ai wraps the generative text services behind a single blocking call.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/thywilljoshua/summarease/internal/domain"
)

// Generator sends one prompt and returns the model's reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config selects and authenticates a provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// New builds the Generator for cfg.Provider. A missing API key is a config error.
func New(ctx context.Context, cfg Config) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	}
	return nil, domain.ConfigError(fmt.Sprintf("unknown ai provider %q", cfg.Provider), nil)
}
