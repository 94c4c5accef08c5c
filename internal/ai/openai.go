package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/thywilljoshua/summarease/internal/domain"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAI talks to any OpenAI-compatible chat endpoint, e.g. OpenRouter.
type OpenAI struct {
	llm   llms.Model
	model string
}

func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, domain.ConfigError("OPENAI_API_KEY not found in environment variables", nil)
	}
	if model == "" {
		return nil, domain.ConfigError("a model is required for the openai provider", nil)
	}
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, domain.ConfigError("cannot create openai client", err)
	}
	return &OpenAI{llm: llm, model: model}, nil
}

func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Generate(ctx context.Context, text string) (string, error) {
	res, err := o.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	})
	if err != nil {
		return "", fmt.Errorf("openai API call failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", nil
	}
	return res.Choices[0].Content, nil
}
