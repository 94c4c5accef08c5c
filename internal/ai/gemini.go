package ai

import (
	"context"
	"fmt"

	"github.com/thywilljoshua/summarease/internal/domain"
	genai "google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a client for the Gemini API. baseURL is optional.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	if apiKey == "" {
		return nil, domain.ConfigError("GEMINI_API_KEY not found in environment variables", nil)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	cc := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, domain.ConfigError("cannot create gemini client", err)
	}
	return &Gemini{client: c, model: model}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Generate(ctx context.Context, text string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	return res.Text(), nil
}
