package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thywilljoshua/summarease/internal/ai"
	"github.com/thywilljoshua/summarease/internal/assistant"
	"github.com/thywilljoshua/summarease/internal/config"
	"github.com/thywilljoshua/summarease/internal/document"
	"github.com/thywilljoshua/summarease/internal/observability"
	"github.com/thywilljoshua/summarease/internal/session"
)

// app is everything a command needs once configuration is loaded.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	assistant *assistant.Assistant
}

// newApp loads configuration and, when withModel is set, connects the generative model.
// A missing API key is fatal for commands that need the model.
func newApp(ctx context.Context, opts *rootOptions, withModel bool) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.noColor {
		color.NoColor = true
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      os.Stderr,
		ServiceName: "summarease",
	})

	a := &app{cfg: cfg, logger: logger}
	if !withModel {
		return a, nil
	}

	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	gen, err := ai.New(ctx, ai.Config{
		Provider: cfg.AI.Provider,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	a.assistant = assistant.New(gen, assistantOptions(cfg), logger)
	return a, nil
}

func assistantOptions(cfg *config.Config) assistant.Options {
	return assistant.Options{
		MaxTextLength:    cfg.Text.MaxLength,
		DefaultQuestions: cfg.Quiz.DefaultQuestions,
		MinQuestions:     cfg.Quiz.MinQuestions,
		MaxQuestions:     cfg.Quiz.MaxQuestions,
		Timeout:          cfg.AI.Timeout,
	}
}

// loadLocal opens path and extracts it into a fresh local session.
func (a *app) loadLocal(path string) (*session.State, error) {
	f, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st := session.New(uuid.NewString(), time.Now())
	if err := a.assistant.LoadDocument(st, filepath.Base(path), f); err != nil {
		return nil, err
	}
	return st, nil
}
