// Package config loads summarease configuration from defaults, an optional YAML file,
// a .env file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/summarease/internal/domain"
)

// Config holds all configuration for summarease.
type Config struct {
	AI      AIConfig      `yaml:"ai"`
	Text    TextConfig    `yaml:"text"`
	Quiz    QuizConfig    `yaml:"quiz"`
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// AIConfig selects the generative model.
type AIConfig struct {
	Provider string        `yaml:"provider"` // gemini or openai
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

type TextConfig struct {
	MaxLength int `yaml:"max_length"`
}

type QuizConfig struct {
	DefaultQuestions int `yaml:"default_questions"`
	MinQuestions     int `yaml:"min_questions"`
	MaxQuestions     int `yaml:"max_questions"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxUploadMB    int64         `yaml:"max_upload_mb"`
}

type SessionConfig struct {
	Driver string        `yaml:"driver"` // memory or redis
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// DefaultConfig returns a configuration with development defaults.
func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Timeout:  120 * time.Second,
		},
		Text: TextConfig{MaxLength: 30000},
		Quiz: QuizConfig{
			DefaultQuestions: 5,
			MinQuestions:     3,
			MaxQuestions:     10,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   180 * time.Second,
			RequestTimeout: 150 * time.Second,
			MaxUploadMB:    50,
		},
		Session: SessionConfig{
			Driver: "memory",
			TTL:    2 * time.Hour,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "summarease:session:",
			},
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load builds the configuration. path may be empty; a missing .env file is ignored.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ConfigError("read .env file", err)
	}

	if path == "" {
		path = os.Getenv("SUMMAREASE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SUMMAREASE_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("SUMMAREASE_MODEL"); v != "" {
		cfg.AI.Model = v
	} else if v := os.Getenv("GEMINI_MODEL"); v != "" && cfg.AI.Provider == "gemini" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("SUMMAREASE_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	switch cfg.AI.Provider {
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	default:
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	}
	if err := envDuration("AI_TIMEOUT", &cfg.AI.Timeout); err != nil {
		return err
	}
	if err := envInt("MAX_TEXT_LENGTH", &cfg.Text.MaxLength); err != nil {
		return err
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Session.Driver = "redis"
		cfg.Session.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}
	if v := os.Getenv("SESSION_DRIVER"); v != "" {
		cfg.Session.Driver = v
	}
	if err := envDuration("SESSION_TTL", &cfg.Session.TTL); err != nil {
		return err
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return domain.ConfigError(fmt.Sprintf("invalid %s", name), err)
	}
	*dst = n
	return nil
}

func envDuration(name string, dst *time.Duration) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return domain.ConfigError(fmt.Sprintf("invalid %s", name), err)
	}
	*dst = d
	return nil
}

// Validate checks the configuration for errors. Credentials are checked separately by
// RequireAPIKey so that commands which never call the model can run without one.
func (c *Config) Validate() error {
	if c.AI.Provider != "gemini" && c.AI.Provider != "openai" {
		return domain.ConfigError(fmt.Sprintf("invalid ai provider: %s", c.AI.Provider), nil)
	}
	if c.AI.Provider == "openai" && c.AI.Model == "" {
		return domain.ConfigError("ai.model is required for the openai provider", nil)
	}
	if c.AI.Timeout <= 0 {
		return domain.ConfigError("ai.timeout must be positive", nil)
	}
	if c.Text.MaxLength < 1 {
		return domain.ConfigError("text.max_length must be positive", nil)
	}
	q := c.Quiz
	if q.MinQuestions < 1 || q.MinQuestions > q.MaxQuestions {
		return domain.ConfigError(fmt.Sprintf("invalid quiz bounds [%d,%d]", q.MinQuestions, q.MaxQuestions), nil)
	}
	if q.DefaultQuestions < q.MinQuestions || q.DefaultQuestions > q.MaxQuestions {
		return domain.ConfigError(fmt.Sprintf("quiz.default_questions must be between %d and %d", q.MinQuestions, q.MaxQuestions), nil)
	}
	if c.Session.Driver != "memory" && c.Session.Driver != "redis" {
		return domain.ConfigError(fmt.Sprintf("invalid session driver: %s", c.Session.Driver), nil)
	}
	if c.Server.MaxUploadMB < 1 {
		return domain.ConfigError("server.max_upload_mb must be positive", nil)
	}
	return nil
}

// RequireAPIKey fails when the selected provider has no credential.
func (c *Config) RequireAPIKey() error {
	if c.AI.APIKey != "" {
		return nil
	}
	name := "GEMINI_API_KEY"
	if c.AI.Provider == "openai" {
		name = "OPENAI_API_KEY"
	}
	return domain.ConfigError(name+" not found in environment variables", nil)
}
