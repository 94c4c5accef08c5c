package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thywilljoshua/summarease/internal/domain"
)

func TestGeneratorFunc(t *testing.T) {
	var got string
	g := GeneratorFunc(func(_ context.Context, p string) (string, error) {
		got = p
		return "reply", nil
	})
	out, err := g.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "reply", out)
	assert.Equal(t, "hello", got)
}

func TestNewRequiresCredentials(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{Provider: ProviderGemini})
	assert.True(t, domain.Is(err, domain.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	_, err = New(ctx, Config{Provider: ProviderOpenAI, Model: "gpt-4o-mini"})
	assert.True(t, domain.Is(err, domain.ErrorTypeConfig))

	_, err = New(ctx, Config{Provider: "carrier-pigeon", APIKey: "k"})
	assert.True(t, domain.Is(err, domain.ErrorTypeConfig))
}

func TestGeminiDefaultsModel(t *testing.T) {
	g, err := NewGemini(context.Background(), "test-key", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, g.Model())
}

func TestOpenAIGenerate(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Messages []struct {
				Content any `json:"content"`
			} `json:"messages"`
		}
		_ = json.Unmarshal(body, &req)
		if len(req.Messages) > 0 {
			b, _ := json.Marshal(req.Messages[0].Content)
			prompt = string(b)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"test-model",
			"choices":[{"index":0,"message":{"role":"assistant","content":"a concise answer"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":1,"completion_tokens":3,"total_tokens":4}}`)
	}))
	defer srv.Close()

	o, err := NewOpenAI("sk-test", "test-model", srv.URL)
	require.NoError(t, err)
	out, err := o.Generate(context.Background(), "what is this document about?")
	require.NoError(t, err)
	assert.Equal(t, "a concise answer", out)
	assert.Contains(t, prompt, "what is this document about?")
}
