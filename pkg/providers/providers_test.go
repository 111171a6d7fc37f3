package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/droidmind/droidmind/pkg/config"
)

func TestCreateProvider_DefaultsToGemini(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.Gemini.APIKey = "test-key"

	provider, err := CreateProvider(cfg)
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}
	if provider.Name() != ProviderGemini {
		t.Fatalf("expected gemini provider, got %s", provider.Name())
	}
}

func TestCreateProvider_MissingKeyFails(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, err := CreateProvider(cfg); err == nil {
		t.Fatalf("expected error without API key")
	}
}

func TestCreateProvider_UnknownName(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Assistant.Provider = "mystery"
	if _, err := CreateProvider(cfg); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestGeminiProvider_Complete(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "  指令已收到。  "}},
				}},
			},
		})
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(config.ProviderConfig{APIKey: "k", APIBase: server.URL}, "test-model")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	text, err := provider.Complete(context.Background(), "你好")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "指令已收到。" {
		t.Fatalf("expected trimmed reply, got %q", text)
	}
	if gotPath != "/models/test-model:generateContent" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "k" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if _, ok := gotBody["system_instruction"]; !ok {
		t.Fatalf("expected system instruction in request body")
	}
}

func TestGeminiProvider_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(config.ProviderConfig{APIKey: "k", APIBase: server.URL}, "m")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, err := provider.Complete(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}

func TestChatCompletionsProvider_Complete(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "done"}},
			},
		})
	}))
	defer server.Close()

	provider, err := newChatCompletionsProvider(ProviderOpenRouter,
		config.ProviderConfig{APIKey: "secret", APIBase: server.URL}, "some/model")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	text, err := provider.Complete(context.Background(), "你好")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "done" {
		t.Fatalf("expected reply, got %q", text)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if gotBody.Model != "some/model" {
		t.Fatalf("expected model forwarded, got %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("expected system+user messages, got %+v", gotBody.Messages)
	}
	if !strings.Contains(gotBody.Messages[0].Content, "DroidMind") {
		t.Fatalf("expected persona prompt in system message")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected unchanged string, got %q", got)
	}
	if got := truncate("0123456789abc", 10); got != "0123456789..." {
		t.Fatalf("expected truncated string, got %q", got)
	}
}
