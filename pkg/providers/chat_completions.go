package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/droidmind/droidmind/pkg/config"
)

const defaultHTTPTimeout = 120 * time.Second

const defaultOpenRouterAPIBase = "https://openrouter.ai/api/v1"

// chatCompletionsProvider speaks the OpenAI-compatible chat completions
// protocol (OpenRouter and friends).
type chatCompletionsProvider struct {
	providerName string
	apiBase      string
	apiKey       string
	model        string
	httpClient   *http.Client
}

func newChatCompletionsProvider(providerName string, pc config.ProviderConfig, model string) (*chatCompletionsProvider, error) {
	apiKey := strings.TrimSpace(pc.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is not configured", providerName)
	}
	apiBase := strings.TrimRight(strings.TrimSpace(pc.APIBase), "/")
	if apiBase == "" {
		apiBase = defaultOpenRouterAPIBase
	}

	client := &http.Client{Timeout: defaultHTTPTimeout}
	if proxy := strings.TrimSpace(pc.Proxy); proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parse %s proxy: %w", providerName, err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return &chatCompletionsProvider{
		providerName: providerName,
		apiBase:      apiBase,
		apiKey:       apiKey,
		model:        strings.TrimSpace(model),
		httpClient:   client,
	}, nil
}

func (p *chatCompletionsProvider) Name() string {
	return p.providerName
}

func (p *chatCompletionsProvider) Complete(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "system", "content": SystemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.7,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", p.providerName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.apiBase+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("build %s request: %w", p.providerName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", p.providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", p.providerName, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d: %s", p.providerName, resp.StatusCode, truncate(string(body), 300))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode %s response: %w", p.providerName, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", p.providerName)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
