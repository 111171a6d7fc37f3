package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/droidmind/droidmind/pkg/config"
)

const defaultGeminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider calls the Gemini generateContent API directly over HTTP.
type GeminiProvider struct {
	apiBase    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiProvider(pc config.ProviderConfig, model string) (*GeminiProvider, error) {
	apiKey := strings.TrimSpace(pc.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}
	apiBase := strings.TrimRight(strings.TrimSpace(pc.APIBase), "/")
	if apiBase == "" {
		apiBase = defaultGeminiAPIBase
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = "gemini-3-flash-preview"
	}

	return &GeminiProvider{
		apiBase:    apiBase,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"system_instruction": geminiContent{Parts: []geminiPart{{Text: SystemPrompt}}},
		"contents":           []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		"generationConfig": map[string]interface{}{
			"temperature": 0.7,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.apiBase, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []geminiPart `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}
