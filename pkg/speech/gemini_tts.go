package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/droidmind/droidmind/pkg/config"
)

const (
	defaultTTSAPIBase = "https://generativelanguage.googleapis.com/v1beta"
	ttsHTTPTimeout    = 60 * time.Second
)

// GeminiTTS synthesizes speech through the Gemini TTS models. The returned
// bytes are 24kHz mono 16-bit PCM, as served by the API.
type GeminiTTS struct {
	apiBase    string
	apiKey     string
	model      string
	voice      string
	httpClient *http.Client
}

func NewGeminiTTS(pc config.ProviderConfig, sc config.SpeechConfig) (*GeminiTTS, error) {
	apiKey := strings.TrimSpace(pc.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}
	apiBase := strings.TrimRight(strings.TrimSpace(pc.APIBase), "/")
	if apiBase == "" {
		apiBase = defaultTTSAPIBase
	}
	model := strings.TrimSpace(sc.Model)
	if model == "" {
		model = "gemini-2.5-flash-preview-tts"
	}
	voice := strings.TrimSpace(sc.Voice)
	if voice == "" {
		voice = "Kore"
	}

	return &GeminiTTS{
		apiBase:    apiBase,
		apiKey:     apiKey,
		model:      model,
		voice:      voice,
		httpClient: &http.Client{Timeout: ttsHTTPTimeout},
	}, nil
}

func (t *GeminiTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": text}}},
		},
		"generationConfig": map[string]interface{}{
			"responseModalities": []string{"AUDIO"},
			"speechConfig": map[string]interface{}{
				"voiceConfig": map[string]interface{}{
					"prebuiltVoiceConfig": map[string]string{"voiceName": t.voice},
				},
			},
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", t.apiBase, t.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					InlineData struct {
						Data string `json:"data"`
					} `json:"inlineData"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode tts response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, nil
	}
	encoded := parsed.Candidates[0].Content.Parts[0].InlineData.Data
	if encoded == "" {
		return nil, nil
	}
	audio, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode tts audio: %w", err)
	}
	return audio, nil
}
