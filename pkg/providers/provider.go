// Package providers implements the language-model fallback used when no
// skill claims an utterance. Providers are replaceable external services:
// the interaction loop treats them as opaque text producers.
package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/droidmind/droidmind/pkg/config"
)

// SystemPrompt is the kernel persona instruction sent with every fallback call.
const SystemPrompt = "你现在是 DroidMind 系统的智能内核。" +
	"1. 严禁废话，直接输出结果。" +
	"2. 必须以硬核、系统指令化的中文风格回复。" +
	"3. 复杂任务分步列出。" +
	"4. 保持绝对的高效与原生感。"

// LLMProvider produces a text completion for a prompt.
type LLMProvider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// CreateProvider builds the configured provider. A missing API key is a
// construction error; callers decide how to degrade.
func CreateProvider(cfg *config.Config) (LLMProvider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Assistant.Provider))
	switch name {
	case "", ProviderGemini:
		return NewGeminiProvider(cfg.Providers.Gemini, cfg.Assistant.Model)
	case ProviderOpenRouter:
		return newChatCompletionsProvider(ProviderOpenRouter, cfg.Providers.OpenRouter, cfg.Assistant.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Assistant.Provider)
	}
}
