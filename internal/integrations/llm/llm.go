package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"portfoliodash/internal/config"
)

type Config = config.Config

// FallbackRiskAnalysis is shown whenever the provider cannot produce an answer.
const FallbackRiskAnalysis = "Sorry, the risk analysis could not be generated right now. Please try again later."

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"
const defaultGeminiModel = "gemini-2.5-flash"

var errDisabled = errors.New("llm provider disabled")

type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

// generateFn is replaced in tests.
var generateFn = generate

func generate(ctx context.Context, cfg Config, systemPrompt, userPrompt string) (string, Usage, error) {
	model := modelFor(cfg)
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		return callAnthropic(ctx, cfg.AnthropicAPIKey, model, systemPrompt, userPrompt)
	case config.ProviderOpenAI:
		return callOpenAI(ctx, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, model, systemPrompt, userPrompt)
	case config.ProviderGemini:
		return callGemini(ctx, cfg.GeminiAPIKey, model, systemPrompt, userPrompt)
	case config.ProviderNone, "":
		return "", Usage{}, errDisabled
	default:
		return "", Usage{}, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func modelFor(cfg Config) string {
	if m := strings.TrimSpace(cfg.LLMModel); m != "" {
		return m
	}
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return defaultOpenAIModel
	case config.ProviderGemini:
		return defaultGeminiModel
	default:
		return defaultAnthropicModel
	}
}

// analyze never fails: errors and empty answers are logged and replaced
// with FallbackRiskAnalysis.
func analyze(ctx context.Context, cfg Config, kind, systemPrompt, userPrompt string) string {
	started := time.Now()
	text, usage, err := generateFn(ctx, cfg, systemPrompt, userPrompt)
	if err != nil {
		log.Printf("llm risk-analysis kind=%s provider=%s error: %v", kind, cfg.LLMProvider, err)
		return FallbackRiskAnalysis
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Printf("llm risk-analysis kind=%s provider=%s empty response", kind, cfg.LLMProvider)
		return FallbackRiskAnalysis
	}
	log.Printf("llm risk-analysis kind=%s provider=%s model=%s tokens_in=%d tokens_out=%d latency=%s",
		kind, cfg.LLMProvider, modelFor(cfg), usage.InputTokens, usage.OutputTokens, time.Since(started).Round(time.Millisecond))
	return text
}
