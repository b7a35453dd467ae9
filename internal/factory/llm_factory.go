// Package factory builds the configured adapter implementations.
package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/adapters/bedrock"
	"github.com/spamrun/email-checker/internal/adapters/gemini"
	"github.com/spamrun/email-checker/internal/adapters/openai"
	"github.com/spamrun/email-checker/internal/config"
	"github.com/spamrun/email-checker/internal/core"
	"github.com/spamrun/email-checker/internal/utils"
)

// CreateLLMAnalyzer builds the configured LLM backend. Provider "none"
// returns a nil analyzer, which puts the service in rule-based-only mode.
func CreateLLMAnalyzer(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) (core.LLMAnalyzer, error) {
	provider := cfg.GetLLM().Provider

	switch provider {
	case "", "none":
		return nil, nil
	case "bedrock":
		return bedrock.NewFactory(cfg, logger, textProcessor).CreateClient()
	case "gemini":
		return gemini.NewFactory(cfg, logger, textProcessor).CreateClient()
	case "openai":
		return openai.NewFactory(cfg, logger, textProcessor).CreateClient()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}
