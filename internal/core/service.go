package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalyzerService is the single entry point for email analysis. It tries the
// generative backend when one is configured and falls back to the rule-based
// engine on any failure, so valid string input essentially never surfaces an
// error to the caller.
type AnalyzerService struct {
	llm    LLMAnalyzer // nil when no backend credential is configured
	rules  RuleEngine
	logger *zap.Logger
}

// NewAnalyzerService creates a new analyzer service.
func NewAnalyzerService(llm LLMAnalyzer, rules RuleEngine, logger *zap.Logger) *AnalyzerService {
	return &AnalyzerService{
		llm:    llm,
		rules:  rules,
		logger: logger,
	}
}

// Analyze produces the canonical deliverability report for one email. The
// technical details are always computed locally, never trusted from the
// generative backend, and every result gets a fresh check ID, timestamp and
// processing time regardless of which path produced it.
func (s *AnalyzerService) Analyze(ctx context.Context, subject, body string) *AnalysisResult {
	start := time.Now()

	var result *AnalysisResult
	usedLLM := false

	if s.llm != nil {
		llmResult, err := s.llm.GenerateAnalysis(ctx, subject, body)
		if err != nil {
			s.logger.Warn("Generative analysis failed, falling back to rule-based scoring",
				zap.Error(err))
		} else {
			result = llmResult
			usedLLM = true
			s.logger.Debug("Generative analysis succeeded")
		}
	}

	if result == nil {
		result = s.rules.Score(subject, body)
	}

	result.TechnicalDetails = s.rules.ExtractFeatures(subject, body)
	result.Normalize()

	// A rewrite is only meaningful coming from the generative backend, and
	// only for emails that actually have a spam problem.
	if !usedLLM || result.SpamScore <= 50 {
		result.SuggestedRewrite = nil
	}

	result.ID = newCheckID()
	result.Timestamp = time.Now().UTC().Format(time.RFC3339)
	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	return result
}

// newCheckID returns a unique identifier for one analysis.
func newCheckID() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("check_%d_%s", time.Now().UnixMilli(), token[:9])
}
