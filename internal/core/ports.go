package core

import (
	"context"
)

// LLMAnalyzer defines the interface for generative analysis backends.
type LLMAnalyzer interface {
	// GenerateAnalysis asks the backend for a full deliverability report.
	// Any error (network, credential, unparsable response) means the caller
	// should fall back to rule-based analysis.
	GenerateAnalysis(ctx context.Context, subject, body string) (*AnalysisResult, error)
}

// RuleEngine defines the interface for the deterministic fallback analyzer.
type RuleEngine interface {
	// Score produces a complete rule-based report. It is total: it never
	// fails, for any string input.
	Score(subject, body string) *AnalysisResult

	// ExtractFeatures derives the technical details for an email.
	ExtractFeatures(subject, body string) TechnicalFeatures
}

// HistoryRepository defines the interface for persisting issued results.
type HistoryRepository interface {
	// Save stores a result under its check ID.
	Save(ctx context.Context, result *AnalysisResult) error

	// Get retrieves a previously issued result.
	Get(ctx context.Context, id string) (*AnalysisResult, error)

	// List returns up to limit results, newest first.
	List(ctx context.Context, limit int) ([]*AnalysisResult, error)

	// Cleanup removes entries past the retention window.
	Cleanup(ctx context.Context) error
}
