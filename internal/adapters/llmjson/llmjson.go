// Package llmjson holds the prompt/response contract shared by the
// generative backend adapters: one prompt format, and one decoder that
// treats the model's reply as untrusted input.
package llmjson

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spamrun/email-checker/internal/core"
)

// analysisPayload mirrors the JSON shape the prompt asks the model to emit.
// Fields the model omits default to empty; nothing here is trusted as-is.
type analysisPayload struct {
	SpamScore           float64               `json:"spamScore"`
	DeliverabilityScore float64               `json:"deliverabilityScore"`
	EstimatedInboxRate  float64               `json:"estimatedInboxRate"`
	Verdict             string                `json:"verdict"`
	SubjectLineIssues   []core.SubjectIssue   `json:"subjectLineIssues"`
	SpamIndicators      []core.SpamIndicator  `json:"spamIndicators"`
	Positives           []core.Positive       `json:"positives"`
	Recommendations     []core.Recommendation `json:"recommendations"`
	SuggestedRewrite    string                `json:"suggestedRewrite"`
}

// Decode extracts the first JSON object from an LLM response and validates
// it into a canonical result. Absent collections become empty slices; the
// scores and verdict are normalized later by the orchestrator, which also
// overwrites the technical details with locally computed ones.
func Decode(responseText string) (*core.AnalysisResult, error) {
	jsonStr, err := extractObject(responseText)
	if err != nil {
		return nil, err
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}

	result := &core.AnalysisResult{
		SpamScore:         payload.SpamScore,
		Verdict:           core.Verdict(payload.Verdict),
		SubjectLineIssues: payload.SubjectLineIssues,
		SpamIndicators:    payload.SpamIndicators,
		Positives:         payload.Positives,
		Recommendations:   payload.Recommendations,
	}
	if rewrite := strings.TrimSpace(payload.SuggestedRewrite); rewrite != "" {
		result.SuggestedRewrite = &rewrite
	}
	result.Normalize()
	return result, nil
}

// extractObject returns the text between the first '{' and the last '}'.
// Models often wrap the JSON in prose or code fences; this strips both.
func extractObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || start >= end {
		return "", fmt.Errorf("no JSON object found in LLM response")
	}
	return text[start : end+1], nil
}
