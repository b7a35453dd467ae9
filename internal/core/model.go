package core

// Verdict is the categorical risk classification derived from the spam score.
type Verdict string

const (
	VerdictInboxReady       Verdict = "INBOX_READY"
	VerdictNeedsImprovement Verdict = "NEEDS_IMPROVEMENT"
	VerdictHighRisk         Verdict = "HIGH_RISK"
	VerdictSpamLikely       Verdict = "SPAM_LIKELY"
)

// Severity indicates how serious a spam indicator is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Category groups spam indicators by the part of the email they concern.
type Category string

const (
	CategoryContent    Category = "content"
	CategoryFormatting Category = "formatting"
	CategoryLinks      Category = "links"
	CategorySubject    Category = "subject"
	CategoryTechnical  Category = "technical"
)

// Impact rates how much fixing a finding would move deliverability.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// SubjectIssueKind identifies the class of a subject line problem.
type SubjectIssueKind string

const (
	SubjectIssueSpamWord             SubjectIssueKind = "spam_word"
	SubjectIssueExcessiveCaps        SubjectIssueKind = "excessive_caps"
	SubjectIssueExcessivePunctuation SubjectIssueKind = "excessive_punctuation"
	SubjectIssueLength               SubjectIssueKind = "length"
	SubjectIssueMisleading           SubjectIssueKind = "misleading"
)

// TechnicalFeatures holds the objective structural facts extracted from an
// email. They are recomputed for every request and never taken from a
// generative backend.
type TechnicalFeatures struct {
	WordCount          int            `json:"wordCount"`
	LinkCount          int            `json:"linkCount"`
	ImageCount         int            `json:"imageCount"`
	HasUnsubscribeLink bool           `json:"hasUnsubscribeLink"`
	HasPhysicalAddress bool           `json:"hasPhysicalAddress"`
	RepeatedURLDomains map[string]int `json:"repeatedUrlDomains,omitempty"`
	AllCapsWords       []string       `json:"allCapsWords,omitempty"`
	ExclamationCount   int            `json:"exclamationCount"`
	PhoneNumberCount   int            `json:"phoneNumberCount"`
}

// SubjectIssue describes a problem found in the subject line.
type SubjectIssue struct {
	Kind           SubjectIssueKind `json:"type"`
	Issue          string           `json:"issue"`
	Recommendation string           `json:"recommendation"`
}

// SpamIndicator describes a spam risk signal found in the email.
type SpamIndicator struct {
	Severity       Severity `json:"type"`
	Category       Category `json:"category"`
	Issue          string   `json:"issue"`
	Explanation    string   `json:"explanation"`
	Recommendation string   `json:"recommendation"`
	Impact         Impact   `json:"impact"`
}

// Positive describes something the email does well.
type Positive struct {
	Aspect      string `json:"aspect"`
	Description string `json:"description"`
}

// Recommendation is a prioritized, concrete action the sender should take.
// Lower priority numbers are more urgent.
type Recommendation struct {
	Priority int    `json:"priority"`
	Action   string `json:"action"`
	Impact   Impact `json:"impact"`
	Details  string `json:"details"`
}

// AnalysisResult is the canonical result of analyzing one email. It is
// created fresh per request and not mutated after being returned.
type AnalysisResult struct {
	ID                  string            `json:"id"`
	SpamScore           float64           `json:"spamScore"`
	DeliverabilityScore float64           `json:"deliverabilityScore"`
	EstimatedInboxRate  float64           `json:"estimatedInboxRate"`
	Verdict             Verdict           `json:"verdict"`
	SubjectLineIssues   []SubjectIssue    `json:"subjectLineIssues"`
	SpamIndicators      []SpamIndicator   `json:"spamIndicators"`
	Positives           []Positive        `json:"positives"`
	Recommendations     []Recommendation  `json:"recommendations"`
	TechnicalDetails    TechnicalFeatures `json:"technicalDetails"`
	SuggestedRewrite    *string           `json:"suggestedRewrite"`
	ProcessingTimeMs    int64             `json:"processingTimeMs"`
	Timestamp           string            `json:"timestamp"`
}

// ClampScore bounds a spam score to [0,100].
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// VerdictForScore maps a spam score to its verdict bucket. The partition is
// exhaustive and non-overlapping; boundary scores land in the higher bucket.
func VerdictForScore(score float64) Verdict {
	switch {
	case score < 20:
		return VerdictInboxReady
	case score < 50:
		return VerdictNeedsImprovement
	case score < 75:
		return VerdictHighRisk
	default:
		return VerdictSpamLikely
	}
}

// Normalize enforces the score invariants on a result regardless of which
// analysis path produced it: the spam score is clamped to [0,100], the
// deliverability and inbox-rate scores are rederived from it, the verdict is
// recomputed from the clamped score, and finding lists are never nil.
func (r *AnalysisResult) Normalize() {
	r.SpamScore = ClampScore(r.SpamScore)
	r.DeliverabilityScore = ClampScore(100 - r.SpamScore)
	r.EstimatedInboxRate = ClampScore(r.DeliverabilityScore - 10)
	r.Verdict = VerdictForScore(r.SpamScore)

	if r.SubjectLineIssues == nil {
		r.SubjectLineIssues = []SubjectIssue{}
	}
	if r.SpamIndicators == nil {
		r.SpamIndicators = []SpamIndicator{}
	}
	if r.Positives == nil {
		r.Positives = []Positive{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []Recommendation{}
	}
}
