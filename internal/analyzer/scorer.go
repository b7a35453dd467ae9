package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spamrun/email-checker/internal/core"
)

// Penalty points per signal. Summed penalties are clamped to [0,100].
const (
	penaltySubjectSpamWord    = 30
	penaltySubjectLength      = 5
	penaltySubjectCaps        = 25
	penaltySubjectPunctuation = 20
	penaltyExclamations       = 15
	penaltyAllCapsWords       = 12
	penaltyPerTriggerWord     = 15
	penaltyRepeatedDomain     = 35
	penaltyNoUnsubscribe      = 25
	penaltyNoUnsubPersonal    = 10
	penaltyTooManyLinks       = 18
	penaltyPhoneNumber        = 8
)

const contextWindow = 50

var (
	specialRunRe     = regexp.MustCompile(`[@!#$%]{2,}`)
	personalOpenerRe = regexp.MustCompile(`(?i)hi |hey |hello |thanks|thank you|i hope|regards|following up|circling back`)
)

// Engine is the deterministic rule-based analyzer. It holds no per-request
// state; a single instance is safe for unlimited concurrent use.
type Engine struct{}

// NewEngine creates a rule engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score implements core.RuleEngine.
func (e *Engine) Score(subject, body string) *core.AnalysisResult {
	return Score(subject, body)
}

// ExtractFeatures implements core.RuleEngine.
func (e *Engine) ExtractFeatures(subject, body string) core.TechnicalFeatures {
	return ExtractFeatures(subject, body)
}

// Score runs the full rule-based analysis. It is synchronous, deterministic
// and total: any string input, including empty or garbage text, produces a
// valid result. The caller stamps ID, timestamp and processing time.
func Score(subject, body string) *core.AnalysisResult {
	feats := ExtractFeatures(subject, body)

	score := 0.0
	subjectIssues := []core.SubjectIssue{}
	indicators := []core.SpamIndicator{}
	positives := []core.Positive{}

	// Subject line checks.
	if strings.Contains(strings.ToLower(subject), "spam") {
		subjectIssues = append(subjectIssues, core.SubjectIssue{
			Kind:           core.SubjectIssueSpamWord,
			Issue:          `Subject contains "SPAM"`,
			Recommendation: `Never use the word "spam" in your subject line`,
		})
		score += penaltySubjectSpamWord
	}

	subjectLen := utf8.RuneCountInString(subject)
	if subjectLen > 60 {
		subjectIssues = append(subjectIssues, core.SubjectIssue{
			Kind:           core.SubjectIssueLength,
			Issue:          "Subject line is too long",
			Recommendation: "Keep subject lines under 60 characters for better open rates",
		})
		score += penaltySubjectLength
	}

	capsRatio := subjectCapsRatio(subject)
	if capsRatio > 0.5 && subjectLen > 3 {
		subjectIssues = append(subjectIssues, core.SubjectIssue{
			Kind:           core.SubjectIssueExcessiveCaps,
			Issue:          "Too many capital letters in subject",
			Recommendation: "Use normal capitalization - all caps looks like spam",
		})
		score += penaltySubjectCaps
	}

	if runs := specialRunRe.FindAllString(subject, -1); len(runs) > 0 {
		subjectIssues = append(subjectIssues, core.SubjectIssue{
			Kind:           core.SubjectIssueExcessivePunctuation,
			Issue:          "Excessive special characters: " + strings.Join(runs, ", "),
			Recommendation: "Remove excessive punctuation marks",
		})
		score += penaltySubjectPunctuation
	}

	// Formatting checks across subject and body.
	if feats.ExclamationCount >= 3 {
		indicators = append(indicators, core.SpamIndicator{
			Severity:       core.SeverityWarning,
			Category:       core.CategoryFormatting,
			Issue:          fmt.Sprintf("Excessive exclamation marks (%d found)", feats.ExclamationCount),
			Explanation:    "Multiple exclamation marks are a common spam indicator",
			Recommendation: "Use at most one exclamation mark",
			Impact:         core.ImpactMedium,
		})
		score += penaltyExclamations
	}

	if len(feats.AllCapsWords) > 2 {
		indicators = append(indicators, core.SpamIndicator{
			Severity:       core.SeverityWarning,
			Category:       core.CategoryFormatting,
			Issue:          fmt.Sprintf("Multiple all-caps words (%d found)", len(feats.AllCapsWords)),
			Explanation:    "Excessive capitalization is unprofessional and spam-like",
			Recommendation: "Use normal sentence case",
			Impact:         core.ImpactMedium,
		})
		score += penaltyAllCapsWords
	}

	// Lexicon check: each distinct trigger word compounds the score.
	spamWords := findTriggerWords(subject, body)
	if len(spamWords) > 0 {
		issue := "Contains spam trigger words: " + strings.Join(firstN(spamWords, 3), ", ")
		if len(spamWords) > 3 {
			issue += fmt.Sprintf(" and %d more", len(spamWords)-3)
		}
		indicators = append(indicators, core.SpamIndicator{
			Severity:       core.SeverityCritical,
			Category:       core.CategoryContent,
			Issue:          issue,
			Explanation:    "These words are commonly associated with spam emails",
			Recommendation: "Replace or remove these phrases with more natural language",
			Impact:         core.ImpactHigh,
		})
		score += float64(len(spamWords)) * penaltyPerTriggerWord
	}

	// Repeated URL domains are the single harshest signal: the same domain
	// hammered over and over reads as a templated spam blast.
	repeated := repeatedDomains(feats.RepeatedURLDomains)
	if len(repeated) > 0 {
		descs := make([]string, len(repeated))
		for i, d := range repeated {
			descs[i] = fmt.Sprintf("%s (%dx)", d.domain, d.count)
		}
		indicators = append(indicators, core.SpamIndicator{
			Severity:       core.SeverityCritical,
			Category:       core.CategoryContent,
			Issue:          "Repeated URLs detected: " + strings.Join(descs, ", "),
			Explanation:    "Repeating the same URL multiple times is a classic spam tactic",
			Recommendation: "Mention your URL once or twice maximum",
			Impact:         core.ImpactHigh,
		})
		score += penaltyRepeatedDomain
	}

	// One-to-one correspondence is held to a lower compliance bar than bulk
	// mail: reduced unsubscribe penalty, no physical-address nagging.
	personal := isPersonalEmail(body)

	if feats.HasUnsubscribeLink {
		positives = append(positives, core.Positive{
			Aspect:      "Unsubscribe link present",
			Description: "Required for commercial emails and improves deliverability",
		})
	} else {
		indicator := core.SpamIndicator{
			Severity:       core.SeverityCritical,
			Category:       core.CategoryTechnical,
			Issue:          "No unsubscribe link found",
			Explanation:    "Required by the CAN-SPAM Act for all commercial/marketing emails",
			Recommendation: "Add a clear unsubscribe link at the bottom of the email",
			Impact:         core.ImpactHigh,
		}
		if personal {
			indicator.Severity = core.SeverityWarning
			indicator.Issue = "No unsubscribe link (required for mass emails)"
			indicator.Explanation = "If sending to multiple recipients, the CAN-SPAM Act requires an unsubscribe link. Not needed for personal replies."
			indicator.Recommendation = "For mass emails: add an unsubscribe link. For personal emails: you're fine."
			indicator.Impact = core.ImpactMedium
			score += penaltyNoUnsubPersonal
		} else {
			score += penaltyNoUnsubscribe
		}
		indicators = append(indicators, indicator)
	}

	if feats.LinkCount > 5 {
		indicators = append(indicators, core.SpamIndicator{
			Severity:       core.SeverityWarning,
			Category:       core.CategoryLinks,
			Issue:          "Too many links in email",
			Explanation:    "Excessive links are a common spam indicator",
			Recommendation: "Reduce to 2-3 essential links",
			Impact:         core.ImpactMedium,
		})
		score += penaltyTooManyLinks
	}

	if feats.PhoneNumberCount > 0 {
		indicators = append(indicators, core.SpamIndicator{
			Severity:       core.SeverityWarning,
			Category:       core.CategoryContent,
			Issue:          "Contains phone number",
			Explanation:    "Phone numbers in emails can be a spam indicator",
			Recommendation: "Consider removing or using a contact form instead",
			Impact:         core.ImpactLow,
		})
		score += penaltyPhoneNumber
	}

	spamScore := core.ClampScore(score)

	// Positives are independently checked signals, not the absence of
	// negatives.
	if len(spamWords) == 0 {
		positives = append(positives, core.Positive{
			Aspect:      "Clean, professional language",
			Description: "No spam trigger words detected - great conversational tone",
		})
	}
	if subjectLen > 0 && subjectLen <= 60 && capsRatio < 0.3 {
		positives = append(positives, core.Positive{
			Aspect:      "Well-crafted subject line",
			Description: "Good length and natural capitalization",
		})
	}
	if feats.LinkCount > 0 && feats.LinkCount <= 3 {
		plural := ""
		if feats.LinkCount > 1 {
			plural = "s"
		}
		positives = append(positives, core.Positive{
			Aspect:      "Appropriate link usage",
			Description: fmt.Sprintf("%d link%s - not excessive", feats.LinkCount, plural),
		})
	}
	if feats.ExclamationCount <= 1 {
		positives = append(positives, core.Positive{
			Aspect:      "Professional tone",
			Description: "Minimal use of exclamation marks and emphasis",
		})
	}
	if personal && len(spamWords) == 0 {
		positives = append(positives, core.Positive{
			Aspect:      "Personal, authentic voice",
			Description: "Reads like a genuine one-on-one conversation",
		})
	}
	if feats.WordCount > 30 && feats.WordCount < 200 {
		positives = append(positives, core.Positive{
			Aspect:      "Good length",
			Description: "Concise but substantial - ideal for email",
		})
	}

	recommendations := buildRecommendations(subject, body, feats, spamWords, repeated, personal, capsRatio, subjectIssues, positives)

	result := &core.AnalysisResult{
		SpamScore:         spamScore,
		Verdict:           core.VerdictForScore(spamScore),
		SubjectLineIssues: subjectIssues,
		SpamIndicators:    indicators,
		Positives:         positives,
		Recommendations:   recommendations,
		TechnicalDetails:  feats,
	}
	result.Normalize()
	return result
}

// buildRecommendations synthesizes actions only for issues actually present,
// with literal before/after text taken from the input, sorted most urgent
// first.
func buildRecommendations(
	subject, body string,
	feats core.TechnicalFeatures,
	spamWords []string,
	repeated []domainCount,
	personal bool,
	capsRatio float64,
	subjectIssues []core.SubjectIssue,
	positives []core.Positive,
) []core.Recommendation {
	recommendations := []core.Recommendation{}

	if len(spamWords) > 0 {
		examples := make([]string, 0, 3)
		for _, word := range firstN(spamWords, 3) {
			context := ExtractContext(body, word, contextWindow)
			examples = append(examples, fmt.Sprintf("%q -> Remove or reword this phrase", context))
		}
		recommendations = append(recommendations, core.Recommendation{
			Priority: 1,
			Action:   "Remove spam trigger words",
			Impact:   core.ImpactHigh,
			Details:  fmt.Sprintf("Found: %s.\n\n%s", strings.Join(spamWords, ", "), strings.Join(examples, "\n")),
		})
	}

	if len(repeated) > 0 {
		descs := make([]string, len(repeated))
		for i, d := range repeated {
			descs[i] = fmt.Sprintf("%q %d times", d.domain, d.count)
		}
		recommendations = append(recommendations, core.Recommendation{
			Priority: 1,
			Action:   "Remove repeated URLs",
			Impact:   core.ImpactHigh,
			Details: fmt.Sprintf("You repeated %s.\n\nSpam filters hate this. Mention your URL once, maybe twice max.\n\n"+
				`Example: "Check out SpamRun.com" (once) instead of listing it %d times.`,
				strings.Join(descs, ", "), repeated[0].count),
		})
	}

	if len(feats.AllCapsWords) > 2 {
		rewrites := make([]string, 0, 3)
		for _, w := range firstN(feats.AllCapsWords, 3) {
			rewrites = append(rewrites, fmt.Sprintf("%q -> %q", w, sentenceCase(w)))
		}
		recommendations = append(recommendations, core.Recommendation{
			Priority: 2,
			Action:   "Fix all-caps words",
			Impact:   core.ImpactHigh,
			Details: fmt.Sprintf("Found %d all-caps words: %s\n\nChange to normal case:\n%s",
				len(feats.AllCapsWords),
				strings.Join(firstN(feats.AllCapsWords, 5), ", "),
				strings.Join(rewrites, "\n")),
		})
	}

	if !feats.HasUnsubscribeLink || !feats.HasPhysicalAddress {
		var missing []string
		if !feats.HasUnsubscribeLink {
			missing = append(missing, "unsubscribe link")
		}
		if !feats.HasPhysicalAddress {
			missing = append(missing, "physical address")
		}
		// Personal replies are exempt from CAN-SPAM elements; don't scare
		// users writing one-to-one correspondence.
		if !personal {
			missingItems := strings.Join(missing, " and ")
			recommendations = append(recommendations, core.Recommendation{
				Priority: 7,
				Action:   fmt.Sprintf("Add %s (CAN-SPAM required)", missingItems),
				Impact:   core.ImpactHigh,
				Details: fmt.Sprintf("Required by the CAN-SPAM Act for commercial emails: %s.\n\n"+
					"Add at the bottom:\n\"Unsubscribe | Company Name, 123 Main St, City, ST 12345\"\n\n"+
					"Not required for personal replies or transactional emails.", missingItems),
			})
		}
	}

	if len(subjectIssues) > 0 {
		issueList := make([]string, len(subjectIssues))
		for i, issue := range subjectIssues {
			issueList[i] = issue.Issue
		}

		betterSubject := subject
		if capsRatio > 0.5 {
			betterSubject = sentenceCase(subject)
		}
		if runes := []rune(betterSubject); utf8.RuneCountInString(subject) > 60 && len(runes) > 57 {
			betterSubject = string(runes[:57]) + "..."
		}

		recommendations = append(recommendations, core.Recommendation{
			Priority: 3,
			Action:   "Optimize subject line",
			Impact:   core.ImpactMedium,
			Details: fmt.Sprintf("Current: %q\nIssues: %s\n\nTry: %q",
				subject, strings.Join(issueList, ", "), betterSubject),
		})
	}

	if feats.ExclamationCount >= 3 || len(feats.AllCapsWords) > 2 {
		var examples []string
		if feats.ExclamationCount >= 3 {
			examples = append(examples, fmt.Sprintf("Remove %d exclamation marks", feats.ExclamationCount-1))
		}
		if len(feats.AllCapsWords) > 2 {
			examples = append(examples, fmt.Sprintf("Change %q to normal case", strings.Join(firstN(feats.AllCapsWords, 2), ", ")))
		}
		recommendations = append(recommendations, core.Recommendation{
			Priority: 4,
			Action:   "Reduce emphasis formatting",
			Impact:   core.ImpactMedium,
			Details:  strings.Join(examples, "\n"),
		})
	}

	if len(spamWords) == 0 && feats.HasUnsubscribeLink && len(positives) > 0 {
		recommendations = append(recommendations, core.Recommendation{
			Priority: 5,
			Action:   "Your tone is great!",
			Impact:   core.ImpactLow,
			Details:  "Keep the conversational style. Focus on technical requirements only.",
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority < recommendations[j].Priority
	})
	return recommendations
}

// isPersonalEmail reports whether the body reads as one-to-one
// correspondence: a conversational opener near the top, under 150 words, and
// no mention of "unsubscribe" (mentioning it implies bulk intent despite the
// conversational tone).
func isPersonalEmail(body string) bool {
	head := body
	if len(head) > 200 {
		cut := 200
		// Back up to a rune boundary so the window never splits a rune.
		for cut > 0 && !utf8.RuneStart(head[cut]) {
			cut--
		}
		head = head[:cut]
	}
	return personalOpenerRe.MatchString(head) &&
		len(strings.Fields(body)) < 150 &&
		!strings.Contains(strings.ToLower(body), "unsubscribe")
}

// findTriggerWords returns the distinct lexicon entries present in the
// subject or body, in lexicon order.
func findTriggerWords(subject, body string) []string {
	lowerSubject := strings.ToLower(subject)
	lowerBody := strings.ToLower(body)

	var found []string
	for _, word := range SpamTriggerWords {
		if strings.Contains(lowerSubject, word) || strings.Contains(lowerBody, word) {
			found = append(found, word)
		}
	}
	return found
}

// subjectCapsRatio returns the share of capital letters in the subject.
func subjectCapsRatio(subject string) float64 {
	total := utf8.RuneCountInString(subject)
	if total == 0 {
		return 0
	}
	caps := 0
	for _, r := range subject {
		if r >= 'A' && r <= 'Z' {
			caps++
		}
	}
	return float64(caps) / float64(total)
}

type domainCount struct {
	domain string
	count  int
}

// repeatedDomains returns the domains mentioned more than three times,
// sorted by name so results are deterministic.
func repeatedDomains(counts map[string]int) []domainCount {
	var repeated []domainCount
	for domain, count := range counts {
		if count > 3 {
			repeated = append(repeated, domainCount{domain: domain, count: count})
		}
	}
	sort.Slice(repeated, func(i, j int) bool {
		return repeated[i].domain < repeated[j].domain
	})
	return repeated
}

// sentenceCase lower-cases a string and capitalizes its first letter.
func sentenceCase(s string) string {
	lowered := []rune(strings.ToLower(s))
	if len(lowered) > 0 {
		lowered[0] = unicode.ToUpper(lowered[0])
	}
	return string(lowered)
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
