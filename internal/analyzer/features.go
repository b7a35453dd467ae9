package analyzer

import (
	"regexp"
	"strings"

	"github.com/spamrun/email-checker/internal/core"
)

var (
	linkRe        = regexp.MustCompile(`https?://\S+`)
	imageRe       = regexp.MustCompile(`(?i)<img[^>]*>`)
	unsubscribeRe = regexp.MustCompile(`(?i)unsubscribe|opt-out|opt out`)
	// Street-address shape: number, street, city, two-letter region, postal
	// code. A heuristic, not a validator; false negatives are acceptable.
	addressRe   = regexp.MustCompile(`(?i)\d+\s+[\w\s]+,\s*[\w\s]+,\s*[A-Z]{2}\s+\d{5}`)
	urlDomainRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?([a-zA-Z0-9-]+\.[a-zA-Z]{2,})`)
	// 3+ letters so short acronyms like "ID" are not flagged.
	allCapsRe = regexp.MustCompile(`\b[A-Z]{3,}\b`)
	phoneRe   = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
)

// ExtractFeatures derives the objective structural facts from an email. It
// is pure and total: empty input yields all-zero features, and no input can
// make it fail.
func ExtractFeatures(subject, body string) core.TechnicalFeatures {
	return core.TechnicalFeatures{
		WordCount:          len(strings.Fields(body)),
		LinkCount:          len(linkRe.FindAllString(body, -1)),
		ImageCount:         len(imageRe.FindAllString(body, -1)),
		HasUnsubscribeLink: unsubscribeRe.MatchString(body),
		HasPhysicalAddress: addressRe.MatchString(body),
		RepeatedURLDomains: countURLDomains(body),
		AllCapsWords:       allCapsRe.FindAllString(body, -1),
		ExclamationCount:   strings.Count(subject, "!") + strings.Count(body, "!"),
		PhoneNumberCount:   len(phoneRe.FindAllString(body, -1)),
	}
}

// countURLDomains tallies URL-shaped mentions per domain, with scheme and
// www. prefix stripped and the domain lower-cased. Domains seen more than
// three times are treated as repeated by the scorer.
func countURLDomains(body string) map[string]int {
	matches := urlDomainRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	counts := make(map[string]int, len(matches))
	for _, m := range matches {
		domain := strings.ToLower(m[1])
		counts[domain]++
	}
	return counts
}
