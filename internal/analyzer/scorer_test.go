package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spamrun/email-checker/internal/core"
)

func TestScoreCleanPersonalEmail(t *testing.T) {
	subject := "Quick question"
	body := "Hi Sarah, I hope all is well. I wanted to ask about the project timeline. Thanks, Mike"

	result := Score(subject, body)

	// Only the reduced missing-unsubscribe penalty applies to personal mail.
	assert.Equal(t, 10.0, result.SpamScore)
	assert.Equal(t, core.VerdictInboxReady, result.Verdict)
	assert.Equal(t, 90.0, result.DeliverabilityScore)
	assert.Equal(t, 80.0, result.EstimatedInboxRate)
	assert.Empty(t, result.SubjectLineIssues)
	assert.Empty(t, result.Recommendations)

	require.Len(t, result.SpamIndicators, 1)
	assert.Equal(t, core.SeverityWarning, result.SpamIndicators[0].Severity)
	assert.Contains(t, result.SpamIndicators[0].Issue, "unsubscribe")
}

func TestScoreSpamBlast(t *testing.T) {
	subject := "SPAM!!! FREE CASH NOW"
	body := "Click here to get FREE CASH!!! Visit http://win.example.com " +
		"http://win.example.com http://win.example.com http://win.example.com now! " +
		"Call 555-123-4567"

	result := Score(subject, body)

	assert.Equal(t, 100.0, result.SpamScore)
	assert.Equal(t, core.VerdictSpamLikely, result.Verdict)
	assert.Equal(t, 0.0, result.DeliverabilityScore)
	assert.Equal(t, 0.0, result.EstimatedInboxRate)

	kinds := make([]core.SubjectIssueKind, 0, len(result.SubjectLineIssues))
	for _, issue := range result.SubjectLineIssues {
		kinds = append(kinds, issue.Kind)
	}
	assert.Contains(t, kinds, core.SubjectIssueSpamWord)
	assert.Contains(t, kinds, core.SubjectIssueExcessiveCaps)
	assert.Contains(t, kinds, core.SubjectIssueExcessivePunctuation)

	// Trigger-word and repeated-URL recommendations are most urgent.
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, 1, result.Recommendations[0].Priority)
}

func TestScoreSpamSubjectShortBody(t *testing.T) {
	result := Score("SPAM!@!!", "hi, just checking in")

	assert.GreaterOrEqual(t, result.SpamScore, 70.0)
	assert.Contains(t, []core.Verdict{core.VerdictHighRisk, core.VerdictSpamLikely}, result.Verdict)
}

func TestScoreProposalFollowUp(t *testing.T) {
	result := Score("Quick question about the proposal",
		"Hi Sam, thanks for meeting yesterday. Can you send the updated numbers? Thanks, Alex")

	assert.Less(t, result.SpamScore, 20.0)
	assert.Equal(t, core.VerdictInboxReady, result.Verdict)

	aspects := make([]string, 0, len(result.Positives))
	for _, pos := range result.Positives {
		aspects = append(aspects, pos.Aspect)
	}
	assert.Contains(t, aspects, "Clean, professional language")
	assert.Contains(t, aspects, "Personal, authentic voice")
}

func TestScoreRepeatedURLRecommendation(t *testing.T) {
	body := "Deal at http://promo.biz http://promo.biz http://promo.biz " +
		"http://promo.biz http://promo.biz. You can opt-out anytime."

	result := Score("Weekly deals", body)

	var rec *core.Recommendation
	for i := range result.Recommendations {
		if result.Recommendations[i].Action == "Remove repeated URLs" {
			rec = &result.Recommendations[i]
		}
	}
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Priority)
	assert.Contains(t, rec.Details, "promo.biz")
	assert.Contains(t, rec.Details, "5 times")
}

func TestScoreSubjectRewriteSuggestion(t *testing.T) {
	// Caps ratio 0.8 over length 10.
	result := Score("BIGDEALSab", "Hello team, the weekly summary is attached. You can opt-out anytime.")

	var rec *core.Recommendation
	for i := range result.Recommendations {
		if result.Recommendations[i].Action == "Optimize subject line" {
			rec = &result.Recommendations[i]
		}
	}
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.Priority)
	assert.Contains(t, rec.Details, `"Bigdealsab"`)
}

func TestScoreGreatToneRecommendation(t *testing.T) {
	result := Score("Monthly update",
		"Hello team, here is our monthly update with https://example.com. You can opt-out anytime.")

	assert.Equal(t, 0.0, result.SpamScore)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, 5, result.Recommendations[0].Priority)
	assert.Equal(t, "Your tone is great!", result.Recommendations[0].Action)
}

func TestScoreLexiconOnlyRecommendation(t *testing.T) {
	result := Score("Update", "Hello team, our cash update is ready. You can opt-out anytime.")

	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, 1, result.Recommendations[0].Priority)
	assert.Equal(t, "Remove spam trigger words", result.Recommendations[0].Action)
	assert.Contains(t, result.Recommendations[0].Details, "cash")
}

func TestScoreSnippetAfterCaseGrowingPrefix(t *testing.T) {
	body := strings.Repeat("Ⱥ", 200) + "free"

	result := Score("Update", body)

	var rec *core.Recommendation
	for i := range result.Recommendations {
		if result.Recommendations[i].Action == "Remove spam trigger words" {
			rec = &result.Recommendations[i]
		}
	}
	require.NotNil(t, rec)
	assert.Contains(t, rec.Details, "free")
}

func TestScoreTriggerWordsCompound(t *testing.T) {
	one := Score("Update", "This covers the viagra topic. Unsubscribe anytime.")
	two := Score("Update", "This covers the viagra and refinance topics. Unsubscribe anytime.")

	assert.Equal(t, one.SpamScore+15, two.SpamScore)
}

func TestScoreSubjectLength(t *testing.T) {
	longSubject := strings.Repeat("a", 61)

	result := Score(longSubject, "Hello there, a perfectly ordinary note. You can opt-out anytime.")

	require.Len(t, result.SubjectLineIssues, 1)
	assert.Equal(t, core.SubjectIssueLength, result.SubjectLineIssues[0].Kind)
	assert.Equal(t, 5.0, result.SpamScore)
}

func TestScoreCapsRatioBoundary(t *testing.T) {
	// Exactly half caps must not trip the check; the ratio must exceed 0.5.
	half := Score("ABCDefgh", "A plain note with an unsubscribe link.")
	over := Score("ABCDEfgh", "A plain note with an unsubscribe link.")

	assert.Empty(t, half.SubjectLineIssues)
	require.Len(t, over.SubjectLineIssues, 1)
	assert.Equal(t, core.SubjectIssueExcessiveCaps, over.SubjectLineIssues[0].Kind)
}

func TestScoreDeterministic(t *testing.T) {
	subject := "BIG SALE!! Act now for free cash"
	body := "Visit https://deals.example.com https://deals.example.com " +
		"https://deals.example.com https://deals.example.com for a GREAT DEAL TODAY!!!"

	first := Score(subject, body)
	second := Score(subject, body)

	assert.True(t, reflect.DeepEqual(first, second))
}

func TestScoreTotality(t *testing.T) {
	inputs := []struct {
		subject string
		body    string
	}{
		{"", ""},
		{"\x00\xff garbage", "\xf0\x28\x8c\x28 more garbage"},
		{strings.Repeat("!", 500), strings.Repeat("free cash winner ", 10000)},
		{"日本語の件名", "体の内容はここにあります"},
		// Lower-casing this prefix grows its byte length; the trigger-word
		// context snippets must still come out of the original body safely.
		{"Update", strings.Repeat("Ⱥ", 200) + "free"},
	}

	for _, in := range inputs {
		result := Score(in.subject, in.body)
		assert.GreaterOrEqual(t, result.SpamScore, 0.0)
		assert.LessOrEqual(t, result.SpamScore, 100.0)
		assert.NotNil(t, result.SubjectLineIssues)
		assert.NotNil(t, result.SpamIndicators)
		assert.NotNil(t, result.Positives)
		assert.NotNil(t, result.Recommendations)
		assert.Equal(t, core.VerdictForScore(result.SpamScore), result.Verdict)
	}
}

func TestScoreDerivedInvariants(t *testing.T) {
	bodies := []string{
		"Hi there, short note. Thanks!",
		"FREE CASH WINNER PRIZE act now click here!!!",
		"A normal newsletter with an unsubscribe link at the bottom.",
	}

	for _, body := range bodies {
		result := Score("Weekly update", body)
		assert.Equal(t, core.ClampScore(100-result.SpamScore), result.DeliverabilityScore)
		assert.Equal(t, core.ClampScore(result.DeliverabilityScore-10), result.EstimatedInboxRate)
	}
}

func TestScoreRecommendationsSorted(t *testing.T) {
	subject := "FREE MONEY!!! WIN BIG NOW YES"
	body := "Click here for free cash NOW YES WIN!!! Call 555-123-4567 today."

	result := Score(subject, body)

	require.NotEmpty(t, result.Recommendations)
	for i := 1; i < len(result.Recommendations); i++ {
		assert.LessOrEqual(t, result.Recommendations[i-1].Priority, result.Recommendations[i].Priority)
	}
}

func TestScoreUnsubscribePositive(t *testing.T) {
	result := Score("Monthly digest", "Here is our monthly digest. Unsubscribe at the bottom.")

	found := false
	for _, pos := range result.Positives {
		if strings.Contains(pos.Aspect, "Unsubscribe") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestIsPersonalEmail(t *testing.T) {
	assert.True(t, isPersonalEmail("Hi Joe, following up on our call. Best, Ann"))
	assert.True(t, isPersonalEmail("Thanks for the quick turnaround yesterday."))

	// Mentioning unsubscribe implies bulk intent.
	assert.False(t, isPersonalEmail("Hi Joe, click unsubscribe below."))
	// No conversational opener.
	assert.False(t, isPersonalEmail("Limited time offer on all products."))
	// Too long to be one-to-one correspondence.
	assert.False(t, isPersonalEmail("Hi Joe, "+strings.Repeat("word ", 150)))

	// The opener window lands mid-rune at byte 200; it must clip cleanly.
	assert.True(t, isPersonalEmail("Hi "+strings.Repeat("é", 150)))
}

func TestFindTriggerWordsLexiconOrder(t *testing.T) {
	words := findTriggerWords("Earn cash", "Act now to earn free cash")

	assert.Equal(t, []string{"free", "act now", "cash", "earn"}, words)
}

func TestSubjectCapsRatio(t *testing.T) {
	assert.Equal(t, 0.0, subjectCapsRatio(""))
	assert.Equal(t, 1.0, subjectCapsRatio("ABC"))
	assert.Equal(t, 0.5, subjectCapsRatio("ABcd"))
}

func TestRepeatedDomainsSorted(t *testing.T) {
	repeated := repeatedDomains(map[string]int{
		"zeta.example":  5,
		"alpha.example": 4,
		"rare.example":  3,
	})

	require.Len(t, repeated, 2)
	assert.Equal(t, "alpha.example", repeated[0].domain)
	assert.Equal(t, "zeta.example", repeated[1].domain)
}

func TestSentenceCase(t *testing.T) {
	assert.Equal(t, "Free", sentenceCase("FREE"))
	assert.Equal(t, "", sentenceCase(""))
}

func TestVerdictBoundaries(t *testing.T) {
	assert.Equal(t, core.VerdictInboxReady, core.VerdictForScore(0))
	assert.Equal(t, core.VerdictInboxReady, core.VerdictForScore(19.9))
	assert.Equal(t, core.VerdictNeedsImprovement, core.VerdictForScore(20))
	assert.Equal(t, core.VerdictNeedsImprovement, core.VerdictForScore(49.9))
	assert.Equal(t, core.VerdictHighRisk, core.VerdictForScore(50))
	assert.Equal(t, core.VerdictHighRisk, core.VerdictForScore(74.9))
	assert.Equal(t, core.VerdictSpamLikely, core.VerdictForScore(75))
	assert.Equal(t, core.VerdictSpamLikely, core.VerdictForScore(100))
}
