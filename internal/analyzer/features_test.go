package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFeaturesEmptyInput(t *testing.T) {
	feats := ExtractFeatures("", "")

	assert.Equal(t, 0, feats.WordCount)
	assert.Equal(t, 0, feats.LinkCount)
	assert.Equal(t, 0, feats.ImageCount)
	assert.False(t, feats.HasUnsubscribeLink)
	assert.False(t, feats.HasPhysicalAddress)
	assert.Nil(t, feats.RepeatedURLDomains)
	assert.Empty(t, feats.AllCapsWords)
	assert.Equal(t, 0, feats.ExclamationCount)
	assert.Equal(t, 0, feats.PhoneNumberCount)
}

func TestExtractFeaturesCounts(t *testing.T) {
	body := "Check https://example.com and http://other.net today. " +
		"<img src=\"x.png\"> <IMG alt=\"y\"> " +
		"Call 555-123-4567 or 555.987.6543 now!"

	feats := ExtractFeatures("Hello!", body)

	assert.Equal(t, 2, feats.LinkCount)
	assert.Equal(t, 2, feats.ImageCount)
	assert.Equal(t, 2, feats.PhoneNumberCount)
	// One from the subject, one from the body.
	assert.Equal(t, 2, feats.ExclamationCount)
	assert.Equal(t, len(strings.Fields(body)), feats.WordCount)
}

func TestExtractFeaturesUnsubscribeVariants(t *testing.T) {
	assert.True(t, ExtractFeatures("", "Click to unsubscribe here").HasUnsubscribeLink)
	assert.True(t, ExtractFeatures("", "You may opt-out at any time").HasUnsubscribeLink)
	assert.True(t, ExtractFeatures("", "You may OPT OUT below").HasUnsubscribeLink)
	assert.False(t, ExtractFeatures("", "No way to stop these emails").HasUnsubscribeLink)
}

func TestExtractFeaturesPhysicalAddress(t *testing.T) {
	assert.True(t, ExtractFeatures("", "Acme Inc, 123 Main Street, Springfield, IL 62704").HasPhysicalAddress)
	assert.False(t, ExtractFeatures("", "We are located somewhere nice").HasPhysicalAddress)
}

func TestExtractFeaturesAllCapsWords(t *testing.T) {
	feats := ExtractFeatures("", "Get your FREE BONUS now, ID required, ACT fast")

	// Two-letter acronyms are not flagged.
	assert.Equal(t, []string{"FREE", "BONUS", "ACT"}, feats.AllCapsWords)
}

func TestCountURLDomains(t *testing.T) {
	body := "Visit https://win.example now, WIN.EXAMPLE again, www.win.example and win.example"

	counts := countURLDomains(body)

	assert.Equal(t, 4, counts["win.example"])
}

func TestCountURLDomainsNone(t *testing.T) {
	assert.Nil(t, countURLDomains("no urls here at all"))
}

func TestExtractFeaturesLargeInput(t *testing.T) {
	body := strings.Repeat("word https://example.com FREE! ", 10000)

	feats := ExtractFeatures(strings.Repeat("A", 1000), body)

	assert.Equal(t, 30000, feats.WordCount)
	assert.Equal(t, 10000, feats.LinkCount)
}
