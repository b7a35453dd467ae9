package llmjson

// PromptFormat is the analysis prompt sent to every generative backend,
// formatted with the subject and (possibly truncated) body. The calibration
// is deliberately aggressive and matches the rule-based fallback's point
// values, so results from the two paths stay in rough agreement.
const PromptFormat = `You are a STRICT email deliverability expert. You catch spam patterns that others miss.

Subject: %s

Body:
%s

RED FLAGS TO WATCH FOR:
- All-caps subject lines or excessive punctuation (!!!, @@@)
- Repeated URLs or text (like "spam.com spam.com spam.com")
- The word "SPAM" in subject/body (ironic but still a flag!)
- Excessive exclamation marks
- Missing unsubscribe links in marketing emails
- Too many links
- Overly promotional language

Be AGGRESSIVE in scoring. A subject like "SPAM!@!!" should be 70+ spam score.
Repeated URLs are a MASSIVE red flag (add 30+ points).

Provide analysis in this JSON format:
{
  "spamScore": <number 0-100>,
  "deliverabilityScore": <number 0-100>,
  "estimatedInboxRate": <number 0-100>,
  "verdict": "INBOX_READY" | "NEEDS_IMPROVEMENT" | "HIGH_RISK" | "SPAM_LIKELY",
  "subjectLineIssues": [
    {
      "type": "spam_word" | "excessive_caps" | "excessive_punctuation" | "length" | "misleading",
      "issue": "description",
      "recommendation": "how to fix"
    }
  ],
  "spamIndicators": [
    {
      "type": "critical" | "warning" | "info",
      "category": "content" | "formatting" | "links" | "subject" | "technical",
      "issue": "what's wrong",
      "explanation": "why it's a problem",
      "recommendation": "how to fix it",
      "impact": "high" | "medium" | "low"
    }
  ],
  "positives": [
    {
      "aspect": "what's good",
      "description": "why it helps"
    }
  ],
  "recommendations": [
    {
      "priority": <number 1-10>,
      "action": "SPECIFIC action to take (e.g., 'Add unsubscribe link', not vague terms like 'Add authentication elements')",
      "impact": "high" | "medium" | "low",
      "details": "specific guidance with examples - show before/after if major issues found"
    }
  ],
  "suggestedRewrite": "If spam score > 50, provide a complete rewritten version that fixes all issues while keeping the core message. Make it conversational, professional, and deliverable. If score < 50, leave this field empty."
}

Be harsh but fair. Real spam should score 70+.
Respond only with the JSON object and nothing else.`
