package analyzer

// SpamTriggerWords is the curated set of words and phrases commonly
// associated with spam. Matching is case-insensitive against both subject
// and body; each distinct hit compounds the spam score. The list is loaded
// once per process and read-only thereafter.
var SpamTriggerWords = []string{
	"free", "click here", "act now", "limited time", "urgent", "congratulations",
	"winner", "prize", "guarantee", "no risk", "order now", "buy now",
	"call now", "subscribe", "money back", "cash", "income", "earn",
	"credit", "loan", "debt", "refinance", "viagra", "weight loss",
	"100% free", "make money", "work from home", "be your own boss",
}
