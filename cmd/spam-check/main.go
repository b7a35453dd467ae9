package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"

	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/analyzer"
	"github.com/spamrun/email-checker/internal/config"
	"github.com/spamrun/email-checker/internal/core"
	"github.com/spamrun/email-checker/internal/factory"
	"github.com/spamrun/email-checker/internal/logging"
	"github.com/spamrun/email-checker/internal/utils"
)

var (
	// LLM provider flags
	provider    = flag.String("provider", "none", "LLM provider (none, bedrock, gemini, openai)")
	maxTokens   = flag.Int("max-tokens", 4096, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.3, "Temperature for LLM generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for LLM generation")
	maxBodySize = flag.Int("max-body-size", 4096, "Maximum email body size to send to LLM")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	subjectArg = flag.String("subject", "", "Email subject (skips RFC 822 parsing; requires -body)")
	bodyArg    = flag.String("body", "", "Email body (skips RFC 822 parsing; requires -subject)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	textProcessor := utils.NewTextProcessor(logger)
	llm, err := factory.CreateLLMAnalyzer(cfg, logger, textProcessor)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	subject, body := readEmail(logger)

	service := core.NewAnalyzerService(llm, analyzer.NewEngine(), logger)
	result := service.Analyze(context.Background(), subject, body)

	printReport(subject, result)

	if closer, ok := llm.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
}

// readEmail gets the subject and body either from flags or by parsing an
// RFC 822 message from a file or stdin.
func readEmail(logger *zap.Logger) (string, string) {
	if *subjectArg != "" || *bodyArg != "" {
		return *subjectArg, *bodyArg
	}

	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
	}

	return msg.Header.Get("Subject"), string(bodyBytes)
}

func printReport(subject string, result *core.AnalysisResult) {
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("Subject: %s\n", subject)
	fmt.Printf("Check ID: %s\n", result.ID)

	fmt.Printf("\n=== Scores ===\n")
	fmt.Printf("Spam score: %.0f/100\n", result.SpamScore)
	fmt.Printf("Deliverability: %.0f/100\n", result.DeliverabilityScore)
	fmt.Printf("Estimated inbox rate: %.0f%%\n", result.EstimatedInboxRate)
	fmt.Printf("Verdict: %s\n", result.Verdict)
	fmt.Printf("Processing time: %dms\n", result.ProcessingTimeMs)

	if len(result.SubjectLineIssues) > 0 {
		fmt.Printf("\n=== Subject Issues ===\n")
		for _, issue := range result.SubjectLineIssues {
			fmt.Printf("- [%s] %s (%s)\n", issue.Kind, issue.Issue, issue.Recommendation)
		}
	}

	if len(result.SpamIndicators) > 0 {
		fmt.Printf("\n=== Spam Indicators ===\n")
		for _, ind := range result.SpamIndicators {
			fmt.Printf("- [%s/%s] %s: %s\n", ind.Severity, ind.Category, ind.Issue, ind.Explanation)
		}
	}

	if len(result.Positives) > 0 {
		fmt.Printf("\n=== Positives ===\n")
		for _, pos := range result.Positives {
			fmt.Printf("- %s: %s\n", pos.Aspect, pos.Description)
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Printf("\n=== Recommendations ===\n")
		for _, rec := range result.Recommendations {
			fmt.Printf("%d. [%s] %s\n", rec.Priority, rec.Impact, rec.Action)
			fmt.Printf("   %s\n", rec.Details)
		}
	}

	if result.SuggestedRewrite != nil {
		fmt.Printf("\n=== Suggested Rewrite ===\n%s\n", *result.SuggestedRewrite)
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", *provider)

	switch *provider {
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
		v.Set("bedrock.max_body_size", *maxBodySize)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
		v.Set("gemini.max_body_size", *maxBodySize)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
		v.Set("openai.max_body_size", *maxBodySize)
	}

	return config.NewFromViper(v)
}
