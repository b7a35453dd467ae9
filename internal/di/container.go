// Package di wires the server daemon's dependency graph.
package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/analyzer"
	"github.com/spamrun/email-checker/internal/config"
	"github.com/spamrun/email-checker/internal/core"
	"github.com/spamrun/email-checker/internal/factory"
	"github.com/spamrun/email-checker/internal/logging"
	"github.com/spamrun/email-checker/internal/ratelimit"
	"github.com/spamrun/email-checker/internal/server"
	"github.com/spamrun/email-checker/internal/utils"
)

// HistoryStopFunc stops the history store's background cleanup task.
type HistoryStopFunc func()

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register rule engine
	if err := container.Provide(func() core.RuleEngine {
		return analyzer.NewEngine()
	}); err != nil {
		return nil, err
	}

	// Register LLM analyzer. A nil analyzer is a valid state: the service
	// then runs rule-based only.
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger, tp *utils.TextProcessor) (core.LLMAnalyzer, error) {
		llm, err := factory.CreateLLMAnalyzer(cfg, logger, tp)
		if err != nil {
			return nil, err
		}
		if llm == nil {
			logger.Info("No LLM provider configured, running rule-based analysis only")
		}
		return llm, nil
	}); err != nil {
		return nil, err
	}

	// Register history repository and its stop handle
	type historyResult struct {
		dig.Out
		Repo core.HistoryRepository
		Stop HistoryStopFunc
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (historyResult, error) {
		repo, stop, err := factory.CreateHistoryRepository(cfg, logger)
		if err != nil {
			return historyResult{}, err
		}
		return historyResult{Repo: repo, Stop: HistoryStopFunc(stop)}, nil
	}); err != nil {
		return nil, err
	}

	// Register rate limiter. Nil means no limiting.
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (*ratelimit.Limiter, error) {
		return factory.CreateRateLimiter(cfg, logger)
	}); err != nil {
		return nil, err
	}

	// Register analyzer service
	if err := container.Provide(core.NewAnalyzerService); err != nil {
		return nil, err
	}

	// Register API handlers
	if err := container.Provide(func(service *core.AnalyzerService, repo core.HistoryRepository, cfg *config.Config, logger *zap.Logger) *server.Handlers {
		return server.NewHandlers(service, repo, cfg.GetServer(), logger)
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(h *server.Handlers, limiter *ratelimit.Limiter, cfg *config.Config, logger *zap.Logger) *server.Server {
		router := server.NewRouter(h, limiter, cfg.GetServer(), logger)
		return server.New(router, cfg.GetServer().ListenAddress, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
