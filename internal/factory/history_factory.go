package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/adapters/history"
	"github.com/spamrun/email-checker/internal/config"
	"github.com/spamrun/email-checker/internal/core"
)

// CreateHistoryRepository builds the configured history store. It returns
// the repository together with a stop function for the store's background
// cleanup task. A disabled history yields a nil repository and a no-op stop.
func CreateHistoryRepository(cfg *config.Config, logger *zap.Logger) (core.HistoryRepository, func(), error) {
	noop := func() {}

	histCfg := cfg.GetHistory()
	if !histCfg.Enabled {
		return nil, noop, nil
	}

	retention, err := cfg.GetDuration("history.retention")
	if err != nil {
		return nil, noop, fmt.Errorf("invalid history.retention: %w", err)
	}
	cleanupFreq, err := cfg.GetDuration("history.cleanup_frequency")
	if err != nil {
		return nil, noop, fmt.Errorf("invalid history.cleanup_frequency: %w", err)
	}

	switch histCfg.Type {
	case "memory":
		store := history.NewMemoryStore(logger, retention, cleanupFreq)
		return store, store.Stop, nil
	case "sqlite":
		store, err := history.NewSQLiteStore(histCfg.SQLitePath, logger, retention, cleanupFreq)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Stop, nil
	case "mysql":
		store, err := history.NewMySQLStore(histCfg.MySQLDSN, logger, retention, cleanupFreq)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Stop, nil
	default:
		return nil, noop, fmt.Errorf("unknown history store type: %s", histCfg.Type)
	}
}
