package factory

import (
	"time"

	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/config"
	"github.com/spamrun/email-checker/internal/ratelimit"
)

// CreateRateLimiter builds the Redis-backed limiter when enabled. A nil
// limiter means unlimited.
func CreateRateLimiter(cfg *config.Config, logger *zap.Logger) (*ratelimit.Limiter, error) {
	rlCfg := cfg.GetRateLimit()
	if !rlCfg.Enabled {
		return nil, nil
	}

	return ratelimit.NewFromURL(rlCfg.RedisURL, rlCfg.RequestsPerMinute, time.Minute, logger)
}
