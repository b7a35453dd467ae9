package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/apikey"
	"github.com/spamrun/email-checker/internal/config"
	"github.com/spamrun/email-checker/internal/ratelimit"
)

// NewRouter builds the API routing table. The health endpoint is open;
// everything under /v1 goes through authentication and rate limiting.
func NewRouter(h *Handlers, limiter *ratelimit.Limiter, cfg config.ServerConfig, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Api-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(cfg.APIKeyHashes, logger))
		r.Use(rateLimitMiddleware(limiter, logger))

		r.Post("/analyze", h.Analyze)
		r.Post("/analyze/bulk", h.AnalyzeBulk)
		r.Get("/checks", h.ListChecks)
		r.Get("/checks/{id}", h.GetCheck)
	})

	return r
}

// apiKeyMiddleware authenticates requests against the configured key
// hashes. With no hashes configured the API is open, which is the
// expected mode for self-hosted deployments.
func apiKeyMiddleware(hashes []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(hashes) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := requestAPIKey(r)
			if key == "" {
				respondError(w, http.StatusUnauthorized, "API key required")
				return
			}
			if !apikey.Verify(key, hashes) {
				logger.Warn("Rejected request with invalid API key",
					zap.String("key_prefix", keyPrefix(key)))
				respondError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware enforces the per-caller request budget. A nil
// limiter disables enforcement entirely.
func rateLimitMiddleware(limiter *ratelimit.Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			// Authenticated callers are limited per key, anonymous ones
			// per client IP.
			callerKey := requestAPIKey(r)
			if callerKey == "" {
				callerKey = "ip:" + r.RemoteAddr
			}

			allowed, err := limiter.Allow(r.Context(), callerKey)
			if err != nil {
				logger.Warn("Rate limit check failed, allowing request", zap.Error(err))
			}
			if !allowed {
				respondError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestAPIKey pulls the API key from either supported header.
func requestAPIKey(r *http.Request) string {
	if key := apikey.FromAuthHeader(r.Header.Get("Authorization")); key != "" {
		return key
	}
	return apikey.FromAuthHeader(r.Header.Get("X-Api-Key"))
}

func keyPrefix(key string) string {
	if len(key) > apikey.PrefixDisplayLength {
		return key[:apikey.PrefixDisplayLength]
	}
	return key
}
