package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/adapters/history"
	"github.com/spamrun/email-checker/internal/config"
	"github.com/spamrun/email-checker/internal/core"
)

// Handlers carries the dependencies for all API endpoints.
type Handlers struct {
	service *core.AnalyzerService
	history core.HistoryRepository // nil when history is disabled
	cfg     config.ServerConfig
	logger  *zap.Logger
}

// NewHandlers creates the API handler set.
func NewHandlers(service *core.AnalyzerService, historyRepo core.HistoryRepository, cfg config.ServerConfig, logger *zap.Logger) *Handlers {
	return &Handlers{
		service: service,
		history: historyRepo,
		cfg:     cfg,
		logger:  logger,
	}
}

type analyzeRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type bulkEmail struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type bulkRequest struct {
	Emails []bulkEmail `json:"emails"`
}

type bulkResult struct {
	ID        string               `json:"id"`
	CheckID   string               `json:"checkId"`
	SpamScore float64              `json:"spamScore"`
	Verdict   core.Verdict         `json:"verdict"`
	Analysis  *core.AnalysisResult `json:"analysis"`
}

type bulkResponse struct {
	BatchID     string       `json:"batchId"`
	Status      string       `json:"status"`
	TotalEmails int          `json:"totalEmails"`
	Results     []bulkResult `json:"results"`
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Analyze runs one email through the analyzer and returns the full report.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validateEmail(req.Subject, req.Body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.service.Analyze(r.Context(), req.Subject, req.Body)
	h.saveResult(r, result)

	respondJSON(w, http.StatusOK, result)
}

// AnalyzeBulk fans a batch out as independent analyses. Results are
// correlated back to the caller's own IDs.
func (h *Handlers) AnalyzeBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(req.Emails) == 0 {
		respondError(w, http.StatusBadRequest, "At least one email is required")
		return
	}
	if len(req.Emails) > h.cfg.BulkMaxEmails {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("At most %d emails per batch", h.cfg.BulkMaxEmails))
		return
	}
	for _, email := range req.Emails {
		if err := h.validateEmail(email.Subject, email.Body); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Email %q: %s", email.ID, err.Error()))
			return
		}
	}

	results := make([]bulkResult, 0, len(req.Emails))
	for _, email := range req.Emails {
		result := h.service.Analyze(r.Context(), email.Subject, email.Body)
		h.saveResult(r, result)
		results = append(results, bulkResult{
			ID:        email.ID,
			CheckID:   result.ID,
			SpamScore: result.SpamScore,
			Verdict:   result.Verdict,
			Analysis:  result,
		})
	}

	respondJSON(w, http.StatusOK, bulkResponse{
		BatchID:     "batch_" + uuid.NewString(),
		Status:      "completed",
		TotalEmails: len(results),
		Results:     results,
	})
}

// GetCheck returns a previously issued analysis by check ID.
func (h *Handlers) GetCheck(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusNotFound, "History is disabled")
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.history.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Check not found")
			return
		}
		h.logger.Error("Failed to load check", zap.Error(err), zap.String("check_id", id))
		respondError(w, http.StatusInternalServerError, "Failed to load check")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListChecks returns recent analyses, newest first.
func (h *Handlers) ListChecks(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondJSON(w, http.StatusOK, []*core.AnalysisResult{})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	results, err := h.history.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list checks", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to list checks")
		return
	}
	if results == nil {
		results = []*core.AnalysisResult{}
	}

	respondJSON(w, http.StatusOK, results)
}

// validateEmail applies the API input limits. The analyzer itself accepts
// any string; these bounds protect the transport and the LLM budget.
func (h *Handlers) validateEmail(subject, body string) error {
	if subject == "" || body == "" {
		return errors.New("Subject and body are required")
	}
	if len(subject) > h.cfg.MaxSubjectLength {
		return fmt.Errorf("Subject exceeds %d characters", h.cfg.MaxSubjectLength)
	}
	if len(body) > h.cfg.MaxBodyLength {
		return fmt.Errorf("Body exceeds %d characters", h.cfg.MaxBodyLength)
	}
	return nil
}

func (h *Handlers) saveResult(r *http.Request, result *core.AnalysisResult) {
	if h.history == nil {
		return
	}
	if err := h.history.Save(r.Context(), result); err != nil {
		h.logger.Error("Failed to save analysis to history",
			zap.Error(err), zap.String("check_id", result.ID))
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already written; an encode failure has nowhere to go.
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
