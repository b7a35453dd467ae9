// Package history persists issued analysis results so the API can serve
// them back later. The analyzer core never reads from these stores; they
// record results after the fact only.
package history

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/core"
)

// ErrNotFound is returned when no result exists for a check ID.
var ErrNotFound = errors.New("analysis result not found")

type memoryEntry struct {
	result    *core.AnalysisResult
	savedAt   time.Time
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the HistoryRepository interface
type MemoryStore struct {
	entries     map[string]*memoryEntry
	order       []string // check IDs, oldest first
	mu          sync.RWMutex
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMemoryStore creates a new in-memory history store
func NewMemoryStore(logger *zap.Logger, retention, cleanupFreq time.Duration) *MemoryStore {
	store := &MemoryStore{
		entries:     make(map[string]*memoryEntry),
		logger:      logger,
		retention:   retention,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go store.startCleanupTask()

	return store
}

// Save stores a result under its check ID
func (s *MemoryStore) Save(ctx context.Context, result *core.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if _, exists := s.entries[result.ID]; !exists {
		s.order = append(s.order, result.ID)
	}
	s.entries[result.ID] = &memoryEntry{
		result:    result,
		savedAt:   now,
		expiresAt: now.Add(s.retention),
	}
	return nil
}

// Get retrieves a previously issued result
func (s *MemoryStore) Get(ctx context.Context, id string) (*core.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return entry.result, nil
}

// List returns up to limit results, newest first
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*core.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	results := make([]*core.AnalysisResult, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(results) < limit; i-- {
		entry, ok := s.entries[s.order[i]]
		if !ok || now.After(entry.expiresAt) {
			continue
		}
		results = append(results, entry.result)
	}
	return results, nil
}

// Cleanup removes entries past the retention window
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	kept := s.order[:0]
	for _, id := range s.order {
		entry, ok := s.entries[id]
		if !ok {
			continue
		}
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			expiredCount++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	s.logger.Debug("Cleaned up expired history entries", zap.Int("expired_count", expiredCount))
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (s *MemoryStore) startCleanupTask() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to clean up history", zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task
func (s *MemoryStore) Stop() {
	close(s.stopCh)
}
