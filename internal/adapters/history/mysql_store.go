package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/spamrun/email-checker/internal/core"
)

// MySQLStore is a MySQL implementation of the HistoryRepository interface
type MySQLStore struct {
	db          *sql.DB
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLStore creates a new MySQL history store
func NewMySQLStore(dsn string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS email_checks (
			id VARCHAR(64) PRIMARY KEY,
			spam_score DOUBLE,
			verdict VARCHAR(32),
			result MEDIUMTEXT,
			created_at DATETIME,
			expires_at DATETIME,
			INDEX idx_email_checks_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	store := &MySQLStore{
		db:          db,
		logger:      logger,
		retention:   retention,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go store.startCleanupTask()

	return store, nil
}

// Save stores a result under its check ID
func (s *MySQLStore) Save(ctx context.Context, result *core.AnalysisResult) error {
	doc, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		REPLACE INTO email_checks (id, spam_score, verdict, result, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, result.ID, result.SpamScore, string(result.Verdict), string(doc), now, now.Add(s.retention))
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Get retrieves a previously issued result
func (s *MySQLStore) Get(ctx context.Context, id string) (*core.AnalysisResult, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT result
		FROM email_checks
		WHERE id = ? AND expires_at > NOW()
	`, id).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	var result core.AnalysisResult
	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored result: %w", err)
	}
	return &result, nil
}

// List returns up to limit results, newest first
func (s *MySQLStore) List(ctx context.Context, limit int) ([]*core.AnalysisResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT result
		FROM email_checks
		WHERE expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var results []*core.AnalysisResult
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		var result core.AnalysisResult
		if err := json.Unmarshal([]byte(doc), &result); err != nil {
			s.logger.Warn("Skipping undecodable history entry", zap.Error(err))
			continue
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

// Cleanup removes entries past the retention window
func (s *MySQLStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM email_checks
		WHERE expires_at <= NOW()
	`)
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up expired history entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (s *MySQLStore) startCleanupTask() {
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

// Stop stops the background cleanup task and closes the database connection
func (s *MySQLStore) Stop() {
	close(s.stopCh)
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL connection", zap.Error(err))
	}
}
