package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Import log kinds and statuses
const (
	KindReport = "report"
	KindRoster = "roster"

	StatusProcessing = "processing"
	StatusImported   = "imported"
	StatusSkipped    = "skipped"
	StatusError      = "error"
)

// ImportLog one ingested workbook
type ImportLog struct {
	ID           int64      `json:"id"`
	BatchID      string     `json:"batchId"`
	Kind         string     `json:"kind"`
	Filename     string     `json:"filename"`
	FileSize     int64      `json:"fileSize"`
	FileHash     string     `json:"fileHash"`
	Status       string     `json:"status"`
	Grade        string     `json:"grade,omitempty"`
	Section      string     `json:"section,omitempty"`
	Records      int        `json:"records"`
	Buckets      int        `json:"buckets"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// ImportOutcome final state written by FinishImportLog
type ImportOutcome struct {
	Status       string
	Grade        string
	Section      string
	Records      int
	Buckets      int
	ErrorMessage string
}

// CreateImportLog inserts a processing entry and returns its id
func (s *Store) CreateImportLog(batchID, kind, filename string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (batch_id, kind, filename, file_size, file_hash, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, batchID, kind, filename, fileSize, fileHash, StatusProcessing, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog records the outcome of one file
func (s *Store) FinishImportLog(id int64, out ImportOutcome) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			status = ?,
			grade = ?,
			section = ?,
			records = ?,
			buckets = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, out.Status, out.Grade, out.Section, out.Records, out.Buckets, out.ErrorMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs newest first; limit <= 0 means all
func (s *Store) ListImportLogs(limit int) ([]ImportLog, error) {
	query := `
		SELECT id, batch_id, kind, filename, file_size, file_hash, status, grade, section,
			records, buckets, error_message, started_at, completed_at
		FROM import_logs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	var out []ImportLog
	for rows.Next() {
		var l ImportLog
		var completed sql.NullTime
		if err := rows.Scan(&l.ID, &l.BatchID, &l.Kind, &l.Filename, &l.FileSize, &l.FileHash,
			&l.Status, &l.Grade, &l.Section, &l.Records, &l.Buckets, &l.ErrorMessage,
			&l.StartedAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			l.CompletedAt = &t
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// LastImportAt completion time of the most recent imported report; ok is false when none
func (s *Store) LastImportAt() (time.Time, bool, error) {
	var completed sql.NullTime
	err := s.db.QueryRow(`
		SELECT completed_at FROM import_logs
		WHERE kind = ? AND status = ? AND completed_at IS NOT NULL
		ORDER BY id DESC LIMIT 1
	`, KindReport, StatusImported).Scan(&completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to read last import: %w", err)
	}
	return completed.Time, completed.Valid, nil
}
