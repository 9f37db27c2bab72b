package storage

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

// UploadRecord is one SteamCMD upload attempt as stored in SQLite
type UploadRecord struct {
	UploadUUID string    `json:"upload_uuid"`
	Success    bool      `json:"success"`
	ExitCode   int       `json:"exit_code"`
	UploadID   string    `json:"upload_id"` // Depot build ID reported by SteamCMD
	BuildID    string    `json:"build_id"`  // App BuildID reported by SteamCMD
	AppID      string    `json:"app_id"`
	DepotID    string    `json:"depot_id"`
	BuildPath  string    `json:"build_path"`
	UploadedAt time.Time `json:"uploaded_at"`
	LogOutput  string    `json:"log_output"`
}

// UploadStore handles upload history persistence in SQLite
type UploadStore struct {
	db         *DB
	maxUploads int
}

// NewUploadStore creates a new upload store
func NewUploadStore(db *DB, maxUploads int) *UploadStore {
	if maxUploads <= 0 {
		maxUploads = 200
	}
	return &UploadStore{
		db:         db,
		maxUploads: maxUploads,
	}
}

const uploadColumns = `
	upload_uuid, success, exit_code, upload_id, build_id, app_id,
	depot_id, build_path, uploaded_at, log_output
`

// RecordUpload stores an upload attempt
func (s *UploadStore) RecordUpload(record UploadRecord) error {
	query := `
		INSERT INTO uploads (` + uploadColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(upload_uuid) DO UPDATE SET
			success = excluded.success,
			exit_code = excluded.exit_code,
			upload_id = excluded.upload_id,
			build_id = excluded.build_id,
			log_output = excluded.log_output
	`

	_, err := s.db.Exec(query,
		record.UploadUUID, record.Success, record.ExitCode, record.UploadID, record.BuildID,
		record.AppID, record.DepotID, record.BuildPath, record.UploadedAt, record.LogOutput,
	)
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}

	if err := s.cleanupOldUploads(); err != nil {
		log.Printf("[RecordUpload] failed to cleanup old uploads: %v", err)
	}

	return nil
}

func scanUpload(row interface{ Scan(...interface{}) error }) (*UploadRecord, error) {
	var record UploadRecord
	err := row.Scan(
		&record.UploadUUID, &record.Success, &record.ExitCode, &record.UploadID, &record.BuildID,
		&record.AppID, &record.DepotID, &record.BuildPath, &record.UploadedAt, &record.LogOutput,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetUpload retrieves an upload by UUID
func (s *UploadStore) GetUpload(uploadUUID string) (*UploadRecord, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE upload_uuid = ?`

	record, err := scanUpload(s.db.QueryRow(query, uploadUUID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("upload not found: %s", uploadUUID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}

	return record, nil
}

// GetRecentUploads retrieves the N most recent uploads, newest first
func (s *UploadStore) GetRecentUploads(limit int) ([]*UploadRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT ` + uploadColumns + ` FROM uploads ORDER BY uploaded_at DESC, id DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var records []*UploadRecord
	for rows.Next() {
		record, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// CountUploads returns the number of stored uploads
func (s *UploadStore) CountUploads() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM uploads`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}
	return count, nil
}

// cleanupOldUploads removes uploads beyond the maximum limit
func (s *UploadStore) cleanupOldUploads() error {
	query := `
		DELETE FROM uploads
		WHERE id NOT IN (
			SELECT id FROM uploads
			ORDER BY uploaded_at DESC, id DESC
			LIMIT ?
		)
	`
	_, err := s.db.Exec(query, s.maxUploads)
	return err
}
