package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/zots0127/reel/internal/domain/entities"
	_ "modernc.org/sqlite"
)

// SQLiteMirror is an optional secondary store for upload records. The
// ledger stays authoritative; mirror writes are best-effort and callers
// discard their errors after logging.
type SQLiteMirror struct {
	db *sql.DB
}

// NewSQLiteMirror opens (or creates) the mirror database at dbPath
func NewSQLiteMirror(dbPath string) (*SQLiteMirror, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror database: %w", err)
	}

	mirror := &SQLiteMirror{db: db}
	if err := mirror.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize mirror tables: %w", err)
	}
	return mirror, nil
}

// Close closes the database connection
func (m *SQLiteMirror) Close() error {
	return m.db.Close()
}

func (m *SQLiteMirror) initTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS uploads (
		upload_id TEXT PRIMARY KEY,
		original_name TEXT NOT NULL,
		server_path TEXT NOT NULL,
		mime_type TEXT,
		size INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		analysis TEXT -- full JSON payload from the analyze call
	);

	CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at);
	`

	_, err := m.db.Exec(query)
	return err
}

// MirrorUpload stores a copy of the record together with the full
// analysis payload
func (m *SQLiteMirror) MirrorUpload(record *entities.UploadRecord, analysis map[string]interface{}) error {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis payload: %w", err)
	}

	_, err = m.db.Exec(
		`INSERT OR REPLACE INTO uploads (upload_id, original_name, server_path, mime_type, size, created_at, analysis)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.UploadID,
		record.OriginalName,
		record.ServerPath,
		record.MimeType,
		record.Size,
		record.CreatedAt,
		string(analysisJSON),
	)
	return err
}

// RemoveUpload drops the mirrored copy of a deleted record
func (m *SQLiteMirror) RemoveUpload(uploadID string) error {
	_, err := m.db.Exec("DELETE FROM uploads WHERE upload_id = ?", uploadID)
	return err
}
