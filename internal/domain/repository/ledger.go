package repository

import (
	"github.com/zots0127/reel/internal/domain/entities"
)

// UploadLedger defines the interface for the bounded upload metadata store
type UploadLedger interface {
	// Save inserts a record at the front and truncates to capacity
	Save(record *entities.UploadRecord) error

	// List returns all records, most recent first
	List() ([]*entities.UploadRecord, error)

	// FindByID returns the record with the given id, or nil if absent
	FindByID(uploadID string) (*entities.UploadRecord, error)

	// DeleteByID removes and returns the record with the given id, or
	// nil if absent
	DeleteByID(uploadID string) (*entities.UploadRecord, error)
}

// UploadMirror is an optional secondary store for upload records. Mirror
// writes are best-effort: callers log failures and never surface them.
type UploadMirror interface {
	// MirrorUpload stores a copy of the record together with the full
	// analysis payload
	MirrorUpload(record *entities.UploadRecord, analysis map[string]interface{}) error

	// RemoveUpload drops the mirrored copy of a deleted record
	RemoveUpload(uploadID string) error
}
