package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zots0127/reel/internal/domain/entities"
)

// MaxLedgerRecords bounds the upload history; the oldest record falls off
// the list when a save exceeds it. Eviction removes metadata only, the
// evicted record's blob files stay on disk.
const MaxLedgerRecords = 25

type ledgerDocument struct {
	Uploads []*entities.UploadRecord `json:"uploads"`
}

// FileLedger persists the bounded upload history as a single JSON document.
// Every mutation is a full read-modify-write of that document, serialized
// by a mutex so concurrent saves and deletes cannot lose updates.
type FileLedger struct {
	path string
	mu   sync.Mutex
}

// NewFileLedger creates a ledger backed by the document at path
func NewFileLedger(path string) (*FileLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}
	return &FileLedger{path: path}, nil
}

// read returns the current document; a missing or unreadable document is
// treated as an empty ledger
func (l *FileLedger) read() *ledgerDocument {
	doc := &ledgerDocument{Uploads: []*entities.UploadRecord{}}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return doc
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return &ledgerDocument{Uploads: []*entities.UploadRecord{}}
	}
	if doc.Uploads == nil {
		doc.Uploads = []*entities.UploadRecord{}
	}
	return doc
}

func (l *FileLedger) write(doc *ledgerDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}

// Save inserts the record at the front and truncates the list to
// MaxLedgerRecords
func (l *FileLedger) Save(record *entities.UploadRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc := l.read()
	doc.Uploads = append([]*entities.UploadRecord{record}, doc.Uploads...)
	if len(doc.Uploads) > MaxLedgerRecords {
		doc.Uploads = doc.Uploads[:MaxLedgerRecords]
	}
	return l.write(doc)
}

// List returns all records, most recent first
func (l *FileLedger) List() ([]*entities.UploadRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.read().Uploads, nil
}

// FindByID returns the record with the given id, or nil if absent
func (l *FileLedger) FindByID(uploadID string) (*entities.UploadRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, record := range l.read().Uploads {
		if record.UploadID == uploadID {
			return record, nil
		}
	}
	return nil, nil
}

// DeleteByID removes and returns the record with the given id, or nil if
// no record matches
func (l *FileLedger) DeleteByID(uploadID string) (*entities.UploadRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc := l.read()
	for i, record := range doc.Uploads {
		if record.UploadID == uploadID {
			doc.Uploads = append(doc.Uploads[:i], doc.Uploads[i+1:]...)
			if err := l.write(doc); err != nil {
				return nil, err
			}
			return record, nil
		}
	}
	return nil, nil
}
