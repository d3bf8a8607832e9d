package usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zots0127/reel/internal/domain/entities"
	"github.com/zots0127/reel/internal/domain/repository"
)

// Default filter values for the recommend and preview operations
const (
	DefaultTopN     = 12
	DefaultPage     = 1
	DefaultPageSize = 10
)

// StoredUpload describes a blob the transport layer has already written
// to the uploads directory.
type StoredUpload struct {
	OriginalName string
	ServerPath   string
	MimeType     string
	Size         int64
}

// UploadUseCase sequences upload -> analyze -> persist and serves the
// derived recommendation, preview, download and delete operations.
type UploadUseCase struct {
	ledger   repository.UploadLedger
	engine   repository.AnalysisEngine
	mirror   repository.UploadMirror
	archiver repository.BlobArchiver
}

// NewUploadUseCase creates a new upload use case. mirror and archiver
// are optional; pass nil to disable the corresponding best-effort copy.
func NewUploadUseCase(ledger repository.UploadLedger, engine repository.AnalysisEngine, mirror repository.UploadMirror, archiver repository.BlobArchiver) *UploadUseCase {
	return &UploadUseCase{
		ledger:   ledger,
		engine:   engine,
		mirror:   mirror,
		archiver: archiver,
	}
}

// Ingest analyzes the stored blob, persists its metadata record and
// returns the record together with the full analysis payload. The raw
// payload is handed to the caller once and not retained in the ledger.
// On failure the just-uploaded blob is removed so a failed analysis
// leaves no orphan.
func (u *UploadUseCase) Ingest(ctx context.Context, upload StoredUpload) (*entities.UploadRecord, map[string]interface{}, error) {
	analysis, err := u.engine.Analyze(ctx, upload.ServerPath)
	if err != nil {
		u.removeBlob(upload.ServerPath)
		return nil, nil, err
	}

	record := &entities.UploadRecord{
		UploadID:            uuid.NewString(),
		OriginalName:        upload.OriginalName,
		ServerPath:          upload.ServerPath,
		CleanedServerPath:   existingCleanedPath(analysis),
		CleanedOriginalName: entities.CleanedName(upload.OriginalName),
		MimeType:            upload.MimeType,
		Size:                upload.Size,
		CreatedAt:           time.Now().UTC(),
		AnalysisSummary: entities.AnalysisSummary{
			Rows:        intField(analysis, "dataset", "rows"),
			Columns:     intField(analysis, "dataset", "columns"),
			CleanedRows: intField(analysis, "cleaning", "rows_after"),
		},
	}

	if err := u.ledger.Save(record); err != nil {
		u.removeBlob(upload.ServerPath)
		return nil, nil, fmt.Errorf("failed to persist upload record: %w", err)
	}

	// Secondary copies are best-effort and never fail the request
	if u.mirror != nil {
		if err := u.mirror.MirrorUpload(record, analysis); err != nil {
			log.Printf("Failed to mirror upload %s: %v", record.UploadID, err)
		}
	}
	if u.archiver != nil {
		if err := u.archiver.ArchiveBlob(record.UploadID+"/"+record.OriginalName, record.ServerPath); err != nil {
			log.Printf("Failed to archive upload %s: %v", record.UploadID, err)
		}
	}

	return record, analysis, nil
}

// Recommend resolves the upload and asks the engine for a ranked list
// under the given filters. The payload passes through unmodified,
// including any refreshed filter_options vocabularies.
func (u *UploadUseCase) Recommend(ctx context.Context, uploadID string, topN int, language, genre string) (map[string]interface{}, error) {
	record, err := u.ledger.FindByID(uploadID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, entities.ErrUploadNotFound
	}

	if topN <= 0 {
		topN = DefaultTopN
	}
	if language == "" {
		language = "all"
	}
	if genre == "" {
		genre = "all"
	}

	return u.engine.Recommend(ctx, record.ServerPath, topN, language, genre)
}

// CleanedCSV returns the on-disk path and download name of the cleaned
// artifact. Existence is re-checked at call time, not cached.
func (u *UploadUseCase) CleanedCSV(uploadID string) (string, string, error) {
	record, err := u.ledger.FindByID(uploadID)
	if err != nil {
		return "", "", err
	}
	if record == nil || record.CleanedServerPath == "" {
		return "", "", entities.ErrCleanedArtifactNotFound
	}
	if _, err := os.Stat(record.CleanedServerPath); err != nil {
		return "", "", entities.ErrCleanedArtifactNotFound
	}

	name := record.CleanedOriginalName
	if name == "" {
		name = "cleaned_dataset.csv"
	}
	return record.CleanedServerPath, name, nil
}

// CleanedPreview returns one page of cleaned rows. The engine re-cleans
// from the raw server path, so the preview works even when the cleaned
// artifact is gone.
func (u *UploadUseCase) CleanedPreview(ctx context.Context, uploadID string, page, pageSize int) (map[string]interface{}, error) {
	record, err := u.ledger.FindByID(uploadID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, entities.ErrUploadNotFound
	}

	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return u.engine.CleanedPreview(ctx, record.ServerPath, page, pageSize)
}

// Delete removes the record from the ledger and its blobs from disk.
// Already-missing blob files are not an error.
func (u *UploadUseCase) Delete(uploadID string) (*entities.UploadRecord, error) {
	removed, err := u.ledger.DeleteByID(uploadID)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, entities.ErrUploadNotFound
	}

	u.removeBlob(removed.ServerPath)
	u.removeBlob(removed.CleanedServerPath)

	if u.mirror != nil {
		if err := u.mirror.RemoveUpload(uploadID); err != nil {
			log.Printf("Failed to remove mirrored upload %s: %v", uploadID, err)
		}
	}

	return removed, nil
}

// List returns all upload records, most recent first
func (u *UploadUseCase) List() ([]*entities.UploadRecord, error) {
	return u.ledger.List()
}

func (u *UploadUseCase) removeBlob(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove blob %s: %v", path, err)
	}
}

// existingCleanedPath returns the engine-reported cleaned path only when
// the file is actually present on disk; the engine's claim alone is not
// trusted.
func existingCleanedPath(analysis map[string]interface{}) string {
	cleaning, ok := analysis["cleaning"].(map[string]interface{})
	if !ok {
		return ""
	}
	path, ok := cleaning["cleaned_csv_path"].(string)
	if !ok || path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// intField digs a numeric field out of a decoded JSON payload, tolerating
// absent sections and non-numeric values.
func intField(payload map[string]interface{}, section, key string) int {
	obj, ok := payload[section].(map[string]interface{})
	if !ok {
		return 0
	}
	switch v := obj[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
