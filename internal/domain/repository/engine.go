package repository

import "context"

// AnalysisEngine defines the interface to the external analysis engine.
// The engine is stateless; each call launches one independent invocation.
type AnalysisEngine interface {
	// Analyze cleans and profiles the dataset at filePath
	Analyze(ctx context.Context, filePath string) (map[string]interface{}, error)

	// Recommend ranks titles from the dataset at filePath under the
	// given filters
	Recommend(ctx context.Context, filePath string, topN int, language, genre string) (map[string]interface{}, error)

	// CleanedPreview returns one page of cleaned rows for the dataset
	// at filePath
	CleanedPreview(ctx context.Context, filePath string, page, pageSize int) (map[string]interface{}, error)
}

// BlobArchiver is an optional best-effort archive for raw uploaded blobs
type BlobArchiver interface {
	// ArchiveBlob copies the file at path to the archive under key
	ArchiveBlob(key, path string) error
}
