package entities

import (
	"path/filepath"
	"strings"
	"time"
)

// UploadRecord represents one ingested dataset and its derived artifacts
type UploadRecord struct {
	UploadID            string          `json:"uploadId"`
	OriginalName        string          `json:"originalName"`
	ServerPath          string          `json:"serverPath"`
	CleanedServerPath   string          `json:"cleanedServerPath,omitempty"`
	CleanedOriginalName string          `json:"cleanedOriginalName"`
	MimeType            string          `json:"mimeType"`
	Size                int64           `json:"size"`
	CreatedAt           time.Time       `json:"createdAt"`
	AnalysisSummary     AnalysisSummary `json:"analysisSummary"`
}

// AnalysisSummary is the small projection of an analysis result kept in
// the ledger; the full engine payload is returned to the caller once and
// never stored.
type AnalysisSummary struct {
	Rows        int `json:"rows"`
	Columns     int `json:"columns"`
	CleanedRows int `json:"cleanedRows"`
}

// CleanedName derives the display name for a cleaned artifact from the
// uploaded file's original name (stem + "_cleaned.csv").
func CleanedName(originalName string) string {
	ext := filepath.Ext(originalName)
	return strings.TrimSuffix(originalName, ext) + "_cleaned.csv"
}
