package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/zots0127/reel/internal/domain/entities"
	"github.com/zots0127/reel/internal/usecase"
	"github.com/zots0127/reel/internal/usecase/mocks"
	"github.com/zots0127/reel/pkg/engine"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func analysisPayload(cleanedPath string) map[string]interface{} {
	cleaning := map[string]interface{}{"rows_after": float64(48)}
	if cleanedPath != "" {
		cleaning["cleaned_csv_path"] = cleanedPath
	}
	return map[string]interface{}{
		"dataset":  map[string]interface{}{"rows": float64(50), "columns": float64(5)},
		"cleaning": cleaning,
	}
}

func TestUploadUseCase_Ingest(t *testing.T) {
	t.Run("cleaned file exists on disk", func(t *testing.T) {
		dir := t.TempDir()
		rawPath := writeTempFile(t, dir, "movies.csv", "title,rating\n")
		cleanedPath := writeTempFile(t, dir, "movies_cleaned.csv", "title,rating\n")

		mockLedger := new(mocks.MockUploadLedger)
		mockEngine := new(mocks.MockAnalysisEngine)
		mockEngine.On("Analyze", mock.Anything, rawPath).Return(analysisPayload(cleanedPath), nil)
		mockLedger.On("Save", mock.AnythingOfType("*entities.UploadRecord")).Return(nil)

		uc := usecase.NewUploadUseCase(mockLedger, mockEngine, nil, nil)
		record, analysis, err := uc.Ingest(context.Background(), usecase.StoredUpload{
			OriginalName: "movies.csv",
			ServerPath:   rawPath,
			MimeType:     "text/csv",
			Size:         14,
		})
		if err != nil {
			t.Fatalf("Ingest failed: %v", err)
		}

		if record.UploadID == "" {
			t.Error("Expected a generated uploadId")
		}
		if record.CleanedServerPath != cleanedPath {
			t.Errorf("Expected cleanedServerPath %s, got %s", cleanedPath, record.CleanedServerPath)
		}
		if record.CleanedOriginalName != "movies_cleaned.csv" {
			t.Errorf("Expected derived cleaned name, got %s", record.CleanedOriginalName)
		}
		want := entities.AnalysisSummary{Rows: 50, Columns: 5, CleanedRows: 48}
		if record.AnalysisSummary != want {
			t.Errorf("Expected summary %+v, got %+v", want, record.AnalysisSummary)
		}
		if analysis == nil {
			t.Error("Expected the full analysis payload to be returned")
		}
		mockLedger.AssertExpectations(t)
		mockEngine.AssertExpectations(t)
	})

	t.Run("cleaned path reported but missing on disk", func(t *testing.T) {
		dir := t.TempDir()
		rawPath := writeTempFile(t, dir, "movies.csv", "title,rating\n")

		mockLedger := new(mocks.MockUploadLedger)
		mockEngine := new(mocks.MockAnalysisEngine)
		mockEngine.On("Analyze", mock.Anything, rawPath).
			Return(analysisPayload(filepath.Join(dir, "nope_cleaned.csv")), nil)
		mockLedger.On("Save", mock.AnythingOfType("*entities.UploadRecord")).Return(nil)

		uc := usecase.NewUploadUseCase(mockLedger, mockEngine, nil, nil)
		record, _, err := uc.Ingest(context.Background(), usecase.StoredUpload{
			OriginalName: "movies.csv",
			ServerPath:   rawPath,
		})
		if err != nil {
			t.Fatalf("Ingest failed: %v", err)
		}
		if record.CleanedServerPath != "" {
			t.Errorf("Expected empty cleanedServerPath for missing file, got %s", record.CleanedServerPath)
		}
	})

	t.Run("engine failure removes the raw blob", func(t *testing.T) {
		dir := t.TempDir()
		rawPath := writeTempFile(t, dir, "movies.csv", "title,rating\n")

		mockLedger := new(mocks.MockUploadLedger)
		mockEngine := new(mocks.MockAnalysisEngine)
		mockEngine.On("Analyze", mock.Anything, rawPath).
			Return(nil, &engine.ExecError{Script: "analyze_dataset.py", Stderr: "bad dataset"})

		uc := usecase.NewUploadUseCase(mockLedger, mockEngine, nil, nil)
		_, _, err := uc.Ingest(context.Background(), usecase.StoredUpload{
			OriginalName: "movies.csv",
			ServerPath:   rawPath,
		})

		var execErr *engine.ExecError
		if !errors.As(err, &execErr) {
			t.Fatalf("Expected ExecError, got %v", err)
		}
		if _, statErr := os.Stat(rawPath); !os.IsNotExist(statErr) {
			t.Error("Expected the raw blob to be removed after a failed analysis")
		}
		mockLedger.AssertNotCalled(t, "Save", mock.Anything)
	})

	t.Run("ledger failure removes the raw blob", func(t *testing.T) {
		dir := t.TempDir()
		rawPath := writeTempFile(t, dir, "movies.csv", "title,rating\n")

		mockLedger := new(mocks.MockUploadLedger)
		mockEngine := new(mocks.MockAnalysisEngine)
		mockEngine.On("Analyze", mock.Anything, rawPath).Return(analysisPayload(""), nil)
		mockLedger.On("Save", mock.AnythingOfType("*entities.UploadRecord")).
			Return(errors.New("disk full"))

		uc := usecase.NewUploadUseCase(mockLedger, mockEngine, nil, nil)
		_, _, err := uc.Ingest(context.Background(), usecase.StoredUpload{
			OriginalName: "movies.csv",
			ServerPath:   rawPath,
		})
		if err == nil {
			t.Fatal("Expected an error when the ledger write fails")
		}
		if _, statErr := os.Stat(rawPath); !os.IsNotExist(statErr) {
			t.Error("Expected the raw blob to be removed after a failed persist")
		}
	})

	t.Run("mirror failure does not fail the request", func(t *testing.T) {
		dir := t.TempDir()
		rawPath := writeTempFile(t, dir, "movies.csv", "title,rating\n")

		mockLedger := new(mocks.MockUploadLedger)
		mockEngine := new(mocks.MockAnalysisEngine)
		mockMirror := new(mocks.MockUploadMirror)
		mockEngine.On("Analyze", mock.Anything, rawPath).Return(analysisPayload(""), nil)
		mockLedger.On("Save", mock.AnythingOfType("*entities.UploadRecord")).Return(nil)
		mockMirror.On("MirrorUpload", mock.Anything, mock.Anything).
			Return(errors.New("mirror database unavailable"))

		uc := usecase.NewUploadUseCase(mockLedger, mockEngine, mockMirror, nil)
		record, _, err := uc.Ingest(context.Background(), usecase.StoredUpload{
			OriginalName: "movies.csv",
			ServerPath:   rawPath,
		})
		if err != nil {
			t.Fatalf("Expected mirror failure to be swallowed, got %v", err)
		}
		if record == nil {
			t.Fatal("Expected a record despite the mirror failure")
		}
		mockMirror.AssertExpectations(t)
	})
}

func TestUploadUseCase_Recommend(t *testing.T) {
	t.Run("unknown upload id", func(t *testing.T) {
		mockLedger := new(mocks.MockUploadLedger)
		mockEngine := new(mocks.MockAnalysisEngine)
		mockLedger.On("FindByID", "missing").Return(nil, nil)

		uc := usecase.NewUploadUseCase(mockLedger, mockEngine, nil, nil)
		_, err := uc.Recommend(context.Background(), "missing", 12, "all", "all")
		if !errors.Is(err, entities.ErrUploadNotFound) {
			t.Fatalf("Expected ErrUploadNotFound, got %v", err)
		}
	})

	t.Run("defaults applied to zero values", func(t *testing.T) {
		record := &entities.UploadRecord{UploadID: "u1", ServerPath: "/tmp/u1.csv"}
		mockLedger := new(mocks.MockUploadLedger)
		mockEngine := new(mocks.MockAnalysisEngine)
		mockLedger.On("FindByID", "u1").Return(record, nil)
		mockEngine.On("Recommend", mock.Anything, "/tmp/u1.csv", usecase.DefaultTopN, "all", "all").
			Return(map[string]interface{}{"recommendations": []interface{}{}}, nil)

		uc := usecase.NewUploadUseCase(mockLedger, mockEngine, nil, nil)
		if _, err := uc.Recommend(context.Background(), "u1", 0, "", ""); err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		mockEngine.AssertExpectations(t)
	})

	t.Run("empty result with message passes through", func(t *testing.T) {
		record := &entities.UploadRecord{UploadID: "u1", ServerPath: "/tmp/u1.csv"}
		payload := map[string]interface{}{
			"recommendations": []interface{}{},
			"message":         "No titles matched the hindi filter.",
		}
		mockLedger := new(mocks.MockUploadLedger)
		mockEngine := new(mocks.MockAnalysisEngine)
		mockLedger.On("FindByID", "u1").Return(record, nil)
		mockEngine.On("Recommend", mock.Anything, "/tmp/u1.csv", 12, "hindi", "all").
			Return(payload, nil)

		uc := usecase.NewUploadUseCase(mockLedger, mockEngine, nil, nil)
		result, err := uc.Recommend(context.Background(), "u1", 12, "hindi", "all")
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		recs, ok := result["recommendations"].([]interface{})
		if !ok || len(recs) != 0 {
			t.Errorf("Expected empty recommendations, got %v", result["recommendations"])
		}
		if result["message"] == "" {
			t.Error("Expected a non-empty message alongside empty recommendations")
		}
	})
}

func TestUploadUseCase_CleanedCSV(t *testing.T) {
	t.Run("artifact present", func(t *testing.T) {
		dir := t.TempDir()
		cleanedPath := writeTempFile(t, dir, "movies_cleaned.csv", "title\n")
		record := &entities.UploadRecord{
			UploadID:            "u1",
			CleanedServerPath:   cleanedPath,
			CleanedOriginalName: "movies_cleaned.csv",
		}
		mockLedger := new(mocks.MockUploadLedger)
		mockLedger.On("FindByID", "u1").Return(record, nil)

		uc := usecase.NewUploadUseCase(mockLedger, new(mocks.MockAnalysisEngine), nil, nil)
		path, name, err := uc.CleanedCSV("u1")
		if err != nil {
			t.Fatalf("CleanedCSV failed: %v", err)
		}
		if path != cleanedPath || name != "movies_cleaned.csv" {
			t.Errorf("Unexpected result: %s %s", path, name)
		}
	})

	t.Run("artifact removed from disk", func(t *testing.T) {
		record := &entities.UploadRecord{
			UploadID:          "u1",
			CleanedServerPath: "/tmp/gone_cleaned.csv",
		}
		mockLedger := new(mocks.MockUploadLedger)
		mockLedger.On("FindByID", "u1").Return(record, nil)

		uc := usecase.NewUploadUseCase(mockLedger, new(mocks.MockAnalysisEngine), nil, nil)
		_, _, err := uc.CleanedCSV("u1")
		if !errors.Is(err, entities.ErrCleanedArtifactNotFound) {
			t.Fatalf("Expected ErrCleanedArtifactNotFound, got %v", err)
		}
	})

	t.Run("record without cleaned artifact", func(t *testing.T) {
		record := &entities.UploadRecord{UploadID: "u1"}
		mockLedger := new(mocks.MockUploadLedger)
		mockLedger.On("FindByID", "u1").Return(record, nil)

		uc := usecase.NewUploadUseCase(mockLedger, new(mocks.MockAnalysisEngine), nil, nil)
		_, _, err := uc.CleanedCSV("u1")
		if !errors.Is(err, entities.ErrCleanedArtifactNotFound) {
			t.Fatalf("Expected ErrCleanedArtifactNotFound, got %v", err)
		}
	})
}

func TestUploadUseCase_CleanedPreview(t *testing.T) {
	t.Run("defaults and raw path", func(t *testing.T) {
		// The preview runs against the raw upload, not the cleaned file
		record := &entities.UploadRecord{
			UploadID:          "u1",
			ServerPath:        "/tmp/u1.csv",
			CleanedServerPath: "/tmp/u1_cleaned.csv",
		}
		page := map[string]interface{}{"page": float64(1), "rows": []interface{}{}}
		mockLedger := new(mocks.MockUploadLedger)
		mockEngine := new(mocks.MockAnalysisEngine)
		mockLedger.On("FindByID", "u1").Return(record, nil)
		mockEngine.On("CleanedPreview", mock.Anything, "/tmp/u1.csv", usecase.DefaultPage, usecase.DefaultPageSize).
			Return(page, nil)

		uc := usecase.NewUploadUseCase(mockLedger, mockEngine, nil, nil)
		result, err := uc.CleanedPreview(context.Background(), "u1", 0, -3)
		if err != nil {
			t.Fatalf("CleanedPreview failed: %v", err)
		}
		if result["page"] != float64(1) {
			t.Errorf("Expected engine payload passthrough, got %v", result)
		}
		mockEngine.AssertExpectations(t)
	})

	t.Run("unknown upload id", func(t *testing.T) {
		mockLedger := new(mocks.MockUploadLedger)
		mockLedger.On("FindByID", "missing").Return(nil, nil)

		uc := usecase.NewUploadUseCase(mockLedger, new(mocks.MockAnalysisEngine), nil, nil)
		_, err := uc.CleanedPreview(context.Background(), "missing", 1, 10)
		if !errors.Is(err, entities.ErrUploadNotFound) {
			t.Fatalf("Expected ErrUploadNotFound, got %v", err)
		}
	})
}

func TestUploadUseCase_Delete(t *testing.T) {
	t.Run("removes both blobs", func(t *testing.T) {
		dir := t.TempDir()
		rawPath := writeTempFile(t, dir, "movies.csv", "title\n")
		cleanedPath := writeTempFile(t, dir, "movies_cleaned.csv", "title\n")
		record := &entities.UploadRecord{
			UploadID:          "u1",
			ServerPath:        rawPath,
			CleanedServerPath: cleanedPath,
		}
		mockLedger := new(mocks.MockUploadLedger)
		mockLedger.On("DeleteByID", "u1").Return(record, nil)

		uc := usecase.NewUploadUseCase(mockLedger, new(mocks.MockAnalysisEngine), nil, nil)
		removed, err := uc.Delete("u1")
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if removed.UploadID != "u1" {
			t.Errorf("Expected removed record u1, got %+v", removed)
		}
		if _, statErr := os.Stat(rawPath); !os.IsNotExist(statErr) {
			t.Error("Expected the raw blob to be removed")
		}
		if _, statErr := os.Stat(cleanedPath); !os.IsNotExist(statErr) {
			t.Error("Expected the cleaned blob to be removed")
		}
	})

	t.Run("missing cleaned blob is not an error", func(t *testing.T) {
		dir := t.TempDir()
		rawPath := writeTempFile(t, dir, "movies.csv", "title\n")
		record := &entities.UploadRecord{
			UploadID:          "u1",
			ServerPath:        rawPath,
			CleanedServerPath: filepath.Join(dir, "already_gone.csv"),
		}
		mockLedger := new(mocks.MockUploadLedger)
		mockLedger.On("DeleteByID", "u1").Return(record, nil)

		uc := usecase.NewUploadUseCase(mockLedger, new(mocks.MockAnalysisEngine), nil, nil)
		if _, err := uc.Delete("u1"); err != nil {
			t.Fatalf("Expected idempotent blob deletion, got %v", err)
		}
	})

	t.Run("absent id", func(t *testing.T) {
		mockLedger := new(mocks.MockUploadLedger)
		mockLedger.On("DeleteByID", "missing").Return(nil, nil)

		uc := usecase.NewUploadUseCase(mockLedger, new(mocks.MockAnalysisEngine), nil, nil)
		_, err := uc.Delete("missing")
		if !errors.Is(err, entities.ErrUploadNotFound) {
			t.Fatalf("Expected ErrUploadNotFound, got %v", err)
		}
	})
}
