package main

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zots0127/reel/internal/domain/entities"
	"github.com/zots0127/reel/internal/usecase"
)

// maxUploadSize caps incoming dataset files at 100 MB
const maxUploadSize = 100 << 20

var allowedExtensions = map[string]bool{
	".csv":   true,
	".tsv":   true,
	".txt":   true,
	".xls":   true,
	".xlsx":  true,
	".json":  true,
	".jsonl": true,
}

type API struct {
	uploads    *usecase.UploadUseCase
	uploadsDir string
}

func NewAPI(uploads *usecase.UploadUseCase, uploadsDir string) *API {
	return &API{
		uploads:    uploads,
		uploadsDir: uploadsDir,
	}
}

func (a *API) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/health", a.health)
	api.GET("/uploads", a.listUploads)
	api.POST("/upload", a.uploadDataset)
	api.POST("/recommend", a.recommend)
	api.GET("/uploads/:uploadId/cleaned-csv", a.cleanedCSV)
	api.GET("/uploads/:uploadId/cleaned-preview", a.cleanedPreview)
	api.DELETE("/uploads/:uploadId", a.deleteUpload)
}

func (a *API) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": "reel-api"})
}

func (a *API) listUploads(c *gin.Context) {
	records, err := a.uploads.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploads": records})
}

func (a *API) uploadDataset(c *gin.Context) {
	header, err := c.FormFile("dataset")
	if err != nil {
		respondError(c, entities.NewValidationError("Dataset file is required."))
		return
	}
	if header.Size > maxUploadSize {
		respondError(c, entities.NewValidationError("File too large. Maximum supported size is 100 MB."))
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		respondError(c, entities.NewValidationError("Unsupported file format. Use CSV, Excel, or JSON datasets."))
		return
	}

	serverPath := filepath.Join(a.uploadsDir, fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext))
	if err := c.SaveUploadedFile(header, serverPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store uploaded dataset."})
		return
	}

	record, analysis, err := a.uploads.Ingest(c.Request.Context(), usecase.StoredUpload{
		OriginalName: filepath.Base(header.Filename),
		ServerPath:   serverPath,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"upload": record, "analysis": analysis})
}

type recommendRequest struct {
	UploadID string `json:"uploadId"`
	TopN     int    `json:"topN"`
	Language string `json:"language"`
	Genre    string `json:"genre"`
}

func (a *API) recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}
	if req.UploadID == "" {
		respondError(c, entities.NewValidationError("Please upload a dataset first, then select it for recommendations."))
		return
	}

	result, err := a.uploads.Recommend(c.Request.Context(), req.UploadID, req.TopN, req.Language, req.Genre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) cleanedCSV(c *gin.Context) {
	path, name, err := a.uploads.CleanedCSV(c.Param("uploadId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, name)
}

func (a *API) cleanedPreview(c *gin.Context) {
	page := queryInt(c, "page", usecase.DefaultPage)
	pageSize := queryInt(c, "pageSize", usecase.DefaultPageSize)

	result, err := a.uploads.CleanedPreview(c.Request.Context(), c.Param("uploadId"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) deleteUpload(c *gin.Context) {
	if _, err := a.uploads.Delete(c.Param("uploadId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Uploaded dataset removed successfully."})
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or non-numeric
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

// respondError maps domain errors onto HTTP statuses: validation
// failures to 400, missing resources to 404, engine and ledger failures
// to 500 with the diagnostic message.
func respondError(c *gin.Context, err error) {
	var validationErr *entities.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
	case errors.Is(err, entities.ErrUploadNotFound),
		errors.Is(err, entities.ErrCleanedArtifactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
