package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/zots0127/reel/internal/domain/repository"
	infra "github.com/zots0127/reel/internal/infrastructure/repository"
	"github.com/zots0127/reel/internal/usecase"
	"github.com/zots0127/reel/pkg/engine"
	"github.com/zots0127/reel/pkg/middleware"
)

func main() {
	config := LoadConfig()

	if err := os.MkdirAll(config.Storage.Uploads, 0755); err != nil {
		log.Fatal("Failed to create uploads directory:", err)
	}

	ledger, err := infra.NewFileLedger(config.Storage.Ledger)
	if err != nil {
		log.Fatal("Failed to initialize upload ledger:", err)
	}

	var mirror repository.UploadMirror
	if config.Mirror.Database != "" {
		sqliteMirror, err := infra.NewSQLiteMirror(config.Mirror.Database)
		if err != nil {
			// The mirror is best-effort; run without it
			log.Printf("Failed to initialize mirror database, continuing without it: %v", err)
		} else {
			defer sqliteMirror.Close()
			mirror = sqliteMirror
		}
	}

	var archiver repository.BlobArchiver
	if config.S3.Enabled {
		s3Archiver, err := infra.NewS3Archiver(infra.S3ArchiverOptions{
			Endpoint:  config.S3.Endpoint,
			Region:    config.S3.Region,
			AccessKey: config.S3.AccessKey,
			SecretKey: config.S3.SecretKey,
			Bucket:    config.S3.Bucket,
		})
		if err != nil {
			log.Printf("Failed to initialize S3 archiver, continuing without it: %v", err)
		} else {
			archiver = s3Archiver
		}
	}

	scriptRoot, err := filepath.Abs(config.Engine.Scripts)
	if err != nil {
		log.Fatal("Failed to resolve engine script root:", err)
	}
	runner := engine.NewRunner(config.Engine.PythonBin, scriptRoot, config.EngineTimeout(), config.Engine.MaxConcurrent)

	uploads := usecase.NewUploadUseCase(ledger, runner, mirror, archiver)
	api := NewAPI(uploads, config.Storage.Uploads)

	router := gin.Default()
	router.MaxMultipartMemory = maxUploadSize
	router.Use(middleware.CORS())
	api.RegisterRoutes(router)

	log.Printf("Starting server on port %s", config.Server.Port)
	if err := router.Run(":" + config.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
