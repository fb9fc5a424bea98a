package main

import (
	"log"

	"github.com/joho/godotenv"

	"gotidy/adapters/charts"
	"gotidy/adapters/excel"
	"gotidy/adapters/filestore"
	"gotidy/app"
	"gotidy/internal"
	"gotidy/internal/config"
	"gotidy/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLoggerWithFile(internal.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File)
	defer logger.Sync()

	storage := filestore.NewLocalFileStorage(&filestore.StorageConfig{
		BasePath:    cfg.Paths.UploadDir,
		MaxFileSize: cfg.Server.MaxUploadMB << 20,
		ChunkSize:   32 * 1024,
	})

	pipeline := app.NewPipelineService(app.PipelineDeps{
		Files:        storage,
		Uploads:      filestore.NewUploadRepository(cfg.Paths.UploadDir, cfg.Data.RecordCacheTTL, logger),
		Reader:       excel.NewDataReader(logger),
		Writer:       excel.NewWorkbookWriter(logger),
		Renderer:     charts.NewRenderer(),
		ChartWorkers: cfg.Data.ChartWorkers,
		ReportDir:    cfg.Paths.ReportDir,
		StaticDir:    cfg.Paths.StaticDir,
		Logger:       logger,
	})

	server, err := ui.NewApp(cfg, pipeline, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Fatal(server.Start())
}
