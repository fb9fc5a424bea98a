package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gotidy/app"
	"gotidy/internal"
	"gotidy/internal/config"
	"gotidy/internal/metrics"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App serves the upload, clean and report pages plus the JSON API
type App struct {
	router    *chi.Mux
	pipeline  *app.PipelineService
	templates *template.Template
	config    *config.Config
	logger    *internal.Logger
}

// NewApp creates a new UI application
func NewApp(cfg *config.Config, pipeline *app.PipelineService, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		pipeline:  pipeline,
		templates: templates,
		config:    cfg,
		logger:    logger,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.Dir(a.config.Paths.StaticDir))
	a.router.Handle("/static/*", http.StripPrefix("/static/", staticFS))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Pages
	a.router.Get("/", a.handleIndex)
	a.router.Post("/", a.handleUpload)
	a.router.Post("/confirm_header", a.handleConfirmHeader)
	a.router.Post("/clean", a.handleClean)
	a.router.Post("/report", a.handleReport)
	a.router.Get("/download_page", a.handleDownloadPage)
	a.router.Get("/download_file", a.handleDownloadFile)

	// Quick process
	a.router.Post("/process", a.handleProcess)
	a.router.Get("/reports/"+app.ProcessedReportName, a.handleProcessedReport)

	// API
	a.router.Route("/api/uploads/{id}", func(r chi.Router) {
		r.Get("/", a.handleGetUpload)
		r.Get("/changes", a.handleGetChanges)
	})
	a.router.Get("/healthz", a.handleHealth)
	if a.config.Metrics.Enabled {
		a.router.Handle("/metrics", metrics.Handler())
	}
}

// Handler exposes the router for servers and tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Server.Port
	a.logger.Info("Starting gotidy server on %s (uploads=%s reports=%s)", addr,
		filepath.Clean(a.config.Paths.UploadDir), filepath.Clean(a.config.Paths.ReportDir))
	return http.ListenAndServe(addr, a.router)
}
