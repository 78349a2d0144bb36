package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gosift/app"
	"gosift/internal"
	"gosift/internal/config"
	"gosift/internal/report"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App is the dashboard: load a dataset, inspect its profile, narrow it
// with filters, and read statistics over what survives. Pages render
// server-side; the result panels refresh as HTMX fragments.
type App struct {
	router    *chi.Mux
	insights  *app.InsightsService
	config    *config.Config
	templates *template.Template
	reports   *report.Builder
	logger    *internal.Logger
}

// NewApp creates the dashboard application
func NewApp(cfg *config.Config, insights *app.InsightsService) (*App, error) {
	funcMap := template.FuncMap{
		"add":   func(a, b int) int { return a + b },
		"mul":   func(a, b float64) float64 { return a * b },
		"lower": strings.ToLower,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		insights:  insights,
		config:    cfg,
		templates: templates,
		reports:   report.NewBuilder(),
		logger:    internal.DefaultLogger,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	// Serve static files
	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Main pages
	a.router.Get("/", a.handleIndex)
	a.router.Get("/datasets/{token}", a.handleDatasetDetail)
	a.router.Get("/datasets/{token}/report", a.handleReport)

	// Dataset loading
	a.router.Post("/datasets/upload", a.handleUpload)
	a.router.Post("/datasets/demo", a.handleDemo)

	// CSV downloads; the filter form submits here so the selection rides
	// along as query parameters
	a.router.Get("/datasets/{token}/export/rows", a.handleExportRows)
	a.router.Get("/datasets/{token}/export/summary", a.handleExportSummary)

	// HTMX fragment endpoints
	a.router.Get("/datasets/{token}/fragments/overview", a.handleFragmentOverview)
	a.router.Get("/datasets/{token}/fragments/summary", a.handleFragmentSummary)
	a.router.Get("/datasets/{token}/fragments/breakdown", a.handleFragmentBreakdown)
	a.router.Get("/datasets/{token}/fragments/snapshot", a.handleFragmentSnapshot)
	a.router.Get("/datasets/{token}/fragments/correlation", a.handleFragmentCorrelation)
}

// Router returns the HTTP handler for tests and embedding.
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Server.Port
	a.logger.Info("[UI] dashboard listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("[UI] template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// renderError shows a problem inside the panel that asked for it, so a bad
// filter never blanks the page around it.
func (a *App) renderError(w http.ResponseWriter, message string) {
	a.renderTemplate(w, "error.html", struct{ Message string }{Message: message})
}
