package ui

import (
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gosift/app"
)

// Uploads larger than this are rejected before parsing.
const maxUploadBytes = 50 << 20

// handleUpload ingests an uploaded CSV and redirects to its profile
// page. Failures re-render the index with the reason inline.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("dataset")
	if err != nil {
		a.renderIndex(w, "Choose a CSV file to upload.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.renderIndex(w, "Reading the upload failed. Try again.")
		return
	}

	entry, err := a.insights.LoadBytes(r.Context(), header.Filename, data)
	if err != nil {
		a.logger.Warn("[UI] upload %s rejected: %v", header.Filename, err)
		a.renderIndex(w, fmt.Sprintf("Could not load %s: %v", header.Filename, err))
		return
	}

	http.Redirect(w, r, "/datasets/"+entry.Token.String(), http.StatusSeeOther)
}

// handleDemo loads the bundled sample dataset.
func (a *App) handleDemo(w http.ResponseWriter, r *http.Request) {
	entry, err := a.insights.LoadDemo(r.Context())
	if err != nil {
		a.logger.Error("[UI] demo load: %v", err)
		a.renderIndex(w, fmt.Sprintf("Could not load the demo dataset: %v", err))
		return
	}
	http.Redirect(w, r, "/datasets/"+entry.Token.String(), http.StatusSeeOther)
}

// handleExportRows streams the filtered rows as a CSV download. The
// filter form submits here directly, so the selection arrives as query
// parameters.
func (a *App) handleExportRows(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.entryFromRequest(w, r)
	if !ok {
		return
	}
	export, err := a.insights.ExportView(entry.Token, parseSelection(r.URL.Query()))
	if err != nil {
		a.logger.Error("[UI] export rows for %s: %v", entry.Token, err)
		http.Error(w, "Export failed", http.StatusBadRequest)
		return
	}
	a.sendCSV(w, export)
}

// handleExportSummary streams the summary-statistics table as CSV.
func (a *App) handleExportSummary(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.entryFromRequest(w, r)
	if !ok {
		return
	}
	export, err := a.insights.ExportSummary(entry.Token, parseSelection(r.URL.Query()))
	if err != nil {
		a.logger.Error("[UI] export summary for %s: %v", entry.Token, err)
		http.Error(w, "Export failed", http.StatusBadRequest)
		return
	}
	a.sendCSV(w, export)
}

func (a *App) sendCSV(w http.ResponseWriter, export *app.Export) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.Header().Set("X-Export-ID", export.ID.String())
	w.Write(export.Data)
}

// handleReport renders the markdown profile report as a page, or as a
// raw markdown download when ?download=1.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.entryFromRequest(w, r)
	if !ok {
		return
	}
	derived, err := a.insights.Derive(entry.Token, parseSelection(r.URL.Query()))
	if err != nil {
		a.logger.Error("[UI] report for %s: %v", entry.Token, err)
		http.Error(w, "Report failed", http.StatusBadRequest)
		return
	}
	doc := a.reports.Build(entry, derived)

	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "data_profile.md"))
		w.Write([]byte(doc))
		return
	}

	download := r.URL.Query()
	download.Set("download", "1")
	data := reportData{
		Title:       "Report: " + entry.SourceName,
		Token:       entry.Token.String(),
		DownloadURL: r.URL.Path + "?" + download.Encode(),
		Body:        renderMarkdown(doc),
	}
	a.renderTemplate(w, "report.html", data)
}

// renderMarkdown converts the report markdown to HTML. Table support
// comes with the common extension set.
func renderMarkdown(doc string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.Render(p.Parse([]byte(doc)), renderer))
}
