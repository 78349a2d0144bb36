package report

import (
	"fmt"
	"strings"

	"gosift/domain/profile"
	"gosift/domain/table"
	"gosift/internal/session"
)

// Builder renders a dataset profile as a Markdown document. The dashboard
// converts the result to HTML; the CLI writes it to disk as-is.
type Builder struct{}

// NewBuilder creates a report builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles the profile report for a loaded dataset. When derived is
// nil the report covers only the load-time profile; otherwise it appends the
// filtered-view sections for the selection the derivation was computed from.
func (b *Builder) Build(entry *session.Entry, derived *session.Derived) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# Data Profile: %s\n\n", entry.SourceName))
	md.WriteString(fmt.Sprintf("Loaded %s. %d rows, %d columns.\n",
		entry.LoadedAt.Format("2006-01-02 15:04:05"),
		entry.Table.NumRows(), entry.Table.NumCols()))

	writeInventory(&md, entry.Inventory)
	writeChangeLog(&md, entry.ChangeLog)
	writeMissing(&md, entry.Missing)

	if derived != nil {
		writeView(&md, derived)
	}

	return md.String()
}

func writeInventory(md *strings.Builder, infos []profile.ColumnInfo) {
	md.WriteString("\n## Column Inventory\n\n")
	md.WriteString("| Column | Type | Non-Null | Example |\n")
	md.WriteString("| --- | --- | --- | --- |\n")
	for _, info := range infos {
		md.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n",
			escapeCell(info.Name), info.Type, info.NonNull, escapeCell(info.Example)))
	}
}

func writeChangeLog(md *strings.Builder, changes []string) {
	md.WriteString("\n## Type Conversions\n\n")
	if len(changes) == 0 {
		md.WriteString("No conversions were applied.\n")
		return
	}
	for _, change := range changes {
		md.WriteString(fmt.Sprintf("- %s\n", change))
	}
}

func writeMissing(md *strings.Builder, entries []profile.Entry) {
	md.WriteString("\n## Missing Values\n\n")
	if len(entries) == 0 {
		md.WriteString("No missing values detected.\n")
		return
	}
	md.WriteString("| Column | Missing | % of Rows |\n")
	md.WriteString("| --- | --- | --- |\n")
	for _, e := range entries {
		md.WriteString(fmt.Sprintf("| %s | %d | %.1f |\n", escapeCell(e.Column), e.Count, e.Percent))
	}
}

func writeView(md *strings.Builder, derived *session.Derived) {
	view := derived.View
	md.WriteString("\n## Filtered View\n\n")
	md.WriteString(fmt.Sprintf("%d of %d rows survive the active filters (%.1f%%).\n",
		view.NumRows(), view.Source().NumRows(), view.PercentOfSource()))
	for _, note := range derived.Notes {
		md.WriteString(fmt.Sprintf("- %s\n", note.Message))
	}
	if derived.Sampled.NumRows() < view.NumRows() {
		md.WriteString(fmt.Sprintf("\nThe dashboard displays a random sample of %d rows for this view.\n",
			derived.Sampled.NumRows()))
	}

	md.WriteString("\n## Summary Statistics\n\n")
	if derived.Summary.IsEmpty() {
		md.WriteString("No rows to summarize.\n")
		return
	}
	md.WriteString(Table(derived.Summary))
}

// Table renders any table as a Markdown table, one row per source row.
// Null cells render empty, matching the CSV export convention.
func Table(t *table.Table) string {
	var md strings.Builder

	names := t.Names()
	md.WriteString("| " + strings.Join(escapeCells(names), " | ") + " |\n")
	md.WriteString("|" + strings.Repeat(" --- |", len(names)) + "\n")

	for r := 0; r < t.NumRows(); r++ {
		cells := make([]string, t.NumCols())
		for c := 0; c < t.NumCols(); c++ {
			cells[c] = escapeCell(t.ColumnAt(c).Values[r].Render())
		}
		md.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return md.String()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = escapeCell(c)
	}
	return out
}

// escapeCell keeps cell text from breaking the surrounding table markup.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
