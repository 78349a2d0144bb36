package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gosift/adapters/delimited"
	"gosift/adapters/describe"
	"gosift/adapters/excel"
	"gosift/domain/core"
	"gosift/domain/filter"
	"gosift/domain/profile"
	"gosift/domain/table"
	"gosift/internal"
	"gosift/internal/coerce"
	"gosift/internal/config"
	"gosift/internal/sampling"
	"gosift/internal/session"
	"gosift/models"
	"gosift/ports"
)

// InsightsService drives the profiling pipeline: load, infer, profile,
// filter, sample, summarize. Loaded datasets cache by identity token and
// every filter selection memoizes its derived results, so repeated
// dashboard reads cost one map lookup.
type InsightsService struct {
	cache      *session.Cache
	coercion   *coerce.Engine
	sampler    *sampling.Sampler
	summarizer *describe.Summarizer
	writer     *delimited.Writer
	readers    map[string]ports.TableReader
	source     ports.TableSource
	config     *config.Config
	logger     *internal.Logger
}

// Export bundles rendered CSV bytes with a suggested filename.
type Export struct {
	ID       core.ExportID `json:"id"`
	Filename string        `json:"filename"`
	Data     []byte        `json:"-"`
}

// ErrNoSource reports a query-backed load attempted without an attached
// database source.
var ErrNoSource = errors.New("no database source configured")

// NewInsightsService creates the pipeline service from configuration
func NewInsightsService(cfg *config.Config) *InsightsService {
	return &InsightsService{
		cache: session.NewCache(),
		coercion: coerce.NewEngine(coerce.Config{
			NumericThreshold: cfg.Pipeline.NumericThreshold,
			MissingSkipRatio: cfg.Pipeline.MissingSkipRatio,
		}),
		sampler:    sampling.NewSampler(cfg.Pipeline.SampleCap, cfg.Pipeline.SampleSeed),
		summarizer: describe.NewSummarizer(),
		writer:     delimited.NewWriter(),
		readers: map[string]ports.TableReader{
			".csv":  delimited.NewReader(),
			".xlsx": excel.NewReader(),
		},
		config: cfg,
		logger: internal.DefaultLogger,
	}
}

// AttachSource wires an optional query-backed table source.
func (s *InsightsService) AttachSource(src ports.TableSource) {
	s.source = src
}

// LoadBytes ingests uploaded content under the given source name,
// replacing any dataset cached under the same name. A failed parse
// leaves the previously cached dataset untouched.
func (s *InsightsService) LoadBytes(ctx context.Context, name string, data []byte) (*session.Entry, error) {
	token, err := core.NewDatasetToken(name)
	if err != nil {
		return nil, err
	}
	reader, err := s.readerFor(name)
	if err != nil {
		return nil, err
	}

	return s.cache.Reload(token, func() (*session.Entry, error) {
		return s.buildEntry(token, name, reader, data)
	})
}

// LoadResource loads a named dataset from the local data directory,
// reusing the cached copy when one exists. Concurrent loads of the same
// resource collapse into one read.
func (s *InsightsService) LoadResource(ctx context.Context, name string) (*session.Entry, error) {
	token, err := core.NewDatasetToken(name)
	if err != nil {
		return nil, err
	}
	reader, err := s.readerFor(name)
	if err != nil {
		return nil, err
	}

	return s.cache.LoadOrStore(token, func() (*session.Entry, error) {
		path := filepath.Join(s.config.Data.Dir, filepath.Base(name))
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, core.NewNotFoundError("dataset", name)
			}
			return nil, fmt.Errorf("failed to read dataset file: %w", err)
		}
		return s.buildEntry(token, name, reader, data)
	})
}

// LoadDemo loads the bundled demonstration dataset.
func (s *InsightsService) LoadDemo(ctx context.Context) (*session.Entry, error) {
	return s.LoadResource(ctx, s.config.Data.DemoResource)
}

// LoadQuery profiles the result set of a read-only database query,
// cached under the given name. Requires an attached source.
func (s *InsightsService) LoadQuery(ctx context.Context, name, query string, args ...interface{}) (*session.Entry, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}
	token, err := core.NewDatasetToken(name)
	if err != nil {
		return nil, err
	}

	return s.cache.Reload(token, func() (*session.Entry, error) {
		t, err := s.source.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		inferred, changes := s.coercion.Infer(t)
		s.logger.Info("[Insights] loaded %q from query (%d columns, %d rows, %d conversions)",
			name, inferred.NumCols(), inferred.NumRows(), len(changes))
		return session.NewEntry(token, name, inferred, changes), nil
	})
}

// Entry returns the cached dataset for token.
func (s *InsightsService) Entry(token core.DatasetToken) (*session.Entry, error) {
	e, ok := s.cache.Get(token)
	if !ok {
		return nil, core.NewNotFoundError("dataset", token.String())
	}
	return e, nil
}

// Datasets lists the cached datasets in token order.
func (s *InsightsService) Datasets() []models.DatasetInfo {
	tokens := s.cache.Tokens()
	infos := make([]models.DatasetInfo, 0, len(tokens))
	for _, token := range tokens {
		e, ok := s.cache.Get(token)
		if !ok {
			continue
		}
		infos = append(infos, models.DatasetInfo{
			Token:      token.String(),
			SourceName: e.SourceName,
			Rows:       e.Table.NumRows(),
			Columns:    e.Table.NumCols(),
			LoadedAt:   e.LoadedAt,
		})
	}
	return infos
}

// Derive applies a filter selection to a cached dataset and returns the
// filtered view, its display sample, summary statistics, and any
// constant-column notes. Results memoize per selection, keyed by a hash
// that ignores filter order.
func (s *InsightsService) Derive(token core.DatasetToken, sel models.Selection) (*session.Derived, error) {
	entry, err := s.Entry(token)
	if err != nil {
		return nil, err
	}

	hash := selectionHash(sel)
	if d, ok := entry.Derived(hash); ok {
		s.logger.Debug("[Insights] selection cache hit for %s", token)
		return d, nil
	}

	specs, notes, err := s.compileSelection(entry.Table, sel)
	if err != nil {
		return nil, err
	}
	view, err := filter.Apply(entry.Table, specs)
	if err != nil {
		return nil, err
	}

	d := &session.Derived{
		View:       view,
		Sampled:    s.sampler.Sample(view),
		Summary:    s.summarizer.Summarize(view.Materialize()),
		Notes:      notes,
		ComputedAt: time.Now(),
	}
	entry.PutDerived(hash, d)
	s.logger.Info("[Insights] %s: %d of %d rows (%.1f%%) survive the selection",
		token, view.NumRows(), entry.Table.NumRows(), view.PercentOfSource())
	return d, nil
}

// Preview returns the leading rows of the sampled view for display.
func (s *InsightsService) Preview(token core.DatasetToken, sel models.Selection) (*table.Table, error) {
	d, err := s.Derive(token, sel)
	if err != nil {
		return nil, err
	}
	return d.Sampled.Head(s.config.Display.PreviewRows), nil
}

// Breakdown counts the values of a categorical column over the filtered
// view, capped at the configured top. The second return is how many
// further categories fell past the cap.
func (s *InsightsService) Breakdown(token core.DatasetToken, sel models.Selection, column string) ([]profile.ValueCount, int, error) {
	d, err := s.Derive(token, sel)
	if err != nil {
		return nil, 0, err
	}
	return profile.Breakdown(d.View.Materialize(), column, s.config.Display.BreakdownTop)
}

// Snapshot computes headline numbers for a numeric column of the
// filtered view.
func (s *InsightsService) Snapshot(token core.DatasetToken, sel models.Selection, column string) (*describe.Snapshot, error) {
	d, err := s.Derive(token, sel)
	if err != nil {
		return nil, err
	}
	return s.summarizer.Snapshot(d.View.Materialize(), column)
}

// Correlate computes the Pearson coefficient between two numeric columns
// of the filtered view.
func (s *InsightsService) Correlate(token core.DatasetToken, sel models.Selection, columnX, columnY string) (*describe.Correlation, error) {
	d, err := s.Derive(token, sel)
	if err != nil {
		return nil, err
	}
	return s.summarizer.Correlation(d.View.Materialize(), columnX, columnY)
}

// FilterFields describes the filterable columns of a dataset in source
// order. Categorical columns with too many distinct values to render are
// omitted; constant numeric columns surface as informational notes.
func (s *InsightsService) FilterFields(token core.DatasetToken) ([]models.FilterField, error) {
	entry, err := s.Entry(token)
	if err != nil {
		return nil, err
	}

	fields := make([]models.FilterField, 0, entry.Table.NumCols())
	for i := 0; i < entry.Table.NumCols(); i++ {
		col := entry.Table.ColumnAt(i)
		if col.Type.IsNumeric() {
			lo, hi, ok := col.Bounds()
			if !ok {
				continue
			}
			if lo == hi {
				note := filter.ConstantNote(col.Name, lo)
				fields = append(fields, models.FilterField{
					Column: col.Name,
					Kind:   models.FieldConstant,
					Min:    lo,
					Max:    hi,
					Note:   note.Message,
				})
				continue
			}
			fields = append(fields, models.FilterField{
				Column: col.Name,
				Kind:   models.FieldRange,
				Min:    lo,
				Max:    hi,
			})
			continue
		}

		choices := col.Distinct()
		if len(choices) == 0 || len(choices) > s.config.Display.FilterMaxChoices {
			continue
		}
		fields = append(fields, models.FilterField{
			Column:  col.Name,
			Kind:    models.FieldCategorical,
			Choices: choices,
		})
	}
	return fields, nil
}

// ExportView renders the full filtered view as CSV.
func (s *InsightsService) ExportView(token core.DatasetToken, sel models.Selection) (*Export, error) {
	d, err := s.Derive(token, sel)
	if err != nil {
		return nil, err
	}
	data, err := s.writer.Bytes(d.View.Materialize())
	if err != nil {
		return nil, err
	}
	return &Export{ID: core.NewExportID(), Filename: "filtered_data.csv", Data: data}, nil
}

// ExportSummary renders the view's summary statistics as CSV.
func (s *InsightsService) ExportSummary(token core.DatasetToken, sel models.Selection) (*Export, error) {
	d, err := s.Derive(token, sel)
	if err != nil {
		return nil, err
	}
	data, err := s.writer.Bytes(d.Summary)
	if err != nil {
		return nil, err
	}
	return &Export{ID: core.NewExportID(), Filename: "summary_stats.csv", Data: data}, nil
}

func (s *InsightsService) buildEntry(token core.DatasetToken, name string, reader ports.TableReader, data []byte) (*session.Entry, error) {
	t, err := reader.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	inferred, changes := s.coercion.Infer(t)
	s.logger.Info("[Insights] loaded %q (%d columns, %d rows, %d conversions)",
		name, inferred.NumCols(), inferred.NumRows(), len(changes))
	return session.NewEntry(token, name, inferred, changes), nil
}

func (s *InsightsService) readerFor(name string) (ports.TableReader, error) {
	ext := strings.ToLower(filepath.Ext(name))
	reader, ok := s.readers[ext]
	if !ok {
		return nil, core.NewParseError(fmt.Sprintf("unsupported file type %q", ext), nil)
	}
	return reader, nil
}

func (s *InsightsService) compileSelection(t *table.Table, sel models.Selection) ([]filter.Spec, []filter.Note, error) {
	specs := make([]filter.Spec, 0, len(sel.Categorical)+len(sel.Ranges))
	notes := make([]filter.Note, 0)

	for _, column := range sortedKeys(sel.Categorical) {
		specs = append(specs, filter.Categorical(column, sel.Categorical[column]))
	}
	for _, column := range sortedKeys(sel.Ranges) {
		r := sel.Ranges[column]
		spec, note, err := filter.NumericRange(t, column, r.Min, r.Max)
		if err != nil {
			return nil, nil, err
		}
		if note != nil {
			notes = append(notes, *note)
			continue
		}
		specs = append(specs, spec)
	}
	return specs, notes, nil
}

// selectionHash canonicalizes a selection so that logically identical
// filter sets, whatever their order, share one memoization slot.
func selectionHash(sel models.Selection) core.SelectionHash {
	keys := make([]string, 0, len(sel.Categorical))
	for column, allowed := range sel.Categorical {
		sorted := append([]string(nil), allowed...)
		sort.Strings(sorted)
		keys = append(keys, column+"="+strings.Join(sorted, "\x1f"))
	}
	ranges := make(map[string]string, len(sel.Ranges))
	for column, r := range sel.Ranges {
		ranges[column] = fmt.Sprintf("%g..%g", r.Min, r.Max)
	}
	return core.ComputeSelectionHash(keys, ranges)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
