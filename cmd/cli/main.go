package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"gosift/app"
	"gosift/internal/config"
	"gosift/internal/report"
	"gosift/internal/session"
	"gosift/internal/testkit"
	"gosift/models"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gosift-cli",
		Short: "gosift CLI for profiling, filtering, and summarizing CSV files",
	}

	rootCmd.AddCommand(
		newProfileCmd(),
		newSummaryCmd(),
		newReportCmd(),
		newExportCmd(),
		newSampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newProfileCmd() *cobra.Command {
	var concurrency int64

	cmd := &cobra.Command{
		Use:   "profile [files...]",
		Short: "Profile CSV files: types, conversions, missing values",
		Long: `Load each file, repair column types, and print the resulting profile:
the column inventory, the applied type conversions, and the missing-value
ledger. Files are profiled in parallel.

Example: gosift-cli profile orders.csv returns.csv --concurrency 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd.Context(), args, concurrency)
		},
	}

	cmd.Flags().Int64Var(&concurrency, "concurrency", 4, "Files profiled in parallel")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	var keeps, betweens []string

	cmd := &cobra.Command{
		Use:   "summary [file]",
		Short: "Print describe-style statistics over the filtered rows",
		Long: `Profile a file, apply the given filters, and print summary statistics
for every column of what survives.

Example: gosift-cli summary orders.csv --keep region=North,South --between price=50:400`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd.Context(), args[0], keeps, betweens)
		},
	}

	addFilterFlags(cmd, &keeps, &betweens)

	return cmd
}

func newReportCmd() *cobra.Command {
	var keeps, betweens []string
	var out string

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Write the markdown profile report",
		Long: `Build the full markdown profile report for a file, filters applied:
inventory, conversions, missing values, view statistics, and the summary
table. Prints to stdout unless --out names a file.

Example: gosift-cli report orders.csv --keep channel=online --out profile.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), args[0], keeps, betweens, out)
		},
	}

	addFilterFlags(cmd, &keeps, &betweens)
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")

	return cmd
}

func newExportCmd() *cobra.Command {
	var keeps, betweens []string
	var summary bool
	var out string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the filtered rows, or their summary, as CSV",
		Long: `Profile a file, apply the given filters, and write the surviving rows
as CSV. With --summary the describe-style statistics table is written
instead.

Example: gosift-cli export orders.csv --between units=2:8 --out narrow.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), args[0], keeps, betweens, summary, out)
		},
	}

	addFilterFlags(cmd, &keeps, &betweens)
	cmd.Flags().BoolVar(&summary, "summary", false, "Export summary statistics instead of rows")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default the export's own filename)")

	return cmd
}

func newSampleCmd() *cobra.Command {
	defaults := testkit.DefaultOrdersConfig()
	var rows int
	var seed int64
	var missingRate float64
	var out string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate the deterministic retail-orders sample CSV",
		Long: `Write a synthetic retail-orders CSV with mixed column types and a
sprinkling of missing cells. The same seed always produces the same file.

Example: gosift-cli sample --rows 1000 --seed 7 --out data/sample_data.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaults
			cfg.Rows = rows
			cfg.Seed = seed
			cfg.MissingRate = missingRate
			return runSample(cfg, out)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", defaults.Rows, "Number of orders to generate")
	cmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Random seed")
	cmd.Flags().Float64Var(&missingRate, "missing-rate", defaults.MissingRate, "Fraction of optional cells left blank")
	cmd.Flags().StringVar(&out, "out", "sample_data.csv", "Output file")

	return cmd
}

func addFilterFlags(cmd *cobra.Command, keeps, betweens *[]string) {
	cmd.Flags().StringArrayVar(keeps, "keep", nil, "Categorical filter, column=value,value (repeatable)")
	cmd.Flags().StringArrayVar(betweens, "between", nil, "Numeric filter, column=min:max (repeatable)")
}

func runProfile(ctx context.Context, paths []string, concurrency int64) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	if concurrency < 1 {
		concurrency = 1
	}

	type result struct {
		path  string
		entry *session.Entry
		err   error
	}
	results := make([]result, len(paths))

	sem := semaphore.NewWeighted(concurrency)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = result{path: path, err: err}
				return
			}
			defer sem.Release(1)
			entry, err := loadFile(ctx, svc, path)
			results[i] = result{path: path, entry: entry, err: err}
		}(i, path)
	}
	wg.Wait()

	failures := 0
	for _, res := range results {
		if res.err != nil {
			failures++
			fmt.Printf("❌ %s: %v\n\n", res.path, res.err)
			continue
		}
		printProfile(res.entry)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(paths))
	}
	return nil
}

func runSummary(ctx context.Context, path string, keeps, betweens []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	sel, err := parseSelectionFlags(keeps, betweens)
	if err != nil {
		return err
	}
	entry, err := loadFile(ctx, svc, path)
	if err != nil {
		return err
	}
	derived, err := svc.Derive(entry.Token, sel)
	if err != nil {
		return err
	}

	fmt.Printf("📊 %s: %d of %d rows (%.1f%%) survive the filters\n",
		entry.SourceName, derived.View.NumRows(), entry.Table.NumRows(), derived.View.PercentOfSource())
	for _, note := range derived.Notes {
		fmt.Printf("   note: %s\n", note.Message)
	}
	fmt.Println()
	fmt.Print(report.Table(derived.Summary))
	return nil
}

func runReport(ctx context.Context, path string, keeps, betweens []string, out string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	sel, err := parseSelectionFlags(keeps, betweens)
	if err != nil {
		return err
	}
	entry, err := loadFile(ctx, svc, path)
	if err != nil {
		return err
	}
	derived, err := svc.Derive(entry.Token, sel)
	if err != nil {
		return err
	}

	doc := report.NewBuilder().Build(entry, derived)
	if out == "" {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("✅ wrote %s\n", out)
	return nil
}

func runExport(ctx context.Context, path string, keeps, betweens []string, summary bool, out string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	sel, err := parseSelectionFlags(keeps, betweens)
	if err != nil {
		return err
	}
	entry, err := loadFile(ctx, svc, path)
	if err != nil {
		return err
	}

	var export *app.Export
	if summary {
		export, err = svc.ExportSummary(entry.Token, sel)
	} else {
		export, err = svc.ExportView(entry.Token, sel)
	}
	if err != nil {
		return err
	}

	if out == "" {
		out = export.Filename
	}
	if err := os.WriteFile(out, export.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("✅ wrote %s (%d bytes, export %s)\n", out, len(export.Data), export.ID)
	return nil
}

func runSample(cfg testkit.OrdersConfig, out string) error {
	orders := testkit.GenerateOrders(cfg)
	data, err := orders.CSV()
	if err != nil {
		return fmt.Errorf("failed to render sample: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}
	fmt.Printf("✅ wrote %s: %d orders, seed %d\n", out, orders.Len(), cfg.Seed)
	return nil
}

func newService() (*app.InsightsService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.NewInsightsService(cfg), nil
}

func loadFile(ctx context.Context, svc *app.InsightsService, path string) (*session.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return svc.LoadBytes(ctx, filepath.Base(path), data)
}

func printProfile(entry *session.Entry) {
	fmt.Printf("📊 %s: %d rows × %d columns\n", entry.SourceName, entry.Table.NumRows(), entry.Table.NumCols())
	fmt.Printf("%-20s %-10s %8s  %s\n", "COLUMN", "TYPE", "NON-NULL", "EXAMPLE")
	for _, info := range entry.Inventory {
		fmt.Printf("%-20s %-10s %8d  %s\n", info.Name, info.Type, info.NonNull, info.Example)
	}
	if len(entry.ChangeLog) > 0 {
		fmt.Println("\nConversions:")
		for _, change := range entry.ChangeLog {
			fmt.Printf("  %s\n", change)
		}
	}
	if len(entry.Missing) > 0 {
		fmt.Println("\nMissing values:")
		for _, m := range entry.Missing {
			fmt.Printf("  %-20s %d (%.1f%%)\n", m.Column, m.Count, m.Percent)
		}
	}
	fmt.Println()
}

// parseSelectionFlags turns --keep and --between values into a filter
// selection. An empty value list after = means an empty allowed set.
func parseSelectionFlags(keeps, betweens []string) (models.Selection, error) {
	sel := models.Selection{}

	for _, raw := range keeps {
		column, spec, ok := strings.Cut(raw, "=")
		if !ok || column == "" {
			return sel, fmt.Errorf("invalid --keep %q (want column=value,value)", raw)
		}
		if sel.Categorical == nil {
			sel.Categorical = make(map[string][]string)
		}
		allowed := []string{}
		for _, v := range strings.Split(spec, ",") {
			if v != "" {
				allowed = append(allowed, v)
			}
		}
		sel.Categorical[column] = allowed
	}

	for _, raw := range betweens {
		column, spec, ok := strings.Cut(raw, "=")
		if !ok || column == "" {
			return sel, fmt.Errorf("invalid --between %q (want column=min:max)", raw)
		}
		loStr, hiStr, ok := strings.Cut(spec, ":")
		if !ok {
			return sel, fmt.Errorf("invalid --between %q (want column=min:max)", raw)
		}
		lo, err := strconv.ParseFloat(loStr, 64)
		if err != nil {
			return sel, fmt.Errorf("invalid lower bound in %q: %w", raw, err)
		}
		hi, err := strconv.ParseFloat(hiStr, 64)
		if err != nil {
			return sel, fmt.Errorf("invalid upper bound in %q: %w", raw, err)
		}
		if sel.Ranges == nil {
			sel.Ranges = make(map[string]models.RangeRequest)
		}
		sel.Ranges[column] = models.RangeRequest{Min: lo, Max: hi}
	}

	return sel, nil
}
