package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gomlready/adapters/ingest"
	"gomlready/app"
	"gomlready/domain/analysis"
	"gomlready/domain/dataset"
	"gomlready/internal"
	"gomlready/internal/config"
	"gomlready/internal/container"
	"gomlready/internal/pipeline"
	"gomlready/internal/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "gomlready",
		Short:         "Profile a dataset and get ML-readiness advice",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional YAML config file")

	rootCmd.AddCommand(
		newAnalyzeCmd(&cfgFile),
		newValidateCmd(),
		newServeCmd(&cfgFile),
	)
	return rootCmd
}

func newAnalyzeCmd(cfgFile *string) *cobra.Command {
	var taskType, target, format, dataPath string

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a CSV, XLSX or JSON file",
		Long: `Run the full pipeline over one file: column profiling, quality issues,
target and task detection, feature suggestions and model ranking.

JSON files are read as {"columns": [...], "rows": [...]} unless --data-path
points at an array of objects inside the document.

Example: gomlready analyze customers.csv --target churned --format table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			opts, err := app.ParseOptions(taskType, target)
			if err != nil {
				return err
			}
			render, err := renderer(format)
			if err != nil {
				return err
			}

			res, err := runAnalyze(cmd.Context(), cfg, args[0], dataPath, opts)
			if err != nil {
				return err
			}
			if err := render(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("analysis finished with errors: %w", res.Err())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&taskType, "task-type", "", "Force the task type (classification or regression)")
	cmd.Flags().StringVar(&target, "target", "", "Force the target column")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml, table or markdown")
	cmd.Flags().StringVar(&dataPath, "data-path", "", "gjson path to the records in a JSON file")

	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config, path, dataPath string, opts analysis.Options) (*analysis.Result, error) {
	logger := internal.NewLogger(cfg.Level())
	svc := app.NewAnalysisService(ingest.NewReader(logger), pipeline.New(cfg.Analysis.ProfileWorkers, logger), nil, 1, logger)

	if strings.EqualFold(filepath.Ext(path), ".json") {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		res, err := svc.AnalyzeJSON(ctx, body, dataPath, opts)
		if err != nil {
			return nil, err
		}
		res.Source = filepath.Base(path)
		return res, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return svc.AnalyzeUpload(ctx, filepath.Base(path), f, opts)
}

type renderFunc func(io.Writer, *analysis.Result) error

func renderer(format string) (renderFunc, error) {
	switch strings.ToLower(format) {
	case "json":
		return func(w io.Writer, res *analysis.Result) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}, nil
	case "yaml", "yml":
		return func(w io.Writer, res *analysis.Result) error {
			// Round-trip through JSON so YAML keys match the API.
			raw, err := json.Marshal(res)
			if err != nil {
				return err
			}
			var doc any
			if err := json.Unmarshal(raw, &doc); err != nil {
				return err
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(doc)
		}, nil
	case "table":
		return func(w io.Writer, res *analysis.Result) error {
			_, err := io.WriteString(w, report.Text(res))
			return err
		}, nil
	case "markdown", "md":
		return func(w io.Writer, res *analysis.Result) error {
			_, err := io.WriteString(w, report.Markdown(res))
			return err
		}, nil
	}
	return nil, fmt.Errorf("unknown format %q (expected json, yaml, table or markdown)", format)
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check whether a CSV or XLSX file is large and complete enough to analyze",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := ingest.NewReader(internal.NewLogger(internal.LogLevelError)).ReadFile(args[0])
			if err != nil {
				return err
			}
			return printValidation(cmd.OutOrStdout(), ds)
		},
	}
	return cmd
}

func printValidation(w io.Writer, ds *dataset.Dataset) error {
	stats := ds.Stats()
	fmt.Fprintf(w, "File:     %s\n", ds.Name)
	fmt.Fprintf(w, "Rows:     %d\n", ds.RowCount())
	fmt.Fprintf(w, "Columns:  %d\n", ds.ColumnCount())
	fmt.Fprintf(w, "Missing:  %d of %d cells (%.2f%%)\n", stats.MissingCells, stats.TotalCells, stats.MissingPercentage)
	fmt.Fprintf(w, "Memory:   %.2f MB\n", stats.MemoryUsageMB)

	problems := ds.Validate()
	if len(problems) == 0 {
		fmt.Fprintln(w, "✅ Dataset is ready for analysis")
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(w, "❌ %s\n", p)
	}
	return fmt.Errorf("dataset failed validation with %d problem(s)", len(problems))
}

func newServeCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (and the pprof ops server when enabled)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := container.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())
			return c.Serve(ctx)
		},
	}
}
