package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"catalogclean/adapters/postgres"
	"catalogclean/app"
	"catalogclean/domain/run"
	"catalogclean/internal/config"
	"catalogclean/internal/container"
	"catalogclean/internal/profiling"
	"catalogclean/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// exitError carries a process exit status. logged is set when the pipeline
// already wrote the failure to the log.
type exitError struct {
	code   int
	err    error
	logged bool
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// handleError prints err unless it was already logged and returns the exit status
func handleError(w io.Writer, err error) int {
	var exit *exitError
	if errors.As(err, &exit) {
		if !exit.logged {
			fmt.Fprintln(w, err)
		}
		return exit.code
	}
	fmt.Fprintln(w, err)
	return 1
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "catalogclean-cli",
		Short:         "Clean media catalog exports and inspect the results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newCleanCmd(),
		newProfileCmd(),
		newRunsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(handleError(os.Stderr, err))
	}
}

func newCleanCmd() *cobra.Command {
	var (
		input      string
		output     string
		sampleRows int
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Run the cleaning pipeline and export the workbooks",
		Long: `Load a catalog CSV, clean it and write the full and sample workbooks.

Flags override INPUT_FILE, OUTPUT_FILE, SAMPLE_ROWS and EXPORT_STRICT.

Example: catalogclean-cli clean --input netflix_titles.csv --output out/cleaned.xlsx --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("input") {
				cfg.Paths.InputFile = input
			}
			if cmd.Flags().Changed("output") {
				cfg.Paths.OutputFile = output
			}
			if cmd.Flags().Changed("sample-rows") {
				cfg.Export.SampleRows = sampleRows
			}
			if cmd.Flags().Changed("strict") {
				cfg.Export.Strict = strict
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			return runClean(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&input, "input", config.DefaultInputFile, "Input CSV or xlsx file")
	cmd.Flags().StringVar(&output, "output", config.DefaultOutputFile, "Output workbook path")
	cmd.Flags().IntVar(&sampleRows, "sample-rows", config.DefaultSampleRows, "Rows in the sample workbook")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with status 2 when a workbook cannot be written")

	return cmd
}

func runClean(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	if cfg.Database.Enabled() {
		if err := c.AttachDatabase(ctx); err != nil {
			c.Logger.Warn("run ledger disabled: %v", err)
		}
	}

	summary, err := c.Pipeline.Run(ctx, app.PipelineRequest{
		InputPath:  cfg.Paths.InputFile,
		OutputPath: cfg.Paths.OutputFile,
	})
	if err != nil {
		return &exitError{code: 1, err: err, logged: true}
	}

	printSummary(cmd, summary)
	if summary.Status == run.StatusExportFailed && cfg.Export.Strict {
		return &exitError{code: 2, err: summary.Export.Err(), logged: true}
	}
	return nil
}

func printSummary(cmd *cobra.Command, s *run.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:        %s\n", s.RunID)
	fmt.Fprintf(out, "Status:     %s\n", s.Status)
	fmt.Fprintf(out, "Loaded:     %d rows x %d columns\n", s.RowsLoaded, s.ColumnsLoaded)
	fmt.Fprintf(out, "Cleaned:    %d rows x %d columns\n", s.RowsCleaned, s.ColumnsCleaned)
	fmt.Fprintf(out, "Duplicates: %d removed\n", s.DuplicatesRemoved)
	fmt.Fprintf(out, "Imputed:    %d values\n", s.ValuesImputed)
	fmt.Fprintf(out, "Clipped:    %d values\n", s.ValuesClipped)
	fmt.Fprintf(out, "Output:     %s\n", s.OutputPath)
	fmt.Fprintf(out, "Sample:     %s (%d rows)\n", s.SamplePath, s.Export.SampleRows)
	fmt.Fprintf(out, "Duration:   %s\n", s.Duration().Round(time.Millisecond))
}

func newProfileCmd() *cobra.Command {
	var (
		clean  bool
		asHTML bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Summarize the numeric columns of a catalog file",
		Long: `Print count, mean, std, min, quartiles, max, skewness, IQR bounds and
outlier count for every numeric column, as a markdown table or an HTML page.

With --clean the file is cleaned first and the report includes what changed.

Example: catalogclean-cli profile netflix_titles.csv --clean --html --output profile.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runProfile(cmd, cfg, args[0], clean, asHTML, output)
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "Clean the table before profiling")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render an HTML page instead of markdown")
	cmd.Flags().StringVar(&output, "output", "", "Write the report to a file instead of stdout")

	return cmd
}

func runProfile(cmd *cobra.Command, cfg *config.Config, path string, clean, asHTML bool, output string) error {
	c, err := container.New(cfg)
	if err != nil {
		return err
	}

	t, err := c.Loader.Load(path)
	if err != nil {
		return err
	}

	r := report.ProfileReport{Title: "Catalog profile", Source: path}
	if clean {
		cleaned, stats, err := c.Cleaner.Clean(t)
		if err != nil {
			return err
		}
		t = cleaned
		r.Stats = stats
	}
	r.Rows, r.Columns = t.Shape()

	r.Profiles, err = profiling.NewTableProfiler().ProfileTable(t)
	if err != nil {
		return err
	}

	var content []byte
	if asHTML {
		content = report.HTML(r)
	} else {
		content = []byte(report.Markdown(r))
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}
	if err := os.WriteFile(output, content, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
	return nil
}

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent pipeline runs from the run ledger",
		Long: `List the most recent runs recorded in the database named by DATABASE_URL.

Example: catalogclean-cli runs --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runRuns(cmd.Context(), cmd, cfg, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")

	return cmd
}

func runRuns(ctx context.Context, cmd *cobra.Command, cfg *config.Config, limit int) error {
	db, err := container.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := postgres.NewRunRepository(db).ListRecent(ctx, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tSTATUS\tROWS IN\tROWS OUT\tINPUT\tERROR")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.RunID, r.StartedAt.Format(time.RFC3339), r.Status, r.RowsLoaded, r.RowsCleaned, r.InputPath, r.ErrorMessage)
	}
	return w.Flush()
}
