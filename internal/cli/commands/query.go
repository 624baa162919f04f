package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/primebrains/sqltools/internal/export"
	"github.com/primebrains/sqltools/internal/runner"
	"github.com/primebrains/sqltools/internal/watch"
	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [flags] FILE...",
		Short: "Execute SQL files and export their results",
		Long: `Split each SQL file into statements, execute them in order against the
selected database and export every result set into the output directory.

Output files are named <file>_<yyyyMMdd_HHmmss>_<n>.<ext>, where n is the
1-based position of the statement in its file. Statements that return no
columns are executed without producing a file.`,
		Example: `  # Run a file against the default database
  sqltools query report.sql

  # Export to Excel using the "warehouse" entry
  sqltools query -d warehouse -f excel -o ./out daily.sql weekly.sql

  # Re-run files whenever they change
  sqltools query --watch report.sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringP("database", "d", "", "Database key from the databases section (default \"default\")")
	cmd.Flags().StringP("output-dir", "o", "", "Directory for exported files (default \"./output\")")
	cmd.Flags().StringP("format", "f", "", "Output format (csv|excel|yaml|json|markdown)")
	cmd.Flags().String("state", "", "Path to the history database (disabled when empty)")
	cmd.Flags().IntP("jobs", "j", 0, "Number of files processed concurrently (default 1)")
	cmd.Flags().Bool("watch", false, "Re-run files when they change")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		formats := export.Formats()
		names := make([]string, len(formats))
		for i, f := range formats {
			names[i] = f.String()
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("database", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return getConfig().DatabaseKeys(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	cctx := NewCommandContext(cmd)
	cfg := cctx.Cfg
	ctx := cmd.Context()

	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	exp, err := export.New(format, nil)
	if err != nil {
		return err
	}

	adp, closeAdapter, err := cctx.Connect(cmd)
	if err != nil {
		return err
	}
	defer closeAdapter()

	r := &runner.Runner{
		Adapter:   adp,
		Exporter:  exp,
		Format:    format,
		OutputDir: cfg.OutputDir,
		Logger:    cctx.Logger,
		Jobs:      cfg.Jobs,
	}

	store, err := cctx.OpenStore()
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
		run, err := store.BeginRun(ctx, cfg.Database, format.String())
		if err != nil {
			return err
		}
		r.Store = store
		r.RunID = run.ID
		cctx.Logger.Debug("recording history", slog.String("path", store.Path()), slog.String("run", run.ID))
	}

	if err := r.EnsureOutputDir(); err != nil {
		return err
	}

	reports, err := r.ProcessFiles(ctx, args)
	printReports(cmd.OutOrStdout(), reports)
	if err != nil {
		return err
	}

	watching, _ := cmd.Flags().GetBool("watch")
	if !watching {
		return nil
	}
	return watchFiles(cmd, r, args, cctx.Logger)
}

// watchFiles re-processes each changed file until interrupted.
func watchFiles(cmd *cobra.Command, r *runner.Runner, paths []string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching for changes", slog.Int("files", len(paths)))
	return watch.Watch(ctx, paths, logger, func(path string) {
		logger.Info("file changed", slog.String("file", path))
		report, err := r.ProcessFile(ctx, path)
		printReports(cmd.OutOrStdout(), []*runner.FileReport{report})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("processing failed", slog.String("file", path), slog.String("error", err.Error()))
		}
	})
}

func printReports(w io.Writer, reports []*runner.FileReport) {
	for _, rep := range reports {
		if rep == nil {
			continue
		}
		for _, out := range rep.Outputs {
			_, _ = fmt.Fprintln(w, out)
		}
	}
}
