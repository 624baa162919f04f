// Package runner executes the statements of SQL files against a database
// adapter and exports every tabular result.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/primebrains/sqltools/internal/export"
	"github.com/primebrains/sqltools/internal/state"
	"github.com/primebrains/sqltools/pkg/core"
	"github.com/primebrains/sqltools/pkg/splitter"
	"golang.org/x/sync/errgroup"
)

// Recorder receives one entry per executed statement.
// *state.SQLiteStore implements it, including as a nil pointer.
type Recorder interface {
	RecordExecution(ctx context.Context, e state.Execution) error
}

// Runner runs SQL files. Adapter must be connected. Exporter and Format must
// agree; Format only picks the file extension.
type Runner struct {
	Adapter   core.Adapter
	Exporter  export.Exporter
	Format    export.Format
	OutputDir string
	Clock     export.Clock
	Logger    *slog.Logger

	// Store and RunID are optional. Without them nothing is recorded.
	Store Recorder
	RunID string

	// Jobs is the number of files processed concurrently; values below 1 mean 1.
	Jobs int
}

// FileReport describes what happened to one SQL file.
type FileReport struct {
	Path       string
	Statements int
	Outputs    []string
	Warnings   []splitter.Warning
}

// StatementError is returned when a statement fails to execute or export.
// Index is 1-based.
type StatementError struct {
	File  string
	Index int
	Err   error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%s: statement %d: %v", e.File, e.Index, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock()
}

// EnsureOutputDir creates the output directory if it does not exist.
func (r *Runner) EnsureOutputDir() error {
	if err := os.MkdirAll(r.OutputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// ProcessFile splits the file at path and runs its statements in order.
// Processing stops at the first failing statement; the returned report
// covers the statements completed before it.
func (r *Runner) ProcessFile(ctx context.Context, path string) (*FileReport, error) {
	log := r.logger().With(slog.String("file", path))
	started := r.now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQL file: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := splitter.SplitReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read SQL file %s: %w", path, err)
	}

	report := &FileReport{
		Path:       path,
		Statements: len(res.Statements),
		Warnings:   res.Warnings,
	}
	for _, w := range res.Warnings {
		log.Warn(w.Message, slog.Int("line", w.Line))
	}
	log.Debug("split file", slog.Int("statements", len(res.Statements)))

	base := filepath.Base(path)
	for i, stmt := range res.Statements {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		index := i + 1
		text := strings.TrimSpace(strings.TrimSuffix(stmt, ";"))
		if text == "" {
			log.Debug("skipping empty statement", slog.Int("statement", index))
			continue
		}

		out, rows, err := r.runStatement(ctx, text, export.FileName(base, started, index, r.Format))
		exec := state.Execution{
			RunID:          r.RunID,
			File:           path,
			StatementIndex: index,
			Statement:      stmt,
			OutputPath:     out,
			RowCount:       rows,
			Status:         state.ExecutionStatusSuccess,
		}
		if err != nil {
			exec.Status = state.ExecutionStatusFailed
			exec.Error = err.Error()
			r.record(ctx, log, exec)
			return report, &StatementError{File: path, Index: index, Err: err}
		}
		r.record(ctx, log, exec)

		if out != "" {
			report.Outputs = append(report.Outputs, out)
			log.Info("exported result", slog.Int("statement", index), slog.Int("rows", rows), slog.String("output", out))
		} else {
			log.Info("statement executed", slog.Int("statement", index))
		}
	}

	return report, nil
}

// runStatement executes text and exports its result to name when the
// statement produced columns. It returns the output path, if any.
func (r *Runner) runStatement(ctx context.Context, text, name string) (string, int, error) {
	rs, err := r.Adapter.Query(ctx, text)
	if err != nil {
		return "", 0, err
	}
	if !rs.HasColumns() {
		return "", 0, nil
	}

	out, err := export.WriteFile(r.OutputDir, name, r.Exporter, rs)
	if err != nil {
		return "", len(rs.Rows), err
	}
	return out, len(rs.Rows), nil
}

func (r *Runner) record(ctx context.Context, log *slog.Logger, e state.Execution) {
	if r.Store == nil || r.RunID == "" {
		return
	}
	// Record even when ctx was cancelled by the failure being recorded.
	if err := r.Store.RecordExecution(context.WithoutCancel(ctx), e); err != nil {
		log.Warn("failed to record execution", slog.Int("statement", e.StatementIndex), slog.String("error", err.Error()))
	}
}

// ProcessFiles processes paths with at most Jobs files in flight.
// Reports are returned in the order of paths; an entry is nil when its file
// was never started or could not be read. The first error cancels the
// remaining files and is returned.
func (r *Runner) ProcessFiles(ctx context.Context, paths []string) ([]*FileReport, error) {
	reports := make([]*FileReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Jobs, 1))

	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := r.ProcessFile(gctx, p)
			reports[i] = rep
			return err
		})
	}

	err := g.Wait()
	return reports, err
}
