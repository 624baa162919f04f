package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/primebrains/sqltools/pkg/splitter"
	"github.com/spf13/cobra"
)

type splitWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type splitFile struct {
	File       string         `json:"file"`
	Statements []string       `json:"statements"`
	Warnings   []splitWarning `json:"warnings"`
}

// NewSplitCommand creates the split command.
func NewSplitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split FILE...",
		Short: "Show the statements a SQL file splits into",
		Long: `Split each SQL file the same way the query command does and print the
resulting statements without executing them. Warnings, such as a missing
final semicolon, are reported on stderr.`,
		Example: `  sqltools split migration.sql
  sqltools split --output json a.sql b.sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSplit,
	}

	cmd.Flags().String("output", OutputAuto, "Output mode (auto|table|markdown|json)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return outputModes, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	outFlag, _ := cmd.Flags().GetString("output")
	mode, err := resolveOutputMode(outFlag, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	files := make([]splitFile, 0, len(args))
	for _, path := range args {
		sf, err := splitPath(path)
		if err != nil {
			return err
		}
		files = append(files, sf)
	}

	if mode == OutputJSON {
		return renderJSON(cmd.OutOrStdout(), files)
	}

	w := cmd.OutOrStdout()
	for i, sf := range files {
		if len(files) > 1 {
			if i > 0 {
				_, _ = fmt.Fprintln(w)
			}
			_, _ = fmt.Fprintf(w, "%s:\n", sf.File)
		}

		rows := make([][]string, len(sf.Statements))
		for j, stmt := range sf.Statements {
			rows[j] = []string{strconv.Itoa(j + 1), stmt}
		}
		if err := renderRows(w, mode, []string{"#", "Statement"}, rows); err != nil {
			return err
		}

		for _, warn := range sf.Warnings {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: line %d: %s\n", sf.File, warn.Line, warn.Message)
		}
	}
	return nil
}

func splitPath(path string) (splitFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return splitFile{}, fmt.Errorf("failed to open SQL file: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := splitter.SplitReader(f)
	if err != nil {
		return splitFile{}, fmt.Errorf("failed to read SQL file %s: %w", path, err)
	}

	sf := splitFile{
		File:       path,
		Statements: res.Statements,
		Warnings:   make([]splitWarning, len(res.Warnings)),
	}
	if sf.Statements == nil {
		sf.Statements = []string{}
	}
	for i, w := range res.Warnings {
		sf.Warnings[i] = splitWarning{Line: w.Line, Message: w.Message}
	}
	return sf, nil
}
