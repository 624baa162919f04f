package commands

import (
	"errors"
	"strconv"
	"time"

	"github.com/primebrains/sqltools/internal/state"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently executed statements",
		Long: `List the most recent statement executions recorded by the query command.
History is kept only when a state path is configured (state_path, or --state).`,
		Example: `  sqltools history --state .sqltools/history.db
  sqltools history --limit 5 --output json`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().String("state", "", "Path to the history database")
	cmd.Flags().Int("limit", 20, "Maximum number of executions to show")
	cmd.Flags().String("output", OutputAuto, "Output mode (auto|table|markdown|json)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return outputModes, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

type historyEntry struct {
	ExecutedAt string `json:"executed_at"`
	RunID      string `json:"run_id"`
	File       string `json:"file"`
	Statement  int    `json:"statement"`
	Status     string `json:"status"`
	Rows       int    `json:"rows"`
	Output     string `json:"output,omitempty"`
	Error      string `json:"error,omitempty"`
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cctx := NewCommandContext(cmd)

	outFlag, _ := cmd.Flags().GetString("output")
	mode, err := resolveOutputMode(outFlag, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := cctx.OpenStore()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("history is disabled: set state_path in the config file or pass --state")
	}
	defer func() { _ = store.Close() }()

	execs, err := store.RecentExecutions(cmd.Context(), limit)
	if err != nil {
		return err
	}

	entries := make([]historyEntry, len(execs))
	for i, e := range execs {
		entries[i] = toHistoryEntry(e)
	}

	if mode == OutputJSON {
		return renderJSON(cmd.OutOrStdout(), entries)
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.ExecutedAt, e.File, strconv.Itoa(e.Statement), e.Status, strconv.Itoa(e.Rows), e.Output, e.Error}
	}
	return renderRows(cmd.OutOrStdout(), mode, []string{"Executed At", "File", "#", "Status", "Rows", "Output", "Error"}, rows)
}

func toHistoryEntry(e state.Execution) historyEntry {
	return historyEntry{
		ExecutedAt: e.ExecutedAt.Local().Format(time.DateTime),
		RunID:      e.RunID,
		File:       e.File,
		Statement:  e.StatementIndex,
		Status:     string(e.Status),
		Rows:       e.RowCount,
		Output:     e.OutputPath,
		Error:      e.Error,
	}
}
