package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerlens/internal/model"
)

var (
	historyLimit     int
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded task runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent task runs",
	RunE:  runHistoryList,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention period",
	Long:  "Deletes runs older than history.retention from the config, or --older-than when given.",
	RunE:  runHistoryPrune,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of runs to show")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "override history.retention")
	historyCmd.AddCommand(historyListCmd, historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

// historyEntry is a run with its output decoded for display.
type historyEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Task      string    `json:"task" yaml:"task"`
	Model     string    `json:"model,omitempty" yaml:"model,omitempty"`
	OK        bool      `json:"ok" yaml:"ok"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
	Output    any       `json:"output" yaml:"output"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

func toHistoryEntry(r model.Run) historyEntry {
	e := historyEntry{
		ID:        r.ID,
		Task:      r.Task,
		Model:     r.Model,
		OK:        r.OK,
		Error:     r.Error,
		CreatedAt: r.CreatedAt,
	}
	if err := json.Unmarshal(r.Output, &e.Output); err != nil {
		e.Output = string(r.Output)
	}
	return e
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", historyLimit)
	}

	logger := setupLogger(debug)
	a, err := setupApp(logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer a.close()

	if !a.cfg.History.Enabled {
		fmt.Fprintln(cmd.ErrOrStderr(), "History is disabled (history.enabled: false).")
		return nil
	}

	runs, err := a.runs.Recent(historyLimit)
	if err != nil {
		return err
	}
	entries := make([]historyEntry, 0, len(runs))
	for _, r := range runs {
		entries = append(entries, toHistoryEntry(r))
	}

	return render(cmd.OutOrStdout(), entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No runs recorded yet.")
			return
		}
		fmt.Fprintf(w, "%-20s %-18s %-6s %s\n", "When", "Task", "Result", "Model")
		fmt.Fprintln(w, strings.Repeat("─", 72))
		for _, e := range entries {
			result := okStyle.Render("ok    ")
			if !e.OK {
				result = warnStyle.Render("failed")
			}
			fmt.Fprintf(w, "%-20s %-18s %s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Task, result, e.Model)
		}
		fmt.Fprintf(w, "\nShowing %d run(s)\n", len(entries))
	})
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	a, err := setupApp(logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer a.close()

	retention := a.cfg.History.Retention
	if historyOlderThan > 0 {
		retention = historyOlderThan
	}

	n, err := a.runs.Cleanup(retention)
	if err != nil {
		return err
	}
	logger.Info("history pruned", "removed", n, "older_than", retention.String())
	return nil
}
