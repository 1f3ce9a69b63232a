package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the llama server is reachable",
	Long:  "Lists the models advertised by the server. Exits non-zero when it cannot be reached.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	a, err := setupApp(logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer a.close()

	ctx, stop := signalContext()
	defer stop()

	status := a.probe.Check(ctx)
	err = render(cmd.OutOrStdout(), status, func(w io.Writer) {
		if !status.Connected {
			fmt.Fprintf(w, "%s %s\n", failStyle.Render("✗ not connected"), a.cfg.Llama.BaseURL)
			fmt.Fprintf(w, "  %s\n", status.Error)
			return
		}
		fmt.Fprintf(w, "%s %s\n", okStyle.Render("✓ connected"), a.cfg.Llama.BaseURL)
		if status.Models == nil {
			fmt.Fprintln(w, mutedStyle.Render("  model listing not recognized"))
			return
		}
		fmt.Fprintf(w, "\n%s\n", headingStyle.Render(fmt.Sprintf("Models (%d)", len(status.Models.Data))))
		// * marks the model tasks will request.
		selected := a.cfg.Llama.Model
		if selected == "" {
			selected = status.FirstModel()
		}
		for _, m := range status.Models.Data {
			marker := " "
			if m.ID == selected {
				marker = "*"
			}
			fmt.Fprintf(w, " %s %s\n", marker, m.ID)
		}
	})
	if err != nil {
		return err
	}
	if !status.Connected {
		os.Exit(1)
	}
	return nil
}
