package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerlens/internal/model"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send a test prompt to the model",
	Long:  "Runs a minimal completion to confirm the model answers. Exits non-zero on failure.",
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

type pingOutput struct {
	OK      bool            `json:"ok" yaml:"ok"`
	Model   string          `json:"model,omitempty" yaml:"model,omitempty"`
	Reply   string          `json:"reply,omitempty" yaml:"reply,omitempty"`
	Usage   *model.Usage    `json:"usage,omitempty" yaml:"usage,omitempty"`
	Error   string          `json:"error,omitempty" yaml:"error,omitempty"`
	Details json.RawMessage `json:"details,omitempty" yaml:"-"`
}

func runPing(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	a, err := setupApp(logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer a.close()

	ctx, stop := signalContext()
	defer stop()

	out := a.service.TestConnection(ctx)
	result := pingOutput{OK: out.OK(), Error: out.Error()}
	if c := out.Completion; c != nil {
		result.Model, result.Reply, result.Usage = c.Model, c.Content, c.Usage
	}
	if f := out.Failure; f != nil {
		result.Details = f.Details
	}

	err = render(cmd.OutOrStdout(), result, func(w io.Writer) {
		if !result.OK {
			fmt.Fprintf(w, "%s %s\n", failStyle.Render("✗ no answer:"), result.Error)
			if len(result.Details) > 0 {
				fmt.Fprintln(w, mutedStyle.Render("  "+string(result.Details)))
			}
			return
		}
		fmt.Fprintf(w, "%s %s\n", okStyle.Render("✓"), result.Reply)
		modelLine(w, result.Model)
		if result.Usage != nil {
			fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("tokens: %d prompt, %d completion",
				result.Usage.PromptTokens, result.Usage.CompletionTokens)))
		}
	})
	if err != nil {
		return err
	}
	if !result.OK {
		os.Exit(1)
	}
	return nil
}
