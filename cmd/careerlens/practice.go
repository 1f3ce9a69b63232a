package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerlens/internal/ai"
	"github.com/amishk599/careerlens/internal/practice"
)

var (
	practiceQuestion string
	practiceType     string
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice an interview interactively (TUI)",
	Long: "Answer a question, get it scored, then continue with the generated follow-up.\n" +
		"Every exchange is recorded in the history.",
	RunE: runPractice,
}

func init() {
	practiceCmd.Flags().StringVarP(&practiceQuestion, "question", "q", "Tell me about yourself.", "opening question")
	practiceCmd.Flags().StringVarP(&practiceType, "type", "t", "general", "interview type, e.g. behavioral or technical")
	rootCmd.AddCommand(practiceCmd)
}

func runPractice(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	// The TUI owns the terminal; any log line written while the alt-screen
	// is up corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := setupApp(silentLogger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer a.close()

	record := func(e practice.Exchange) {
		recordRun(a.runs, silentLogger, ai.TaskAnswerEvaluation, e.Evaluation)
		recordRun(a.runs, silentLogger, ai.TaskFollowUp, e.FollowUp)
	}

	ctx, stop := signalContext()
	defer stop()

	exchanges, err := practice.Run(ctx, a.service, practiceQuestion, practiceType, record)
	if err != nil {
		logger.Error("practice session failed", "error", err)
		os.Exit(1)
	}
	if len(exchanges) == 0 {
		return nil
	}

	var total float64
	for _, e := range exchanges {
		total += e.Evaluation.Data.Score
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %d answered, average score %.1f / 10\n",
		headingStyle.Render("Session:"), len(exchanges), total/float64(len(exchanges)))
	return nil
}
