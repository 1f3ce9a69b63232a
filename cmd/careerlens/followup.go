package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerlens/internal/ai"
)

var (
	followQuestion string
	followAnswer   string
	followType     string
)

var followupCmd = &cobra.Command{
	Use:   "followup",
	Short: "Generate a follow-up interview question",
	RunE:  runFollowUp,
}

func init() {
	followupCmd.Flags().StringVarP(&followQuestion, "question", "q", "", "previous question")
	followupCmd.Flags().StringVarP(&followAnswer, "answer", "a", "", "previous answer")
	followupCmd.Flags().StringVarP(&followType, "type", "t", "general", "interview type, e.g. behavioral or technical")
	followupCmd.MarkFlagRequired("question")
	followupCmd.MarkFlagRequired("answer")
	rootCmd.AddCommand(followupCmd)
}

func runFollowUp(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	a, err := setupApp(logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer a.close()

	ctx, stop := signalContext()
	defer stop()

	in := ai.FollowUpInput{
		PreviousQuestion: followQuestion,
		PreviousAnswer:   followAnswer,
		InterviewType:    followType,
	}
	res, err := withSpinner(ctx, "Thinking of a follow-up...", func(ctx context.Context) ai.TaskResult[string] {
		return a.service.GenerateFollowUp(ctx, in)
	})
	if err != nil {
		return err
	}
	recordRun(a.runs, logger, ai.TaskFollowUp, res)

	return render(cmd.OutOrStdout(), newTaskOutput(ai.TaskFollowUp, res), func(w io.Writer) {
		writeFallbackNotice(w, res.Err)
		fmt.Fprintln(w, res.Data)
		modelLine(w, res.Model)
	})
}
