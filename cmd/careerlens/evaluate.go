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
	evalQuestion string
	evalAnswer   string
	evalContext  string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score an interview answer",
	Long:  "Scores an answer from 1 to 10 with feedback, strengths, improvement areas and suggestions.",
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalQuestion, "question", "q", "", "interview question")
	evaluateCmd.Flags().StringVarP(&evalAnswer, "answer", "a", "", "candidate answer")
	evaluateCmd.Flags().StringVar(&evalContext, "context", "", "optional context, e.g. role or seniority")
	evaluateCmd.MarkFlagRequired("question")
	evaluateCmd.MarkFlagRequired("answer")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	a, err := setupApp(logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer a.close()

	ctx, stop := signalContext()
	defer stop()

	in := ai.AnswerInput{Question: evalQuestion, Answer: evalAnswer, Context: evalContext}
	res, err := withSpinner(ctx, "Evaluating answer...", func(ctx context.Context) ai.TaskResult[ai.Evaluation] {
		return a.service.EvaluateAnswer(ctx, in)
	})
	if err != nil {
		return err
	}
	recordRun(a.runs, logger, ai.TaskAnswerEvaluation, res)

	return render(cmd.OutOrStdout(), newTaskOutput(ai.TaskAnswerEvaluation, res), func(w io.Writer) {
		fmt.Fprintf(w, "%s\n\n", headingStyle.Render("Answer evaluation"))
		writeFallbackNotice(w, res.Err)
		writeEvaluation(w, res.Data)
		modelLine(w, res.Model)
	})
}
