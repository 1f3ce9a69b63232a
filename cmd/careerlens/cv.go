package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerlens/internal/ai"
)

var cvName string

var cvCmd = &cobra.Command{
	Use:   "cv",
	Short: "CV subcommands",
}

var cvAnalyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a plain-text CV",
	Long:  "Extracts strengths, skills, improvement areas and highlights from a CV text file.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCVAnalyze,
}

var cvSummaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Analyze a CV and write an executive summary",
	Long:  "Runs the CV analysis, then feeds the CV and its analysis into a short executive report.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCVSummary,
}

func init() {
	cvCmd.PersistentFlags().StringVarP(&cvName, "name", "n", "", "candidate name (default: file name)")
	cvCmd.AddCommand(cvAnalyzeCmd, cvSummaryCmd)
	rootCmd.AddCommand(cvCmd)
}

func readCV(path string) (ai.CVInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ai.CVInput{}, fmt.Errorf("read cv: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return ai.CVInput{}, errors.New("cv file is empty")
	}
	name := cvName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ai.CVInput{CandidateName: name, Content: content}, nil
}

func runCVAnalyze(cmd *cobra.Command, args []string) error {
	in, err := readCV(args[0])
	if err != nil {
		return err
	}

	logger := setupLogger(debug)
	a, err := setupApp(logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer a.close()

	ctx, stop := signalContext()
	defer stop()

	res, err := withSpinner(ctx, "Analyzing CV...", func(ctx context.Context) ai.TaskResult[ai.CVAnalysis] {
		return a.service.AnalyzeCV(ctx, in)
	})
	if err != nil {
		return err
	}
	recordRun(a.runs, logger, ai.TaskCVAnalysis, res)

	return render(cmd.OutOrStdout(), newTaskOutput(ai.TaskCVAnalysis, res), func(w io.Writer) {
		fmt.Fprintf(w, "%s\n\n", headingStyle.Render("CV analysis: "+in.CandidateName))
		writeFallbackNotice(w, res.Err)
		writeAnalysis(w, res.Data)
		modelLine(w, res.Model)
	})
}

type summaryOutput struct {
	Analysis taskOutput[ai.CVAnalysis] `json:"analysis" yaml:"analysis"`
	Summary  taskOutput[string]        `json:"summary" yaml:"summary"`
}

func runCVSummary(cmd *cobra.Command, args []string) error {
	in, err := readCV(args[0])
	if err != nil {
		return err
	}

	logger := setupLogger(debug)
	a, err := setupApp(logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer a.close()

	ctx, stop := signalContext()
	defer stop()

	analysis, err := withSpinner(ctx, "Analyzing CV...", func(ctx context.Context) ai.TaskResult[ai.CVAnalysis] {
		return a.service.AnalyzeCV(ctx, in)
	})
	if err != nil {
		return err
	}
	recordRun(a.runs, logger, ai.TaskCVAnalysis, analysis)

	cvData := map[string]string{
		"candidate_name": in.CandidateName,
		"content":        in.Content,
	}
	summary, err := withSpinner(ctx, "Writing summary...", func(ctx context.Context) ai.TaskResult[string] {
		return a.service.GenerateSummary(ctx, ai.SummaryInput{CVData: cvData, Analysis: analysis.Data})
	})
	if err != nil {
		return err
	}
	recordRun(a.runs, logger, ai.TaskReportSummary, summary)

	out := summaryOutput{
		Analysis: newTaskOutput(ai.TaskCVAnalysis, analysis),
		Summary:  newTaskOutput(ai.TaskReportSummary, summary),
	}
	return render(cmd.OutOrStdout(), out, func(w io.Writer) {
		fmt.Fprintf(w, "%s\n\n", headingStyle.Render("Executive summary: "+in.CandidateName))
		writeFallbackNotice(w, summary.Err)
		fmt.Fprintf(w, "%s\n\n", summary.Data)
		fmt.Fprintf(w, "%s\n\n", headingStyle.Render("Analysis"))
		writeFallbackNotice(w, analysis.Err)
		writeAnalysis(w, analysis.Data)
		modelLine(w, summary.Model)
	})
}
