package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/careerlens/internal/ai"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// taskOutput is the machine-readable form of a task result.
type taskOutput[T any] struct {
	Task  string `json:"task" yaml:"task"`
	OK    bool   `json:"ok" yaml:"ok"`
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	Data  T      `json:"data" yaml:"data"`
}

func newTaskOutput[T any](task string, res ai.TaskResult[T]) taskOutput[T] {
	out := taskOutput[T]{Task: task, OK: res.OK(), Model: res.Model, Data: res.Data}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

// render writes v in the selected format. text is used for the text format.
func render(w io.Writer, v any, text func(io.Writer)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}

// writeFallbackNotice tells the reader that the data shown is a fallback.
func writeFallbackNotice(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, warnStyle.Render("Model output unavailable, showing fallback: "+err.Error()))
	fmt.Fprintln(w)
}

func writeSection(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, labelStyle.Render(title))
	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", item)
	}
	fmt.Fprintln(w)
}

func writeParagraph(w io.Writer, title, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintln(w, labelStyle.Render(title))
	fmt.Fprintf(w, "  %s\n\n", text)
}

func writeAnalysis(w io.Writer, a ai.CVAnalysis) {
	if a.Unparsed {
		writeParagraph(w, "CV excerpt", a.RawExcerpt)
		return
	}
	writeParagraph(w, "Experience", a.ExperienceSummary)
	writeParagraph(w, "Education", a.EducationSummary)
	writeSection(w, "Strengths", a.Strengths)
	writeSection(w, "Technical skills", a.TechnicalSkills)
	writeSection(w, "Soft skills", a.SoftSkills)
	writeSection(w, "Improvement areas", a.ImprovementAreas)
	writeSection(w, "Highlights", a.Highlights)
}

func writeEvaluation(w io.Writer, e ai.Evaluation) {
	score := fmt.Sprintf("%.1f / 10", e.Score)
	switch {
	case e.Score >= 8:
		score = okStyle.Render(score)
	case e.Score >= 5:
		score = warnStyle.Render(score)
	default:
		score = failStyle.Render(score)
	}
	fmt.Fprintf(w, "%s %s\n\n", labelStyle.Render("Score:"), score)
	writeParagraph(w, "Feedback", e.Feedback)
	writeSection(w, "Strengths", e.Strengths)
	writeSection(w, "Improvement areas", e.ImprovementAreas)
	writeSection(w, "Suggestions", e.Suggestions)
	writeParagraph(w, "Better example", e.BetterExample)
}

func modelLine(w io.Writer, model string) {
	if model != "" {
		fmt.Fprintln(w, mutedStyle.Render("model: "+model))
	}
}
