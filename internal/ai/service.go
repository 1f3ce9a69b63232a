package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/template"

	"github.com/amishk599/careerlens/internal/llama"
	"github.com/amishk599/careerlens/internal/model"
)

// Template sampling defaults.
var (
	cvAnalysisSampling       = llama.Sampling(0.3, 1500)
	answerEvaluationSampling = llama.Sampling(0.4, 1000)
	followUpSampling         = llama.Sampling(0.6, 200)
	reportSummarySampling    = llama.Sampling(0.5, 800)
	pingSampling             = llama.Sampling(0.1, 50)
)

const (
	// FollowUpFallback is returned when no follow-up question could be generated.
	FollowUpFallback = "Could you give me a specific example of that situation?"
	// SummaryFallback is returned when no report summary could be generated.
	SummaryFallback = "CV analysis report generated automatically."

	cvExcerptLength = 500
	defaultLanguage = "English"
)

// EvaluationFallback is the neutral evaluation returned when an answer could
// not be evaluated.
func EvaluationFallback() Evaluation {
	return Evaluation{
		Score:            7,
		Feedback:         "Answer recorded. Evaluation pending.",
		Strengths:        []string{"Active participation"},
		ImprovementAreas: []string{"Evaluation pending"},
		Suggestions:      []string{"Keep practicing"},
	}
}

// Tuning layers configured options over the task templates. Default applies
// to every call (typically just Model); the per-task options override the
// template's sampling.
type Tuning struct {
	Default          llama.Options
	CVAnalysis       llama.Options
	AnswerEvaluation llama.Options
	FollowUp         llama.Options
	ReportSummary    llama.Options
}

// Service runs the career tasks against a Completer. It holds no per-call
// state and is safe for concurrent use.
type Service struct {
	completer Completer
	language  string
	tuning    Tuning
	logger    *slog.Logger
}

// NewService creates a Service. language is the language the model should
// answer in; empty means English.
func NewService(completer Completer, language string, tuning Tuning, logger *slog.Logger) *Service {
	if language == "" {
		language = defaultLanguage
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		completer: completer,
		language:  language,
		tuning:    tuning,
		logger:    logger,
	}
}

// AnalyzeCV extracts a structured analysis from CV text. When the model output
// cannot be used, Data carries the first 500 characters of the CV marked as
// unparsed.
func (s *Service) AnalyzeCV(ctx context.Context, in CVInput, over ...llama.Options) TaskResult[CVAnalysis] {
	fallback := CVAnalysis{Unparsed: true, RawExcerpt: truncateRunes(in.Content, cvExcerptLength)}

	data := struct {
		CVInput
		Language string
	}{in, s.language}

	opts := s.options(cvAnalysisSampling, s.tuning.CVAnalysis, over)
	c, err := s.dispatch(ctx, CVAnalysisTemplate, data, cvAnalysisSystem, opts)
	if err != nil {
		s.logger.Error("cv analysis failed", "error", err)
		return fellBack(fallback, "", "", err)
	}

	analysis, err := decodeJSON(TaskCVAnalysis, c.Content, checkCVAnalysis)
	if err != nil {
		s.logger.Error("cv analysis failed", "model", c.Model, "error", err)
		return fellBack(fallback, c.Content, c.Model, err)
	}
	return succeeded(analysis, c.Content, c.Model)
}

// EvaluateAnswer scores an interview answer from 1 to 10 with feedback.
func (s *Service) EvaluateAnswer(ctx context.Context, in AnswerInput, over ...llama.Options) TaskResult[Evaluation] {
	data := struct {
		AnswerInput
		Language string
	}{in, s.language}

	opts := s.options(answerEvaluationSampling, s.tuning.AnswerEvaluation, over)
	c, err := s.dispatch(ctx, AnswerEvaluationTemplate, data, answerEvaluationSystem, opts)
	if err != nil {
		s.logger.Error("answer evaluation failed", "error", err)
		return fellBack(EvaluationFallback(), "", "", err)
	}

	eval, err := decodeJSON(TaskAnswerEvaluation, c.Content, checkEvaluation)
	if err != nil {
		s.logger.Error("answer evaluation failed", "model", c.Model, "error", err)
		return fellBack(EvaluationFallback(), c.Content, c.Model, err)
	}
	return succeeded(eval, c.Content, c.Model)
}

// GenerateFollowUp writes one follow-up question for the previous exchange.
func (s *Service) GenerateFollowUp(ctx context.Context, in FollowUpInput, over ...llama.Options) TaskResult[string] {
	if in.InterviewType == "" {
		in.InterviewType = "general"
	}
	data := struct {
		FollowUpInput
		Language string
	}{in, s.language}

	opts := s.options(followUpSampling, s.tuning.FollowUp, over)
	c, err := s.dispatch(ctx, FollowUpTemplate, data, followUpSystem, opts)
	if err != nil {
		s.logger.Error("follow-up generation failed", "error", err)
		return fellBack(FollowUpFallback, "", "", err)
	}

	question, err := plainText(TaskFollowUp, c.Content)
	if err != nil {
		s.logger.Error("follow-up generation failed", "model", c.Model, "error", err)
		return fellBack(FollowUpFallback, c.Content, c.Model, err)
	}
	return succeeded(question, c.Content, c.Model)
}

// GenerateSummary writes a short executive report from CV data and its analysis.
func (s *Service) GenerateSummary(ctx context.Context, in SummaryInput, over ...llama.Options) TaskResult[string] {
	cvData, err := json.MarshalIndent(in.CVData, "", "  ")
	if err != nil {
		err = fmt.Errorf("encode cv data: %w", err)
		s.logger.Error("report summary failed", "error", err)
		return fellBack(SummaryFallback, "", "", err)
	}
	analysis, err := json.MarshalIndent(in.Analysis, "", "  ")
	if err != nil {
		err = fmt.Errorf("encode analysis: %w", err)
		s.logger.Error("report summary failed", "error", err)
		return fellBack(SummaryFallback, "", "", err)
	}

	data := struct {
		CVData, Analysis, Language string
	}{string(cvData), string(analysis), s.language}

	opts := s.options(reportSummarySampling, s.tuning.ReportSummary, over)
	c, err := s.dispatch(ctx, ReportSummaryTemplate, data, reportSummarySystem, opts)
	if err != nil {
		s.logger.Error("report summary failed", "error", err)
		return fellBack(SummaryFallback, "", "", err)
	}

	summary, err := plainText(TaskReportSummary, c.Content)
	if err != nil {
		s.logger.Error("report summary failed", "model", c.Model, "error", err)
		return fellBack(SummaryFallback, c.Content, c.Model, err)
	}
	return succeeded(summary, c.Content, c.Model)
}

// TestConnection sends a minimal prompt and reports whether the model answered.
// It is a health check and plays no part in the task pipeline.
func (s *Service) TestConnection(ctx context.Context) model.CompletionOutcome {
	s.logger.Info("testing llama connection")

	messages := []model.ChatMessage{model.User(`Reply with "OK" if you can read me correctly.`)}
	out := s.completer.Complete(ctx, messages, s.tuning.Default.Merge(pingSampling))
	if out.OK() {
		s.logger.Info("llama connection ok", "model", out.Completion.Model, "reply", out.Completion.Content)
	} else {
		s.logger.Error("llama connection failed", "error", out.Error())
	}
	return out
}

// options layers: global default, template sampling, task tuning, then caller overrides.
func (s *Service) options(sampling, tuned llama.Options, over []llama.Options) llama.Options {
	opts := s.tuning.Default.Merge(sampling).Merge(tuned)
	for _, o := range over {
		opts = opts.Merge(o)
	}
	return opts
}

// dispatch renders the prompt, sends it and unwraps the outcome.
func (s *Service) dispatch(ctx context.Context, tmpl *template.Template, data any, system string, opts llama.Options) (model.Completion, error) {
	var promptBuf bytes.Buffer
	if err := tmpl.Execute(&promptBuf, data); err != nil {
		return model.Completion{}, fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}

	messages := []model.ChatMessage{model.System(system), model.User(promptBuf.String())}
	out := s.completer.Complete(ctx, messages, opts)
	if !out.OK() {
		if out.Failure == nil || out.Failure.Err == nil {
			return model.Completion{}, errors.New("completion failed")
		}
		return model.Completion{}, out.Failure.Err
	}
	return *out.Completion, nil
}
