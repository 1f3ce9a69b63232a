package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/cv_analysis.md
var cvAnalysisPromptRaw string

//go:embed prompts/answer_evaluation.md
var answerEvaluationPromptRaw string

//go:embed prompts/follow_up.md
var followUpPromptRaw string

//go:embed prompts/report_summary.md
var reportSummaryPromptRaw string

// Prompt templates, parsed once at package init and reused on every call.
var (
	CVAnalysisTemplate       = template.Must(template.New("cv_analysis").Parse(cvAnalysisPromptRaw))
	AnswerEvaluationTemplate = template.Must(template.New("answer_evaluation").Parse(answerEvaluationPromptRaw))
	FollowUpTemplate         = template.Must(template.New("follow_up").Parse(followUpPromptRaw))
	ReportSummaryTemplate    = template.Must(template.New("report_summary").Parse(reportSummaryPromptRaw))
)

// System messages paired with each template.
const (
	cvAnalysisSystem       = "You are an expert HR analyst specialized in CV analysis. You always answer with valid JSON."
	answerEvaluationSystem = "You are an expert HR interviewer. You evaluate answers constructively and objectively. You always answer with valid JSON."
	followUpSystem         = "You are a professional interviewer skilled at asking smart, relevant follow-up questions."
	reportSummarySystem    = "You are an HR consultant experienced in writing professional talent analysis reports."
)
