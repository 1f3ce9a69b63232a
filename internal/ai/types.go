package ai

// Task names, used in logs, parse errors and history records.
const (
	TaskCVAnalysis       = "cv_analysis"
	TaskAnswerEvaluation = "answer_evaluation"
	TaskFollowUp         = "follow_up"
	TaskReportSummary    = "report_summary"
)

// CVInput is the source text of a CV to analyze.
type CVInput struct {
	CandidateName string
	Content       string
}

// CVAnalysis is the structured CV analysis returned by the model.
// Unparsed and RawExcerpt are only set on the fallback value.
type CVAnalysis struct {
	Strengths         []string `json:"strengths" yaml:"strengths"`
	TechnicalSkills   []string `json:"technical_skills" yaml:"technical_skills"`
	SoftSkills        []string `json:"soft_skills" yaml:"soft_skills"`
	ImprovementAreas  []string `json:"improvement_areas" yaml:"improvement_areas"`
	ExperienceSummary string   `json:"experience_summary" yaml:"experience_summary"`
	EducationSummary  string   `json:"education_summary" yaml:"education_summary"`
	Highlights        []string `json:"highlights" yaml:"highlights"`

	Unparsed   bool   `json:"unparsed,omitempty" yaml:"unparsed,omitempty"`
	RawExcerpt string `json:"raw_excerpt,omitempty" yaml:"raw_excerpt,omitempty"`
}

func (a CVAnalysis) empty() bool {
	return len(a.Strengths) == 0 && len(a.TechnicalSkills) == 0 && len(a.SoftSkills) == 0 &&
		len(a.ImprovementAreas) == 0 && len(a.Highlights) == 0 &&
		a.ExperienceSummary == "" && a.EducationSummary == ""
}

// AnswerInput is one interview question and the candidate's answer.
// Context is optional.
type AnswerInput struct {
	Question string
	Answer   string
	Context  string
}

// Evaluation is the model's assessment of an interview answer.
type Evaluation struct {
	Score            float64  `json:"score" yaml:"score" validate:"gte=1,lte=10"`
	Feedback         string   `json:"feedback" yaml:"feedback" validate:"required"`
	Strengths        []string `json:"strengths" yaml:"strengths"`
	ImprovementAreas []string `json:"improvement_areas" yaml:"improvement_areas"`
	Suggestions      []string `json:"suggestions" yaml:"suggestions"`
	BetterExample    string   `json:"better_example,omitempty" yaml:"better_example,omitempty"`
}

// FollowUpInput is the previous exchange a follow-up question builds on.
// InterviewType defaults to "general".
type FollowUpInput struct {
	PreviousQuestion string
	PreviousAnswer   string
	InterviewType    string
}

// SummaryInput feeds the executive report. CVData is any JSON-serializable
// description of the CV; Analysis is usually the result of AnalyzeCV.
type SummaryInput struct {
	CVData   any
	Analysis CVAnalysis
}
