// Package practice runs an interactive mock interview in the terminal: the
// candidate answers, the model evaluates the answer and proposes a follow-up,
// and the follow-up becomes the next question.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/careerlens/internal/ai"
	"github.com/amishk599/careerlens/internal/llama"
)

// Coach is the subset of ai.Service the practice loop needs.
type Coach interface {
	EvaluateAnswer(ctx context.Context, in ai.AnswerInput, over ...llama.Options) ai.TaskResult[ai.Evaluation]
	GenerateFollowUp(ctx context.Context, in ai.FollowUpInput, over ...llama.Options) ai.TaskResult[string]
}

// Exchange is one answered question with its evaluation and follow-up.
type Exchange struct {
	Question   string
	Answer     string
	Evaluation ai.TaskResult[ai.Evaluation]
	FollowUp   ai.TaskResult[string]
}

// exchangeTimeout bounds the two model calls behind one answer.
const exchangeTimeout = 5 * time.Minute

type state int

const (
	stateAnswering state = iota
	stateEvaluating
	stateReviewing
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 0, 2)

	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(1, 2)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	scoreGoodStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	scoreMidStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	scoreLowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	reviewBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))
)

// exchangeDoneMsg is sent when evaluation and follow-up generation complete.
type exchangeDoneMsg struct {
	exchange Exchange
}

type practiceModel struct {
	ctx           context.Context
	coach         Coach
	interviewType string
	onExchange    func(Exchange)

	state    state
	question string
	answer   textarea.Model
	spinner  spinner.Model
	review   viewport.Model
	last     Exchange
	history  []Exchange

	width  int
	height int
}

func newPracticeModel(ctx context.Context, coach Coach, question, interviewType string, onExchange func(Exchange)) practiceModel {
	ta := textarea.New()
	ta.Placeholder = "Type your answer..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetWidth(80)
	ta.SetHeight(8)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	return practiceModel{
		ctx:           ctx,
		coach:         coach,
		interviewType: interviewType,
		onExchange:    onExchange,
		state:         stateAnswering,
		question:      question,
		answer:        ta,
		spinner:       sp,
		review:        viewport.New(80, 20),
		width:         84,
		height:        24,
	}
}

func (m practiceModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m practiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.answer.SetWidth(max(m.width-4, 20))
		m.review.Width = max(m.width-4, 20)
		m.review.Height = max(m.height-6, 5)
		if m.state == stateReviewing {
			m.review.SetContent(m.renderReview())
		}
		return m, nil

	case exchangeDoneMsg:
		m.last = msg.exchange
		m.history = append(m.history, msg.exchange)
		if m.onExchange != nil {
			m.onExchange(msg.exchange)
		}
		m.state = stateReviewing
		m.review.SetContent(m.renderReview())
		m.review.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.state != stateEvaluating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.state {
		case stateAnswering:
			return m.updateAnswering(msg)
		case stateEvaluating:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case stateReviewing:
			return m.updateReviewing(msg)
		}
	}

	return m, nil
}

func (m practiceModel) updateAnswering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+s":
		answer := strings.TrimSpace(m.answer.Value())
		if answer == "" {
			return m, nil
		}
		m.state = stateEvaluating
		m.answer.Blur()
		return m, tea.Batch(m.exchangeCmd(m.question, answer), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.answer, cmd = m.answer.Update(msg)
	return m, cmd
}

func (m practiceModel) updateReviewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "n", "enter":
		m.question = m.last.FollowUp.Data
		m.answer.Reset()
		m.state = stateAnswering
		return m, m.answer.Focus()
	}

	// Forward other keys (pgup/pgdn/arrows) to the review viewport.
	var cmd tea.Cmd
	m.review, cmd = m.review.Update(msg)
	return m, cmd
}

// exchangeCmd evaluates the answer, then asks for a follow-up. The two calls
// run one after the other.
func (m practiceModel) exchangeCmd(question, answer string) tea.Cmd {
	parent, coach := m.ctx, m.coach
	interviewType := m.interviewType
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, exchangeTimeout)
		defer cancel()

		var evalContext string
		if interviewType != "" {
			evalContext = interviewType + " interview"
		}
		eval := coach.EvaluateAnswer(ctx, ai.AnswerInput{Question: question, Answer: answer, Context: evalContext})
		followUp := coach.GenerateFollowUp(ctx, ai.FollowUpInput{
			PreviousQuestion: question,
			PreviousAnswer:   answer,
			InterviewType:    interviewType,
		})
		return exchangeDoneMsg{exchange: Exchange{
			Question:   question,
			Answer:     answer,
			Evaluation: eval,
			FollowUp:   followUp,
		}}
	}
}

func (m practiceModel) View() string {
	s := titleStyle.Render(fmt.Sprintf("Interview practice · question %d", len(m.history)+boolToInt(m.state != stateReviewing)))
	s += "\n"

	switch m.state {
	case stateAnswering:
		s += questionStyle.Render(m.question) + "\n"
		s += "  " + m.answer.View() + "\n"
		s += hintStyle.Render("ctrl+s submit  esc quit")
	case stateEvaluating:
		s += questionStyle.Render(m.question) + "\n"
		s += fmt.Sprintf("  %s Evaluating your answer...\n", m.spinner.View())
	case stateReviewing:
		s += reviewBorderStyle.Render(m.review.View()) + "\n"
		s += hintStyle.Render("n/enter next question  ↑/↓ scroll  q quit")
	}
	return s
}

func (m practiceModel) renderReview() string {
	eval := m.last.Evaluation
	var b strings.Builder

	if !eval.OK() {
		b.WriteString(warnStyle.Render("Evaluation unavailable: "+eval.Err.Error()) + "\n\n")
	}

	b.WriteString(labelStyle.Render("Score: ") + scoreStyle(eval.Data.Score).Render(fmt.Sprintf("%.1f / 10", eval.Data.Score)) + "\n\n")
	b.WriteString(labelStyle.Render("Feedback") + "\n" + eval.Data.Feedback + "\n")
	writeList(&b, "Strengths", eval.Data.Strengths)
	writeList(&b, "To improve", eval.Data.ImprovementAreas)
	writeList(&b, "Suggestions", eval.Data.Suggestions)
	if eval.Data.BetterExample != "" {
		b.WriteString("\n" + labelStyle.Render("A stronger answer") + "\n" + eval.Data.BetterExample + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("Next question") + "\n" + m.last.FollowUp.Data + "\n")
	if !m.last.FollowUp.OK() {
		b.WriteString(warnStyle.Render("(generic question, generation failed)") + "\n")
	}

	return lipgloss.NewStyle().Width(max(m.review.Width-2, 20)).Render(b.String())
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + labelStyle.Render(label) + "\n")
	for _, item := range items {
		b.WriteString("  • " + item + "\n")
	}
}

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 8:
		return scoreGoodStyle
	case score >= 5:
		return scoreMidStyle
	default:
		return scoreLowStyle
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Run starts the practice loop with firstQuestion and blocks until the user
// quits. onExchange, if non-nil, is called after every evaluated answer.
// It returns every completed exchange in order.
func Run(ctx context.Context, coach Coach, firstQuestion, interviewType string, onExchange func(Exchange)) ([]Exchange, error) {
	// Quitting cancels whatever exchange is still in flight.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newPracticeModel(ctx, coach, firstQuestion, interviewType, onExchange)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil {
		// A cancelled parent ends the session; exchanges already went to onExchange.
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, nil
		}
		return nil, err
	}

	final := result.(practiceModel)
	return final.history, nil
}
