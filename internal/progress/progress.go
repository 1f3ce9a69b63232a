// Package progress shows an inline spinner while a long model call runs.
package progress

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted is returned when the user cancels with ctrl+c.
var ErrInterrupted = errors.New("interrupted")

var labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

type doneMsg[T any] struct {
	value T
}

type waitModel[T any] struct {
	label   string
	run     func() T
	cancel  context.CancelFunc
	spinner spinner.Model

	value T
	err   error
	done  bool
}

func newWaitModel[T any](label string, run func() T, cancel context.CancelFunc) waitModel[T] {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return waitModel[T]{label: label, run: run, cancel: cancel, spinner: sp}
}

func (m waitModel[T]) Init() tea.Cmd {
	run := m.run
	return tea.Batch(func() tea.Msg {
		return doneMsg[T]{value: run()}
	}, m.spinner.Tick)
}

func (m waitModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg[T]:
		m.value = msg.value
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.err = ErrInterrupted
			m.done = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m waitModel[T]) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), labelStyle.Render(m.label))
}

// Run calls fn while drawing a spinner with label on w. It renders inline
// (no alt screen) and clears the line when fn returns. ctrl+c cancels the
// context handed to fn and returns ErrInterrupted.
func Run[T any](ctx context.Context, w io.Writer, label string, fn func(ctx context.Context) T) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newWaitModel(label, func() T { return fn(ctx) }, cancel)
	p := tea.NewProgram(m, tea.WithOutput(w), tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil {
		var zero T
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return zero, ErrInterrupted
		}
		return zero, err
	}
	final := result.(waitModel[T])
	return final.value, final.err
}
