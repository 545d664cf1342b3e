// Package spinner shows a terminal spinner while a long-running step works.
// Output that is not a terminal gets no animation.
package spinner

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	dotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	msgStyle = lipgloss.NewStyle().Faint(true)
)

// IsTerminal reports whether w writes to a terminal.
// Overridable in tests.
var IsTerminal = func(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// doneMsg reports that the wrapped step returned.
type doneMsg struct{}

type model struct {
	spin spinner.Model
	msg  string
	done bool
}

func newModel(msg string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = dotStyle
	return model{spin: s, msg: msg}
}

func (m model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders nothing once done so the spinner line is cleared.
func (m model) View() string {
	if m.done {
		return ""
	}
	return m.spin.View() + " " + msgStyle.Render(m.msg)
}

// Run calls fn and returns its error. While fn runs, a spinner labelled msg is
// drawn on w if w is a terminal. Cancellation is left to fn through ctx.
func Run(ctx context.Context, w io.Writer, msg string, fn func(context.Context) error) error {
	if !IsTerminal(w) {
		return fn(ctx)
	}

	p := tea.NewProgram(newModel(msg),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(doneMsg{})
	}()

	// A failing renderer must not hide the step's own error.
	_, _ = p.Run()
	return <-result
}
