// Package review is the interactive prompt a parent uses to approve or
// deny a pending graduation request.
package review

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/countup/internal/mastery"
	"github.com/abhisek/countup/internal/store"
	"github.com/abhisek/countup/internal/ui/components"
	"github.com/abhisek/countup/internal/ui/layout"
	"github.com/abhisek/countup/internal/ui/theme"
)

// Decision is the parent's answer.
type Decision int

const (
	// Cancelled means the prompt was closed without a decision.
	Cancelled Decision = iota
	Approve
	Deny
)

func (d Decision) String() string {
	switch d {
	case Approve:
		return "approve"
	case Deny:
		return "deny"
	default:
		return "cancelled"
	}
}

const (
	focusApprove = iota
	focusDeny
)

// Model shows the request with the tier's requirements and two buttons.
type Model struct {
	request  store.GraduationRequest
	result   mastery.Result
	focus    int
	decision Decision
	done     bool
	width    int
}

// New creates the prompt. result is the tier evaluation shown beneath the
// request.
func New(req store.GraduationRequest, result mastery.Result) Model {
	return Model{request: req, result: result, width: layout.DefaultWidth}
}

// Decision returns the parent's answer once the prompt has finished.
func (m Model) Decision() Decision { return m.decision }

// Done reports whether the parent has answered or cancelled.
func (m Model) Done() bool { return m.done }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(msg.Width-2, layout.DefaultWidth)
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m.finish(Cancelled)
		case "left", "right", "tab", "shift+tab", "h", "l":
			if m.focus == focusApprove {
				m.focus = focusDeny
			} else {
				m.focus = focusApprove
			}
			return m, nil
		case "a", "y":
			return m.finish(Approve)
		case "d", "n":
			return m.finish(Deny)
		case "enter":
			if m.focus == focusApprove {
				return m.finish(Approve)
			}
			return m.finish(Deny)
		}
	}
	return m, nil
}

func (m Model) finish(d Decision) (tea.Model, tea.Cmd) {
	m.decision = d
	m.done = true
	return m, tea.Quit
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	if m.done {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m Model) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s wants to move from age %d to age %d.\n",
		theme.Body.Bold(true).Render(m.request.UserID), m.request.CurrentAge, m.request.TargetAge)
	b.WriteString(theme.Subtitle.Render("Requested " + m.request.RequestedAt.Local().Format("Mon Jan 2 15:04")))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Tier progress", m.result.OverallProgress, true, m.width-10)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	for _, r := range m.result.Met {
		b.WriteString(components.RequirementLine(r) + "\n")
	}
	for _, r := range m.result.Unmet {
		b.WriteString(components.RequirementLine(r) + "\n")
	}
	b.WriteString("\n")

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		components.NewButton("Approve", "a", m.focus == focusApprove).View(),
		"  ",
		components.NewButton("Deny", "d", m.focus == focusDeny).View(),
	)
	b.WriteString(buttons)

	card := layout.RenderCard(fmt.Sprintf("Graduation request %s", m.request.ID), b.String(), m.width)
	footer := layout.RenderFooter([]layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Cancel"},
	})
	return card + "\n" + footer
}

// Run shows the prompt on the terminal and returns the parent's decision.
func Run(ctx context.Context, req store.GraduationRequest, result mastery.Result) (Decision, error) {
	p := tea.NewProgram(New(req, result), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Cancelled, fmt.Errorf("review prompt: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return Cancelled, nil
	}
	return m.decision, nil
}
