package review

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/countup/internal/catalog"
	"github.com/abhisek/countup/internal/mastery"
	"github.com/abhisek/countup/internal/store"
)

func testModel() Model {
	req := store.GraduationRequest{
		ID:          "req-1",
		UserID:      "ava",
		CurrentAge:  5,
		TargetAge:   6,
		RequestedAt: time.Date(2026, 7, 1, 16, 0, 0, 0, time.UTC),
	}
	res := mastery.Result{
		Tier:            5,
		IsEligible:      true,
		OverallProgress: 100,
		Met: []mastery.Requirement{{
			ModeID:    "counting-basic",
			ModeName:  "Counting Basics",
			Threshold: catalog.Threshold{MinLevel: 10, MinAccuracy: 90},
			Standing:  catalog.Standing{Level: 10, Accuracy: 95},
		}},
	}
	return New(req, res)
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestReview_EnterApprovesByDefault(t *testing.T) {
	m, cmd := press(t, testModel(), specialKey(tea.KeyEnter))
	if !m.Done() || m.Decision() != Approve {
		t.Errorf("decision = %v, done = %v", m.Decision(), m.Done())
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestReview_SwitchFocusThenEnterDenies(t *testing.T) {
	m, _ := press(t, testModel(), specialKey(tea.KeyRight))
	if m.Done() {
		t.Fatal("moving focus should not finish")
	}
	m, _ = press(t, m, specialKey(tea.KeyEnter))
	if m.Decision() != Deny {
		t.Errorf("decision = %v, want deny", m.Decision())
	}
}

func TestReview_Shortcuts(t *testing.T) {
	tests := []struct {
		key  tea.KeyPressMsg
		want Decision
	}{
		{keyPress('a'), Approve},
		{keyPress('y'), Approve},
		{keyPress('d'), Deny},
		{keyPress('n'), Deny},
		{keyPress('q'), Cancelled},
		{specialKey(tea.KeyEscape), Cancelled},
	}
	for _, tt := range tests {
		m, cmd := press(t, testModel(), tt.key)
		if m.Decision() != tt.want {
			t.Errorf("%q: decision = %v, want %v", tt.key.String(), m.Decision(), tt.want)
		}
		if !m.Done() || cmd == nil {
			t.Errorf("%q: expected prompt to finish", tt.key.String())
		}
	}
}

func TestReview_IgnoresOtherKeys(t *testing.T) {
	m, cmd := press(t, testModel(), keyPress('x'))
	if m.Done() || cmd != nil {
		t.Error("unexpected finish on unrelated key")
	}
}

func TestReview_Render(t *testing.T) {
	out := testModel().render()
	for _, want := range []string{"req-1", "ava", "age 5 to age 6", "Counting Basics", "Approve (a)", "Deny (d)"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestDecision_String(t *testing.T) {
	if Approve.String() != "approve" || Deny.String() != "deny" || Cancelled.String() != "cancelled" {
		t.Error("unexpected decision names")
	}
}
