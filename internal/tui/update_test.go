package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imkarma/taskdeck/internal/app"
	"github.com/imkarma/taskdeck/internal/gateway"
	"github.com/imkarma/taskdeck/internal/task"
	"github.com/imkarma/taskdeck/internal/testutil"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// settle runs network commands and feeds their results back until the model
// stops asking for backend work.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		switch msg.(type) {
		case refreshMsg, fetchDoneMsg, createDoneMsg, advanceDoneMsg, deleteDoneMsg, aiDoneMsg:
		default:
			return m
		}
		m, cmd = update(m, msg)
	}
	return m
}

func newTestModel(t *testing.T) (Model, *testutil.FakeService) {
	t.Helper()
	fake := testutil.NewFakeService()
	fake.AddTask("a", "Write report", task.NotStarted)
	fake.AddTask("b", "Review code", task.InProgress)
	fake.AddTask("c", "Ship it", task.Completed)

	m := New(context.Background(), fake, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m, cmd := update(m, refreshMsg{})
	return settle(t, m, cmd), fake
}

func lastCall(fake *testutil.FakeService) string {
	calls := fake.Calls()
	if len(calls) == 0 {
		return ""
	}
	return calls[len(calls)-1]
}

func TestModel_InitialLoad(t *testing.T) {
	m, _ := newTestModel(t)
	s := m.State()
	if !s.Loaded || s.Loading || len(s.Tasks) != 3 {
		t.Fatalf("unexpected state after load %+v", s)
	}
	if !strings.Contains(m.View(), "Write report") {
		t.Fatal("expected task in view")
	}
}

func TestModel_AdvanceThenRefetch(t *testing.T) {
	m, fake := newTestModel(t)

	m, cmd := update(m, keyPress("enter"))
	if !m.State().Busy("a") {
		t.Fatal("expected task a busy")
	}
	m = settle(t, m, cmd)

	calls := fake.Calls()
	if calls[len(calls)-2] != "advance a In Progress" || calls[len(calls)-1] != "list" {
		t.Fatalf("expected advance then list, got %v", calls)
	}
	if m.State().Busy("a") || m.State().Tasks[0].State != task.InProgress {
		t.Fatalf("unexpected state %+v", m.State())
	}
}

func TestModel_AdvanceCompletedIsNoop(t *testing.T) {
	m, fake := newTestModel(t)
	m, _ = update(m, keyPress("j"))
	m, _ = update(m, keyPress("j"))
	before := len(fake.Calls())

	_, cmd := update(m, keyPress("enter"))
	if cmd != nil || len(fake.Calls()) != before {
		t.Fatal("completed task should not issue a request")
	}
}

func TestModel_AdvanceUnknownStateIsNoop(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("x", "Legacy task", task.State("Archived"))

	m := New(context.Background(), fake, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m, cmd := update(m, refreshMsg{})
	m = settle(t, m, cmd)
	before := len(fake.Calls())

	m, cmd = update(m, keyPress("enter"))
	if cmd != nil || len(fake.Calls()) != before || m.State().Busy("x") {
		t.Fatal("a task in an unknown state should not be advanced")
	}
	if !strings.Contains(m.View(), "Legacy task") {
		t.Fatal("expected the task to stay listed")
	}
}

func TestModel_AdvanceFailureShowsBanner(t *testing.T) {
	m, fake := newTestModel(t)
	fake.AdvanceErr["a"] = &gateway.Error{Op: "advance", Kind: gateway.KindStatus, Status: 500}

	m, cmd := update(m, keyPress("enter"))
	m = settle(t, m, cmd)

	if m.State().Banner != app.UpdateFailedText {
		t.Fatalf("expected update failure banner, got %q", m.State().Banner)
	}
	if len(m.State().Tasks) != 3 {
		t.Fatal("failure should keep the list")
	}
}

func TestModel_DeleteNeedsConfirmation(t *testing.T) {
	m, fake := newTestModel(t)

	m, _ = update(m, keyPress("d"))
	if m.popup != popupConfirmDelete || m.popupTaskID != "a" {
		t.Fatalf("expected confirm popup for a, got %v %q", m.popup, m.popupTaskID)
	}
	m, cmd := update(m, keyPress("n"))
	if cmd != nil || m.popup != popupNone {
		t.Fatal("cancel should close the popup without a request")
	}

	m, _ = update(m, keyPress("d"))
	m, cmd = update(m, keyPress("y"))
	m = settle(t, m, cmd)

	if len(fake.Tasks()) != 2 || len(m.State().Tasks) != 2 {
		t.Fatalf("expected task deleted, got %+v", m.State().Tasks)
	}
}

func TestModel_FilterKeysRefetch(t *testing.T) {
	m, fake := newTestModel(t)

	m, cmd := update(m, keyPress("3"))
	m = settle(t, m, cmd)
	if m.State().Filter != task.FilterInProgress {
		t.Fatalf("expected In Progress filter, got %v", m.State().Filter)
	}
	if lastCall(fake) != "list In Progress" {
		t.Fatalf("expected filtered list, got %q", lastCall(fake))
	}
	if len(m.State().Tasks) != 1 || m.State().Tasks[0].ID != "b" {
		t.Fatalf("unexpected filtered tasks %+v", m.State().Tasks)
	}

	m, cmd = update(m, keyPress("tab"))
	m = settle(t, m, cmd)
	if m.State().Filter != task.FilterCompleted || lastCall(fake) != "list Completed" {
		t.Fatalf("tab should move to Completed, got %v / %q", m.State().Filter, lastCall(fake))
	}
}

func TestModel_CreateTask(t *testing.T) {
	m, fake := newTestModel(t)

	m, _ = update(m, keyPress("n"))
	if m.focus != focusCreate {
		t.Fatal("expected create focus")
	}
	m, _ = update(m, keyPress("Buy milk"))
	m, cmd := update(m, keyPress("enter"))
	if !m.State().Creating {
		t.Fatal("expected create in flight")
	}
	m = settle(t, m, cmd)

	if m.State().Creating || len(m.State().Tasks) != 4 {
		t.Fatalf("unexpected state %+v", m.State())
	}
	if m.titleInput.Value() != "" {
		t.Fatal("expected title input cleared")
	}
	found := false
	for _, c := range fake.Calls() {
		if c == "create Buy milk" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected create call, got %v", fake.Calls())
	}
}

func TestModel_CreateBlankIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(m, keyPress("n"))
	m, cmd := update(m, keyPress("enter"))
	if cmd != nil || m.State().Creating {
		t.Fatal("blank title should not create")
	}
}

func TestModel_AITaskListReplacesWithoutRefetch(t *testing.T) {
	m, fake := newTestModel(t)
	fake.AI["Show all completed tasks"] = gateway.AIResult{
		Kind:  gateway.KindTaskList,
		Tasks: []task.Task{{ID: "c", Title: "Ship it", State: task.Completed}},
	}

	m, _ = update(m, keyPress(":"))
	m, _ = update(m, keyPress("Show all completed tasks"))
	m, cmd := update(m, keyPress("enter"))
	if !m.State().RunningAI {
		t.Fatal("expected AI running")
	}
	m = settle(t, m, cmd)

	if lastCall(fake) != "ai Show all completed tasks" {
		t.Fatalf("a task-list answer must not refetch, last call %q", lastCall(fake))
	}
	if len(m.State().Tasks) != 1 || m.State().Tasks[0].ID != "c" {
		t.Fatalf("expected list replaced, got %+v", m.State().Tasks)
	}
	if !strings.Contains(m.State().AIResult, "1") {
		t.Fatalf("unexpected AI result %q", m.State().AIResult)
	}
}

func TestModel_AIMessageRefetches(t *testing.T) {
	m, fake := newTestModel(t)
	fake.AI["Start working on report"] = gateway.AIResult{Kind: gateway.KindMessage, Message: "Started"}

	m, _ = update(m, keyPress(":"))
	m, _ = update(m, keyPress("Start working on report"))
	m, cmd := update(m, keyPress("enter"))
	m = settle(t, m, cmd)

	if lastCall(fake) != "list" {
		t.Fatalf("expected refetch after message, got %q", lastCall(fake))
	}
	if m.State().AIResult != "Started" {
		t.Fatalf("unexpected AI result %q", m.State().AIResult)
	}
}

func TestModel_AITransportFailure(t *testing.T) {
	m, fake := newTestModel(t)
	fake.AIErr = &gateway.Error{Op: "ai", Kind: gateway.KindTransport, Err: errors.New("connection refused")}

	m, _ = update(m, keyPress(":"))
	m, _ = update(m, keyPress("anything"))
	m, cmd := update(m, keyPress("enter"))
	m = settle(t, m, cmd)

	if m.State().AIError == "" || len(m.State().Tasks) != 3 {
		t.Fatalf("unexpected state %+v", m.State())
	}
}

func TestModel_SuggestionFillsInput(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(m, keyPress("ctrl+s"))
	if m.focus != focusAI || m.aiInput.Value() != Suggestions[0] {
		t.Fatalf("expected first suggestion, got %q", m.aiInput.Value())
	}
	m, _ = update(m, keyPress("ctrl+s"))
	if m.aiInput.Value() != Suggestions[1] {
		t.Fatalf("expected second suggestion, got %q", m.aiInput.Value())
	}
}

func TestModel_LoadFailure(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.ListErr = &gateway.Error{Op: "list", Kind: gateway.KindTransport, Err: errors.New("connection refused")}

	m := New(context.Background(), fake, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m, cmd := update(m, refreshMsg{})
	m = settle(t, m, cmd)

	if m.State().Banner != app.LoadFailedText {
		t.Fatalf("expected load failure banner, got %q", m.State().Banner)
	}
	if !strings.Contains(m.View(), app.LoadFailedText) {
		t.Fatal("expected banner in view")
	}
}

func TestModel_TickExpiresNotices(t *testing.T) {
	m, fake := newTestModel(t)
	fake.CreateErr = errors.New("boom")

	m, _ = update(m, keyPress("n"))
	m, _ = update(m, keyPress("x"))
	m, cmd := update(m, keyPress("enter"))
	m = settle(t, m, cmd)
	if len(m.State().Notices) == 0 {
		t.Fatal("expected a failure notice")
	}

	now := time.Now()
	m, _ = update(m, tickMsg(now))
	m, _ = update(m, tickMsg(now.Add(app.NoticeTTL)))
	if len(m.State().Notices) != 0 {
		t.Fatalf("expected notices expired, got %+v", m.State().Notices)
	}
}

func TestModel_QuitFromList(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(m, keyPress("q"))
	if cmd == nil || !m.quitting {
		t.Fatal("expected quit")
	}
	if m.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}
