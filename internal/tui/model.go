package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imkarma/taskdeck/internal/app"
	"github.com/imkarma/taskdeck/internal/gateway"
	"github.com/imkarma/taskdeck/internal/interpret"
	"github.com/imkarma/taskdeck/internal/task"
)

// focus says which control receives keystrokes.
type focus int

const (
	focusList   focus = iota // Task list (main)
	focusCreate              // New task title input
	focusAI                  // AI command input
)

type popup int

const (
	popupNone popup = iota
	popupConfirmDelete
)

// Suggestions are the example AI commands offered under the command box.
var Suggestions = []string{
	"Add a task to prepare presentation",
	"Start working on presentation",
	"Mark presentation as completed",
	"Show all completed tasks",
}

// tickInterval drives notice expiry.
const tickInterval = 500 * time.Millisecond

// Model is the top-level bubbletea model.
type Model struct {
	ctx context.Context
	svc gateway.Service
	log *slog.Logger

	state app.State

	width  int
	height int

	focus       focus
	popup       popup
	popupTaskID string
	cursor      int
	suggestion  int

	titleInput textinput.Model
	aiInput    textinput.Model
	spinner    spinner.Model
	help       help.Model
	keys       keyMap

	quitting bool
}

// New creates a new TUI model talking to svc.
func New(ctx context.Context, svc gateway.Service, log *slog.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter a task title…"
	ti.CharLimit = 200
	ti.Width = 50

	ai := textinput.New()
	ai.Placeholder = "Type a command like 'Add a task to review code'..."
	ai.CharLimit = 500
	ai.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		ctx:        ctx,
		svc:        svc,
		log:        log,
		state:      app.New(),
		titleInput: ti,
		aiInput:    ai,
		spinner:    sp,
		help:       help.New(),
		keys:       defaultKeys(),
	}
}

// State returns the current view state.
func (m Model) State() app.State { return m.state }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd(), func() tea.Msg { return refreshMsg{} })
}

// --- messages ---

// refreshMsg asks the model to start a list fetch.
type refreshMsg struct{}

type fetchDoneMsg struct {
	seq   uint64
	tasks []task.Task
	err   error
}

type createDoneMsg struct {
	task task.Task
	err  error
}

type advanceDoneMsg struct {
	id  string
	err error
}

type deleteDoneMsg struct {
	id  string
	err error
}

type aiDoneMsg struct {
	out interpret.Outcome
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// --- commands ---

// startFetch records a new fetch in the state and returns the command that
// performs it with the filter active right now.
func (m Model) startFetch() (Model, tea.Cmd) {
	var seq uint64
	m.state, seq = m.state.BeginFetch()
	filter := m.state.Filter
	return m, func() tea.Msg {
		tasks, err := m.svc.List(m.ctx, filter.StatePtr())
		if err != nil {
			m.log.Warn("list tasks failed", "filter", filter.String(), "err", err)
		}
		return fetchDoneMsg{seq: seq, tasks: tasks, err: err}
	}
}

func (m Model) createTask(title string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.svc.Create(m.ctx, title)
		if err != nil {
			m.log.Warn("create task failed", "title", title, "err", err)
		}
		return createDoneMsg{task: t, err: err}
	}
}

func (m Model) advanceTask(id string, next task.State) tea.Cmd {
	return func() tea.Msg {
		_, err := m.svc.Advance(m.ctx, id, next)
		if err != nil {
			m.log.Warn("advance task failed", "id", id, "state", next, "err", err)
		}
		return advanceDoneMsg{id: id, err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.Remove(m.ctx, id)
		if err != nil {
			m.log.Warn("delete task failed", "id", id, "err", err)
		}
		return deleteDoneMsg{id: id, err: err}
	}
}

func (m Model) runAI(command string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.RunAICommand(m.ctx, command)
		if err != nil {
			m.log.Warn("ai command failed", "command", command, "err", err)
			return aiDoneMsg{out: interpret.Failure()}
		}
		return aiDoneMsg{out: interpret.Decide(res)}
	}
}

// --- cursor ---

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Tasks) {
		m.cursor = len(m.state.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (task.Task, bool) {
	if m.cursor < len(m.state.Tasks) {
		return m.state.Tasks[m.cursor], true
	}
	return task.Task{}, false
}
