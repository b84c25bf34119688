package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imkarma/taskdeck/internal/task"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// If popup is active, handle popup keys first.
		if m.popup != popupNone {
			return m.handlePopupKey(msg)
		}
		switch m.focus {
		case focusCreate:
			return m.handleCreateKey(msg)
		case focusAI:
			return m.handleAIKey(msg)
		}
		return m.handleListKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		w := m.width - 12
		if w < 20 {
			w = 20
		}
		m.titleInput.Width = w
		m.aiInput.Width = w
		return m, nil

	case refreshMsg:
		return m.startFetch()

	case fetchDoneMsg:
		if msg.err != nil {
			m.state = m.state.FetchFailed(msg.seq)
		} else {
			m.state = m.state.FetchSucceeded(msg.seq, msg.tasks)
		}
		m.clampCursor()
		return m, nil

	case createDoneMsg:
		m.titleInput.Reset()
		if msg.err != nil {
			m.state = m.state.CreateFailed()
			return m, nil
		}
		m.state = m.state.CreateSucceeded(msg.task)
		return m.startFetch()

	case advanceDoneMsg:
		if msg.err != nil {
			m.state = m.state.AdvanceFailed(msg.id)
			return m, nil
		}
		m.state = m.state.AdvanceSucceeded(msg.id)
		return m.startFetch()

	case deleteDoneMsg:
		if msg.err != nil {
			m.state = m.state.DeleteFailed(msg.id)
			return m, nil
		}
		m.state = m.state.DeleteSucceeded(msg.id)
		return m.startFetch()

	case aiDoneMsg:
		m.aiInput.Reset()
		m.state = m.state.AIFinished(msg.out)
		m.clampCursor()
		if msg.out.Refetch {
			return m.startFetch()
		}
		return m, nil

	case tickMsg:
		m.state = m.state.Tick(time.Time(msg))
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// --- List keys ---

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()

	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()

	case key.Matches(msg, m.keys.NextFilter):
		return m.setFilter(m.state.Filter.Next())

	case key.Matches(msg, m.keys.Filter):
		idx := int(msg.String()[0] - '1')
		return m.setFilter(task.Filters[idx])

	case key.Matches(msg, m.keys.New):
		m.focus = focusCreate
		return m, m.titleInput.Focus()

	case key.Matches(msg, m.keys.Advance):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		st, next, ok := m.state.BeginAdvance(t)
		if !ok {
			return m, nil
		}
		m.state = st
		return m, m.advanceTask(t.ID, next)

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok && !m.state.Busy(t.ID) {
			m.popupTaskID = t.ID
			m.popup = popupConfirmDelete
		}

	case key.Matches(msg, m.keys.AI):
		m.focus = focusAI
		return m, m.aiInput.Focus()

	case key.Matches(msg, m.keys.Suggest):
		return m.cycleSuggestion()

	case key.Matches(msg, m.keys.Refresh):
		return m.startFetch()

	case key.Matches(msg, m.keys.Dismiss):
		if len(m.state.Notices) > 0 {
			m.state = m.state.Dismiss(m.state.Notices[0].ID)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) setFilter(f task.Filter) (tea.Model, tea.Cmd) {
	if f == m.state.Filter {
		return m, nil
	}
	m.state = m.state.SetFilter(f)
	m.cursor = 0
	return m.startFetch()
}

func (m Model) cycleSuggestion() (tea.Model, tea.Cmd) {
	m.aiInput.SetValue(Suggestions[m.suggestion])
	m.aiInput.CursorEnd()
	m.suggestion = (m.suggestion + 1) % len(Suggestions)
	m.focus = focusAI
	return m, m.aiInput.Focus()
}

// --- Input keys ---

func (m Model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.titleInput.Blur()
		m.focus = focusList
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		st, title, ok := m.state.BeginCreate(m.titleInput.Value())
		if !ok {
			return m, nil
		}
		m.state = st
		return m, m.createTask(title)
	}

	if m.state.Creating {
		return m, nil
	}
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m Model) handleAIKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		m.aiInput.Blur()
		m.focus = focusList
		return m, nil
	case msg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Suggest):
		if m.state.RunningAI {
			return m, nil
		}
		return m.cycleSuggestion()
	case msg.String() == "enter":
		st, command, ok := m.state.BeginAI(m.aiInput.Value())
		if !ok {
			return m, nil
		}
		m.state = st
		return m, m.runAI(command)
	}

	if m.state.RunningAI {
		return m, nil
	}
	var cmd tea.Cmd
	m.aiInput, cmd = m.aiInput.Update(msg)
	return m, cmd
}

// --- Popup keys ---

func (m Model) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.popup = popupNone
		st, ok := m.state.BeginDelete(m.popupTaskID)
		if !ok {
			return m, nil
		}
		m.state = st
		return m, m.deleteTask(m.popupTaskID)
	case "n", "esc", "q":
		m.popup = popupNone
		return m, nil
	}
	return m, nil
}
