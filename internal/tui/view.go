package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imkarma/taskdeck/internal/interpret"
	"github.com/imkarma/taskdeck/internal/task"
)

// --- Color palette ---
var (
	clrSubtle    = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#666666"}
	clrHighlight = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	clrGreen     = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	clrYellow    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	clrRed       = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	clrBlue      = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	clrPurple    = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	clrWhite     = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}
	clrDim       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#555555"}
)

// --- Styles ---
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	dimStyle    = lipgloss.NewStyle().Foreground(clrDim)
	subtleStyle = lipgloss.NewStyle().Foreground(clrSubtle)
	textStyle   = lipgloss.NewStyle().Foreground(clrWhite)

	spinnerStyle = lipgloss.NewStyle().Foreground(clrHighlight)

	bannerStyle = lipgloss.NewStyle().
			Foreground(clrRed).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrRed).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrSubtle).
			Padding(0, 1)

	boxFocusedStyle = boxStyle.BorderForeground(clrHighlight)

	aiBoxStyle = boxStyle.BorderForeground(clrPurple)

	tabStyle       = lipgloss.NewStyle().Foreground(clrSubtle).Padding(0, 1)
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight).Underline(true).Padding(0, 1)

	rowSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	rowDoneStyle     = lipgloss.NewStyle().Foreground(clrDim).Strikethrough(true)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrRed).
			Padding(1, 2).
			Width(50)

	successStyle = lipgloss.NewStyle().Foreground(clrGreen).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(clrRed).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(clrBlue).Bold(true)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	content := m.viewDashboard()

	// Overlay popup if active.
	if m.popup != popupNone {
		content = m.overlayPopup(content)
	}

	return content
}

func (m Model) viewDashboard() string {
	var b strings.Builder

	b.WriteString(m.viewHeader() + "\n\n")

	if m.state.Banner != "" {
		b.WriteString(bannerStyle.Render(m.state.Banner) + "\n\n")
	}

	b.WriteString(m.viewCreateBox() + "\n\n")
	b.WriteString(m.viewTabs() + "\n\n")
	b.WriteString(m.viewTaskList() + "\n\n")
	b.WriteString(m.viewAIBox() + "\n")

	if notices := m.viewNotices(); notices != "" {
		b.WriteString("\n" + notices + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) viewHeader() string {
	header := titleStyle.Render("taskdeck")
	header += dimStyle.Render(" · Organize your work, powered by AI")

	var status string
	if m.state.Loading {
		status = m.spinner.View() + dimStyle.Render(" syncing")
	}

	if m.width > 0 && status != "" {
		pad := m.width - lipgloss.Width(header) - lipgloss.Width(status)
		if pad > 0 {
			return header + strings.Repeat(" ", pad) + status
		}
	}
	if status != "" {
		return header + "  " + status
	}
	return header
}

func (m Model) viewCreateBox() string {
	style := boxStyle
	if m.focus == focusCreate {
		style = boxFocusedStyle
	}

	label := subtleStyle.Render("New task ") + dimStyle.Render("(n)")
	line := m.titleInput.View()
	if m.state.Creating {
		line += "  " + m.spinner.View() + dimStyle.Render(" adding")
	}
	return style.Render(label + "\n" + line)
}

func (m Model) viewTabs() string {
	counts := m.state.Counts()
	var tabs []string
	for i, f := range task.Filters {
		label := fmt.Sprintf("%d %s", i+1, f.String())
		if n := counts[f]; n > 0 {
			label += fmt.Sprintf(" (%d)", n)
		}
		if f == m.state.Filter {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewTaskList() string {
	if !m.state.Loaded {
		if m.state.Loading {
			return "  " + m.spinner.View() + dimStyle.Render(" Loading tasks...")
		}
		return dimStyle.Render("  No tasks loaded. Press ") + titleStyle.Render("R") + dimStyle.Render(" to retry.")
	}

	if len(m.state.Tasks) == 0 {
		var b strings.Builder
		b.WriteString(dimStyle.Render("  No tasks yet\n"))
		b.WriteString(dimStyle.Render("  Create your first task above or use an AI command to get started."))
		return b.String()
	}

	var lines []string
	for i, t := range m.state.Tasks {
		lines = append(lines, m.renderTaskLine(t, i == m.cursor && m.focus == focusList))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTaskLine(t task.Task, selected bool) string {
	cursor := "  "
	if selected {
		cursor = titleStyle.Render("▸ ")
	}

	icon := stateStyle(t.State).Render(t.State.Icon())

	title := t.Title
	switch {
	case selected:
		title = rowSelectedStyle.Render(title)
	case t.State == task.Completed:
		title = rowDoneStyle.Render(title)
	default:
		title = textStyle.Render(title)
	}

	var meta []string
	meta = append(meta, stateStyle(t.State).Render(string(t.State)))
	if t.CreatedAt != nil {
		meta = append(meta, dimStyle.Render(t.CreatedAt.Local().Format("Jan 2")))
	}

	var action string
	switch {
	case m.state.Updating[t.ID]:
		action = m.spinner.View() + dimStyle.Render(" updating")
	case m.state.Deleting[t.ID]:
		action = m.spinner.View() + dimStyle.Render(" deleting")
	case selected && t.State.ActionLabel() != "":
		action = dimStyle.Render("enter " + strings.ToLower(t.State.ActionLabel()))
	}

	line := fmt.Sprintf("%s%s %s  %s", cursor, icon, title, strings.Join(meta, dimStyle.Render(" · ")))
	if action != "" {
		line += "  " + action
	}
	return line
}

func stateStyle(s task.State) lipgloss.Style {
	switch s {
	case task.InProgress:
		return lipgloss.NewStyle().Foreground(clrYellow)
	case task.Completed:
		return lipgloss.NewStyle().Foreground(clrGreen)
	}
	return lipgloss.NewStyle().Foreground(clrSubtle)
}

func (m Model) viewAIBox() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(clrPurple).Render("AI Command"))
	b.WriteString(dimStyle.Render("  Use natural language to manage tasks (:)") + "\n")

	line := m.aiInput.View()
	if m.state.RunningAI {
		line += "  " + m.spinner.View() + dimStyle.Render(" running")
	}
	b.WriteString(line + "\n")

	var chips []string
	for i, s := range Suggestions {
		st := dimStyle
		if m.focus == focusAI && i == m.suggestion {
			st = subtleStyle
		}
		chips = append(chips, st.Render("["+s+"]"))
	}
	b.WriteString(strings.Join(chips, " ") + dimStyle.Render("  ctrl+s"))

	if m.state.AIResult != "" {
		b.WriteString("\n" + successStyle.Render("✓ ") + textStyle.Render(m.state.AIResult))
	}
	if m.state.AIError != "" {
		b.WriteString("\n" + errorStyle.Render("✗ ") + textStyle.Render(m.state.AIError))
	}

	style := aiBoxStyle
	if m.focus == focusAI {
		style = style.BorderForeground(clrHighlight)
	}
	return style.Render(b.String())
}

func (m Model) viewNotices() string {
	var lines []string
	for _, n := range m.state.Notices {
		var mark string
		switch n.Level {
		case interpret.LevelSuccess:
			mark = successStyle.Render("✓")
		case interpret.LevelError:
			mark = errorStyle.Render("✗")
		default:
			mark = infoStyle.Render("i")
		}
		line := mark + " " + textStyle.Render(n.Title)
		if n.Detail != "" {
			line += dimStyle.Render(" · " + n.Detail)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// ════════════════════════════════════════════════
// POPUPS
// ════════════════════════════════════════════════

func (m Model) overlayPopup(bg string) string {
	var popup string

	switch m.popup {
	case popupConfirmDelete:
		popup = m.viewConfirmDeletePopup()
	default:
		return bg
	}

	// Place popup in center of screen.
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			popup,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return popup
}

func (m Model) viewConfirmDeletePopup() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(clrRed).Render("Delete Task") + "\n\n")

	if t, ok := m.state.Find(m.popupTaskID); ok {
		b.WriteString(textStyle.Render(t.Title) + "\n\n")
	}

	b.WriteString(subtleStyle.Render("y delete • n cancel"))
	return popupStyle.Render(b.String())
}
