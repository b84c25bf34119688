// Package app holds the front end's state as a plain value and the pure
// functions that move it forward. Callers (the TUI and the CLI) perform the
// network work themselves and feed each result back through these functions,
// so every interleaving of responses can be replayed in a test.
package app

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/imkarma/taskdeck/internal/interpret"
	"github.com/imkarma/taskdeck/internal/task"
)

// NoticeTTL is how long a notice stays on screen.
const NoticeTTL = 4 * time.Second

// Failure texts shown when an operation does not go through.
const (
	LoadFailedText   = "Failed to load tasks. Please check if the backend is running."
	CreateFailedText = "Failed to create task. Please try again."
	UpdateFailedText = "Failed to update task. Please try again."
	DeleteFailedText = "Failed to delete task. Please try again."
)

// Notice is a transient message. At is zero until the first Tick after it
// was raised.
type Notice struct {
	ID     int
	Level  interpret.Level
	Title  string
	Detail string
	At     time.Time
}

// State is the whole view state.
type State struct {
	Tasks  []task.Task
	Filter task.Filter

	// Loading is true while at least one list fetch is outstanding.
	Loading bool
	// Loaded is true once any list has been shown.
	Loaded bool

	Creating  bool
	Updating  map[string]bool
	Deleting  map[string]bool
	RunningAI bool

	// AIResult and AIError are the last command's feedback line.
	AIResult string
	AIError  string

	// Banner is the last operation failure; the next operation clears it.
	Banner string

	Notices []Notice

	// LastAppliedSeq is the sequence number of the fetch whose response is
	// currently displayed.
	LastAppliedSeq uint64

	fetchSeq  uint64
	inFlight  int
	noticeSeq int
}

// New returns the initial state: All filter, nothing loaded.
func New() State {
	return State{Filter: task.FilterAll}
}

// --- list fetches ---

// BeginFetch marks a list fetch as outstanding and returns its sequence number.
func (s State) BeginFetch() (State, uint64) {
	s.fetchSeq++
	s.inFlight++
	s.Loading = true
	s.Banner = ""
	return s, s.fetchSeq
}

// FetchSucceeded displays the response of fetch seq. Responses are applied in
// arrival order, so a slow older fetch landing last overwrites a newer one.
func (s State) FetchSucceeded(seq uint64, tasks []task.Task) State {
	s = s.endFetch()
	s.Tasks = slices.Clone(tasks)
	if s.Tasks == nil {
		s.Tasks = []task.Task{}
	}
	s.Loaded = true
	s.LastAppliedSeq = seq
	return s
}

// FetchFailed keeps the displayed list and raises a failure.
func (s State) FetchFailed(seq uint64) State {
	s = s.endFetch()
	return s.fail(LoadFailedText)
}

func (s State) endFetch() State {
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.Loading = s.inFlight > 0
	return s
}

// SetFilter changes the active filter. The caller starts a fetch afterwards.
func (s State) SetFilter(f task.Filter) State {
	s.Filter = f
	return s
}

// --- create ---

// CanCreate reports whether the create control is enabled.
func (s State) CanCreate() bool { return !s.Creating }

// BeginCreate starts a create. It refuses a blank title or a second create
// while one is in flight.
func (s State) BeginCreate(title string) (State, string, bool) {
	title = strings.TrimSpace(title)
	if title == "" || s.Creating {
		return s, "", false
	}
	s.Creating = true
	s.Banner = ""
	return s, title, true
}

// CreateSucceeded re-enables the control. The caller re-fetches.
func (s State) CreateSucceeded(t task.Task) State {
	s.Creating = false
	return s.notify(interpret.LevelSuccess, "Task created", t.Title)
}

// CreateFailed re-enables the control and raises a failure.
func (s State) CreateFailed() State {
	s.Creating = false
	return s.fail(CreateFailedText)
}

// --- advance ---

// Busy reports whether task id has a mutation in flight.
func (s State) Busy(id string) bool {
	return s.Updating[id] || s.Deleting[id]
}

// BeginAdvance starts moving t to its next state. It refuses terminal tasks,
// tasks in a state the backend reported but the lifecycle does not know, and
// tasks that already have a mutation in flight.
func (s State) BeginAdvance(t task.Task) (State, task.State, bool) {
	if s.Busy(t.ID) || !t.State.Valid() {
		return s, "", false
	}
	next, ok := task.Next(t.State)
	if !ok {
		return s, "", false
	}
	s.Updating = with(s.Updating, t.ID)
	s.Banner = ""
	return s, next, true
}

// AdvanceSucceeded clears the marker. The caller re-fetches.
func (s State) AdvanceSucceeded(id string) State {
	s.Updating = without(s.Updating, id)
	return s
}

// AdvanceFailed clears the marker and raises a failure.
func (s State) AdvanceFailed(id string) State {
	s.Updating = without(s.Updating, id)
	return s.fail(UpdateFailedText)
}

// --- delete ---

// BeginDelete starts deleting id. The id need not be in the displayed list.
func (s State) BeginDelete(id string) (State, bool) {
	if id == "" || s.Busy(id) {
		return s, false
	}
	s.Deleting = with(s.Deleting, id)
	s.Banner = ""
	return s, true
}

// DeleteSucceeded clears the marker. The caller re-fetches.
func (s State) DeleteSucceeded(id string) State {
	s.Deleting = without(s.Deleting, id)
	return s.notify(interpret.LevelSuccess, "Task deleted", "")
}

// DeleteFailed clears the marker and raises a failure.
func (s State) DeleteFailed(id string) State {
	s.Deleting = without(s.Deleting, id)
	return s.fail(DeleteFailedText)
}

// --- AI commands ---

// BeginAI starts a command. It refuses a blank command or a second command
// while one is running.
func (s State) BeginAI(command string) (State, string, bool) {
	command = strings.TrimSpace(command)
	if command == "" || s.RunningAI {
		return s, "", false
	}
	s.RunningAI = true
	s.AIResult = ""
	s.AIError = ""
	return s, command, true
}

// AIFinished applies an interpreted outcome. The caller re-fetches when
// out.Refetch is set.
func (s State) AIFinished(out interpret.Outcome) State {
	s.RunningAI = false
	if out.Failed() {
		s.AIError = out.Notice.Text
		const title = "AI command failed"
		detail := out.Notice.Text
		if strings.HasPrefix(detail, title) {
			detail = ""
		}
		return s.notify(interpret.LevelError, title, detail)
	}
	s.AIResult = out.Notice.Text
	if out.Replace != nil {
		s.Tasks = slices.Clone(out.Replace)
		s.Loaded = true
	}
	return s.notify(interpret.LevelSuccess, "AI command", out.Notice.Text)
}

// --- notices ---

// Tick stamps new notices with now and drops those older than NoticeTTL.
func (s State) Tick(now time.Time) State {
	kept := make([]Notice, 0, len(s.Notices))
	for _, n := range s.Notices {
		if n.At.IsZero() {
			n.At = now
		}
		if now.Sub(n.At) < NoticeTTL {
			kept = append(kept, n)
		}
	}
	s.Notices = kept
	return s
}

// Dismiss removes one notice.
func (s State) Dismiss(id int) State {
	s.Notices = slices.DeleteFunc(slices.Clone(s.Notices), func(n Notice) bool { return n.ID == id })
	return s
}

func (s State) notify(level interpret.Level, title, detail string) State {
	s.noticeSeq++
	s.Notices = append(slices.Clip(s.Notices), Notice{
		ID:     s.noticeSeq,
		Level:  level,
		Title:  title,
		Detail: detail,
	})
	return s
}

func (s State) fail(text string) State {
	s.Banner = text
	return s.notify(interpret.LevelError, text, "")
}

// --- derived views ---

// Counts returns the number of displayed tasks under each filter.
func (s State) Counts() map[task.Filter]int {
	counts := make(map[task.Filter]int, len(task.Filters))
	for _, t := range s.Tasks {
		counts[task.FilterAll]++
		if t.State.Valid() {
			counts[task.FilterFor(t.State)]++
		}
	}
	return counts
}

// Find returns the displayed task with the given id.
func (s State) Find(id string) (task.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// with and without copy the set so earlier State values stay untouched.
func with(set map[string]bool, id string) map[string]bool {
	out := maps.Clone(set)
	if out == nil {
		out = make(map[string]bool)
	}
	out[id] = true
	return out
}

func without(set map[string]bool, id string) map[string]bool {
	if !set[id] {
		return set
	}
	out := maps.Clone(set)
	delete(out, id)
	return out
}
