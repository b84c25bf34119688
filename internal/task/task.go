// Package task holds the task model shared by the gateway, the TUI and the
// sandbox backend, together with the lifecycle policy that decides which state
// a task moves to next.
package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// State is the lifecycle state of a task. The values are the literal strings
// the backend speaks on the wire.
type State string

const (
	NotStarted State = "Not Started"
	InProgress State = "In Progress"
	Completed  State = "Completed"
)

// States lists every state in lifecycle order.
var States = []State{NotStarted, InProgress, Completed}

// Task is the front end's cached copy of a backend task.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	State     State      `json:"state"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// UnmarshalJSON accepts both "id" and the backend-assigned "_id" key.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string     `json:"id"`
		MongoID   string     `json:"_id"`
		Title     string     `json:"title"`
		State     State      `json:"state"`
		CreatedAt *time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	if t.ID == "" {
		t.ID = raw.MongoID
	}
	t.Title = raw.Title
	t.State = raw.State
	t.CreatedAt = raw.CreatedAt
	return nil
}

// Next returns the state that follows s, or false when s is terminal.
// It panics on a value outside the three known states.
func Next(s State) (State, bool) {
	switch s {
	case NotStarted:
		return InProgress, true
	case InProgress:
		return Completed, true
	case Completed:
		return "", false
	}
	panic(fmt.Sprintf("task: unknown state %q", string(s)))
}

// Valid reports whether s is one of the three lifecycle states.
func (s State) Valid() bool {
	switch s {
	case NotStarted, InProgress, Completed:
		return true
	}
	return false
}

// Terminal reports whether s has no next state.
func (s State) Terminal() bool {
	if !s.Valid() {
		return true
	}
	_, ok := Next(s)
	return !ok
}

// ActionLabel is the verb shown on the control that advances a task out of s.
func (s State) ActionLabel() string {
	switch s {
	case NotStarted:
		return "Start"
	case InProgress:
		return "Complete"
	}
	return ""
}

// Icon is a one-rune glyph for s.
func (s State) Icon() string {
	switch s {
	case NotStarted:
		return "○"
	case InProgress:
		return "◐"
	case Completed:
		return "●"
	}
	return "?"
}

var stateAliases = map[string]State{
	"not started": NotStarted,
	"not-started": NotStarted,
	"notstarted":  NotStarted,
	"todo":        NotStarted,
	"in progress": InProgress,
	"in-progress": InProgress,
	"inprogress":  InProgress,
	"doing":       InProgress,
	"completed":   Completed,
	"done":        Completed,
}

// ParseState resolves a wire value or a CLI-friendly alias to a State.
func ParseState(s string) (State, error) {
	if st, ok := stateAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown state %q (want one of: not-started, in-progress, completed)", s)
}
