package task

import (
	"fmt"
	"strings"
)

// Filter is the list selection held in view state.
type Filter int

const (
	FilterAll Filter = iota
	FilterNotStarted
	FilterInProgress
	FilterCompleted
	numFilters
)

// Filters lists every filter in tab order.
var Filters = []Filter{FilterAll, FilterNotStarted, FilterInProgress, FilterCompleted}

// State returns the state constraint of f, or false for FilterAll.
func (f Filter) State() (State, bool) {
	switch f {
	case FilterNotStarted:
		return NotStarted, true
	case FilterInProgress:
		return InProgress, true
	case FilterCompleted:
		return Completed, true
	}
	return "", false
}

// StatePtr is State as a pointer, nil meaning "all tasks".
func (f Filter) StatePtr() *State {
	if s, ok := f.State(); ok {
		return &s
	}
	return nil
}

// Match reports whether a task in state s belongs under f.
func (f Filter) Match(s State) bool {
	want, ok := f.State()
	return !ok || want == s
}

// Next cycles to the following filter, wrapping around.
func (f Filter) Next() Filter {
	return (f + 1) % numFilters
}

func (f Filter) String() string {
	if s, ok := f.State(); ok {
		return string(s)
	}
	return "All"
}

// ParseFilter resolves "all" or any state alias to a Filter.
func ParseFilter(s string) (Filter, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") || strings.TrimSpace(s) == "" {
		return FilterAll, nil
	}
	st, err := ParseState(s)
	if err != nil {
		return FilterAll, fmt.Errorf("parse filter: %w", err)
	}
	return FilterFor(st), nil
}

// FilterFor returns the filter that selects exactly s.
func FilterFor(s State) Filter {
	switch s {
	case NotStarted:
		return FilterNotStarted
	case InProgress:
		return FilterInProgress
	case Completed:
		return FilterCompleted
	}
	return FilterAll
}
