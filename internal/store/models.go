package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a task id has no row.
var ErrNotFound = errors.New("not found")

// Outcome values recorded on journal events.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Event is one journal entry: a backend operation taskdeck performed.
type Event struct {
	ID        int64     `json:"id"`
	Op        string    `json:"op"`      // list, create, advance, remove, ai
	Target    string    `json:"target"`  // task id, title, filter or command text
	Outcome   string    `json:"outcome"` // ok, failed
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
