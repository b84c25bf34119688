// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/imkarma/taskdeck/internal/gateway"
	"github.com/imkarma/taskdeck/internal/task"
)

// FakeService is an in-memory implementation of gateway.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int
	calls  []string

	// AI maps a command to the result RunAICommand returns. Unmapped
	// commands answer with an "Unknown command" error result.
	AI map[string]gateway.AIResult

	// Error injection for testing
	ListErr    error
	CreateErr  error
	AdvanceErr map[string]error // task id -> error
	RemoveErr  map[string]error // task id -> error
	AIErr      error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		AI:         make(map[string]gateway.AIResult),
		AdvanceErr: make(map[string]error),
		RemoveErr:  make(map[string]error),
	}
}

// AddTask seeds a task and returns it.
func (f *FakeService) AddTask(id, title string, state task.State) task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := time.Date(2026, 1, 1, 9, 0, len(f.tasks), 0, time.UTC)
	t := task.Task{ID: id, Title: title, State: state, CreatedAt: &created}
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns a copy of the current task list.
func (f *FakeService) Tasks() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]task.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns the operations performed so far, e.g. "advance a In Progress".
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeService) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// List implements gateway.Service.
func (f *FakeService) List(ctx context.Context, state *task.State) ([]task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if state == nil {
		f.record("list")
	} else {
		f.record("list %s", *state)
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := []task.Task{}
	for _, t := range f.tasks {
		if state == nil || t.State == *state {
			out = append(out, t)
		}
	}
	return out, nil
}

// Create implements gateway.Service.
func (f *FakeService) Create(ctx context.Context, title string) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create %s", title)
	if f.CreateErr != nil {
		return task.Task{}, f.CreateErr
	}
	f.nextID++
	now := time.Now().UTC()
	t := task.Task{ID: "fake-" + strconv.Itoa(f.nextID), Title: title, State: task.NotStarted, CreatedAt: &now}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// Advance implements gateway.Service.
func (f *FakeService) Advance(ctx context.Context, id string, state task.State) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("advance %s %s", id, state)
	if err := f.AdvanceErr[id]; err != nil {
		return task.Task{}, err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].State = state
			return f.tasks[i], nil
		}
	}
	return task.Task{}, notFound("advance", id)
}

// Remove implements gateway.Service.
func (f *FakeService) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("remove %s", id)
	if err := f.RemoveErr[id]; err != nil {
		return err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound("remove", id)
}

// RunAICommand implements gateway.Service.
func (f *FakeService) RunAICommand(ctx context.Context, command string) (gateway.AIResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ai %s", command)
	if f.AIErr != nil {
		return gateway.AIResult{}, f.AIErr
	}
	if res, ok := f.AI[command]; ok {
		return res, nil
	}
	return gateway.AIResult{Kind: gateway.KindError, Error: "Unknown command"}, nil
}

func notFound(op, id string) error {
	return &gateway.Error{Op: op, Kind: gateway.KindStatus, Status: 404, Err: fmt.Errorf("task %s not found", id)}
}
