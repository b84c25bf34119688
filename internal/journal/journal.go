// Package journal records every backend operation taskdeck performs into the
// local store so `taskdeck log` can show what happened.
package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/imkarma/taskdeck/internal/gateway"
	"github.com/imkarma/taskdeck/internal/store"
	"github.com/imkarma/taskdeck/internal/task"
)

// Sink receives journal events. *store.Store satisfies it.
type Sink interface {
	AddEvent(op, target, outcome, detail string) error
}

// Recorder wraps a gateway.Service and writes one event per call. A failing
// sink is logged and never fails the operation itself.
type Recorder struct {
	next gateway.Service
	sink Sink
	log  *slog.Logger
}

// Wrap returns svc decorated with journaling.
func Wrap(svc gateway.Service, sink Sink, log *slog.Logger) *Recorder {
	return &Recorder{next: svc, sink: sink, log: log}
}

func (r *Recorder) List(ctx context.Context, state *task.State) ([]task.Task, error) {
	tasks, err := r.next.List(ctx, state)
	target := "All"
	if state != nil {
		target = string(*state)
	}
	r.record("list", target, err, fmt.Sprintf("%d tasks", len(tasks)))
	return tasks, err
}

func (r *Recorder) Create(ctx context.Context, title string) (task.Task, error) {
	t, err := r.next.Create(ctx, title)
	r.record("create", title, err, t.ID)
	return t, err
}

func (r *Recorder) Advance(ctx context.Context, id string, state task.State) (task.Task, error) {
	t, err := r.next.Advance(ctx, id, state)
	r.record("advance", id, err, "-> "+string(state))
	return t, err
}

func (r *Recorder) Remove(ctx context.Context, id string) error {
	err := r.next.Remove(ctx, id)
	r.record("remove", id, err, "")
	return err
}

func (r *Recorder) RunAICommand(ctx context.Context, command string) (gateway.AIResult, error) {
	res, err := r.next.RunAICommand(ctx, command)
	detail := res.Kind.String()
	switch res.Kind {
	case gateway.KindError:
		detail += ": " + res.Error
	case gateway.KindMessage:
		detail += ": " + res.Message
	case gateway.KindTaskList:
		detail += fmt.Sprintf(": %d tasks", len(res.Tasks))
	}
	r.record("ai", command, err, detail)
	return res, err
}

func (r *Recorder) record(op, target string, err error, detail string) {
	outcome := store.OutcomeOK
	if err != nil {
		outcome = store.OutcomeFailed
		detail = err.Error()
	}
	if serr := r.sink.AddEvent(op, target, outcome, detail); serr != nil {
		r.log.Warn("journal write failed", "op", op, "err", serr)
	}
}
