package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/imkarma/taskdeck/internal/config"
	"github.com/imkarma/taskdeck/internal/gateway"
	"github.com/imkarma/taskdeck/internal/journal"
	"github.com/imkarma/taskdeck/internal/store"
	"github.com/imkarma/taskdeck/internal/task"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

// ServiceFactory builds the backend service for one command run. The
// returned close func releases whatever the service holds open.
type ServiceFactory func(cfg *config.Config, dir string, log *slog.Logger) (gateway.Service, func(), error)

// serviceFactory is swapped out in tests.
var serviceFactory ServiceFactory = defaultService

// defaultService is the HTTP gateway, journaled into the local store unless
// the journal is off. A journal that cannot be opened is skipped.
func defaultService(cfg *config.Config, dir string, log *slog.Logger) (gateway.Service, func(), error) {
	client := gateway.New(cfg.BaseURL,
		gateway.WithTimeout(cfg.Timeout()),
		gateway.WithLogger(log.With("component", "gateway")),
	)
	if !cfg.JournalEnabled() {
		return client, func() {}, nil
	}

	st, err := openStore(cfg.JournalPath(dir))
	if err != nil {
		log.Warn("journal unavailable, continuing without it", "err", err)
		return client, func() {}, nil
	}
	return journal.Wrap(client, st, log.With("component", "journal")), func() { st.Close() }, nil
}

// openService opens the service for the current run.
func openService() (gateway.Service, func(), error) {
	return serviceFactory(rt.cfg, rt.dir, rt.log)
}

// openStore opens or creates the SQLite store at the given path.
func openStore(dbPath string) (*store.Store, error) {
	return store.New(dbPath)
}

// logFailure records a failed operation with the gateway's failure kind,
// when there is one.
func logFailure(op, target string, err error) {
	if kind, ok := gateway.KindOf(err); ok {
		rt.log.Warn("operation failed", "op", op, "target", target, "kind", kind.String(), "err", err)
		return
	}
	rt.log.Debug("operation failed", "op", op, "target", target, "err", err)
}

func stateColor(s task.State) string {
	switch s {
	case task.InProgress:
		return colorYellow
	case task.Completed:
		return colorGreen
	}
	return colorWhite
}

// printTasks writes one line per task: id, state, title.
func printTasks(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "%-36s %s%s %-11s%s %s\n",
			t.ID, stateColor(t.State), t.State.Icon(), t.State, colorReset, t.Title)
	}
}

// findTask returns the task with id from tasks.
func findTask(tasks []task.Task, id string) (task.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
