// Package interpret decides what an AI command response means for the local
// view: which list to show, whether to re-fetch, and what to tell the user.
package interpret

import (
	"fmt"

	"github.com/imkarma/taskdeck/internal/gateway"
	"github.com/imkarma/taskdeck/internal/task"
)

// Level is the tone of a notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
	LevelInfo
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}
	return "info"
}

// DefaultSuccess is shown when a command mutated a task but said nothing.
const DefaultSuccess = "Command executed successfully"

// FailedText is shown when the command exchange itself failed.
const FailedText = "AI command failed. Please try again."

// Notice is user-facing feedback for one command.
type Notice struct {
	Level Level
	Text  string
}

// Outcome is the set of local effects one AI command response asks for.
type Outcome struct {
	// Replace, when non-nil, becomes the displayed list verbatim.
	Replace []task.Task
	// Refetch asks for the list to be loaded again from the backend.
	Refetch bool
	Notice  Notice
}

// Failed reports whether the outcome is a command failure.
func (o Outcome) Failed() bool { return o.Notice.Level == LevelError }

// Decide maps a decoded response to its effects.
func Decide(res gateway.AIResult) Outcome {
	switch res.Kind {
	case gateway.KindTaskList:
		tasks := res.Tasks
		if tasks == nil {
			tasks = []task.Task{}
		}
		return Outcome{
			Replace: tasks,
			Notice:  Notice{Level: LevelSuccess, Text: fmt.Sprintf("Showing %d %s", len(tasks), plural(len(tasks), "task", "tasks"))},
		}
	case gateway.KindError:
		return Outcome{Notice: Notice{Level: LevelError, Text: res.Error}}
	case gateway.KindMessage:
		return Outcome{Refetch: true, Notice: Notice{Level: LevelSuccess, Text: res.Message}}
	case gateway.KindSingleTask:
		return Outcome{Refetch: true, Notice: Notice{Level: LevelSuccess, Text: DefaultSuccess}}
	}
	panic(fmt.Sprintf("interpret: unhandled result kind %v", res.Kind))
}

// Failure builds the outcome for a command whose exchange failed. Nothing
// local changes.
func Failure() Outcome {
	return Outcome{Notice: Notice{Level: LevelError, Text: FailedText}}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
