package sandbox

import (
	"regexp"
	"strings"

	"github.com/imkarma/taskdeck/internal/task"
)

// Verb is what a parsed AI command asks the sandbox to do.
type Verb int

const (
	VerbUnknown Verb = iota
	VerbAdd
	VerbStart
	VerbComplete
	VerbShow
)

// Command is a free-text AI command reduced to a verb and its argument.
type Command struct {
	Verb  Verb
	Arg   string      // title for add, title fragment for start/complete
	State *task.State // show: nil means every task
}

var (
	// "Add a task to prepare presentation", "add task: buy milk"
	addRe = regexp.MustCompile(`(?i)^(?:add|create)\s+(?:an?\s+)?(?:new\s+)?task\s*(?:to\s+|called\s+|named\s+|:\s*)?(.+)$`)
	// "Start working on presentation", "start presentation"
	startRe = regexp.MustCompile(`(?i)^start\s+(?:working\s+on\s+)?(.+)$`)
	// "Mark presentation as completed", "mark presentation done"
	completeRe = regexp.MustCompile(`(?i)^(?:mark|complete)\s+(.+?)(?:\s+as)?\s+(?:completed|complete|done|finished)$`)
	// "Show all completed tasks", "Show all tasks", "list in progress tasks"
	showRe = regexp.MustCompile(`(?i)^(?:show|list)\s+(?:me\s+)?(?:all\s+)?(?:(.+?)\s+)?tasks$`)
)

// ParseCommand matches text against the phrasings the sandbox understands.
// A "show" with a state word it does not recognise is VerbUnknown.
func ParseCommand(text string) Command {
	text = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), ".!"))

	if m := addRe.FindStringSubmatch(text); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return Command{Verb: VerbAdd, Arg: title}
		}
	}
	if m := completeRe.FindStringSubmatch(text); m != nil {
		return Command{Verb: VerbComplete, Arg: strings.TrimSpace(m[1])}
	}
	if m := showRe.FindStringSubmatch(text); m != nil {
		word := strings.TrimSpace(m[1])
		if word == "" {
			return Command{Verb: VerbShow}
		}
		st, err := task.ParseState(word)
		if err != nil {
			return Command{}
		}
		return Command{Verb: VerbShow, State: &st}
	}
	if m := startRe.FindStringSubmatch(text); m != nil {
		return Command{Verb: VerbStart, Arg: strings.TrimSpace(m[1])}
	}
	return Command{}
}
