package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/imkarma/taskdeck/internal/task"
)

// ResultKind tags the four shapes an AI command response can take.
type ResultKind int

const (
	KindTaskList ResultKind = iota
	KindSingleTask
	KindMessage
	KindError
)

func (k ResultKind) String() string {
	switch k {
	case KindTaskList:
		return "task-list"
	case KindSingleTask:
		return "task"
	case KindMessage:
		return "message"
	case KindError:
		return "error"
	}
	return "unknown"
}

// AIResult is the decoded response of one AI command. Only the field matching
// Kind is meaningful.
type AIResult struct {
	Kind    ResultKind
	Tasks   []task.Task
	Task    task.Task
	Message string
	Error   string
}

// DecodeAIResult classifies a raw response body. An array is a task list; an
// object with a non-empty "error" is an error; one with a non-empty "message"
// is a message; any other object is a single task. The order matters because
// a task object may carry stray fields that overlap the other shapes.
func DecodeAIResult(body []byte) (AIResult, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return AIResult{}, fmt.Errorf("empty response body")
	}

	switch body[0] {
	case '[':
		var tasks []task.Task
		if err := json.Unmarshal(body, &tasks); err != nil {
			return AIResult{}, fmt.Errorf("decode task list: %w", err)
		}
		return AIResult{Kind: KindTaskList, Tasks: tasks}, nil
	case '{':
	default:
		return AIResult{}, fmt.Errorf("unexpected response shape starting with %q", body[0])
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return AIResult{}, fmt.Errorf("decode object: %w", err)
	}

	if msg, ok := stringField(fields, "error"); ok {
		return AIResult{Kind: KindError, Error: msg}, nil
	}
	if msg, ok := stringField(fields, "message"); ok {
		return AIResult{Kind: KindMessage, Message: msg}, nil
	}

	var t task.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return AIResult{}, fmt.Errorf("decode task: %w", err)
	}
	return AIResult{Kind: KindSingleTask, Task: t}, nil
}

// stringField returns a field value that is present and truthy: null, false,
// zero and "" count as absent. Other non-string values are rendered as their
// raw JSON so an odd backend still produces a readable notice.
func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		trimmed := string(bytes.TrimSpace(raw))
		if trimmed == "null" || trimmed == "false" {
			return "", false
		}
		var n float64
		if json.Unmarshal(raw, &n) == nil && n == 0 {
			return "", false
		}
		return trimmed, true
	}
	return s, s != ""
}
