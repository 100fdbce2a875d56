package tool

import (
	"context"
	"fmt"

	"github.com/weftworks/weft/engine/task"
)

// Kind is the closed set of workflow tool variants. Jobs bind to a kind; the
// registry resolves the implementation once at startup.
type Kind string

const (
	KindConversation Kind = "conversation"
	KindTranscode    Kind = "transcode"
	KindDBWrite      Kind = "dbwrite"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindConversation, KindTranscode, KindDBWrite:
		return true
	default:
		return false
	}
}

// Tool executes a job's tasks. AssignTasks turns the resolved tuples into
// pending tasks (the default delegates to the shared assigner; variants may
// override to always create a single ungrouped task). RunTask executes one
// task synchronously and persists its output artifacts; a task's failure is
// captured on the task, never thrown past the task boundary.
type Tool interface {
	Kind() Kind
	AssignTasks(ctx context.Context, params *task.AssignParams) ([]*task.State, error)
	RunTask(ctx context.Context, st *task.State) error
}

// Registry maps tool kinds to implementations. It is populated once during
// startup wiring and read-only afterwards.
type Registry struct {
	tools map[Kind]Tool
}

func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[Kind]Tool, len(tools))}
	for _, t := range tools {
		if err := r.register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(t Tool) error {
	kind := t.Kind()
	if !kind.IsValid() {
		return fmt.Errorf("unknown tool kind: %s", kind)
	}
	if _, dup := r.tools[kind]; dup {
		return fmt.Errorf("tool kind already registered: %s", kind)
	}
	r.tools[kind] = t
	return nil
}

func (r *Registry) Get(kind Kind) (Tool, error) {
	t, ok := r.tools[kind]
	if !ok {
		return nil, fmt.Errorf("no tool registered for kind %s", kind)
	}
	return t, nil
}
