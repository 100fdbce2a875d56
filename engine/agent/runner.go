package agent

import (
	"context"

	"github.com/weftworks/weft/engine/task"
)

// Reply is the final response from one conversation turn: the reply text and
// any structured data the agent produced alongside it.
type Reply struct {
	Content string
	Data    any
}

// Runner executes one conversation turn against an external agent. It may
// block for seconds to minutes and can fail with a generic error; retry and
// task-state handling belong to the caller.
type Runner interface {
	RunConversation(ctx context.Context, cfg *Config, thread *task.Thread) (*Reply, error)
}
