package task

import (
	"context"

	"github.com/weftworks/weft/engine/core"
)

// Repository is the object-store contract for tasks. Tasks are created in
// PENDING state; UpdateStatus persists transitions along with any captured
// error detail.
type Repository interface {
	Create(ctx context.Context, s *State) error
	UpdateStatus(ctx context.Context, taskExecID core.ID, status core.StatusType, errDetail *core.Error) error
	ListByJobRun(ctx context.Context, jobRunID core.ID) ([]*State, error)
}
