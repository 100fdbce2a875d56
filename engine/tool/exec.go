package tool

import (
	"context"
	"fmt"

	"github.com/weftworks/weft/engine/core"
	"github.com/weftworks/weft/engine/task"
	"github.com/weftworks/weft/pkg/logger"
)

// runGuarded drives one task through the state machine around work: the task
// moves to RUNNING, work runs, and the outcome is persisted as COMPLETED or
// FAILED with the error captured. A work error never propagates past the
// task boundary (sibling tasks run independently); only illegal transitions
// and store failures surface to the caller.
func runGuarded(
	ctx context.Context,
	tasks task.Repository,
	st *task.State,
	errCode string,
	work func(ctx context.Context) error,
) error {
	log := logger.FromContext(ctx)
	if err := st.UpdateStatus(core.StatusRunning); err != nil {
		return err
	}
	if err := tasks.UpdateStatus(ctx, st.TaskExecID, core.StatusRunning, nil); err != nil {
		return fmt.Errorf("failed to persist running status for task %s: %w", st.TaskExecID, err)
	}
	if workErr := work(ctx); workErr != nil {
		st.Error = core.NewError(workErr, errCode, nil)
		if err := st.UpdateStatus(core.StatusFailed); err != nil {
			return err
		}
		if err := tasks.UpdateStatus(ctx, st.TaskExecID, core.StatusFailed, st.Error); err != nil {
			return fmt.Errorf("failed to persist failed status for task %s: %w", st.TaskExecID, err)
		}
		log.Error("task failed",
			"task_exec_id", st.TaskExecID,
			"job_id", st.JobID,
			"group", st.GroupLabel,
			"error", workErr,
		)
		return nil
	}
	if err := st.UpdateStatus(core.StatusCompleted); err != nil {
		return err
	}
	if err := tasks.UpdateStatus(ctx, st.TaskExecID, core.StatusCompleted, nil); err != nil {
		return fmt.Errorf("failed to persist completed status for task %s: %w", st.TaskExecID, err)
	}
	log.Debug("task completed", "task_exec_id", st.TaskExecID, "job_id", st.JobID, "group", st.GroupLabel)
	return nil
}
