package task

import (
	"context"
	"fmt"
	"time"

	"github.com/weftworks/weft/engine/artifact"
	"github.com/weftworks/weft/engine/core"
	"github.com/weftworks/weft/engine/grouping"
	"github.com/weftworks/weft/pkg/logger"
)

// AssignParams is everything task assignment needs about a job run: the run
// identifiers, the workflow's top-level input (seeded first when the job uses
// it), the assignment IDs bound to the job, and the resolved tuples.
type AssignParams struct {
	JobID         string
	JobRunID      core.ID
	WorkflowRunID core.ID
	UsesInput     bool
	RunContent    string
	RunFiles      []artifact.FileRef
	Assignments   []string
	Tuples        *grouping.Groups
}

// Assigner creates one pending task per (assignment, tuple) pair and seeds
// its execution context. It is the shared default the tool variants delegate
// to; variants that always run ungrouped swap the tuples out first.
type Assigner struct {
	tasks Repository
}

func NewAssigner(tasks Repository) *Assigner {
	return &Assigner{tasks: tasks}
}

// Assign creates len(assignments) x len(tuples) tasks in PENDING state, each
// tagged with its tuple key as group label. An empty assignment list is a
// legitimate no-op stage, not an error. Re-invocation for a job run that
// already has tasks is the caller's problem to prevent.
func (a *Assigner) Assign(ctx context.Context, params *AssignParams) ([]*State, error) {
	log := logger.FromContext(ctx)
	if len(params.Assignments) == 0 {
		log.Debug("job has no assignments, nothing to assign", "job_id", params.JobID)
		return nil, nil
	}
	tuples := params.Tuples
	if tuples == nil || tuples.Len() == 0 {
		tuples = grouping.BuildTuples(nil)
	}
	states := make([]*State, 0, len(params.Assignments)*tuples.Len())
	for _, assignment := range params.Assignments {
		for _, tupleKey := range tuples.Keys() {
			state := &State{
				TaskExecID:    core.MustNewID(),
				JobID:         params.JobID,
				JobRunID:      params.JobRunID,
				WorkflowRunID: params.WorkflowRunID,
				AssignmentID:  assignment,
				GroupLabel:    tupleKey,
				Status:        core.StatusPending,
				Thread:        seedThread(params, tuples.Items(tupleKey)),
				CreatedAt:     time.Now(),
			}
			if err := a.tasks.Create(ctx, state); err != nil {
				return nil, fmt.Errorf("failed to create task for job %s (group %q): %w", params.JobID, tupleKey, err)
			}
			states = append(states, state)
		}
	}
	log.Info("assigned tasks",
		"job_id", params.JobID,
		"assignments", len(params.Assignments),
		"tuples", tuples.Len(),
		"tasks", len(states),
	)
	return states, nil
}

// seedThread builds the task's execution context: workflow input first when
// the job consumes it, then each tuple data item in order.
func seedThread(params *AssignParams, items []any) *Thread {
	thread := NewThread()
	if params.UsesInput && (params.RunContent != "" || len(params.RunFiles) > 0) {
		thread.AppendText(params.RunContent, params.RunFiles...)
	}
	for _, item := range items {
		thread.AppendItem(item)
	}
	return thread
}
