package workflow

import (
	"time"

	"github.com/weftworks/weft/engine/artifact"
	"github.com/weftworks/weft/engine/core"
)

// RunInput is the workflow's top-level input: opaque text plus any attached
// files. Jobs that declare uses_input are seeded with it first.
type RunInput struct {
	Content string             `json:"content,omitempty"`
	Files   []artifact.FileRef `json:"files,omitempty"`
}

// RunState is one execution of a workflow.
type RunState struct {
	RunID      core.ID         `json:"run_id"`
	WorkflowID string          `json:"workflow_id"`
	Status     core.StatusType `json:"status"`
	Input      *RunInput       `json:"input,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func NewRunState(workflowID string, input *RunInput) *RunState {
	now := time.Now()
	return &RunState{
		RunID:      core.MustNewID(),
		WorkflowID: workflowID,
		Status:     core.StatusPending,
		Input:      input,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// JobRunState is one execution instance of a job within a workflow run. It is
// created when the run reaches the job and becomes immutable once all its
// tasks reach a terminal state.
type JobRunState struct {
	JobRunID  core.ID         `json:"job_run_id"`
	JobID     string          `json:"job_id"`
	RunID     core.ID         `json:"run_id"`
	Status    core.StatusType `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewJobRunState(jobID string, runID core.ID) *JobRunState {
	now := time.Now()
	return &JobRunState{
		JobRunID:  core.MustNewID(),
		JobID:     jobID,
		RunID:     runID,
		Status:    core.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
