package workflow

import (
	"context"

	"github.com/weftworks/weft/engine/core"
)

// Repository is the object-store contract for workflow and job runs.
type Repository interface {
	CreateRun(ctx context.Context, r *RunState) error
	GetRun(ctx context.Context, runID core.ID) (*RunState, error)
	UpdateRunStatus(ctx context.Context, runID core.ID, status core.StatusType) error
	CreateJobRun(ctx context.Context, jr *JobRunState) error
	UpdateJobRunStatus(ctx context.Context, jobRunID core.ID, status core.StatusType) error
	ListJobRuns(ctx context.Context, runID core.ID) ([]*JobRunState, error)
}
