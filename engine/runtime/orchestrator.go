package runtime

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/weftworks/weft/engine/artifact"
	"github.com/weftworks/weft/engine/core"
	"github.com/weftworks/weft/engine/grouping"
	"github.com/weftworks/weft/engine/task"
	"github.com/weftworks/weft/engine/tool"
	"github.com/weftworks/weft/engine/workflow"
	"github.com/weftworks/weft/pkg/logger"
)

const defaultTaskConcurrency = 4

// Orchestrator walks a workflow's job DAG: per job it resolves each
// dependency edge into groups, builds the cross-product tuples, has the
// bound tool assign tasks, and runs the tasks with bounded parallelism.
// Tasks within one job run are independent; a failed task degrades its job
// run without crashing siblings or downstream jobs.
type Orchestrator struct {
	runs        workflow.Repository
	tasks       task.Repository
	artifacts   artifact.Repository
	registry    *tool.Registry
	resolver    *grouping.Resolver
	concurrency int
}

func NewOrchestrator(
	runs workflow.Repository,
	tasks task.Repository,
	artifacts artifact.Repository,
	registry *tool.Registry,
	concurrency int,
) *Orchestrator {
	if concurrency <= 0 {
		concurrency = defaultTaskConcurrency
	}
	return &Orchestrator{
		runs:        runs,
		tasks:       tasks,
		artifacts:   artifacts,
		registry:    registry,
		resolver:    grouping.NewResolver(),
		concurrency: concurrency,
	}
}

// ExecuteRun executes one workflow run to completion. The returned run is
// COMPLETED when every job run completed and FAILED when any job run ended
// failed; either way every reachable job was driven to a terminal state.
func (o *Orchestrator) ExecuteRun(
	ctx context.Context,
	cfg *workflow.Config,
	input *workflow.RunInput,
) (*workflow.RunState, error) {
	log := logger.FromContext(ctx)
	sorted, err := cfg.SortedJobs()
	if err != nil {
		return nil, err
	}
	run := workflow.NewRunState(cfg.ID, input)
	if err := o.runs.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create workflow run: %w", err)
	}
	run.Status = core.StatusRunning
	if err := o.runs.UpdateRunStatus(ctx, run.RunID, core.StatusRunning); err != nil {
		return nil, fmt.Errorf("failed to start workflow run: %w", err)
	}
	log.Info("workflow run started", "workflow_id", cfg.ID, "run_id", run.RunID, "jobs", len(sorted))
	return o.runJobs(ctx, cfg, run, sorted)
}

// ResumeRun re-drives an existing run after an interruption. Job runs that
// already reached a terminal state are kept as-is, job runs whose tasks were
// already assigned are not assigned again, and only still-pending tasks
// execute. Resuming a terminal run is a no-op.
func (o *Orchestrator) ResumeRun(
	ctx context.Context,
	cfg *workflow.Config,
	runID core.ID,
) (*workflow.RunState, error) {
	sorted, err := cfg.SortedJobs()
	if err != nil {
		return nil, err
	}
	run, err := o.runs.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow run: %w", err)
	}
	if run.Status.IsTerminal() {
		return run, nil
	}
	run.Status = core.StatusRunning
	if err := o.runs.UpdateRunStatus(ctx, run.RunID, core.StatusRunning); err != nil {
		return nil, fmt.Errorf("failed to start workflow run: %w", err)
	}
	logger.FromContext(ctx).Info("workflow run resumed",
		"workflow_id", cfg.ID, "run_id", run.RunID, "jobs", len(sorted))
	return o.runJobs(ctx, cfg, run, sorted)
}

func (o *Orchestrator) runJobs(
	ctx context.Context,
	cfg *workflow.Config,
	run *workflow.RunState,
	sorted []*workflow.JobConfig,
) (*workflow.RunState, error) {
	log := logger.FromContext(ctx)
	jobRuns := make(map[string]*workflow.JobRunState, len(sorted))
	degraded := false
	for _, job := range sorted {
		jr, err := o.executeJob(ctx, cfg, run, job, jobRuns)
		if err != nil {
			run.Status = core.StatusFailed
			if uerr := o.runs.UpdateRunStatus(ctx, run.RunID, core.StatusFailed); uerr != nil {
				log.Error("failed to persist run failure", "run_id", run.RunID, "error", uerr)
			}
			return run, err
		}
		jobRuns[job.ID] = jr
		if jr.Status == core.StatusFailed {
			// Downstream jobs see "no artifacts produced" as a valid,
			// informationally empty case; the run continues degraded.
			degraded = true
		}
	}
	run.Status = core.StatusCompleted
	if degraded {
		run.Status = core.StatusFailed
	}
	if err := o.runs.UpdateRunStatus(ctx, run.RunID, run.Status); err != nil {
		return nil, fmt.Errorf("failed to finish workflow run: %w", err)
	}
	log.Info("workflow run finished", "run_id", run.RunID, "status", run.Status)
	return run, nil
}

func (o *Orchestrator) executeJob(
	ctx context.Context,
	cfg *workflow.Config,
	run *workflow.RunState,
	job *workflow.JobConfig,
	jobRuns map[string]*workflow.JobRunState,
) (*workflow.JobRunState, error) {
	jr, err := o.findOrCreateJobRun(ctx, run, job.ID)
	if err != nil {
		return nil, err
	}
	if jr.Status.IsTerminal() {
		return jr, nil
	}
	states, err := o.assignJob(ctx, cfg, run, job, jr, jobRuns)
	if err != nil {
		return nil, err
	}
	jr.Status = core.StatusRunning
	if err := o.runs.UpdateJobRunStatus(ctx, jr.JobRunID, core.StatusRunning); err != nil {
		return nil, fmt.Errorf("failed to start job run %s: %w", jr.JobRunID, err)
	}
	if err := o.runTasks(ctx, job, states); err != nil {
		return nil, err
	}
	jr.Status = jobRunOutcome(states)
	if err := o.runs.UpdateJobRunStatus(ctx, jr.JobRunID, jr.Status); err != nil {
		return nil, fmt.Errorf("failed to finish job run %s: %w", jr.JobRunID, err)
	}
	return jr, nil
}

// findOrCreateJobRun reuses the run's existing job run for this job (a
// resumed run already has them) and creates one only on first reach.
func (o *Orchestrator) findOrCreateJobRun(
	ctx context.Context,
	run *workflow.RunState,
	jobID string,
) (*workflow.JobRunState, error) {
	existing, err := o.runs.ListJobRuns(ctx, run.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job runs for run %s: %w", run.RunID, err)
	}
	for _, jr := range existing {
		if jr.JobID == jobID {
			return jr, nil
		}
	}
	jr := workflow.NewJobRunState(jobID, run.RunID)
	if err := o.runs.CreateJobRun(ctx, jr); err != nil {
		return nil, fmt.Errorf("failed to create job run for %s: %w", jobID, err)
	}
	return jr, nil
}

// assignJob resolves the job's dependency edges, builds tuples, and has the
// bound tool create the tasks. Assignment runs at most once per job run: a
// job run that already has tasks is left untouched.
func (o *Orchestrator) assignJob(
	ctx context.Context,
	cfg *workflow.Config,
	run *workflow.RunState,
	job *workflow.JobConfig,
	jr *workflow.JobRunState,
	jobRuns map[string]*workflow.JobRunState,
) ([]*task.State, error) {
	existing, err := o.tasks.ListByJobRun(ctx, jr.JobRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for job run %s: %w", jr.JobRunID, err)
	}
	if len(existing) > 0 {
		logger.FromContext(ctx).Warn("job run already has tasks, skipping assignment",
			"job_id", job.ID, "job_run_id", jr.JobRunID)
		return existing, nil
	}
	groupSets := make([]*grouping.Groups, 0, len(job.Dependencies))
	for i := range job.Dependencies {
		groupSets = append(groupSets, o.resolveDependency(ctx, &job.Dependencies[i], jobRuns))
	}
	tuples := grouping.BuildTuples(groupSets)

	impl, err := o.registry.Get(job.Tool)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", job.ID, err)
	}
	params := &task.AssignParams{
		JobID:         job.ID,
		JobRunID:      jr.JobRunID,
		WorkflowRunID: run.RunID,
		UsesInput:     job.UsesInput,
		Assignments:   job.Assignments,
		Tuples:        tuples,
	}
	if run.Input != nil {
		params.RunContent = run.Input.Content
		params.RunFiles = run.Input.Files
	}
	return impl.AssignTasks(ctx, params)
}

// resolveDependency performs the GROUP BY step for one edge. Missing or
// non-terminal upstream runs and payload failures degrade to no groups, per
// the dependency-level error contract.
func (o *Orchestrator) resolveDependency(
	ctx context.Context,
	dep *workflow.DependencyConfig,
	jobRuns map[string]*workflow.JobRunState,
) *grouping.Groups {
	log := logger.FromContext(ctx)
	upstream, ok := jobRuns[dep.DependsOn]
	if !ok || !upstream.Status.IsTerminal() {
		log.Error("prerequisite job run unavailable, continuing with no groups", "depends_on", dep.DependsOn)
		return grouping.NewGroups()
	}
	artifacts, err := o.artifacts.ListByJobRun(ctx, upstream.JobRunID)
	if err != nil {
		log.Error("failed to list upstream artifacts, continuing with no groups",
			"depends_on", dep.DependsOn, "error", err)
		return grouping.NewGroups()
	}
	payloads := make([]any, 0, len(artifacts))
	for _, a := range artifacts {
		payload, err := artifact.CombinedPayload(a)
		if err != nil {
			log.Error("failed to build artifact payload, skipping artifact",
				"artifact_id", a.ID, "error", err)
			continue
		}
		payloads = append(payloads, payload)
	}
	return o.resolver.Resolve(ctx, dep.GroupingSpec(), payloads)
}

// runTasks executes the job run's pending tasks with bounded parallelism.
// Tasks already terminal (a resumed run carries them) are left alone.
// RunTask absorbs task-level failures, so an error here is infrastructural
// and aborts the run.
func (o *Orchestrator) runTasks(ctx context.Context, job *workflow.JobConfig, states []*task.State) error {
	impl, err := o.registry.Get(job.Tool)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for _, st := range states {
		if st.Status != core.StatusPending {
			continue
		}
		g.Go(func() error {
			return impl.RunTask(gctx, st)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("job %s task execution aborted: %w", job.ID, err)
	}
	return nil
}

// jobRunOutcome derives the job run's terminal status from its tasks: FAILED
// when any task failed, COMPLETED otherwise (a no-op stage with zero tasks
// completes).
func jobRunOutcome(states []*task.State) core.StatusType {
	for _, st := range states {
		if st.Status == core.StatusFailed {
			return core.StatusFailed
		}
	}
	return core.StatusCompleted
}
