package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"

	"github.com/weftworks/weft/engine/agent"
	"github.com/weftworks/weft/engine/artifact"
	"github.com/weftworks/weft/engine/task"
)

const (
	defaultRetryAttempts = 2
	maxRetryAttempts     = 100
)

// RetrySettings bound the conversation runner's retry loop.
type RetrySettings struct {
	Attempts    int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

func (s RetrySettings) withDefaults() RetrySettings {
	if s.Attempts <= 0 {
		s.Attempts = defaultRetryAttempts
	}
	if s.Attempts > maxRetryAttempts {
		s.Attempts = maxRetryAttempts
	}
	if s.BackoffBase <= 0 {
		s.BackoffBase = 500 * time.Millisecond
	}
	if s.BackoffMax <= 0 {
		s.BackoffMax = 30 * time.Second
	}
	return s
}

// ConversationTool runs one conversation turn per task: it sends the task's
// seeded thread to the external agent, takes the final reply, and emits one
// artifact from it.
type ConversationTool struct {
	tasks       task.Repository
	artifacts   artifact.Repository
	assigner    *task.Assigner
	runner      agent.Runner
	assignments map[string]*agent.Config
	retry       RetrySettings
}

func NewConversationTool(
	tasks task.Repository,
	artifacts artifact.Repository,
	runner agent.Runner,
	assignments map[string]*agent.Config,
	retrySettings RetrySettings,
) *ConversationTool {
	return &ConversationTool{
		tasks:       tasks,
		artifacts:   artifacts,
		assigner:    task.NewAssigner(tasks),
		runner:      runner,
		assignments: assignments,
		retry:       retrySettings.withDefaults(),
	}
}

func (t *ConversationTool) Kind() Kind {
	return KindConversation
}

// AssignTasks is the default grouped assignment: one task per
// (assignment, tuple) pair via the shared assigner.
func (t *ConversationTool) AssignTasks(ctx context.Context, params *task.AssignParams) ([]*task.State, error) {
	return t.assigner.Assign(ctx, params)
}

func (t *ConversationTool) RunTask(ctx context.Context, st *task.State) error {
	return runGuarded(ctx, t.tasks, st, "conversation_failed", func(ctx context.Context) error {
		cfg, ok := t.assignments[st.AssignmentID]
		if !ok {
			return fmt.Errorf("unknown assignment %q on task %s", st.AssignmentID, st.TaskExecID)
		}
		reply, err := t.invoke(ctx, cfg, st.Thread)
		if err != nil {
			return err
		}
		out := artifact.New(st.TaskExecID, st.JobRunID)
		out.Content = reply.Content
		out.Data = replyData(reply)
		return t.artifacts.Create(ctx, out)
	})
}

func (t *ConversationTool) invoke(ctx context.Context, cfg *agent.Config, thread *task.Thread) (*agent.Reply, error) {
	backoff := retry.WithMaxDuration(t.retry.BackoffMax, retry.NewExponential(t.retry.BackoffBase))
	backoff = retry.WithMaxRetries(uint64(t.retry.Attempts), backoff) //nolint:gosec // attempts sanitized in withDefaults
	var reply *agent.Reply
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var callErr error
		reply, callErr = t.runner.RunConversation(ctx, cfg, thread)
		if callErr != nil {
			return retry.RetryableError(callErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// replyData picks the structured payload for the output artifact: the
// runner's explicit data when present, otherwise the reply text parsed as
// JSON when it is valid JSON.
func replyData(reply *agent.Reply) any {
	if reply.Data != nil {
		return reply.Data
	}
	if gjson.Valid(reply.Content) {
		parsed := gjson.Parse(reply.Content)
		if parsed.IsObject() || parsed.IsArray() {
			return parsed.Value()
		}
	}
	return nil
}
