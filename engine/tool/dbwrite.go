package tool

import (
	"context"
	"fmt"

	"github.com/weftworks/weft/engine/artifact"
	"github.com/weftworks/weft/engine/task"
)

// RecordStore is the collaborator the database-write tool persists tuple
// items through.
type RecordStore interface {
	Insert(ctx context.Context, collection string, record map[string]any) error
}

// DBWriteTool persists each structured data item in the task's context as a
// record and emits one summary artifact with the insert count.
type DBWriteTool struct {
	tasks      task.Repository
	artifacts  artifact.Repository
	assigner   *task.Assigner
	records    RecordStore
	collection string
}

func NewDBWriteTool(
	tasks task.Repository,
	artifacts artifact.Repository,
	records RecordStore,
	collection string,
) *DBWriteTool {
	return &DBWriteTool{
		tasks:      tasks,
		artifacts:  artifacts,
		assigner:   task.NewAssigner(tasks),
		records:    records,
		collection: collection,
	}
}

func (t *DBWriteTool) Kind() Kind {
	return KindDBWrite
}

func (t *DBWriteTool) AssignTasks(ctx context.Context, params *task.AssignParams) ([]*task.State, error) {
	return t.assigner.Assign(ctx, params)
}

func (t *DBWriteTool) RunTask(ctx context.Context, st *task.State) error {
	return runGuarded(ctx, t.tasks, st, "record_write_failed", func(ctx context.Context) error {
		inserted := 0
		for _, entry := range st.Thread.Entries {
			record, ok := entry.Data.(map[string]any)
			if !ok || len(record) == 0 {
				continue
			}
			if err := t.records.Insert(ctx, t.collection, record); err != nil {
				return fmt.Errorf("failed to insert record into %s: %w", t.collection, err)
			}
			inserted++
		}
		out := artifact.New(st.TaskExecID, st.JobRunID)
		out.Data = map[string]any{"collection": t.collection, "inserted": inserted}
		return t.artifacts.Create(ctx, out)
	})
}
