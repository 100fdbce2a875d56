package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/weft/engine/artifact"
	"github.com/weftworks/weft/engine/core"
	"github.com/weftworks/weft/engine/task"
	"github.com/weftworks/weft/engine/workflow"
)

func TestMemoryRuns(t *testing.T) {
	t.Run("Should create and update workflow runs", func(t *testing.T) {
		mem := NewMemory()
		run := workflow.NewRunState("wf", nil)
		require.NoError(t, mem.CreateRun(context.Background(), run))
		assert.Error(t, mem.CreateRun(context.Background(), run), "duplicate run ids are rejected")
		require.NoError(t, mem.UpdateRunStatus(context.Background(), run.RunID, core.StatusRunning))
		assert.ErrorContains(t, mem.UpdateRunStatus(context.Background(), "missing", core.StatusRunning), "not found")

		got, err := mem.GetRun(context.Background(), run.RunID)
		require.NoError(t, err)
		assert.Equal(t, core.StatusRunning, got.Status)
		_, err = mem.GetRun(context.Background(), "missing")
		assert.ErrorContains(t, err, "not found")
	})
	t.Run("Should list job runs by run in creation order", func(t *testing.T) {
		mem := NewMemory()
		runID := core.MustNewID()
		first := workflow.NewJobRunState("a", runID)
		second := workflow.NewJobRunState("b", runID)
		other := workflow.NewJobRunState("c", core.MustNewID())
		require.NoError(t, mem.CreateJobRun(context.Background(), first))
		require.NoError(t, mem.CreateJobRun(context.Background(), other))
		require.NoError(t, mem.CreateJobRun(context.Background(), second))

		jobRuns, err := mem.ListJobRuns(context.Background(), runID)
		require.NoError(t, err)
		require.Len(t, jobRuns, 2)
		assert.Equal(t, "a", jobRuns[0].JobID)
		assert.Equal(t, "b", jobRuns[1].JobID)
	})
}

func TestMemoryTasks(t *testing.T) {
	t.Run("Should persist task status and error detail", func(t *testing.T) {
		mem := NewMemory()
		st := &task.State{TaskExecID: core.MustNewID(), JobRunID: core.MustNewID(), Status: core.StatusPending}
		require.NoError(t, mem.Create(context.Background(), st))

		detail := &core.Error{Message: "boom", Code: "conversation_failed"}
		require.NoError(t, mem.UpdateStatus(context.Background(), st.TaskExecID, core.StatusFailed, detail))

		listed, err := mem.ListByJobRun(context.Background(), st.JobRunID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, core.StatusFailed, listed[0].Status)
		assert.Equal(t, detail, listed[0].Error)
	})
}

func TestMemoryArtifacts(t *testing.T) {
	t.Run("Should list artifacts by job run in creation order", func(t *testing.T) {
		mem := NewMemory()
		repo := mem.Artifacts()
		jobRunID := core.MustNewID()
		first := artifact.New(core.MustNewID(), jobRunID)
		second := artifact.New(core.MustNewID(), jobRunID)
		require.NoError(t, repo.Create(context.Background(), first))
		require.NoError(t, repo.Create(context.Background(), second))

		listed, err := repo.ListByJobRun(context.Background(), jobRunID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, first.ID, listed[0].ID)
		assert.Equal(t, second.ID, listed[1].ID)
	})
}

func TestMemoryFiles(t *testing.T) {
	t.Run("Should mark tracked files transcoded", func(t *testing.T) {
		mem := NewMemory()
		f := &artifact.FileRef{ID: core.MustNewID(), Name: "doc.pdf"}
		mem.PutFile(f)
		require.NoError(t, mem.MarkTranscoded(context.Background(), f.ID, []string{"p1.png"}))

		stored, ok := mem.File(f.ID)
		require.True(t, ok)
		assert.True(t, stored.Transcoded)
		assert.Equal(t, []string{"p1.png"}, stored.PageImages)
	})
	t.Run("Should reject unknown files", func(t *testing.T) {
		mem := NewMemory()
		assert.ErrorContains(t, mem.MarkTranscoded(context.Background(), "nope", nil), "not found")
	})
}

func TestMemoryRecords(t *testing.T) {
	t.Run("Should keep records per collection in insert order", func(t *testing.T) {
		mem := NewMemory()
		require.NoError(t, mem.Insert(context.Background(), "findings", map[string]any{"n": 1}))
		require.NoError(t, mem.Insert(context.Background(), "findings", map[string]any{"n": 2}))
		require.NoError(t, mem.Insert(context.Background(), "other", map[string]any{"n": 3}))

		records := mem.Records("findings")
		require.Len(t, records, 2)
		assert.Equal(t, 1, records[0]["n"])
		assert.Empty(t, mem.Records("missing"))
	})
}
