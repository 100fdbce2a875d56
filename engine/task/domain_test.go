package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/weft/engine/artifact"
	"github.com/weftworks/weft/engine/core"
)

func TestStateUpdateStatus(t *testing.T) {
	t.Run("Should walk the happy path forward", func(t *testing.T) {
		s := &State{TaskExecID: core.MustNewID(), Status: core.StatusPending}
		require.NoError(t, s.UpdateStatus(core.StatusRunning))
		require.NoError(t, s.UpdateStatus(core.StatusCompleted))
		assert.Equal(t, core.StatusCompleted, s.Status)
	})
	t.Run("Should allow running to failed", func(t *testing.T) {
		s := &State{Status: core.StatusRunning}
		require.NoError(t, s.UpdateStatus(core.StatusFailed))
	})
	t.Run("Should reject skipping the running state", func(t *testing.T) {
		s := &State{Status: core.StatusPending}
		err := s.UpdateStatus(core.StatusCompleted)
		assert.ErrorContains(t, err, "illegal task transition")
		assert.Equal(t, core.StatusPending, s.Status)
	})
	t.Run("Should reject leaving a terminal state", func(t *testing.T) {
		s := &State{Status: core.StatusFailed}
		assert.Error(t, s.UpdateStatus(core.StatusRunning))
		assert.Error(t, s.UpdateStatus(core.StatusPending))
	})
}

func TestThread(t *testing.T) {
	t.Run("Should append scalar items as text", func(t *testing.T) {
		th := NewThread()
		th.AppendItem("hello")
		require.Len(t, th.Entries, 1)
		assert.Equal(t, "hello", th.Entries[0].Text)
		assert.Nil(t, th.Entries[0].Data)
	})
	t.Run("Should append objects as data", func(t *testing.T) {
		th := NewThread()
		th.AppendItem(map[string]any{"k": "v"})
		require.Len(t, th.Entries, 1)
		assert.Equal(t, map[string]any{"k": "v"}, th.Entries[0].Data)
	})
	t.Run("Should deep-copy appended objects", func(t *testing.T) {
		src := map[string]any{"k": "v"}
		th := NewThread()
		th.AppendItem(src)
		src["k"] = "mutated"
		assert.Equal(t, map[string]any{"k": "v"}, th.Entries[0].Data)
	})
	t.Run("Should skip empty items", func(t *testing.T) {
		th := NewThread()
		th.AppendItem(nil)
		th.AppendItem("")
		th.AppendItem(map[string]any{})
		assert.Empty(t, th.Entries)
	})
	t.Run("Should collect files across entries in order", func(t *testing.T) {
		th := NewThread()
		th.AppendText("input", artifact.FileRef{ID: "f1"}, artifact.FileRef{ID: "f2"})
		th.AppendText("more", artifact.FileRef{ID: "f3"})
		files := th.Files()
		require.Len(t, files, 3)
		assert.Equal(t, core.ID("f1"), files[0].ID)
		assert.Equal(t, core.ID("f3"), files[2].ID)
	})
}
