package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/weft/engine/core"
)

func TestNewID(t *testing.T) {
	t.Run("Should generate a new unique ID", func(t *testing.T) {
		id1, err := core.NewID()
		require.NoError(t, err)
		assert.False(t, id1.IsZero())
		id2, err := core.NewID()
		require.NoError(t, err)
		assert.NotEqual(t, id1, id2, "IDs should be unique")
	})
	t.Run("Should generate valid KSUID format", func(t *testing.T) {
		id, err := core.NewID()
		require.NoError(t, err)
		parsed, err := core.ParseID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})
}

func TestParseID(t *testing.T) {
	t.Run("Should return error for empty string", func(t *testing.T) {
		id, err := core.ParseID("")
		assert.ErrorContains(t, err, "empty ID")
		assert.True(t, id.IsZero())
	})
	t.Run("Should return error for invalid format", func(t *testing.T) {
		id, err := core.ParseID("not-a-valid-ksuid")
		assert.ErrorContains(t, err, "invalid ID format")
		assert.True(t, id.IsZero())
	})
}

func TestStatusType(t *testing.T) {
	t.Run("Should allow only forward transitions", func(t *testing.T) {
		assert.True(t, core.StatusPending.CanTransition(core.StatusRunning))
		assert.True(t, core.StatusRunning.CanTransition(core.StatusCompleted))
		assert.True(t, core.StatusRunning.CanTransition(core.StatusFailed))
		assert.False(t, core.StatusPending.CanTransition(core.StatusCompleted))
		assert.False(t, core.StatusCompleted.CanTransition(core.StatusRunning))
		assert.False(t, core.StatusFailed.CanTransition(core.StatusPending))
	})
	t.Run("Should report terminal states", func(t *testing.T) {
		assert.True(t, core.StatusCompleted.IsTerminal())
		assert.True(t, core.StatusFailed.IsTerminal())
		assert.False(t, core.StatusPending.IsTerminal())
		assert.False(t, core.StatusRunning.IsTerminal())
	})
}
