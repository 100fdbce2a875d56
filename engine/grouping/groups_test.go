package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupsSortBy(t *testing.T) {
	t.Run("Should sort items missing the field last in both directions", func(t *testing.T) {
		build := func() *Groups {
			g := NewGroups()
			g.Append("k",
				map[string]any{"other": true},
				map[string]any{"rank": 2},
				map[string]any{"rank": 1},
			)
			return g
		}
		asc := build()
		asc.SortBy("rank", false)
		assert.Equal(t, 1, asc.Items("k")[0].(map[string]any)["rank"])
		assert.NotContains(t, asc.Items("k")[2], "rank")

		desc := build()
		desc.SortBy("rank", true)
		assert.Equal(t, 2, desc.Items("k")[0].(map[string]any)["rank"])
		assert.NotContains(t, desc.Items("k")[2], "rank")
	})
	t.Run("Should compare mixed numeric types numerically", func(t *testing.T) {
		g := NewGroups()
		g.Append("k",
			map[string]any{"rank": float64(10)},
			map[string]any{"rank": 2},
		)
		g.SortBy("rank", false)
		assert.Equal(t, 2, g.Items("k")[0].(map[string]any)["rank"])
	})
	t.Run("Should keep insertion order without sorting", func(t *testing.T) {
		g := NewGroups()
		g.Append("b", 1)
		g.Append("a", 2)
		g.Append("b", 3)
		assert.Equal(t, []string{"b", "a"}, g.Keys())
		assert.Equal(t, []any{1, 3}, g.Items("b"))
	})
}
