package grouping

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func groupsOf(keyed map[string][]any, order ...string) *Groups {
	g := NewGroups()
	for _, key := range order {
		g.Append(key, keyed[key]...)
	}
	return g
}

func TestBuildTuples(t *testing.T) {
	t.Run("Should cross two dependencies into every combination", func(t *testing.T) {
		a := groupsOf(map[string][]any{"a1": {1}, "a2": {2}}, "a1", "a2")
		b := groupsOf(map[string][]any{"b1": {3}, "b2": {4}}, "b1", "b2")
		tuples := BuildTuples([]*Groups{a, b})
		require.Equal(t, []string{
			"a1 | b1", "a1 | b2",
			"a2 | b1", "a2 | b2",
		}, tuples.Keys())
		assert.Equal(t, []any{1, 3}, tuples.Items("a1 | b1"))
		assert.Equal(t, []any{2, 4}, tuples.Items("a2 | b2"))
	})
	t.Run("Should pass a single dependency through unchanged", func(t *testing.T) {
		a := groupsOf(map[string][]any{"a1": {1, 2}}, "a1")
		tuples := BuildTuples([]*Groups{a})
		require.Equal(t, []string{"a1"}, tuples.Keys())
		assert.Equal(t, []any{1, 2}, tuples.Items("a1"))
	})
	t.Run("Should skip dependencies that resolved to nothing", func(t *testing.T) {
		a := groupsOf(map[string][]any{"a1": {1}}, "a1")
		tuples := BuildTuples([]*Groups{a, NewGroups(), nil})
		require.Equal(t, []string{"a1"}, tuples.Keys())
		assert.Equal(t, []any{1}, tuples.Items("a1"))
	})
	t.Run("Should produce a default tuple when nothing resolved", func(t *testing.T) {
		tuples := BuildTuples(nil)
		require.Equal(t, []string{DefaultKey}, tuples.Keys())
		items := tuples.Items(DefaultKey)
		require.Len(t, items, 1)
		assert.Equal(t, map[string]any{}, items[0])
	})
	t.Run("Should concatenate items in dependency order", func(t *testing.T) {
		a := groupsOf(map[string][]any{"a1": {"x", "y"}}, "a1")
		b := groupsOf(map[string][]any{"b1": {"z"}}, "b1")
		tuples := BuildTuples([]*Groups{a, b})
		assert.Equal(t, []any{"x", "y", "z"}, tuples.Items("a1 | b1"))
	})
	t.Run("Should not mutate the input groups", func(t *testing.T) {
		a := groupsOf(map[string][]any{"a1": {1}}, "a1")
		b := groupsOf(map[string][]any{"b1": {2}, "b2": {3}}, "b1", "b2")
		BuildTuples([]*Groups{a, b})
		assert.Equal(t, []any{1}, a.Items("a1"))
		assert.Equal(t, []string{"b1", "b2"}, b.Keys())
	})
}

func TestBuildTuplesProperties(t *testing.T) {
	t.Run("Should produce the product of non-empty group counts", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			depCount := rapid.IntRange(0, 4).Draw(t, "deps")
			perDep := make([]*Groups, 0, depCount)
			want := 1
			resolved := false
			for d := 0; d < depCount; d++ {
				n := rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("groups%d", d))
				g := NewGroups()
				for i := 0; i < n; i++ {
					g.Append(fmt.Sprintf("d%d-g%d", d, i), i)
				}
				perDep = append(perDep, g)
				if n > 0 {
					want *= n
					resolved = true
				}
			}
			if !resolved {
				want = 1
			}
			tuples := BuildTuples(perDep)
			if tuples.Len() != want {
				t.Fatalf("got %d tuples, want %d", tuples.Len(), want)
			}
			if !resolved {
				if tuples.Keys()[0] != DefaultKey {
					t.Fatalf("expected default tuple, got %q", tuples.Keys()[0])
				}
				return
			}
			// Every tuple key names one group per contributing dependency.
			contributing := 0
			for _, g := range perDep {
				if g.Len() > 0 {
					contributing++
				}
			}
			for _, key := range tuples.Keys() {
				if got := len(strings.Split(key, TupleKeySep)); got != contributing {
					t.Fatalf("tuple %q spans %d groups, want %d", key, got, contributing)
				}
			}
		})
	})
}
