package grouping

import (
	"sort"
	"strings"

	"github.com/weftworks/weft/engine/core"
)

// Groups is an ordered mapping of group key to the data items collected under
// that key. Order is insertion order until SortBy rearranges it; both forms
// are deterministic for identical inputs.
type Groups struct {
	keys  []string
	items map[string][]any
}

func NewGroups() *Groups {
	return &Groups{items: make(map[string][]any)}
}

func (g *Groups) Append(key string, items ...any) {
	if _, ok := g.items[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.items[key] = append(g.items[key], items...)
}

// Keys returns the group keys in order. The returned slice is shared; callers
// must not mutate it.
func (g *Groups) Keys() []string {
	return g.keys
}

func (g *Groups) Items(key string) []any {
	return g.items[key]
}

func (g *Groups) Len() int {
	return len(g.keys)
}

// SortBy orders the groups by the first item's value at the named field, then
// orders the items within each group by that same field, both in the same
// direction. Items that do not carry the field sort after those that do,
// preserving relative order; all ties are stable.
func (g *Groups) SortBy(field string, desc bool) {
	for _, key := range g.keys {
		items := g.items[key]
		sort.SliceStable(items, func(i, j int) bool {
			return lessByField(items[i], items[j], field, desc)
		})
	}
	sort.SliceStable(g.keys, func(i, j int) bool {
		a := firstItem(g.items[g.keys[i]])
		b := firstItem(g.items[g.keys[j]])
		return lessByField(a, b, field, desc)
	})
}

func firstItem(items []any) any {
	if len(items) == 0 {
		return nil
	}
	return items[0]
}

func lessByField(a, b any, field string, desc bool) bool {
	av, aok := fieldValue(a, field)
	bv, bok := fieldValue(b, field)
	if !aok || !bok {
		// Items missing the field always sort last.
		return aok && !bok
	}
	cmp := compareValues(av, bv)
	if desc {
		return cmp > 0
	}
	return cmp < 0
}

func fieldValue(item any, field string) (any, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[field]
	return v, ok
}

// compareValues orders heterogeneous values: numbers numerically, strings
// lexically, then everything else by canonical JSON form.
func compareValues(a, b any) int {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(as, bs)
	}
	return strings.Compare(
		string(core.StableJSONBytes(a)),
		string(core.StableJSONBytes(b)),
	)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}
