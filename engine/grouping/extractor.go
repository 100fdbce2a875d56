package grouping

import (
	"github.com/weftworks/weft/engine/core"
)

// ItemSet maps a groupBy field path to the value found at that path for one
// row. A value is a slice when the path crossed a sequence and matched more
// than once; the key generator treats that as a lossy flattening.
type ItemSet map[string]any

// Row pairs one row's extracted item-set with the row's payload.
type Row struct {
	ItemSet ItemSet
	Data    any
}

// SplitRows treats a sequence payload as the row dimension (each element one
// row; any other payload is a single row) and extracts the groupBy values for
// each row. Rows where any groupBy path does not resolve are dropped, not
// zero-filled: incomplete rows are skipped by contract.
func SplitRows(payload any, groupBy []FieldPath) []Row {
	var rawRows []any
	if seq, ok := payload.([]any); ok {
		rawRows = seq
	} else {
		rawRows = []any{payload}
	}
	rows := make([]Row, 0, len(rawRows))
	for _, raw := range rawRows {
		set, ok := extractItemSet(raw, groupBy)
		if !ok {
			continue
		}
		rows = append(rows, Row{ItemSet: set, Data: raw})
	}
	return rows
}

func extractItemSet(row any, groupBy []FieldPath) (ItemSet, bool) {
	set := make(ItemSet, len(groupBy))
	for _, path := range groupBy {
		matches := path.Values(row)
		if len(matches) == 0 {
			return nil, false
		}
		if len(matches) == 1 {
			set[path.String()] = matches[0]
		} else {
			set[path.String()] = matches
		}
	}
	return set, true
}

// Extract returns the ordered distinct item-sets found in payload, the
// nested-data analogue of SELECT DISTINCT over the groupBy columns. Order
// follows first occurrence.
func Extract(payload any, groupBy []FieldPath) []ItemSet {
	rows := SplitRows(payload, groupBy)
	seen := make(map[string]struct{}, len(rows))
	sets := make([]ItemSet, 0, len(rows))
	for _, row := range rows {
		fp := string(core.StableJSONBytes(map[string]any(row.ItemSet)))
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		sets = append(sets, row.ItemSet)
	}
	return sets
}

// ContentOnly reports whether payload reduces to the single reserved content
// key, i.e. a pure-text artifact. Such payloads group as the text itself,
// bypassing object filtering entirely.
func ContentOnly(payload any) (string, bool) {
	obj, ok := payload.(map[string]any)
	if !ok || len(obj) != 1 {
		return "", false
	}
	text, ok := obj[core.ContentKey].(string)
	return text, ok
}

// FilterFields projects payload down to the include allowlist. Simple paths
// keep their key; nested paths are keyed by their full path string. It
// returns ok=false when any include path has no value, propagating the
// skip-incomplete-rows policy.
func FilterFields(payload any, include []FieldPath) (any, bool) {
	if len(include) == 0 {
		return payload, true
	}
	out := make(map[string]any, len(include))
	for _, path := range include {
		matches := path.Values(payload)
		if len(matches) == 0 {
			return nil, false
		}
		if len(matches) == 1 {
			out[path.String()] = matches[0]
		} else {
			out[path.String()] = matches
		}
	}
	return out, true
}
