package grouping

import "slices"

// TupleKeySep joins per-dependency group keys into a composite tuple key.
const TupleKeySep = " | "

// PlaceholderItem is the single item carried by the default tuple when no
// dependency produced any groups. It seeds no execution context but keeps
// the tuple non-empty so a task is still created.
func PlaceholderItem() map[string]any {
	return map[string]any{}
}

// BuildTuples combines the per-dependency group mappings into one tuple per
// unique combination of upstream groups: a full Cartesian product across
// dependencies, not a join on matching keys. Tuple keys concatenate the
// contributing group keys with TupleKeySep and tuple items concatenate the
// contributing item lists, both in dependency-declaration order.
//
// A dependency that resolved to no groups contributes nothing to the product
// rather than zeroing it out. When nothing at all resolved (or there are no
// dependencies) the result is a single default tuple with one placeholder
// item: a stage with an assignment never silently produces zero tasks.
//
// The result size is multiplicative in the per-dependency group counts;
// callers accept that every combination gets its own task.
func BuildTuples(perDependency []*Groups) *Groups {
	result := NewGroups()
	for _, groups := range perDependency {
		if groups == nil || groups.Len() == 0 {
			continue
		}
		if result.Len() == 0 {
			for _, key := range groups.Keys() {
				result.Append(key, groups.Items(key)...)
			}
			continue
		}
		next := NewGroups()
		for _, existing := range result.Keys() {
			for _, added := range groups.Keys() {
				combined := slices.Clone(result.Items(existing))
				combined = append(combined, groups.Items(added)...)
				next.Append(existing+TupleKeySep+added, combined...)
			}
		}
		result = next
	}
	if result.Len() == 0 {
		result.Append(DefaultKey, PlaceholderItem())
	}
	return result
}
