package grouping

import (
	"context"

	"github.com/weftworks/weft/pkg/logger"
)

// Spec carries one job-dependency edge's grouping rules.
type Spec struct {
	// Ordered field paths that split artifact data into groups. Empty means
	// no grouping: everything lands in the default group.
	GroupBy []string
	// Optional field-path allowlist applied after grouping.
	IncludeFields []string
	// ForceSchema makes IncludeFields apply even on the ungrouped path.
	ForceSchema bool
	// OrderBy names the field that sorts groups and items within groups.
	OrderBy   string
	OrderDesc bool
}

// Resolver performs the GROUP BY step for one dependency edge: it consumes
// the prerequisite job's artifact payloads and produces an ordered mapping of
// group key to data items.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve groups the upstream payloads per spec. Calling it twice with the
// same inputs yields identical keys and item orderings. Any error degrades to
// an empty mapping so one dependency's failure never aborts the job run; the
// tuple builder's default-tuple rule picks up from there.
func (r *Resolver) Resolve(ctx context.Context, spec *Spec, payloads []any) *Groups {
	groups, err := r.resolve(spec, payloads)
	if err != nil {
		logger.FromContext(ctx).Error(
			"dependency group resolution failed, continuing with no groups",
			"error", err,
			"group_by", spec.GroupBy,
		)
		return NewGroups()
	}
	return groups
}

func (r *Resolver) resolve(spec *Spec, payloads []any) (*Groups, error) {
	groupBy, err := ParsePaths(spec.GroupBy)
	if err != nil {
		return nil, err
	}
	include, err := ParsePaths(spec.IncludeFields)
	if err != nil {
		return nil, err
	}
	groups := NewGroups()
	for _, payload := range payloads {
		// Pure-text artifacts group as the text itself, always.
		if text, ok := ContentOnly(payload); ok {
			groups.Append(DefaultKey, text)
			continue
		}
		if len(groupBy) > 0 {
			r.resolveGrouped(groups, payload, groupBy, include)
			continue
		}
		item := payload
		if spec.ForceSchema && len(include) > 0 {
			filtered, ok := FilterFields(payload, include)
			if !ok {
				continue
			}
			item = filtered
		}
		groups.Append(DefaultKey, item)
	}
	if spec.OrderBy != "" {
		groups.SortBy(spec.OrderBy, spec.OrderDesc)
	}
	return groups, nil
}

func (r *Resolver) resolveGrouped(groups *Groups, payload any, groupBy, include []FieldPath) {
	for _, row := range SplitRows(payload, groupBy) {
		item := row.Data
		if len(include) > 0 {
			filtered, ok := FilterFields(row.Data, include)
			if !ok {
				// A selected field is missing after filtering: the row is
				// dropped entirely, same policy as extraction.
				continue
			}
			item = filtered
		}
		groups.Append(Key(row.ItemSet), item)
	}
}
