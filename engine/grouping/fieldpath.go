package grouping

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// FieldPath is a parsed field-path expression used to select grouping values
// out of an artifact's combined payload. Paths use JSONPath child syntax
// ("category", "author.name", "items[*].sku"); a path that crosses a sequence
// yields one match per element.
type FieldPath struct {
	raw  string
	expr jp.Expr
}

func ParsePath(raw string) (FieldPath, error) {
	if raw == "" {
		return FieldPath{}, fmt.Errorf("empty field path")
	}
	expr, err := jp.ParseString(raw)
	if err != nil {
		return FieldPath{}, fmt.Errorf("invalid field path %q: %w", raw, err)
	}
	return FieldPath{raw: raw, expr: expr}, nil
}

func MustParsePath(raw string) FieldPath {
	p, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePaths parses each raw path, failing on the first malformed one.
func ParsePaths(raw []string) ([]FieldPath, error) {
	paths := make([]FieldPath, 0, len(raw))
	for _, r := range raw {
		p, err := ParsePath(r)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (p FieldPath) String() string {
	return p.raw
}

// Values returns every value the path matches within doc, in document order.
// An empty result means the path does not resolve for this document.
func (p FieldPath) Values(doc any) []any {
	if p.expr == nil {
		return nil
	}
	return p.expr.Get(doc)
}
