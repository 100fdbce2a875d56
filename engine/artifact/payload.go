package artifact

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/weftworks/weft/engine/core"
)

// CombinedPayload assembles the data payload grouping operates on: the
// artifact's Data with its Content merged under the reserved "content" key
// and its file attachments under the reserved "files" key.
//
// When Data is not an object (a sequence or scalar) and the artifact carries
// neither content nor files, Data is returned as-is so sequence payloads keep
// their row shape. A sequence or scalar payload that also carries content or
// files is wrapped under a "data" key so nothing is silently dropped.
func CombinedPayload(a *Artifact) (any, error) {
	hasContent := a.Content != ""
	hasFiles := len(a.Files) > 0

	obj, isObj := a.Data.(map[string]any)
	switch {
	case a.Data == nil:
		obj = map[string]any{}
	case isObj:
		copied, err := core.DeepCopy(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to copy artifact data: %w", err)
		}
		obj = copied
	default:
		if !hasContent && !hasFiles {
			return core.MustDeepCopy(a.Data), nil
		}
		obj = map[string]any{"data": core.MustDeepCopy(a.Data)}
	}

	reserved := map[string]any{}
	if hasContent {
		reserved[core.ContentKey] = a.Content
	}
	if hasFiles {
		reserved[core.FilesKey] = filesAsMaps(a.Files)
	}
	if len(reserved) > 0 {
		if err := mergo.Merge(&obj, reserved, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge reserved payload keys: %w", err)
		}
	}
	return obj, nil
}

func filesAsMaps(files []FileRef) []any {
	out := make([]any, 0, len(files))
	for _, f := range files {
		out = append(out, map[string]any{
			"id":   f.ID.String(),
			"name": f.Name,
			"path": f.Path,
			"mime": f.Mime,
		})
	}
	return out
}
