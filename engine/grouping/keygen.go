package grouping

import (
	"crypto/md5" //nolint:gosec // collision avoidance for group labels, not security
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/weftworks/weft/engine/core"
)

const (
	// DefaultKey labels the group used when no grouping applies.
	DefaultKey = "default"

	// MaxReadableKeyLen caps the human-readable form of a group key. Keys
	// over the cap are truncated and suffixed with a content hash. The cap
	// is part of the stored group-label format; changing it would orphan
	// existing labels.
	MaxReadableKeyLen = 100

	valueReprLen  = 20
	hashSuffixLen = 6
)

// Key turns an item-set into a short, stable, human-readable group key.
// Tokens are "path:value" pairs over the deterministically sorted paths,
// joined with commas. When the readable form exceeds MaxReadableKeyLen, or
// any value required lossy array flattening, the key becomes
// "<truncated-prefix>#<first-6-hex-of-md5>" where the hash covers the full
// canonical item-set JSON. The hash suffix is the collision-avoidance
// mechanism within a resolution pass, not a cryptographic guarantee.
func Key(set ItemSet) string {
	if len(set) == 0 {
		return DefaultKey
	}
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	lossy := false
	tokens := make([]string, 0, len(paths))
	for _, p := range paths {
		repr, reprLossy := valueRepr(set[p])
		lossy = lossy || reprLossy
		tokens = append(tokens, p+":"+repr)
	}
	readable := strings.Join(tokens, ",")
	if !lossy && len([]rune(readable)) <= MaxReadableKeyLen {
		return readable
	}
	sum := md5.Sum(core.StableJSONBytes(map[string]any(set))) //nolint:gosec
	suffix := hex.EncodeToString(sum[:])[:hashSuffixLen]
	return truncate(readable, MaxReadableKeyLen) + "#" + suffix
}

// valueRepr renders one item-set value as a token fragment. Arrays are
// reduced to a best-effort representative and flagged lossy.
func valueRepr(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "null", false
	case string:
		return t, false
	case []any:
		return truncate(arrayRepr(t), valueReprLen), true
	case map[string]any:
		// An object grouping value has no natural scalar form; hash it.
		return truncate(shortHash(t), valueReprLen), true
	default:
		return fmt.Sprintf("%v", t), false
	}
}

// arrayRepr picks the human-readable representative of an array value:
// the first element's name, then title, then id when elements are objects,
// otherwise a short hash of the whole array.
func arrayRepr(arr []any) string {
	if len(arr) > 0 {
		if obj, ok := arr[0].(map[string]any); ok {
			for _, field := range []string{"name", "title", "id"} {
				if v, ok := obj[field]; ok && v != nil {
					return fmt.Sprintf("%v", v)
				}
			}
		}
	}
	return shortHash(arr)
}

func shortHash(v any) string {
	sum := md5.Sum(core.StableJSONBytes(v)) //nolint:gosec
	return hex.EncodeToString(sum[:])[:8]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
