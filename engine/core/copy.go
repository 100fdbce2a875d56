package core

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// DeepCopy returns a deep copy of v. Tuple items handed to tasks are copied
// with this so a task can never mutate the upstream artifact payload it was
// seeded from.
func DeepCopy[T any](v T) (T, error) {
	var zero T
	copied := deepcopy.Copy(v)
	result, ok := copied.(T)
	if !ok {
		return zero, fmt.Errorf("failed to cast copied value to type %T", zero)
	}
	return result, nil
}

// MustDeepCopy is DeepCopy for callers that cannot act on a copy failure.
// The underlying copy only fails on type assertion, which cannot happen for
// the map/slice/scalar payloads the engine traffics in.
func MustDeepCopy[T any](v T) T {
	copied, err := DeepCopy(v)
	if err != nil {
		panic(err)
	}
	return copied
}
