package resolver

import "errors"

// Common errors returned by answer resolution.
var (
	// ErrConfigIncomplete is returned in AI mode when any of the
	// key/URL/model settings is empty. It is raised before any network
	// call is made.
	ErrConfigIncomplete = errors.New("ai answer configuration incomplete")

	// ErrResolverAborted is returned when a manual prompt was abandoned
	// without an answer.
	ErrResolverAborted = errors.New("answer prompt abandoned")
)
