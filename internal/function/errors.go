package function

import "errors"

var (
	// ErrDuplicateUpdate is returned when two updates write the same
	// container.
	ErrDuplicateUpdate = errors.New("shared value updated more than once")

	// ErrUnboundInput is returned for a graph leaf that is neither a shared
	// value nor a constant.
	ErrUnboundInput = errors.New("graph input has no value")
)
