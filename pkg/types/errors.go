package types

import "errors"

// Domain errors shared across components. Errors scoped to one layer
// (storage lookup misses, provider failures) live with that layer.
var (
	ErrInvalidPath       = errors.New("invalid repository path")
	ErrUnsupportedFormat = errors.New("unsupported report format")
)
