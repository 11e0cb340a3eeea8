package types

import "fmt"

// SkipReason categorizes why a file produced no FileRecord
type SkipReason string

const (
	SkipTooLarge SkipReason = "too_large"
	SkipDecode   SkipReason = "decode_failed"
	SkipRead     SkipReason = "read_failed"
	SkipInternal SkipReason = "internal_error"
)

// SkipResult is the explicit "this file contributes nothing" outcome of
// file analysis. It replaces exception-style control flow: the walk loop
// consumes it, logs it, and continues.
type SkipResult struct {
	Path   string
	Reason SkipReason
	Detail string
}

// String renders the skip for logs
func (s *SkipResult) String() string {
	if s.Detail == "" {
		return fmt.Sprintf("%s: skipped (%s)", s.Path, s.Reason)
	}
	return fmt.Sprintf("%s: skipped (%s): %s", s.Path, s.Reason, s.Detail)
}

// NewSkip builds a skip result for a path
func NewSkip(path string, reason SkipReason, detail string) *SkipResult {
	return &SkipResult{Path: path, Reason: reason, Detail: detail}
}
