// Package errx provides small helpers for annotating sentinel errors.
// Packages declare sentinels in their errors.go and decorate them at the
// call site, so callers can still match with errors.Is.
package errx

import "fmt"

// Wrap chains a cause onto a sentinel: "sentinel: cause".
// Both errors remain matchable with errors.Is.
func Wrap(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// With appends formatted detail to a sentinel. The format string is
// appended directly, so it usually starts with ": " or " ".
func With(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w"+format, append([]any{sentinel}, args...)...)
}
