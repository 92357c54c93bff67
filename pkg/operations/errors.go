package operations

import "errors"

var (
	ErrBadPattern = errors.New("invalid grep pattern")
)
