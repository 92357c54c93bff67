package authentication

import "errors"

var (
	ErrDuplicateFlow   = errors.New("duplicate flow name")
	ErrUnknownStage    = errors.New("unknown stage")
	ErrUnknownFunction = errors.New("unknown function")
	ErrLoopGuard       = errors.New("authentication loop exceeded")
)
