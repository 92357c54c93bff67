package session

import "errors"

var (
	ErrUnknownUser  = errors.New("unknown user")
	ErrBadProxy     = errors.New("invalid proxy URL")
	ErrBuildRequest = errors.New("build request failed")
	ErrSnapshot     = errors.New("session snapshot failed")
	ErrRestore      = errors.New("session restore failed")
	ErrSlotNotFound = errors.New("session slot not found")
	ErrSlotStore    = errors.New("session slot store failed")
	ErrPromptClosed = errors.New("prompt input closed")
)
