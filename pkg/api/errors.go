package api

import "errors"

var (
	ErrTransport     = errors.New("HTTP transport failed")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoValue       = errors.New("plugin has no value")
)
