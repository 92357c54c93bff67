package plugins

import "errors"

var (
	ErrUserdataField  = errors.New("user field not defined")
	ErrNotExtractable = errors.New("plugin cannot extract from a response")
	ErrPromptRead     = errors.New("prompt read failed")
	ErrCommandRun     = errors.New("command failed")
	ErrBadRegex       = errors.New("invalid regular expression")
	ErrBadJSONPath    = errors.New("invalid JSON path")
	ErrNoMatch        = errors.New("no match in response")
	ErrParseURL       = errors.New("URL parse failed")
	ErrDepUnresolved  = errors.New("dependency has no value")
)
