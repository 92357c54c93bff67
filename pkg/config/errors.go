package config

import "errors"

var (
	ErrRead              = errors.New("read project file failed")
	ErrParse             = errors.New("parse project file failed")
	ErrBadPlugin         = errors.New("invalid plugin definition")
	ErrUnknownPluginType = errors.New("unknown plugin type")
	ErrUnknownPlugin     = errors.New("unknown plugin reference")
	ErrPluginCycle       = errors.New("plugin dependency cycle")
	ErrBadFlow           = errors.New("invalid flow definition")
	ErrBadOperation      = errors.New("invalid operation definition")
)
