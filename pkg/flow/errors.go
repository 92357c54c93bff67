package flow

import "errors"

var (
	ErrNoRequest  = errors.New("flow has no request")
	ErrBadTarget  = errors.New("invalid request target")
	ErrEncodeBody = errors.New("encode request body failed")
)
