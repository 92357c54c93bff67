package main

import "errors"

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrFunction       = errors.New("function failed")
)
