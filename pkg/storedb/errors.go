package storedb

import "errors"

var (
	ErrOpen    = errors.New("storedb: open failed")
	ErrMigrate = errors.New("storedb: migration failed")
)
