package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("record not found")
	ErrQuery    = errors.New("store query failed")
	ErrWrite    = errors.New("store write failed")
	ErrMigrate  = errors.New("store migration failed")
)
