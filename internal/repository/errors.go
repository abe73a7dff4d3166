// Package repository holds the MySQL data access layer for prediction
// history. Sentinel errors let handlers map storage failures to HTTP
// statuses without inspecting driver errors.
package repository

import "errors"

// ErrDuplicate is returned when a row with the same request id already
// exists. Handlers should translate this into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate")

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")
