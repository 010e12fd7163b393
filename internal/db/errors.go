package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrUnknownDriver = errors.New("db: unknown driver")
	ErrEmptyKeyField = errors.New("db: key field is required")
)

// Op constants name store operations for error context and metrics.
const (
	OpPing       = "ping"
	OpFind       = "find"
	OpInsertOne  = "insertOne"
	OpInsertMany = "insertMany"
	OpUpdateOne  = "updateOne"
	OpJSONGet    = "JSON.GET"
	OpJSONSet    = "JSON.SET"
	OpScan       = "SCAN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
