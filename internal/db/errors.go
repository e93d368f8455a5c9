package db

import "errors"

var (
	// ErrKeyNotFound is returned by HGetAll for a missing hash.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrIndexNotFound is returned when searching an index that was never created.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists is returned by CreateIndex when the name is taken.
	ErrIndexExists = errors.New("db: index already exists")
)

// Operation names carried by Error, spelled as the Redis commands they issue.
const (
	OpHSet        = "HSET"
	OpHGetAll     = "HGETALL"
	OpDel         = "DEL"
	OpScan        = "SCAN"
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
)

// Error tags a backend failure with the operation that hit it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
