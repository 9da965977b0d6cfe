package sqsum

import "errors"

// Errors
var (
	ErrBadVtxID        = errors.New("bad vertex ID")
	ErrDupeVtx         = errors.New("vertex appears more than once")
	ErrNotSquareSum    = errors.New("adjacent vertices do not sum to a perfect square")
	ErrPathsOverlap    = errors.New("paths share one or more vertices")
	ErrNilPath         = errors.New("nil path")
	ErrBadEncoding     = errors.New("bad path encoding")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrCatalogReadOnly = errors.New("catalog is in read-only mode")
	ErrMaxVtx          = errors.New("vertex limit reached")
	ErrPathLimit       = errors.New("path store limit exceeded")
)
