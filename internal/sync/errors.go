package sync

import "errors"

// Fatal conditions that abort a whole sync call. Everything else in the
// pipeline is per-entity recoverable and surfaces through counters instead.
var (
	ErrNilProject     = errors.New("nil project aggregate")
	ErrNilSnapshot    = errors.New("nil snapshot")
	ErrHierarchyCycle = errors.New("cycle in declared task hierarchy")
)
