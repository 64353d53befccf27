package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned by New when the configured capacity is not
// positive.
var ErrInvalidCapacity = errors.New("cache: capacity must be positive")

// InvariantError is the panic value used when the index and the recency
// list disagree. It is never returned; recovering from it leaves the cache
// in an undefined state.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("cache: internal invariant violated in %s: %s", e.Op, e.Detail)
}
