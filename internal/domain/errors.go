package domain

import "errors"

var (
	// ErrInvalidGraph is returned when a snapshot cannot be loaded because of a
	// structural violation (duplicate node ids).
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrInvalidArgument marks a caller contract violation such as a
	// non-positive depth or a negative limit.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is used by the service layer when a requested concept does
	// not exist. The graph core reports absence through return values instead.
	ErrNotFound = errors.New("not found")

	// ErrBudgetExhausted is returned when a bounded traversal runs out of steps
	ErrBudgetExhausted = errors.New("traversal budget exhausted")
)
