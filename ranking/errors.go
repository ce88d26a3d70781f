package ranking

import "errors"

var (
	// ErrNoMatch means no candidate carries a positive score.
	ErrNoMatch = errors.New("no candidate matched")
	// ErrInvalidScore means a raw score is negative or not a number.
	ErrInvalidScore = errors.New("invalid raw score")
)
