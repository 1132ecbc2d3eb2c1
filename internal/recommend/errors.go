package recommend

import "errors"

var (
	// ErrInsufficientData is returned when fewer than two documents are given.
	ErrInsufficientData = errors.New("need at least two movies for recommendations")

	// ErrNoUsableData is returned when no document yields a usable term.
	ErrNoUsableData = errors.New("not enough data for content-based recommendations")

	// ErrTargetOutOfRange is returned when the target row is outside the matrix.
	ErrTargetOutOfRange = errors.New("target row out of range")
)
