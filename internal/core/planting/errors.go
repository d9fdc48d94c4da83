package planting

import "errors"

// Typed input errors. Callers branch on these to map failures to 4xx
// responses instead of treating them as empty-but-valid results.
var (
	ErrInvalidBoundary  = errors.New("boundary must have at least 3 distinct vertices and non-zero area")
	ErrInvalidSpacing   = errors.New("spacing values must be positive")
	ErrInvalidArea      = errors.New("area must be positive")
	ErrInvalidSoilScore = errors.New("soil score must be between 0 and 1")
)
