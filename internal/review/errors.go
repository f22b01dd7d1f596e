package review

import "errors"

// Out-of-domain inputs are rejected with these errors instead of being clamped.
var (
	ErrInvalidConfidence  = errors.New("confidence must be between 1 and 5")
	ErrInvalidReviewCount = errors.New("review count must not be negative")
	ErrInvalidEaseFactor  = errors.New("ease factor must be at least 1.3")
	ErrInvalidLimit       = errors.New("schedule limit must not be negative")
)
