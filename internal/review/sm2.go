// Package review implements the spaced-repetition schedule of learning items:
// the SM-2 interval model, due and priority predicates, the review queue and
// the state transition applied when a review completes.
package review

import (
	"fmt"
	"math"

	"cloud.google.com/go/civil"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxIntervalDays   = 180

	MinConfidence = 1
	MaxConfidence = 5

	// PassingConfidence is the lowest confidence counted as a correct recall.
	PassingConfidence = 3
)

// baseIntervals is indexed by confidence.
var baseIntervals = [...]int{0, 1, 3, 7, 14, 30}

// NextReview is the outcome of the interval model.
type NextReview struct {
	NextReviewDate civil.Date
	IntervalDays   int
	EaseFactor     float64
}

// ComputeNextReview calculates when an item is due next and its new ease factor.
//
// A first review (no lastReviewDate) or a poor recall (confidence < 3) uses the
// fixed base table. Otherwise the first two reviews give 1 and 6 days and later
// ones scale the days actually elapsed since lastReviewDate by the ease factor.
// An easeFactor of 0 means DefaultEaseFactor.
func ComputeNextReview(
	today civil.Date,
	confidence int,
	lastReviewDate *civil.Date,
	reviewCount int,
	easeFactor float64,
) (NextReview, error) {
	if err := validateConfidence(confidence); err != nil {
		return NextReview{}, err
	}
	if reviewCount < 0 {
		return NextReview{}, fmt.Errorf("%w: %d", ErrInvalidReviewCount, reviewCount)
	}
	if easeFactor == 0 {
		easeFactor = DefaultEaseFactor
	}
	if math.IsNaN(easeFactor) || easeFactor < MinEaseFactor {
		return NextReview{}, fmt.Errorf("%w: %v", ErrInvalidEaseFactor, easeFactor)
	}

	interval := calculateInterval(today, confidence, lastReviewDate, reviewCount, easeFactor)
	return NextReview{
		NextReviewDate: today.AddDays(interval),
		IntervalDays:   interval,
		EaseFactor:     UpdateEaseFactor(easeFactor, confidence),
	}, nil
}

func calculateInterval(today civil.Date, confidence int, lastReviewDate *civil.Date, reviewCount int, ef float64) int {
	if lastReviewDate == nil || confidence < PassingConfidence {
		return baseIntervals[confidence]
	}

	var interval int
	switch reviewCount {
	case 0:
		interval = 1
	case 1:
		interval = 6
	default:
		elapsed := today.DaysSince(*lastReviewDate)
		if elapsed < 0 {
			elapsed = -elapsed
		}
		interval = int(math.Round(float64(elapsed) * ef))
	}

	switch confidence {
	case 5:
		interval = int(math.Round(float64(interval) * 1.3))
	case 4:
		interval = int(math.Round(float64(interval) * 1.1))
	}

	return min(interval, MaxIntervalDays)
}

// UpdateEaseFactor applies the standard SM-2 ease adjustment for a confidence
// grade, never going below MinEaseFactor.
func UpdateEaseFactor(ef float64, confidence int) float64 {
	q := float64(confidence)
	delta := 0.1 - (5-q)*(0.08+(5-q)*0.02)
	return math.Max(MinEaseFactor, ef+delta)
}

func validateConfidence(confidence int) error {
	if confidence < MinConfidence || confidence > MaxConfidence {
		return fmt.Errorf("%w: %d", ErrInvalidConfidence, confidence)
	}
	return nil
}
