package review

import (
	"math"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(d civil.Date) *civil.Date {
	return &d
}

func TestComputeNextReview(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 6, Day: 13}

	tests := []struct {
		name           string
		confidence     int
		lastReviewDate *civil.Date
		reviewCount    int
		easeFactor     float64
		wantInterval   int
		wantEaseFactor float64
	}{
		{
			name:           "first review with confidence 1 uses base table",
			confidence:     1,
			easeFactor:     2.5,
			wantInterval:   1,
			wantEaseFactor: 1.96,
		},
		{
			name:           "first review with confidence 2 uses base table",
			confidence:     2,
			easeFactor:     2.5,
			wantInterval:   3,
			wantEaseFactor: 2.18,
		},
		{
			name:           "first review with confidence 3 uses base table",
			confidence:     3,
			easeFactor:     2.5,
			wantInterval:   7,
			wantEaseFactor: 2.36,
		},
		{
			name:           "first review with confidence 4 uses base table",
			confidence:     4,
			easeFactor:     2.5,
			wantInterval:   14,
			wantEaseFactor: 2.5,
		},
		{
			name:           "first review with confidence 5 uses base table",
			confidence:     5,
			easeFactor:     2.5,
			wantInterval:   30,
			wantEaseFactor: 2.6,
		},
		{
			name:           "confidence 1 ignores history",
			confidence:     1,
			lastReviewDate: datePtr(civil.Date{Year: 2025, Month: 3, Day: 1}),
			reviewCount:    12,
			easeFactor:     2.9,
			wantInterval:   1,
			wantEaseFactor: 2.36,
		},
		{
			name:           "confidence 2 ignores history",
			confidence:     2,
			lastReviewDate: datePtr(civil.Date{Year: 2025, Month: 3, Day: 1}),
			reviewCount:    12,
			easeFactor:     2.9,
			wantInterval:   3,
			wantEaseFactor: 2.58,
		},
		{
			name:           "reviewed before with review count 0 and confidence 3",
			confidence:     3,
			lastReviewDate: datePtr(today),
			reviewCount:    0,
			easeFactor:     2.5,
			wantInterval:   1,
			wantEaseFactor: 2.36,
		},
		{
			name:           "reviewed before with review count 0 and confidence 5 rounds back to 1 day",
			confidence:     5,
			lastReviewDate: datePtr(today),
			reviewCount:    0,
			easeFactor:     2.5,
			wantInterval:   1,
			wantEaseFactor: 2.6,
		},
		{
			name:           "review count 1 with confidence 3",
			confidence:     3,
			lastReviewDate: datePtr(today.AddDays(-1)),
			reviewCount:    1,
			easeFactor:     2.5,
			wantInterval:   6,
			wantEaseFactor: 2.36,
		},
		{
			name:           "review count 1 with confidence 4",
			confidence:     4,
			lastReviewDate: datePtr(today.AddDays(-1)),
			reviewCount:    1,
			easeFactor:     2.5,
			wantInterval:   7, // 6 * 1.1 = 6.6
			wantEaseFactor: 2.5,
		},
		{
			name:           "review count 1 with confidence 5",
			confidence:     5,
			lastReviewDate: datePtr(today.AddDays(-1)),
			reviewCount:    1,
			easeFactor:     2.5,
			wantInterval:   8, // 6 * 1.3 = 7.8
			wantEaseFactor: 2.6,
		},
		{
			name:           "confidence 3 with long history follows the adaptive branch",
			confidence:     3,
			lastReviewDate: datePtr(today.AddDays(-10)),
			reviewCount:    2,
			easeFactor:     2.5,
			wantInterval:   25, // 10 * 2.5
			wantEaseFactor: 2.36,
		},
		{
			name:           "confidence 4 scales elapsed days",
			confidence:     4,
			lastReviewDate: datePtr(today.AddDays(-10)),
			reviewCount:    2,
			easeFactor:     2.5,
			wantInterval:   28, // round(25 * 1.1)
			wantEaseFactor: 2.5,
		},
		{
			name:           "confidence 5 scales elapsed days",
			confidence:     5,
			lastReviewDate: datePtr(today.AddDays(-10)),
			reviewCount:    2,
			easeFactor:     2.5,
			wantInterval:   33, // round(25 * 1.3)
			wantEaseFactor: 2.6,
		},
		{
			name:           "late review inflates the interval",
			confidence:     3,
			lastReviewDate: datePtr(today.AddDays(-20)),
			reviewCount:    4,
			easeFactor:     2.0,
			wantInterval:   40,
			wantEaseFactor: 1.86,
		},
		{
			name:           "interval is capped at 180 days",
			confidence:     5,
			lastReviewDate: datePtr(today.AddDays(-100)),
			reviewCount:    10,
			easeFactor:     2.5,
			wantInterval:   MaxIntervalDays,
			wantEaseFactor: 2.6,
		},
		{
			name:           "same day review yields a zero day interval",
			confidence:     3,
			lastReviewDate: datePtr(today),
			reviewCount:    3,
			easeFactor:     2.5,
			wantInterval:   0,
			wantEaseFactor: 2.36,
		},
		{
			name:           "zero ease factor falls back to the default",
			confidence:     5,
			easeFactor:     0,
			wantInterval:   30,
			wantEaseFactor: 2.6,
		},
		{
			name:           "ease factor never goes below the minimum",
			confidence:     1,
			easeFactor:     MinEaseFactor,
			wantInterval:   1,
			wantEaseFactor: MinEaseFactor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeNextReview(today, tt.confidence, tt.lastReviewDate, tt.reviewCount, tt.easeFactor)
			require.NoError(t, err)

			assert.Equal(t, tt.wantInterval, got.IntervalDays)
			assert.Equal(t, today.AddDays(tt.wantInterval), got.NextReviewDate)
			assert.InDelta(t, tt.wantEaseFactor, got.EaseFactor, 0.0001)
			assert.False(t, got.NextReviewDate.Before(today))
		})
	}
}

func TestComputeNextReview_InvalidInput(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 6, Day: 13}

	tests := []struct {
		name        string
		confidence  int
		reviewCount int
		easeFactor  float64
		wantErr     error
	}{
		{
			name:       "confidence 0",
			confidence: 0,
			easeFactor: 2.5,
			wantErr:    ErrInvalidConfidence,
		},
		{
			name:       "confidence 6",
			confidence: 6,
			easeFactor: 2.5,
			wantErr:    ErrInvalidConfidence,
		},
		{
			name:        "negative review count",
			confidence:  3,
			reviewCount: -1,
			easeFactor:  2.5,
			wantErr:     ErrInvalidReviewCount,
		},
		{
			name:       "ease factor below the minimum",
			confidence: 3,
			easeFactor: 1.2,
			wantErr:    ErrInvalidEaseFactor,
		},
		{
			name:       "ease factor is NaN",
			confidence: 3,
			easeFactor: math.NaN(),
			wantErr:    ErrInvalidEaseFactor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeNextReview(today, tt.confidence, nil, tt.reviewCount, tt.easeFactor)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateEaseFactor_StaysAboveMinimum(t *testing.T) {
	for confidence := MinConfidence; confidence <= MaxConfidence; confidence++ {
		ef := DefaultEaseFactor
		for i := 0; i < 50; i++ {
			ef = UpdateEaseFactor(ef, confidence)
			require.GreaterOrEqual(t, ef, MinEaseFactor, "confidence %d after %d updates", confidence, i+1)
		}
	}
}

func TestComputeNextReview_LowConfidenceAlwaysUsesBaseTable(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 6, Day: 13}
	want := map[int]int{1: 1, 2: 3}

	for confidence, interval := range want {
		for reviewCount := 0; reviewCount < 6; reviewCount++ {
			for _, ef := range []float64{1.3, 2.5, 3.7} {
				got, err := ComputeNextReview(today, confidence, datePtr(today.AddDays(-30)), reviewCount, ef)
				require.NoError(t, err)
				assert.Equal(t, interval, got.IntervalDays, "confidence %d, review count %d, ease %v", confidence, reviewCount, ef)
			}
		}
	}
}
