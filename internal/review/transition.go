package review

import (
	"fmt"
	"time"

	"github.com/at-ishikawa/glean/internal/learning"
)

const (
	initialConfidence = 3

	masteryConfidence = 5
	masteryStreak     = 3
)

// CompleteReview applies a finished review to item and returns the updated copy.
// The item passed in is left untouched.
func CompleteReview(item learning.Item, newConfidence int, now time.Time) (learning.Item, error) {
	today := Today(now)
	state := item.SpaceRep

	next, err := ComputeNextReview(today, newConfidence, state.LastReviewDate, state.ReviewCount, state.EaseFactor)
	if err != nil {
		return learning.Item{}, fmt.Errorf("item %s: %w", item.ID, err)
	}

	history := make([]learning.ReviewRecord, len(item.History), len(item.History)+1)
	copy(history, item.History)
	history = append(history, learning.ReviewRecord{
		Date:             now,
		ConfidenceBefore: state.Confidence,
		ConfidenceAfter:  newConfidence,
		Correct:          newConfidence >= PassingConfidence,
		TimeSpent:        0,
	})

	streak := 0
	if newConfidence >= PassingConfidence {
		streak = state.Streak + 1
	}

	// Mastery is one-directional; nothing here demotes a mastered item.
	status := item.Status
	if status == learning.StatusActive && newConfidence == masteryConfidence && streak >= masteryStreak {
		status = learning.StatusMastered
	}

	updated := item
	updated.SpaceRep = learning.SpaceRep{
		Confidence:     newConfidence,
		EaseFactor:     next.EaseFactor,
		NextReviewDate: next.NextReviewDate,
		LastReviewDate: &today,
		ReviewCount:    state.ReviewCount + 1,
		Streak:         streak,
	}
	updated.Status = status
	updated.UpdatedAt = now
	updated.History = history
	return updated, nil
}

// NewItem creates an active item from draft, scheduled as if it had just been
// reviewed with confidence 3.
func NewItem(draft learning.Draft, now time.Time) (learning.Item, error) {
	if err := draft.Validate(); err != nil {
		return learning.Item{}, err
	}
	draft = draft.Normalize()

	next, err := ComputeNextReview(Today(now), initialConfidence, nil, 0, DefaultEaseFactor)
	if err != nil {
		return learning.Item{}, err
	}

	return learning.Item{
		ID: learning.NewID(draft.Topic, now),
		Content: learning.Content{
			Title:       draft.Title,
			Description: draft.Description,
			KeyPoints:   draft.KeyPoints,
			CodeExample: draft.CodeExample,
			Resources:   draft.Resources,
		},
		Classification: learning.Classification{
			Topic:      draft.Topic,
			Subtopic:   draft.Subtopic,
			Tags:       draft.Tags,
			Difficulty: draft.Difficulty,
		},
		Source: learning.Source{
			Type:      draft.Source,
			SessionID: draft.SessionID,
			HarvestID: draft.HarvestID,
			InsightID: draft.InsightID,
			Project:   draft.Project,
		},
		SpaceRep: learning.SpaceRep{
			Confidence:     initialConfidence,
			EaseFactor:     DefaultEaseFactor,
			NextReviewDate: next.NextReviewDate,
			ReviewCount:    0,
			Streak:         0,
		},
		Status:    learning.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
		History:   []learning.ReviewRecord{},
	}, nil
}
