package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/glean/internal/learning"
	"github.com/at-ishikawa/glean/internal/review"
)

// CompleteReview records a review of id with confidence inside a single store update.
func CompleteReview(ctx context.Context, repo learning.Repository, id string, confidence int, now time.Time) (*learning.Item, error) {
	if confidence < review.MinConfidence || confidence > review.MaxConfidence {
		return nil, fmt.Errorf("%w: %d", review.ErrInvalidConfidence, confidence)
	}

	updated, err := repo.Update(ctx, id, func(item *learning.Item) error {
		reviewed, err := review.CompleteReview(*item, confidence, now)
		if err != nil {
			return err
		}
		*item = reviewed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.Update(%s) > %w", id, err)
	}

	slog.Debug("Completed review",
		"id", id,
		"confidence", confidence,
		"nextReviewDate", updated.SpaceRep.NextReviewDate.String(),
		"status", updated.Status,
	)
	return updated, nil
}

// ArchiveItem moves id to the archived state.
func ArchiveItem(ctx context.Context, repo learning.Repository, id string, now time.Time) (*learning.Item, error) {
	updated, err := repo.Update(ctx, id, func(item *learning.Item) error {
		item.Archive(now)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.Update(%s) > %w", id, err)
	}
	return updated, nil
}
