package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/glean/internal/learning"
	"github.com/at-ishikawa/glean/internal/review"
)

// ImportDrafts reads a YAML list of drafts and stores each as a new item.
// Every draft is validated before anything is written.
func ImportDrafts(ctx context.Context, repo learning.Repository, input io.Reader, now time.Time) ([]learning.Item, error) {
	var drafts []learning.Draft
	decoder := yaml.NewDecoder(input)
	decoder.KnownFields(true)
	if err := decoder.Decode(&drafts); err != nil {
		if errors.Is(err, io.EOF) {
			return []learning.Item{}, nil
		}
		return nil, fmt.Errorf("decoder.Decode() > %w", err)
	}

	items := make([]learning.Item, 0, len(drafts))
	for i, draft := range drafts {
		item, err := review.NewItem(draft, now)
		if err != nil {
			return nil, fmt.Errorf("draft #%d > %w", i+1, err)
		}
		items = append(items, item)
	}

	for i := range items {
		if err := repo.Create(ctx, &items[i]); err != nil {
			return items[:i], fmt.Errorf("repo.Create(%s) > %w", items[i].ID, err)
		}
		slog.Info("Imported learning item",
			"id", items[i].ID,
			"title", items[i].Content.Title,
			"nextReviewDate", items[i].SpaceRep.NextReviewDate.String(),
		)
	}
	return items, nil
}
