package review

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/glean/internal/learning"
)

const DefaultScheduleLimit = 10

// ScheduleEntry is one due item in the review queue.
type ScheduleEntry struct {
	ItemID      string     `yaml:"item_id"`
	Title       string     `yaml:"title"`
	Topic       string     `yaml:"topic"`
	DueDate     civil.Date `yaml:"due_date"`
	DaysOverdue int        `yaml:"days_overdue"`
	Confidence  int        `yaml:"confidence"`
	Priority    Priority   `yaml:"priority"`
}

// BuildReviewSchedule returns at most limit active items that are due today,
// most urgent first and, within a priority, most overdue first.
// A limit of 0 means DefaultScheduleLimit.
func BuildReviewSchedule(items []learning.Item, today civil.Date, limit int) ([]ScheduleEntry, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if limit == 0 {
		limit = DefaultScheduleLimit
	}

	entries := make([]ScheduleEntry, 0, len(items))
	for _, item := range items {
		if !item.IsActive() {
			continue
		}
		if err := validateConfidence(item.SpaceRep.Confidence); err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ID, err)
		}

		dueDate := item.SpaceRep.NextReviewDate
		overdue := DaysOverdue(dueDate, today)
		if overdue < 0 {
			continue
		}
		entries = append(entries, ScheduleEntry{
			ItemID:      item.ID,
			Title:       item.Content.Title,
			Topic:       item.Classification.Topic,
			DueDate:     dueDate,
			DaysOverdue: overdue,
			Confidence:  item.SpaceRep.Confidence,
			Priority:    ClassifyPriority(dueDate, today, item.SpaceRep.Confidence),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority.rank() != entries[j].Priority.rank() {
			return entries[i].Priority.rank() < entries[j].Priority.rank()
		}
		return entries[i].DaysOverdue > entries[j].DaysOverdue
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
