package review

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/glean/internal/learning"
)

func newScheduledItem(id string, status learning.Status, nextReviewDate civil.Date, confidence int) learning.Item {
	return learning.Item{
		ID:             id,
		Content:        learning.Content{Title: "Title " + id},
		Classification: learning.Classification{Topic: "go"},
		SpaceRep: learning.SpaceRep{
			Confidence:     confidence,
			EaseFactor:     DefaultEaseFactor,
			NextReviewDate: nextReviewDate,
		},
		Status: status,
	}
}

func entryIDs(entries []ScheduleEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ItemID)
	}
	return ids
}

func TestBuildReviewSchedule(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 6, Day: 13}

	tests := []struct {
		name    string
		items   []learning.Item
		limit   int
		wantIDs []string
	}{
		{
			name:    "no items",
			items:   nil,
			limit:   10,
			wantIDs: []string{},
		},
		{
			name: "items not yet due are excluded",
			items: []learning.Item{
				newScheduledItem("future", learning.StatusActive, today.AddDays(1), 3),
				newScheduledItem("today", learning.StatusActive, today, 3),
			},
			limit:   10,
			wantIDs: []string{"today"},
		},
		{
			name: "mastered and archived items are excluded",
			items: []learning.Item{
				newScheduledItem("mastered", learning.StatusMastered, today.AddDays(-20), 5),
				newScheduledItem("archived", learning.StatusArchived, today.AddDays(-20), 1),
				newScheduledItem("active", learning.StatusActive, today.AddDays(-2), 4),
			},
			limit:   10,
			wantIDs: []string{"active"},
		},
		{
			name: "urgent before normal, most overdue first within a priority",
			items: []learning.Item{
				newScheduledItem("normal-1", learning.StatusActive, today.AddDays(-1), 4),
				newScheduledItem("normal-5", learning.StatusActive, today.AddDays(-5), 3),
				newScheduledItem("urgent-low-confidence", learning.StatusActive, today, 1),
				newScheduledItem("urgent-overdue", learning.StatusActive, today.AddDays(-9), 5),
				newScheduledItem("normal-0", learning.StatusActive, today, 5),
			},
			limit:   10,
			wantIDs: []string{"urgent-overdue", "urgent-low-confidence", "normal-5", "normal-1", "normal-0"},
		},
		{
			name: "truncated to the limit",
			items: []learning.Item{
				newScheduledItem("a", learning.StatusActive, today.AddDays(-1), 3),
				newScheduledItem("b", learning.StatusActive, today.AddDays(-2), 3),
				newScheduledItem("c", learning.StatusActive, today.AddDays(-3), 3),
			},
			limit:   2,
			wantIDs: []string{"c", "b"},
		},
		{
			name: "zero limit uses the default",
			items: func() []learning.Item {
				var items []learning.Item
				for i := 0; i < DefaultScheduleLimit+3; i++ {
					items = append(items, newScheduledItem(string(rune('a'+i)), learning.StatusActive, today.AddDays(-i), 3))
				}
				return items
			}(),
			limit:   0,
			wantIDs: []string{"m", "l", "k", "j", "i", "h", "g", "f", "e", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildReviewSchedule(tt.items, today, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, entryIDs(got))
			for _, entry := range got {
				assert.GreaterOrEqual(t, entry.DaysOverdue, 0)
			}
		})
	}
}

func TestBuildReviewSchedule_Entry(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 6, Day: 13}
	item := newScheduledItem("learn-go-1", learning.StatusActive, today.AddDays(-8), 4)
	item.Content.Title = "Goroutine leaks"
	item.Classification.Topic = "golang"

	got, err := BuildReviewSchedule([]learning.Item{item}, today, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, ScheduleEntry{
		ItemID:      "learn-go-1",
		Title:       "Goroutine leaks",
		Topic:       "golang",
		DueDate:     today.AddDays(-8),
		DaysOverdue: 8,
		Confidence:  4,
		Priority:    PriorityUrgent,
	}, got[0])
}

func TestBuildReviewSchedule_InvalidInput(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 6, Day: 13}

	t.Run("negative limit", func(t *testing.T) {
		_, err := BuildReviewSchedule(nil, today, -1)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("item with out-of-range confidence", func(t *testing.T) {
		items := []learning.Item{newScheduledItem("broken", learning.StatusActive, today, 9)}
		_, err := BuildReviewSchedule(items, today, 10)
		assert.ErrorIs(t, err, ErrInvalidConfidence)
		assert.Contains(t, err.Error(), "broken")
	})
}
