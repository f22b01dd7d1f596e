// Package testutil provides shared test helpers for config files, draft files and learning item fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/glean/internal/learning"
)

// SetupTestConfig creates a minimal config file pointing at a local test database.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := `database:
  host: 127.0.0.1
  port: 3306
  database: glean_test
  username: glean
  max_retry_attempts: 1
review:
  schedule_limit: 10
  time_zone: UTC
`
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithCardTemplate creates a config file whose review cards use the
// given template content.
func SetupTestConfigWithCardTemplate(t *testing.T, tmpDir string, templateContent string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	templatePath := filepath.Join(tmpDir, "card.txt.go.tmpl")
	require.NoError(t, os.WriteFile(templatePath, []byte(templateContent), 0644))

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("  card_template: %s\n", templatePath))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// WriteDraftsFile writes drafts as a YAML list and returns its path.
func WriteDraftsFile(t *testing.T, dir string, drafts []learning.Draft) string {
	t.Helper()

	content, err := yaml.Marshal(drafts)
	require.NoError(t, err)
	path := filepath.Join(dir, "drafts.yml")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

// ItemOption configures optional fields when creating a learning item fixture.
type ItemOption func(*learning.Item)

// WithStatus sets the item status.
func WithStatus(status learning.Status) ItemOption {
	return func(item *learning.Item) {
		item.Status = status
	}
}

// WithTopic sets the classification topic.
func WithTopic(topic string) ItemOption {
	return func(item *learning.Item) {
		item.Classification.Topic = topic
	}
}

// WithSpaceRep sets the confidence and the next review date.
func WithSpaceRep(confidence int, nextReviewDate civil.Date) ItemOption {
	return func(item *learning.Item) {
		item.SpaceRep.Confidence = confidence
		item.SpaceRep.NextReviewDate = nextReviewDate
	}
}

// WithReviews appends one correct review per given day and updates the counters to match.
func WithReviews(days ...civil.Date) ItemOption {
	return func(item *learning.Item) {
		for _, day := range days {
			item.History = append(item.History, learning.ReviewRecord{
				Date:             time.Date(day.Year, day.Month, day.Day, 9, 0, 0, 0, time.UTC),
				ConfidenceBefore: item.SpaceRep.Confidence,
				ConfidenceAfter:  item.SpaceRep.Confidence,
				Correct:          item.SpaceRep.Confidence >= 3,
			})
			last := day
			item.SpaceRep.LastReviewDate = &last
			item.SpaceRep.ReviewCount++
		}
	}
}

// NewItem creates an active item created on 2025-06-01 and due on 2025-06-08 with confidence 3.
// Use ItemOption to override fields.
func NewItem(id, title string, opts ...ItemOption) learning.Item {
	createdAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	item := learning.Item{
		ID: id,
		Content: learning.Content{
			Title:       title,
			Description: title + " description",
			KeyPoints:   []string{},
		},
		Classification: learning.Classification{
			Topic:      "go",
			Tags:       []string{},
			Difficulty: learning.DifficultyIntermediate,
		},
		Source: learning.Source{Type: learning.SourceManual},
		SpaceRep: learning.SpaceRep{
			Confidence:     3,
			EaseFactor:     2.5,
			NextReviewDate: civil.Date{Year: 2025, Month: 6, Day: 8},
		},
		Status:    learning.StatusActive,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		History:   []learning.ReviewRecord{},
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}
