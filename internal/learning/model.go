package learning

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusMastered Status = "mastered"
	StatusArchived Status = "archived"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type SourceType string

const (
	SourceManual  SourceType = "manual"
	SourceHarvest SourceType = "harvest"
	SourceInsight SourceType = "insight"
)

const defaultTopic = "general"

// Item is a single learning item under spaced-repetition review.
type Item struct {
	ID             string         `yaml:"id" json:"id"`
	Content        Content        `yaml:"content" json:"content"`
	Classification Classification `yaml:"classification" json:"classification"`
	Source         Source         `yaml:"source" json:"source"`
	SpaceRep       SpaceRep       `yaml:"space_rep" json:"spaceRep"`
	Status         Status         `yaml:"status" json:"status"`
	CreatedAt      time.Time      `yaml:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `yaml:"updated_at" json:"updatedAt"`
	History        []ReviewRecord `yaml:"history,omitempty" json:"history"`
}

type Content struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description,omitempty" json:"description"`
	KeyPoints   []string `yaml:"key_points,omitempty" json:"keyPoints"`
	CodeExample string   `yaml:"code_example,omitempty" json:"codeExample,omitempty"`
	Resources   []string `yaml:"resources,omitempty" json:"resources,omitempty"`
}

type Classification struct {
	Topic      string     `yaml:"topic" json:"topic"`
	Subtopic   string     `yaml:"subtopic,omitempty" json:"subtopic,omitempty"`
	Tags       []string   `yaml:"tags,omitempty" json:"tags"`
	Difficulty Difficulty `yaml:"difficulty" json:"difficulty"`
}

type Source struct {
	Type      SourceType `yaml:"type" json:"type"`
	SessionID string     `yaml:"session_id,omitempty" json:"sessionId,omitempty"`
	HarvestID string     `yaml:"harvest_id,omitempty" json:"harvestId,omitempty"`
	InsightID string     `yaml:"insight_id,omitempty" json:"insightId,omitempty"`
	Project   string     `yaml:"project,omitempty" json:"project,omitempty"`
}

// SpaceRep holds the mutable spaced-repetition state of an item.
// LastReviewDate is nil until the first completed review.
type SpaceRep struct {
	Confidence     int         `yaml:"confidence" json:"confidence"`
	EaseFactor     float64     `yaml:"ease_factor" json:"easeFactor"`
	NextReviewDate civil.Date  `yaml:"next_review_date" json:"nextReviewDate"`
	LastReviewDate *civil.Date `yaml:"last_review_date,omitempty" json:"lastReviewDate"`
	ReviewCount    int         `yaml:"review_count" json:"reviewCount"`
	Streak         int         `yaml:"streak" json:"streak"`
}

// ReviewRecord is an immutable log entry created once per completed review.
type ReviewRecord struct {
	Date             time.Time `yaml:"date" json:"date"`
	ConfidenceBefore int       `yaml:"confidence_before" json:"confidenceBefore"`
	ConfidenceAfter  int       `yaml:"confidence_after" json:"confidenceAfter"`
	Correct          bool      `yaml:"correct" json:"correct"`
	// TimeSpent is in seconds. Nothing measures it yet, so it is always 0.
	TimeSpent int `yaml:"time_spent" json:"timeSpent"`
}

// IsActive reports whether the item takes part in scheduling.
func (item Item) IsActive() bool {
	return item.Status == StatusActive
}

// Archive moves an active or mastered item to the terminal archived state.
func (item *Item) Archive(now time.Time) {
	if item.Status == StatusArchived {
		return
	}
	item.Status = StatusArchived
	item.UpdatedAt = now
}

// Draft is the upstream description of a learning item before it is scheduled.
type Draft struct {
	Title       string     `yaml:"title" validate:"required"`
	Description string     `yaml:"description"`
	KeyPoints   []string   `yaml:"key_points"`
	CodeExample string     `yaml:"code_example"`
	Resources   []string   `yaml:"resources" validate:"dive,url"`
	Topic       string     `yaml:"topic"`
	Subtopic    string     `yaml:"subtopic"`
	Tags        []string   `yaml:"tags"`
	Difficulty  Difficulty `yaml:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Source      SourceType `yaml:"source" validate:"omitempty,oneof=manual harvest insight"`
	SessionID   string     `yaml:"session_id"`
	HarvestID   string     `yaml:"harvest_id"`
	InsightID   string     `yaml:"insight_id"`
	Project     string     `yaml:"project"`
}

var draftValidator = validator.New()

// Validate checks the draft's required fields and enum values.
func (d Draft) Validate() error {
	if err := draftValidator.Struct(d); err != nil {
		return fmt.Errorf("invalid draft %q: %w", d.Title, err)
	}
	return nil
}

// Normalize fills the optional fields with their defaults.
func (d Draft) Normalize() Draft {
	if strings.TrimSpace(d.Topic) == "" {
		d.Topic = defaultTopic
	}
	if d.Difficulty == "" {
		d.Difficulty = DifficultyIntermediate
	}
	if d.Source == "" {
		d.Source = SourceManual
	}
	if d.KeyPoints == nil {
		d.KeyPoints = []string{}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d
}

// NewID returns an id such as "learn-gol-20250613-3f9a".
func NewID(topic string, now time.Time) string {
	prefix := "gen"
	if topic != "" {
		runes := []rune(strings.ToLower(topic))
		if len(runes) > 3 {
			runes = runes[:3]
		}
		prefix = string(runes)
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return fmt.Sprintf("learn-%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
