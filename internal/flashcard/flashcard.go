// Package flashcard turns learning items into question cards for a review session.
package flashcard

import (
	"fmt"

	"github.com/at-ishikawa/glean/internal/learning"
)

type QuestionType string

const (
	QuestionWhat    QuestionType = "what"
	QuestionHow     QuestionType = "how"
	QuestionWhy     QuestionType = "why"
	QuestionExplain QuestionType = "explain"
)

type Question struct {
	Type   QuestionType `yaml:"type"`
	Prompt string       `yaml:"prompt"`
	Answer string       `yaml:"answer"`
	Hint   string       `yaml:"hint,omitempty"`
}

// Flashcard is a read-only view of an item. It carries no scheduling state.
type Flashcard struct {
	ItemID      string              `yaml:"item_id"`
	Title       string              `yaml:"title"`
	Topic       string              `yaml:"topic"`
	Difficulty  learning.Difficulty `yaml:"difficulty"`
	Tags        []string            `yaml:"tags"`
	ReviewCount int                 `yaml:"review_count"`
	Questions   []Question          `yaml:"questions"`
}

// Generate builds what/how/why questions from the item's content.
// An item with no usable content gets a single explain question.
func Generate(item learning.Item) Flashcard {
	content := item.Content
	var questions []Question

	if content.Title != "" {
		questions = append(questions, Question{
			Type:   QuestionWhat,
			Prompt: fmt.Sprintf("What is %q?", content.Title),
			Answer: firstNonEmpty(content.Description, content.Title),
			Hint:   item.Classification.Topic,
		})
	}
	if content.CodeExample != "" {
		questions = append(questions, Question{
			Type:   QuestionHow,
			Prompt: fmt.Sprintf("How do you use %s?", content.Title),
			Answer: content.CodeExample,
			Hint:   "Recall the code example",
		})
	}
	if len(content.KeyPoints) > 0 {
		q := Question{
			Type:   QuestionWhy,
			Prompt: fmt.Sprintf("What is the most important point of %s?", content.Title),
			Answer: content.KeyPoints[0],
		}
		if len(content.KeyPoints) > 1 {
			q.Hint = fmt.Sprintf("There are %d key points", len(content.KeyPoints))
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		questions = append(questions, Question{
			Type:   QuestionExplain,
			Prompt: fmt.Sprintf("Explain %s.", firstNonEmpty(content.Title, item.ID)),
			Answer: firstNonEmpty(content.Description, "No description yet."),
		})
	}

	tags := item.Classification.Tags
	if tags == nil {
		tags = []string{}
	}
	difficulty := item.Classification.Difficulty
	if difficulty == "" {
		difficulty = learning.DifficultyIntermediate
	}

	return Flashcard{
		ItemID:      item.ID,
		Title:       content.Title,
		Topic:       item.Classification.Topic,
		Difficulty:  difficulty,
		Tags:        tags,
		ReviewCount: item.SpaceRep.ReviewCount,
		Questions:   questions,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
