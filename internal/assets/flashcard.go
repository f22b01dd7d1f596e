package assets

import (
	_ "embed"
	"fmt"
	"io"
	"text/template"
)

const flashcardCardTemplateName = "flashcard-card.txt.go.tmpl"

//go:embed templates/flashcard-card.txt.go.tmpl
var fallbackFlashcardCardTemplate string

// FlashcardCard is one question of a flashcard as shown during a review session
type FlashcardCard struct {
	Title       string
	Topic       string
	Difficulty  string
	ReviewCount int
	Tags        []string

	Type   string
	Prompt string
	Hint   string
	Answer string
	// ShowAnswer replaces the hint with the answer.
	ShowAnswer bool
}

// ParseFlashcardTemplate loads templatePath, or the embedded card template
// when the path is empty or cannot be parsed.
func ParseFlashcardTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, flashcardCardTemplateName, fallbackFlashcardCardTemplate)
}

func WriteFlashcardCard(output io.Writer, tmpl *template.Template, card FlashcardCard) error {
	if err := tmpl.Execute(output, card); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
