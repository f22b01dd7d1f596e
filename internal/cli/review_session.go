package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/fatih/color"

	"github.com/at-ishikawa/glean/internal/assets"
	"github.com/at-ishikawa/glean/internal/flashcard"
	"github.com/at-ishikawa/glean/internal/learning"
	"github.com/at-ishikawa/glean/internal/review"
)

// ReviewSessionCLI walks through today's review schedule one item at a time
type ReviewSessionCLI struct {
	*InteractiveReviewCLI
	entries  []review.ScheduleEntry
	reviewed int
}

// NewReviewSessionCLI builds the session queue from the active items that are due.
func NewReviewSessionCLI(ctx context.Context, base *InteractiveReviewCLI, limit int) (*ReviewSessionCLI, error) {
	items, err := base.repo.FindAll(ctx, learning.Filter{Status: learning.StatusActive})
	if err != nil {
		return nil, fmt.Errorf("repo.FindAll() > %w", err)
	}

	entries, err := review.BuildReviewSchedule(items, review.Today(base.clock.Now()), limit)
	if err != nil {
		return nil, fmt.Errorf("review.BuildReviewSchedule() > %w", err)
	}

	return &ReviewSessionCLI{
		InteractiveReviewCLI: base,
		entries:              entries,
	}, nil
}

// GetEntryCount returns the number of items left in the session
func (r *ReviewSessionCLI) GetEntryCount() int {
	return len(r.entries)
}

func (r *ReviewSessionCLI) removeCurrentEntry() {
	if len(r.entries) > 0 {
		r.entries = r.entries[1:]
	}
}

func (r *ReviewSessionCLI) Session(ctx context.Context) error {
	if len(r.entries) == 0 {
		_, _ = fmt.Fprintf(r.stdoutWriter, "No more items to review! Reviewed %d item(s).\n", r.reviewed)
		return errEnd
	}
	entry := r.entries[0]

	item, err := r.repo.FindByID(ctx, entry.ItemID)
	if err != nil {
		return fmt.Errorf("repo.FindByID(%s) > %w", entry.ItemID, err)
	}
	if item == nil {
		slog.Warn("Scheduled item no longer exists", "id", entry.ItemID)
		r.removeCurrentEntry()
		return nil
	}

	card := flashcard.Generate(*item)
	for _, question := range card.Questions {
		if err := r.writeCard(card, question, false); err != nil {
			return err
		}
		_, _ = r.italic.Fprint(r.stdoutWriter, "Press Enter to show the answer")
		if _, err := r.readLine(); err != nil {
			return err
		}
		if err := r.writeCard(card, question, true); err != nil {
			return err
		}
	}

	confidence, skip, err := r.readConfidence()
	if err != nil {
		return err
	}
	if skip {
		r.removeCurrentEntry()
		return nil
	}

	updated, err := CompleteReview(ctx, r.repo, item.ID, confidence, r.clock.Now())
	if err != nil {
		return err
	}
	r.removeCurrentEntry()
	r.reviewed++

	_, _ = fmt.Fprintf(r.stdoutWriter, "Next review on %s (streak %d)\n",
		updated.SpaceRep.NextReviewDate, updated.SpaceRep.Streak)
	if item.Status != learning.StatusMastered && updated.Status == learning.StatusMastered {
		_, _ = color.New(color.FgGreen, color.Bold).Fprintf(r.stdoutWriter, "Mastered %s!\n", updated.Content.Title)
	}
	_, _ = fmt.Fprintln(r.stdoutWriter)
	return nil
}

func (r *ReviewSessionCLI) writeCard(card flashcard.Flashcard, question flashcard.Question, showAnswer bool) error {
	if err := assets.WriteFlashcardCard(r.stdoutWriter, r.cardTemplate, assets.FlashcardCard{
		Title:       card.Title,
		Topic:       card.Topic,
		Difficulty:  string(card.Difficulty),
		ReviewCount: card.ReviewCount,
		Tags:        card.Tags,
		Type:        string(question.Type),
		Prompt:      question.Prompt,
		Hint:        question.Hint,
		Answer:      question.Answer,
		ShowAnswer:  showAnswer,
	}); err != nil {
		return fmt.Errorf("assets.WriteFlashcardCard() > %w", err)
	}
	return nil
}

// readConfidence asks again until the answer is a confidence or a command.
func (r *ReviewSessionCLI) readConfidence() (int, bool, error) {
	for {
		_, _ = r.bold.Fprint(r.stdoutWriter, "How well did you recall it? [1-5, s: skip, q: quit]: ")
		answer, err := r.readLine()
		if err != nil {
			return 0, false, err
		}

		switch answer {
		case "q":
			return 0, false, errEnd
		case "s":
			return 0, true, nil
		}
		confidence, err := strconv.Atoi(answer)
		if err == nil && confidence >= review.MinConfidence && confidence <= review.MaxConfidence {
			return confidence, false, nil
		}
		_, _ = fmt.Fprintf(r.stdoutWriter, "Enter a number from %d to %d.\n", review.MinConfidence, review.MaxConfidence)
	}
}
