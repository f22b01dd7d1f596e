package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/at-ishikawa/glean/internal/learning"
	"github.com/at-ishikawa/glean/internal/review"
)

var errEnd = errors.New("end")

// InteractiveReviewCLI contains the terminal state shared by interactive review sessions
type InteractiveReviewCLI struct {
	repo         learning.Repository
	clock        review.Clock
	cardTemplate *template.Template
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
}

func NewInteractiveReviewCLI(
	repo learning.Repository,
	clock review.Clock,
	cardTemplate *template.Template,
	stdin io.Reader,
	stdout io.Writer,
) *InteractiveReviewCLI {
	return &InteractiveReviewCLI{
		repo:         repo,
		clock:        clock,
		cardTemplate: cardTemplate,
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
	}
}

//go:generate mockgen -source=interactive_review_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

type Session interface {
	Session(ctx context.Context) error
}

// Run repeats session until it ends or the process is interrupted.
func (cli *InteractiveReviewCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := session.Session(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// readLine returns errEnd once stdin is exhausted.
func (cli *InteractiveReviewCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("error reading input: %w", err)
		}
		if line == "" {
			return "", errEnd
		}
	}
	return strings.TrimSpace(line), nil
}
