package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/glean/internal/assets"
	"github.com/at-ishikawa/glean/internal/cli"
	"github.com/at-ishikawa/glean/internal/learning"
	"github.com/at-ishikawa/glean/internal/review"
)

type OutputFlag cli.OutputFormat

// Set implements pflag.Value.
func (o *OutputFlag) Set(v string) error {
	switch v {
	case string(cli.OutputTable), string(cli.OutputYAML):
		*o = OutputFlag(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, cli.OutputTable, cli.OutputYAML)
	}
	return nil
}

// String implements pflag.Value.
func (o *OutputFlag) String() string {
	if o == nil {
		return ""
	}
	return string(*o)
}

// Type implements pflag.Value.
func (o *OutputFlag) Type() string {
	return "OutputFlag"
}

var (
	_ pflag.Value = (*OutputFlag)(nil)
)

// validateLimit rejects an explicit --limit below 1.
func validateLimit(cmd *cobra.Command, limit int) error {
	if cmd.Flags().Changed("limit") && limit < 1 {
		return fmt.Errorf("--limit must be at least 1, got %d", limit)
	}
	return nil
}

func newReviewCommand() *cobra.Command {
	reviewCommand := &cobra.Command{
		Use:   "review",
		Short: "Review commands for items that are due",
	}

	reviewCommand.AddCommand(newReviewDueCommand())
	reviewCommand.AddCommand(newReviewStartCommand())
	reviewCommand.AddCommand(newReviewCompleteCommand())
	return reviewCommand
}

func newReviewDueCommand() *cobra.Command {
	var limit int
	output := OutputFlag(cli.OutputTable)

	command := &cobra.Command{
		Use:   "due",
		Short: "List the items due for review today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateLimit(cmd, limit); err != nil {
				return err
			}
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			if !cmd.Flags().Changed("limit") {
				limit = env.cfg.Review.ScheduleLimit
			}
			items, err := env.repo.FindAll(cmd.Context(), learning.Filter{Status: learning.StatusActive})
			if err != nil {
				return fmt.Errorf("repo.FindAll() > %w", err)
			}
			entries, err := review.BuildReviewSchedule(items, review.Today(env.clock.Now()), limit)
			if err != nil {
				return fmt.Errorf("review.BuildReviewSchedule() > %w", err)
			}
			return cli.WriteDueList(cmd.OutOrStdout(), entries, cli.OutputFormat(output))
		},
	}

	command.Flags().IntVar(&limit, "limit", 0, "Maximum number of items, at least 1 (default from review.schedule_limit)")
	command.Flags().Var(&output, "output", "Output format. Options: table, yaml")
	return command
}

func newReviewStartCommand() *cobra.Command {
	var limit int

	command := &cobra.Command{
		Use:   "start",
		Short: "Start an interactive flashcard session for the items due today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateLimit(cmd, limit); err != nil {
				return err
			}
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			if !cmd.Flags().Changed("limit") {
				limit = env.cfg.Review.ScheduleLimit
			}
			tmpl, err := assets.ParseFlashcardTemplate(env.cfg.Review.CardTemplate)
			if err != nil {
				return fmt.Errorf("assets.ParseFlashcardTemplate() > %w", err)
			}

			base := cli.NewInteractiveReviewCLI(env.repo, env.clock, tmpl, cmd.InOrStdin(), cmd.OutOrStdout())
			session, err := cli.NewReviewSessionCLI(cmd.Context(), base, limit)
			if err != nil {
				return err
			}
			if session.GetEntryCount() == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing to review today.")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting review session with %d items\n\n", session.GetEntryCount())
			return base.Run(cmd.Context(), session)
		},
	}

	command.Flags().IntVar(&limit, "limit", 0, "Maximum number of items, at least 1 (default from review.schedule_limit)")
	return command
}

func newReviewCompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <item id> <confidence>",
		Short: "Record a review with a confidence from 1 to 5",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			confidence, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("confidence must be a number: %w", err)
			}

			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			item, err := cli.CompleteReview(cmd.Context(), env.repo, args[0], confidence, env.clock.Now())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Next review of %s on %s (streak %d, status %s)\n",
				item.ID, item.SpaceRep.NextReviewDate, item.SpaceRep.Streak, item.Status)
			return nil
		},
	}
}
